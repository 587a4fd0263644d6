package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baiirun/things/internal/model"
	"github.com/baiirun/things/internal/store"
)

type memBackend struct{}

func (memBackend) LoadItems() ([]model.Item, error)                 { return nil, nil }
func (memBackend) InsertItem(*model.Item) error                     { return nil }
func (memBackend) UpdateItem(*model.Item) error                     { return nil }
func (memBackend) DeleteItem(string, time.Time) error               { return nil }
func (memBackend) SetOrder(string, map[string]int, time.Time) error { return nil }

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(memBackend{})
	require.NoError(t, err)
	return s
}

func create(t *testing.T, s *store.Store, kind model.Kind, opts ...model.Option) model.Item {
	t.Helper()
	item, err := s.Create(kind, opts...)
	require.NoError(t, err)
	return item
}

func TestSummarize(t *testing.T) {
	s := setupStore(t)
	e := New(s)

	project := create(t, s, model.KindProject, model.WithTitle("P"))
	other := create(t, s, model.KindProject, model.WithTitle("Q"))
	create(t, s, model.KindTask, model.WithProject(project.ID), model.WithDone(true))
	create(t, s, model.KindTask, model.WithProject(project.ID))
	create(t, s, model.KindTask, model.WithProject(project.ID))
	create(t, s, model.KindTask, model.WithProject(project.ID), model.WithDone(true))
	create(t, s, model.KindTask, model.WithProject(other.ID), model.WithDone(true))
	create(t, s, model.KindTask, model.WithDone(true))

	got := e.Summarize(project)
	assert.Equal(t, Summary{Total: 4, Completed: 2, Progress: 0.5}, got)
	assert.Equal(t, 4, e.TotalTasks(project))
	assert.Equal(t, 2, e.CompletedTasks(project))
	assert.InDelta(t, 0.5, e.Progress(project), 1e-9)
}

func TestSummarize_EmptyProject(t *testing.T) {
	s := setupStore(t)
	e := New(s)
	project := create(t, s, model.KindProject, model.WithTitle("P"))

	assert.Equal(t, Summary{}, e.Summarize(project))
	assert.Zero(t, e.Progress(project))
}

func TestSummarize_Recomputed(t *testing.T) {
	s := setupStore(t)
	e := New(s)
	project := create(t, s, model.KindProject, model.WithTitle("P"))
	task := create(t, s, model.KindTask, model.WithProject(project.ID))

	assert.Zero(t, e.Progress(project))

	_, err := s.Update(task.ID, model.WithDone(true))
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.Progress(project))

	require.NoError(t, s.Delete(task.ID))
	assert.Zero(t, e.Progress(project))
}

func TestSummarize_NotAProject(t *testing.T) {
	s := setupStore(t)
	e := New(s)
	task := create(t, s, model.KindTask)

	assert.Equal(t, Summary{}, e.Summarize(task))
	assert.Zero(t, e.TotalTasks(task))
	assert.Zero(t, e.CompletedTasks(task))
}

func TestFraction(t *testing.T) {
	tests := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 4, 0.25},
		{3, 3, 1},
		{5, 3, 1},
		{-1, 3, 0},
	}

	for _, tt := range tests {
		got := Fraction(tt.completed, tt.total)
		assert.InDelta(t, tt.want, got, 1e-9, "Fraction(%d, %d)", tt.completed, tt.total)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

// countingSource records how often each read is made.
type countingSource struct {
	*store.Store
	counts, queries int
}

func (c *countingSource) Count(pred func(model.Item) bool) int {
	c.counts++
	return c.Store.Count(pred)
}

func (c *countingSource) Query(pred func(model.Item) bool, cmp func(a, b model.Item) int) []model.Item {
	c.queries++
	return c.Store.Query(pred, cmp)
}

func TestSummarize_SingleRead(t *testing.T) {
	s := setupStore(t)
	project := create(t, s, model.KindProject, model.WithTitle("P"))
	create(t, s, model.KindTask, model.WithProject(project.ID), model.WithDone(true))
	create(t, s, model.KindTask, model.WithProject(project.ID))
	create(t, s, model.KindTask, model.WithProject(project.ID))

	src := &countingSource{Store: s}
	got := New(src).Summarize(project)

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Completed)
	assert.InDelta(t, 1.0/3, got.Progress, 1e-9)
	assert.Equal(t, 1, src.queries)
	assert.Zero(t, src.counts)
}
