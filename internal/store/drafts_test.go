package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baiirun/things/internal/model"
)

func TestDraft_DiscardLeavesNoTrace(t *testing.T) {
	s, b := setupStore(t)
	mustCreate(t, s, model.KindTask, model.WithTitle("existing"))
	before := s.Query(nil, nil)

	var changes int
	s.Subscribe(func(Change) { changes++ })

	draft, err := s.CreateDraft(model.KindTask)
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)

	_, err = s.Get(draft.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, before, s.Query(nil, nil))

	require.NoError(t, s.DiscardDraft(draft.ID))
	assert.Equal(t, before, s.Query(nil, nil))
	assert.Len(t, b.rows, 1)
	assert.Zero(t, changes)

	assert.ErrorIs(t, s.DiscardDraft(draft.ID), model.ErrNotFound)
}

func TestDraft_Commit(t *testing.T) {
	s, b := setupStore(t)

	draft, err := s.CreateDraft(model.KindTask)
	require.NoError(t, err)

	edited, err := s.UpdateDraft(draft.ID, model.WithTitle("Call mum"))
	require.NoError(t, err)
	assert.Equal(t, "Call mum", edited.Title)

	got, err := s.Draft(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call mum", got.Title)

	committed, err := s.CommitDraft(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, committed.ID)
	assert.Contains(t, b.rows, draft.ID)

	_, err = s.Draft(draft.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.Get(draft.ID)
	assert.NoError(t, err)
}

func TestDraft_CommitFailureKeepsDraft(t *testing.T) {
	s, b := setupStore(t)
	draft, err := s.CreateDraft(model.KindTask, model.WithTitle("x"))
	require.NoError(t, err)
	b.setFail(true)

	_, err = s.CommitDraft(draft.ID)
	assert.ErrorIs(t, err, model.ErrPersistence)

	_, err = s.Draft(draft.ID)
	assert.NoError(t, err)
	assert.Zero(t, s.Count(nil))
}

func TestDraft_DroppedWithProject(t *testing.T) {
	s, _ := setupStore(t)
	project := mustCreate(t, s, model.KindProject, model.WithTitle("P"))
	draft, err := s.CreateDraft(model.KindTask, model.WithProject(project.ID))
	require.NoError(t, err)

	require.NoError(t, s.Delete(project.ID))

	_, err = s.CommitDraft(draft.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDraft_UnknownID(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.UpdateDraft("missing", model.WithTitle("x"))
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.CommitDraft("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
