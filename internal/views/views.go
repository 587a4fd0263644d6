// Package views evaluates the standing lists of the app against the
// current store contents. Every call reads live data; nothing is cached.
package views

import (
	"cmp"
	"strings"
	"time"

	"github.com/baiirun/things/internal/dates"
	"github.com/baiirun/things/internal/model"
	"github.com/baiirun/things/internal/ordering"
	"github.com/baiirun/things/internal/store"
)

// Source is the part of the store the views read.
type Source interface {
	Query(pred func(model.Item) bool, cmp func(a, b model.Item) int) []model.Item
	Subscribe(fn store.Listener) (cancel func())
}

type Option func(*Facade)

// WithClock replaces time.Now as the reference for date-based views.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) {
		if now != nil {
			f.now = now
		}
	}
}

type Facade struct {
	src Source
	now func() time.Time
}

func New(src Source, opts ...Option) *Facade {
	f := &Facade{src: src, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Now returns the facade's current reference time.
func (f *Facade) Now() time.Time {
	return f.now()
}

// Inbox lists open tasks filed under neither a project nor a group.
func (f *Facade) Inbox() []model.Item {
	return f.src.Query(func(it model.Item) bool {
		return it.IsInbox() && !it.Done
	}, nil)
}

// Today lists open tasks due before tomorrow, overdue ones included.
func (f *Facade) Today() []model.Item {
	cutoff := dates.StartOfTomorrow(f.now())
	return f.src.Query(func(it model.Item) bool {
		return it.IsTask() && !it.Done && it.DueDate != nil && it.DueDate.Before(cutoff)
	}, byDueDate)
}

// Upcoming lists open tasks due tomorrow or later.
func (f *Facade) Upcoming() []model.Item {
	cutoff := dates.StartOfTomorrow(f.now())
	return f.src.Query(func(it model.Item) bool {
		return it.IsTask() && !it.Done && it.DueDate != nil && !it.DueDate.Before(cutoff)
	}, byDueDate)
}

// ProjectTasks lists a project's open tasks in manual order.
func (f *Facade) ProjectTasks(projectID string) []model.Item {
	return f.src.Query(func(it model.Item) bool {
		return it.IsTask() && it.InProject(projectID) && !it.Done
	}, ordering.Compare)
}

// AllProjects lists every project by title.
func (f *Facade) AllProjects() []model.Item {
	return f.src.Query(func(it model.Item) bool {
		return it.IsProject()
	}, byTitle)
}

// Groups lists every group by title.
func (f *Facade) Groups() []model.Item {
	return f.src.Query(func(it model.Item) bool {
		return it.IsGroup()
	}, byTitle)
}

// GroupProjects lists the projects filed under a group by title.
func (f *Facade) GroupProjects(groupID string) []model.Item {
	return f.src.Query(func(it model.Item) bool {
		return it.IsProject() && it.InGroup(groupID)
	}, byTitle)
}

// Search matches item titles containing text, ignoring case and
// diacritics. Text that folds to nothing matches nothing.
func (f *Facade) Search(text string) []model.Item {
	needle := fold(text)
	if needle == "" {
		return []model.Item{}
	}
	return f.src.Query(func(it model.Item) bool {
		return strings.Contains(fold(it.Title), needle)
	}, byTitle)
}

// Logbook lists completed tasks, most recently updated first.
func (f *Facade) Logbook() []model.Item {
	return f.src.Query(func(it model.Item) bool {
		return it.IsTask() && it.Done
	}, func(a, b model.Item) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

// View produces one result set.
type View func() []model.Item

// Watch calls fn with a fresh result of view now and after every committed
// store mutation, until cancel is called.
func (f *Facade) Watch(view View, fn func([]model.Item)) (cancel func()) {
	cancel = f.src.Subscribe(func(store.Change) {
		fn(view())
	})
	fn(view())
	return cancel
}

func byTitle(a, b model.Item) int {
	return compareTitles(a.Title, b.Title)
}

func byDueDate(a, b model.Item) int {
	if c := a.DueDate.Compare(*b.DueDate); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}
