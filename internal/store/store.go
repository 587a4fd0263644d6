// Package store owns the in-memory item collection and keeps it in step
// with the durable table. Every mutation is written to the backend first;
// memory only changes once that write has succeeded.
package store

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/baiirun/things/internal/db"
	"github.com/baiirun/things/internal/logger"
	"github.com/baiirun/things/internal/model"
)

// Backend is the durable side of the store. *db.DB implements it.
type Backend interface {
	LoadItems() ([]model.Item, error)
	InsertItem(item *model.Item) error
	UpdateItem(item *model.Item) error
	DeleteItem(id string, at time.Time) error
	SetOrder(projectID string, order map[string]int, at time.Time) error
}

// Op names the kind of a committed mutation.
type Op string

const (
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpReorder Op = "reorder"
)

// Change describes one committed mutation. IDs lists every item it touched,
// including cascaded deletes and ungrouped projects.
type Change struct {
	Op  Op
	IDs []string
}

type Listener func(Change)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for bookkeeping timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithProjectTitle sets the title given to projects created without one.
// n is the number of projects that already exist.
func WithProjectTitle(title func(n int) string) Option {
	return func(s *Store) {
		if title != nil {
			s.projectTitle = title
		}
	}
}

func defaultProjectTitle(n int) string {
	return fmt.Sprintf("新建项目 %d", n)
}

type Store struct {
	mu      sync.RWMutex
	backend Backend
	items   map[string]*model.Item
	drafts  map[string]*model.Item
	seq     int64

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int

	now          func() time.Time
	projectTitle func(n int) string
}

// Open opens the SQLite database at path, creates the schema if needed and
// loads every item into memory. An empty path means db.DefaultPath.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		p, err := db.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	d, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := d.Init(); err != nil {
		_ = d.Close()
		return nil, err
	}
	s, err := New(d, opts...)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	return s, nil
}

// New loads the backend's items and returns a store over them.
func New(backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:      backend,
		items:        make(map[string]*model.Item),
		drafts:       make(map[string]*model.Item),
		listeners:    make(map[int]Listener),
		now:          time.Now,
		projectTitle: defaultProjectTitle,
	}
	for _, opt := range opts {
		opt(s)
	}

	items, err := backend.LoadItems()
	if err != nil {
		return nil, s.persistErr("load items", err)
	}
	for i := range items {
		item := items[i]
		s.items[item.ID] = &item
		if item.Seq > s.seq {
			s.seq = item.Seq
		}
	}
	logger.Debug("store loaded", zap.Int("items", len(items)))
	return s, nil
}

// Close closes the backend if it holds resources.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Create makes a new item of the given kind and persists it immediately.
func (s *Store) Create(kind model.Kind, opts ...model.Option) (model.Item, error) {
	s.mu.Lock()
	item, err := s.newItem(kind, opts)
	if err != nil {
		s.mu.Unlock()
		return model.Item{}, err
	}
	item.Seq = s.seq + 1
	if err := s.backend.InsertItem(item); err != nil {
		s.mu.Unlock()
		return model.Item{}, s.persistErr("create item", err)
	}
	s.seq = item.Seq
	s.items[item.ID] = item
	out := item.Clone()
	s.mu.Unlock()

	s.notify(Change{Op: OpCreate, IDs: []string{out.ID}})
	return out, nil
}

// Get returns a copy of the committed item with the given id.
func (s *Store) Get(id string) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return model.Item{}, model.NotFound(id)
	}
	return item.Clone(), nil
}

// Update applies opts to the item and persists the result. The id, kind,
// insertion sequence and creation time cannot be patched.
func (s *Store) Update(id string, opts ...model.Option) (model.Item, error) {
	s.mu.Lock()
	cur, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return model.Item{}, model.NotFound(id)
	}
	out, err := s.update(cur, opts)
	s.mu.Unlock()
	if err != nil {
		return model.Item{}, err
	}

	s.notify(Change{Op: OpUpdate, IDs: []string{id}})
	return out, nil
}

// AppendToProject files the committed item or pending draft id under the
// project, one past the largest OrderIndex among the project's other
// items, and persists it. The index is picked and written under one lock.
func (s *Store) AppendToProject(projectID, id string) (model.Item, error) {
	s.mu.Lock()
	project, ok := s.items[projectID]
	if !ok {
		s.mu.Unlock()
		return model.Item{}, model.NotFound(projectID)
	}
	if !project.IsProject() {
		s.mu.Unlock()
		return model.Item{}, model.Invalid("item %s is not a project", projectID)
	}

	opts := []model.Option{
		model.WithProject(projectID),
		model.WithOrderIndex(s.nextIndex(projectID, id)),
	}
	var (
		out model.Item
		op  Op
		err error
	)
	if cur, ok := s.items[id]; ok {
		op = OpUpdate
		out, err = s.update(cur, opts)
	} else if d, ok := s.drafts[id]; ok {
		op = OpCreate
		next := s.patched(d, opts)
		out, err = s.commit(&next)
	} else {
		err = model.NotFound(id)
	}
	s.mu.Unlock()
	if err != nil {
		return model.Item{}, err
	}

	s.notify(Change{Op: op, IDs: []string{id}})
	return out, nil
}

// Delete removes the item. A project takes its tasks with it; a group
// leaves its projects ungrouped.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	cur, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return model.NotFound(id)
	}
	now := s.now()
	if err := s.backend.DeleteItem(id, now); err != nil {
		s.mu.Unlock()
		return s.persistErr("delete item", err)
	}

	touched := []string{id}
	switch cur.Kind {
	case model.KindProject:
		for _, it := range s.sorted(s.items) {
			if it.InProject(id) {
				delete(s.items, it.ID)
				touched = append(touched, it.ID)
			}
		}
		for did, d := range s.drafts {
			if d.InProject(id) {
				delete(s.drafts, did)
			}
		}
	case model.KindGroup:
		for _, it := range s.sorted(s.items) {
			if it.InGroup(id) {
				it.GroupID = nil
				it.UpdatedAt = now
				touched = append(touched, it.ID)
			}
		}
		for _, d := range s.drafts {
			if d.InGroup(id) {
				d.GroupID = nil
			}
		}
	}
	delete(s.items, id)
	s.mu.Unlock()

	s.notify(Change{Op: OpDelete, IDs: touched})
	return nil
}

// Query returns copies of the committed items matching pred, in insertion
// order unless cmp is given. A nil pred matches everything.
func (s *Store) Query(pred func(model.Item) bool, cmp func(a, b model.Item) int) []model.Item {
	s.mu.RLock()
	out := make([]model.Item, 0)
	for _, it := range s.sorted(s.items) {
		if pred == nil || pred(*it) {
			out = append(out, it.Clone())
		}
	}
	s.mu.RUnlock()

	if cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Count returns how many committed items match pred.
func (s *Store) Count(pred func(model.Item) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, it := range s.items {
		if pred == nil || pred(*it) {
			n++
		}
	}
	return n
}

// SetOrder writes order indices for tasks of one project in one batch.
// Every id must name a task of that project; otherwise nothing is written.
func (s *Store) SetOrder(projectID string, order map[string]int) error {
	s.mu.Lock()
	project, ok := s.items[projectID]
	if !ok {
		s.mu.Unlock()
		return model.NotFound(projectID)
	}
	if !project.IsProject() {
		s.mu.Unlock()
		return model.Invalid("item %s is not a project", projectID)
	}
	ids := make([]string, 0, len(order))
	for id := range order {
		it, ok := s.items[id]
		if !ok {
			s.mu.Unlock()
			return model.NotFound(id)
		}
		if !it.IsTask() || !it.InProject(projectID) {
			s.mu.Unlock()
			return model.Invalid("item %s is not a task of project %s", id, projectID)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		s.mu.Unlock()
		return nil
	}

	now := s.now()
	if err := s.backend.SetOrder(projectID, order, now); err != nil {
		s.mu.Unlock()
		return s.persistErr("set order", err)
	}
	for id, index := range order {
		it := s.items[id]
		it.OrderIndex = index
		it.UpdatedAt = now
	}
	s.mu.Unlock()

	slices.Sort(ids)
	s.notify(Change{Op: OpReorder, IDs: ids})
	return nil
}

// Subscribe registers fn to run after every committed mutation. The
// returned func removes it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.lmu.Lock()
	keys := make([]int, 0, len(s.listeners))
	for k := range s.listeners {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fns := make([]Listener, 0, len(keys))
	for _, k := range keys {
		fns = append(fns, s.listeners[k])
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// newItem builds and checks a fresh item. Callers hold s.mu.
func (s *Store) newItem(kind model.Kind, opts []model.Option) (*model.Item, error) {
	now := s.now()
	item := &model.Item{
		ID:        model.GenerateID(),
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	item.Apply(opts...)
	if item.IsProject() && item.Title == "" {
		item.Title = s.projectTitle(s.countKind(model.KindProject))
	}
	if err := s.check(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Store) patched(cur *model.Item, opts []model.Option) model.Item {
	next := cur.Clone()
	next.Apply(opts...)
	next.ID = cur.ID
	next.Kind = cur.Kind
	next.Seq = cur.Seq
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now()
	return next
}

// check validates the item on its own and against the committed items it
// references.
func (s *Store) check(item *model.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.ProjectID != nil {
		p, ok := s.items[*item.ProjectID]
		if !ok || !p.IsProject() {
			return model.Invalid("project %s does not exist", *item.ProjectID)
		}
	}
	if item.GroupID != nil {
		g, ok := s.items[*item.GroupID]
		if !ok || !g.IsGroup() {
			return model.Invalid("group %s does not exist", *item.GroupID)
		}
	}
	return nil
}

// update patches cur and writes it through. Callers hold s.mu.
func (s *Store) update(cur *model.Item, opts []model.Option) (model.Item, error) {
	next := s.patched(cur, opts)
	if err := s.check(&next); err != nil {
		return model.Item{}, err
	}
	if err := s.backend.UpdateItem(&next); err != nil {
		return model.Item{}, s.persistErr("update item", err)
	}
	s.items[next.ID] = &next
	return next.Clone(), nil
}

// nextIndex is one past the largest OrderIndex filed under the project,
// ignoring exclude, or 0 when there is none. Callers hold s.mu.
func (s *Store) nextIndex(projectID, exclude string) int {
	next, found := 0, false
	for _, it := range s.items {
		if it.ID == exclude || !it.InProject(projectID) {
			continue
		}
		if !found || it.OrderIndex+1 > next {
			next, found = it.OrderIndex+1, true
		}
	}
	return next
}

func (s *Store) countKind(k model.Kind) int {
	n := 0
	for _, it := range s.items {
		if it.Kind == k {
			n++
		}
	}
	return n
}

// sorted returns the values of m in insertion order.
func (s *Store) sorted(m map[string]*model.Item) []*model.Item {
	out := make([]*model.Item, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b *model.Item) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
	return out
}

// persistErr passes caller errors through and wraps everything else as a
// persistence failure.
func (s *Store) persistErr(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrValidation) {
		return err
	}
	logger.Error("persistence failure", err, zap.String("op", op))
	return model.Persistence(op, err)
}
