package store

import "github.com/baiirun/things/internal/model"

// CreateDraft makes a new item that has an id but is not yet durable.
// Drafts never show up in Query until committed.
func (s *Store) CreateDraft(kind model.Kind, opts ...model.Option) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.newItem(kind, opts)
	if err != nil {
		return model.Item{}, err
	}
	s.drafts[item.ID] = item
	return item.Clone(), nil
}

// Draft returns a copy of a pending draft.
func (s *Store) Draft(id string) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok {
		return model.Item{}, model.NotFound(id)
	}
	return d.Clone(), nil
}

// UpdateDraft edits a pending draft in memory.
func (s *Store) UpdateDraft(id string, opts ...model.Option) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.drafts[id]
	if !ok {
		return model.Item{}, model.NotFound(id)
	}
	next := s.patched(cur, opts)
	if err := s.check(&next); err != nil {
		return model.Item{}, err
	}
	s.drafts[id] = &next
	return next.Clone(), nil
}

// CommitDraft persists a draft and moves it into the committed collection.
// On failure the draft stays pending.
func (s *Store) CommitDraft(id string) (model.Item, error) {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return model.Item{}, model.NotFound(id)
	}
	out, err := s.commit(d)
	s.mu.Unlock()
	if err != nil {
		return model.Item{}, err
	}

	s.notify(Change{Op: OpCreate, IDs: []string{id}})
	return out, nil
}

// DiscardDraft forgets a pending draft. Nothing was ever written for it.
func (s *Store) DiscardDraft(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return model.NotFound(id)
	}
	delete(s.drafts, id)
	return nil
}

// commit writes d as a new committed item. The pending draft is only
// dropped once the insert succeeds. Callers hold s.mu.
func (s *Store) commit(d *model.Item) (model.Item, error) {
	if err := s.check(d); err != nil {
		return model.Item{}, err
	}
	item := d.Clone()
	item.Seq = s.seq + 1
	item.UpdatedAt = s.now()
	if err := s.backend.InsertItem(&item); err != nil {
		return model.Item{}, s.persistErr("commit draft", err)
	}
	s.seq = item.Seq
	delete(s.drafts, item.ID)
	s.items[item.ID] = &item
	return item.Clone(), nil
}
