// Package ordering maintains the manual order of tasks inside a project.
package ordering

import (
	"cmp"

	"github.com/baiirun/things/internal/model"
)

// Store is the part of the item store the ordering service drives.
type Store interface {
	Get(id string) (model.Item, error)
	Query(pred func(model.Item) bool, cmp func(a, b model.Item) int) []model.Item
	SetOrder(projectID string, order map[string]int) error
	AppendToProject(projectID, id string) (model.Item, error)
}

// Compare orders tasks by OrderIndex, then by insertion.
func Compare(a, b model.Item) int {
	if c := cmp.Compare(a.OrderIndex, b.OrderIndex); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}

// Reorder moves the element at from to position to, shifting the ones in
// between. The input is not modified.
func Reorder(list []model.Item, from, to int) ([]model.Item, error) {
	if from < 0 || from >= len(list) {
		return nil, model.Invalid("source index %d out of range [0,%d)", from, len(list))
	}
	if to < 0 || to >= len(list) {
		return nil, model.Invalid("destination index %d out of range [0,%d)", to, len(list))
	}

	out := make([]model.Item, 0, len(list))
	moved := list[from]
	for i, it := range list {
		if i != from {
			out = append(out, it)
		}
	}
	out = append(out[:to], append([]model.Item{moved}, out[to:]...)...)
	return out, nil
}

type Service struct {
	store Store
}

func New(s Store) *Service {
	return &Service{store: s}
}

// Tasks returns the open tasks of a project in display order.
func (s *Service) Tasks(projectID string) ([]model.Item, error) {
	if err := s.checkProject(projectID); err != nil {
		return nil, err
	}
	return s.store.Query(func(it model.Item) bool {
		return it.IsTask() && it.InProject(projectID) && !it.Done
	}, Compare), nil
}

// Reorder returns the project's open tasks with movedID taken from
// position from and placed at position to. Nothing is written.
func (s *Service) Reorder(projectID, movedID string, from, to int) ([]model.Item, error) {
	list, err := s.Tasks(projectID)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(list) {
		return nil, model.Invalid("source index %d out of range [0,%d)", from, len(list))
	}
	if list[from].ID != movedID {
		return nil, model.Invalid("item %s is not at position %d", movedID, from)
	}
	return Reorder(list, from, to)
}

// Commit gives each item its position as OrderIndex and persists all of
// them in one batch. Every item must be a task of the project.
func (s *Service) Commit(projectID string, ordered []model.Item) error {
	if err := s.checkProject(projectID); err != nil {
		return err
	}
	order := make(map[string]int, len(ordered))
	for i, it := range ordered {
		if !it.IsTask() || !it.InProject(projectID) {
			return model.Invalid("item %s is not a task of project %s", it.ID, projectID)
		}
		if _, dup := order[it.ID]; dup {
			return model.Invalid("item %s listed twice", it.ID)
		}
		order[it.ID] = i
	}
	return s.store.SetOrder(projectID, order)
}

// Move reorders and commits in one step, as at the end of a drag.
func (s *Service) Move(projectID, movedID string, from, to int) ([]model.Item, error) {
	list, err := s.Reorder(projectID, movedID, from, to)
	if err != nil {
		return nil, err
	}
	if err := s.Commit(projectID, list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i].OrderIndex = i
	}
	return list, nil
}

// Append files the item under the project at the end of its order and
// persists it. A pending draft is committed.
func (s *Service) Append(projectID, itemID string) (model.Item, error) {
	return s.store.AppendToProject(projectID, itemID)
}

func (s *Service) checkProject(projectID string) error {
	p, err := s.store.Get(projectID)
	if err != nil {
		return err
	}
	if !p.IsProject() {
		return model.Invalid("item %s is not a project", projectID)
	}
	return nil
}
