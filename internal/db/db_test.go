package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/baiirun/things/internal/model"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	if err := db.Init(); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestItem(kind model.Kind, title string, opts ...model.Option) *model.Item {
	now := time.Now()
	item := &model.Item{
		ID:        model.GenerateID(),
		Kind:      kind,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	item.Apply(opts...)
	return item
}

func createTestItem(t *testing.T, db *DB, kind model.Kind, title string, opts ...model.Option) *model.Item {
	t.Helper()
	item := newTestItem(kind, title, opts...)
	if err := db.InsertItem(item); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return item
}

// getItem finds one row through LoadItems.
func getItem(db *DB, id string) (*model.Item, error) {
	items, err := db.LoadItems()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, model.NotFound(id)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Should create parent directories
	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestInit_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Init(); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("failed to get default path: %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}

	if !strings.HasSuffix(path, filepath.Join(".things", "things.db")) {
		t.Errorf("expected path to end with .things/things.db, got %q", path)
	}
}

func TestInsertItem(t *testing.T) {
	db := setupTestDB(t)

	due := time.Date(2025, 1, 10, 18, 0, 0, 0, time.Local)
	project := createTestItem(t, db, model.KindProject, "Garden")
	item := createTestItem(t, db, model.KindTask, "Water plants",
		model.WithDetails("the tomatoes first"),
		model.WithProject(project.ID),
		model.WithDueDate(&due),
		model.WithOrderIndex(3),
	)

	got, err := getItem(db, item.ID)
	if err != nil {
		t.Fatalf("failed to get item: %v", err)
	}

	if got.Title != item.Title {
		t.Errorf("title = %q, want %q", got.Title, item.Title)
	}
	if got.Details != "the tomatoes first" {
		t.Errorf("details = %q", got.Details)
	}
	if got.ProjectID == nil || *got.ProjectID != project.ID {
		t.Errorf("project = %v, want %q", got.ProjectID, project.ID)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due = %v, want %v", got.DueDate, due)
	}
	if got.OrderIndex != 3 {
		t.Errorf("order index = %d, want 3", got.OrderIndex)
	}
	if got.Kind != model.KindTask {
		t.Errorf("kind = %q, want task", got.Kind)
	}
}

func TestInsertItem_Invalid(t *testing.T) {
	db := setupTestDB(t)

	item := newTestItem(model.KindProject, "Nested", model.WithProject("elsewhere"))
	err := db.InsertItem(item)
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestInsertItem_DanglingProject(t *testing.T) {
	db := setupTestDB(t)

	// foreign_keys is on, so a reference to a missing row is rejected
	item := newTestItem(model.KindTask, "Orphan", model.WithProject("missing"))
	if err := db.InsertItem(item); err == nil {
		t.Error("expected foreign key error")
	}
}

func TestUpdateItem(t *testing.T) {
	db := setupTestDB(t)

	item := createTestItem(t, db, model.KindTask, "Draft title")
	item.Apply(model.WithTitle("Final title"), model.WithDone(true), model.WithDueDate(nil))

	if err := db.UpdateItem(item); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	got, _ := getItem(db, item.ID)
	if got.Title != "Final title" || !got.Done {
		t.Errorf("update not applied: %+v", got)
	}
	if got.DueDate != nil {
		t.Errorf("expected no due date, got %v", got.DueDate)
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	db := setupTestDB(t)

	item := newTestItem(model.KindTask, "Ghost")
	err := db.UpdateItem(item)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	db := setupTestDB(t)

	item := createTestItem(t, db, model.KindTask, "Short lived")
	if err := db.DeleteItem(item.ID, time.Now()); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	if _, err := getItem(db, item.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected item to be gone, got %v", err)
	}

	// A second delete reports the item as missing
	if err := db.DeleteItem(item.ID, time.Now()); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound on repeated delete, got %v", err)
	}
}

func TestDeleteItem_ProjectCascades(t *testing.T) {
	db := setupTestDB(t)

	project := createTestItem(t, db, model.KindProject, "Move house")
	other := createTestItem(t, db, model.KindProject, "Taxes")
	createTestItem(t, db, model.KindTask, "Pack", model.WithProject(project.ID))
	createTestItem(t, db, model.KindTask, "Label boxes", model.WithProject(project.ID), model.WithDone(true))
	keep := createTestItem(t, db, model.KindTask, "File return", model.WithProject(other.ID))

	if err := db.DeleteItem(project.ID, time.Now()); err != nil {
		t.Fatalf("failed to delete project: %v", err)
	}

	items, err := db.LoadItems()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	for _, it := range items {
		if it.InProject(project.ID) {
			t.Errorf("expected cascade delete, %q remains", it.Title)
		}
	}
	if _, err := getItem(db, keep.ID); err != nil {
		t.Errorf("unrelated task deleted: %v", err)
	}
}

func TestDeleteItem_GroupUngroups(t *testing.T) {
	db := setupTestDB(t)

	group := createTestItem(t, db, model.KindGroup, "Home")
	project := createTestItem(t, db, model.KindProject, "Kitchen", model.WithGroup(group.ID))

	at := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	if err := db.DeleteItem(group.ID, at); err != nil {
		t.Fatalf("failed to delete group: %v", err)
	}

	got, err := getItem(db, project.ID)
	if err != nil {
		t.Fatalf("project should survive group delete: %v", err)
	}
	if got.GroupID != nil {
		t.Errorf("expected project ungrouped, group = %q", *got.GroupID)
	}
	if !got.UpdatedAt.Equal(at) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, at)
	}
}

func TestSetOrder(t *testing.T) {
	db := setupTestDB(t)

	project := createTestItem(t, db, model.KindProject, "Trip")
	a := createTestItem(t, db, model.KindTask, "A", model.WithProject(project.ID))
	b := createTestItem(t, db, model.KindTask, "B", model.WithProject(project.ID))

	at := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	if err := db.SetOrder(project.ID, map[string]int{a.ID: 1, b.ID: 0}, at); err != nil {
		t.Fatalf("failed to set order: %v", err)
	}

	gotA, _ := getItem(db, a.ID)
	gotB, _ := getItem(db, b.ID)
	if gotA.OrderIndex != 1 || gotB.OrderIndex != 0 {
		t.Errorf("order = (%d, %d), want (1, 0)", gotA.OrderIndex, gotB.OrderIndex)
	}
	if !gotA.UpdatedAt.Equal(at) || !gotB.UpdatedAt.Equal(at) {
		t.Errorf("updated_at = (%v, %v), want %v", gotA.UpdatedAt, gotB.UpdatedAt, at)
	}
}

func TestSetOrder_AllOrNothing(t *testing.T) {
	db := setupTestDB(t)

	project := createTestItem(t, db, model.KindProject, "Trip")
	other := createTestItem(t, db, model.KindProject, "Work")
	a := createTestItem(t, db, model.KindTask, "A", model.WithProject(project.ID), model.WithOrderIndex(7))
	stranger := createTestItem(t, db, model.KindTask, "B", model.WithProject(other.ID))

	err := db.SetOrder(project.ID, map[string]int{a.ID: 0, stranger.ID: 1}, time.Now())
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for task of another project, got %v", err)
	}

	got, _ := getItem(db, a.ID)
	if got.OrderIndex != 7 {
		t.Errorf("partial write: order index = %d, want 7", got.OrderIndex)
	}
}
