package db

import (
	"testing"

	"github.com/baiirun/things/internal/model"
)

func TestLoadItems(t *testing.T) {
	db := setupTestDB(t)

	group := createTestItem(t, db, model.KindGroup, "Work")
	proj := createTestItem(t, db, model.KindProject, "proj", model.WithGroup(group.ID))
	createTestItem(t, db, model.KindTask, "Task", model.WithProject(proj.ID), model.WithDone(true))
	createTestItem(t, db, model.KindTask, "Inbox task")

	items, err := db.LoadItems()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	kinds := map[model.Kind]int{}
	for _, it := range items {
		kinds[it.Kind]++
		if it.ID == proj.ID && !it.InGroup(group.ID) {
			t.Errorf("project lost its group: %+v", it)
		}
		if it.Title == "Task" && (!it.Done || !it.InProject(proj.ID)) {
			t.Errorf("task not round-tripped: %+v", it)
		}
	}
	if kinds[model.KindGroup] != 1 || kinds[model.KindProject] != 1 || kinds[model.KindTask] != 2 {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestLoadItems_Empty(t *testing.T) {
	db := setupTestDB(t)

	items, err := db.LoadItems()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestLoadItems_InsertionOrder(t *testing.T) {
	db := setupTestDB(t)

	for i, title := range []string{"first", "second", "third"} {
		createTestItem(t, db, model.KindTask, title, func(item *model.Item) {
			item.Seq = int64(i + 1)
		})
	}

	items, err := db.LoadItems()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"first", "second", "third"} {
		if items[i].Title != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Title, want)
		}
	}
}
