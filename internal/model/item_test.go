package model

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("generated empty id")
		}
		if seen[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		kind  Kind
		valid bool
	}{
		{KindTask, true},
		{KindProject, true},
		{KindGroup, true},
		{Kind("task"), true},
		{Kind(""), false},
		{Kind("area"), false},
		{Kind("Task"), false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestItem_IsInbox(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"bare task", Item{Kind: KindTask}, true},
		{"task in project", Item{Kind: KindTask, ProjectID: StringPtr("p")}, false},
		{"task in group", Item{Kind: KindTask, GroupID: StringPtr("g")}, false},
		{"project", Item{Kind: KindProject}, false},
		{"group", Item{Kind: KindGroup}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.IsInbox(); got != tt.want {
				t.Errorf("IsInbox() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItem_CloneDoesNotAlias(t *testing.T) {
	due := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	orig := Item{
		ID:        "a",
		Kind:      KindTask,
		ProjectID: StringPtr("p1"),
		GroupID:   StringPtr("g1"),
		DueDate:   &due,
	}

	c := orig.Clone()
	*c.ProjectID = "p2"
	*c.GroupID = "g2"
	*c.DueDate = due.Add(time.Hour)

	if *orig.ProjectID != "p1" || *orig.GroupID != "g1" || !orig.DueDate.Equal(due) {
		t.Errorf("clone shares pointers with original: %+v", orig)
	}
}

func TestItem_Apply(t *testing.T) {
	due := time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)
	item := Item{ID: "a", Kind: KindTask, ProjectID: StringPtr("p")}

	item.Apply(
		WithTitle("Buy milk"),
		WithDetails("2 litres"),
		WithDone(true),
		WithProject(""),
		WithDueDate(&due),
		WithOrderIndex(4),
		nil,
	)

	if item.Title != "Buy milk" || item.Details != "2 litres" || !item.Done {
		t.Errorf("text fields not applied: %+v", item)
	}
	if item.ProjectID != nil {
		t.Errorf("expected project cleared, got %q", *item.ProjectID)
	}
	if item.DueDate == nil || !item.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", item.DueDate, due)
	}
	if item.OrderIndex != 4 {
		t.Errorf("order index = %d, want 4", item.OrderIndex)
	}

	due = due.Add(time.Hour)
	if !item.DueDate.Equal(due.Add(-time.Hour)) {
		t.Error("WithDueDate must copy the timestamp")
	}
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{"task", Item{ID: "a", Kind: KindTask, Done: true}, false},
		{"task in project", Item{ID: "a", Kind: KindTask, ProjectID: StringPtr("p")}, false},
		{"project in group", Item{ID: "a", Kind: KindProject, GroupID: StringPtr("g")}, false},
		{"empty id", Item{Kind: KindTask}, true},
		{"bad kind", Item{ID: "a", Kind: "area"}, true},
		{"nested project", Item{ID: "a", Kind: KindProject, ProjectID: StringPtr("p")}, true},
		{"done project", Item{ID: "a", Kind: KindProject, Done: true}, true},
		{"grouped group", Item{ID: "a", Kind: KindGroup, GroupID: StringPtr("g")}, true},
		{"done group", Item{ID: "a", Kind: KindGroup, Done: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Validate() = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	if err := NotFound("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("NotFound not matched: %v", err)
	}
	cause := errors.New("disk full")
	err := Persistence("failed to update item", cause)
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, cause) {
		t.Errorf("Persistence should wrap both kind and cause: %v", err)
	}
}
