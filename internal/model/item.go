package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates what an Item is.
type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
	KindGroup   Kind = "group"
)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindTask, KindProject, KindGroup:
		return true
	}
	return false
}

// Item is an inbox task, a project (a container of tasks) or a group
// (a container of projects).
type Item struct {
	ID         string
	Kind       Kind
	Title      string
	Details    string
	Done       bool
	ProjectID  *string
	GroupID    *string
	DueDate    *time.Time
	OrderIndex int
	Seq        int64 // insertion order, breaks OrderIndex ties
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (i Item) IsTask() bool    { return i.Kind == KindTask }
func (i Item) IsProject() bool { return i.Kind == KindProject }
func (i Item) IsGroup() bool   { return i.Kind == KindGroup }

// IsInbox reports whether the item is a task filed under neither a project
// nor a group.
func (i Item) IsInbox() bool {
	return i.IsTask() && i.ProjectID == nil && i.GroupID == nil
}

// InProject reports whether the item is a task of the given project.
func (i Item) InProject(projectID string) bool {
	return i.ProjectID != nil && *i.ProjectID == projectID
}

// InGroup reports whether the item is filed under the given group.
func (i Item) InGroup(groupID string) bool {
	return i.GroupID != nil && *i.GroupID == groupID
}

// Clone returns a copy that shares no pointers with i.
func (i Item) Clone() Item {
	c := i
	if i.ProjectID != nil {
		c.ProjectID = StringPtr(*i.ProjectID)
	}
	if i.GroupID != nil {
		c.GroupID = StringPtr(*i.GroupID)
	}
	if i.DueDate != nil {
		d := *i.DueDate
		c.DueDate = &d
	}
	return c
}

// GenerateID returns a fresh opaque item id.
func GenerateID() string {
	return uuid.NewString()
}

// StringPtr is a convenience for optional references.
func StringPtr(s string) *string {
	return &s
}

// TimePtr is a convenience for optional timestamps.
func TimePtr(t time.Time) *time.Time {
	return &t
}
