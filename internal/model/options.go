package model

import "time"

// Option sets one field of an Item. Options are used both for the initial
// fields of a new item and for patches applied to an existing one.
type Option func(*Item)

func WithTitle(title string) Option {
	return func(i *Item) {
		i.Title = title
	}
}

func WithDetails(details string) Option {
	return func(i *Item) {
		i.Details = details
	}
}

func WithDone(done bool) Option {
	return func(i *Item) {
		i.Done = done
	}
}

// WithProject files the item under a project. An empty id clears it.
func WithProject(projectID string) Option {
	return func(i *Item) {
		if projectID == "" {
			i.ProjectID = nil
			return
		}
		i.ProjectID = StringPtr(projectID)
	}
}

// WithGroup files the item under a group. An empty id clears it.
func WithGroup(groupID string) Option {
	return func(i *Item) {
		if groupID == "" {
			i.GroupID = nil
			return
		}
		i.GroupID = StringPtr(groupID)
	}
}

// WithDueDate sets the due date; nil clears it.
func WithDueDate(due *time.Time) Option {
	return func(i *Item) {
		if due == nil {
			i.DueDate = nil
			return
		}
		d := *due
		i.DueDate = &d
	}
}

func WithOrderIndex(index int) Option {
	return func(i *Item) {
		i.OrderIndex = index
	}
}

// Apply runs opts against i in order. Nil options are skipped.
func (i *Item) Apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
}
