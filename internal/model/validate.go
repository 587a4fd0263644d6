package model

// Validate checks the per-kind field rules of a single item. References to
// other items are checked by the store, which knows what exists.
func (i Item) Validate() error {
	if i.ID == "" {
		return Invalid("item id is empty")
	}
	if !i.Kind.IsValid() {
		return Invalid("invalid item kind: %q", i.Kind)
	}

	switch i.Kind {
	case KindProject:
		if i.ProjectID != nil {
			return Invalid("project %s cannot belong to another project", i.ID)
		}
		if i.Done {
			return Invalid("project %s cannot be marked done", i.ID)
		}
	case KindGroup:
		if i.ProjectID != nil || i.GroupID != nil {
			return Invalid("group %s cannot be nested", i.ID)
		}
		if i.Done {
			return Invalid("group %s cannot be marked done", i.ID)
		}
	}
	return nil
}
