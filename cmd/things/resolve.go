package main

import (
	"errors"
	"strings"
	"time"

	"github.com/baiirun/things/internal/dates"
	"github.com/baiirun/things/internal/model"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// resolveID finds an item by full id or by a unique id prefix.
func resolveID(ref string) (model.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Item{}, model.Invalid("empty id")
	}
	item, err := current.store.Get(ref)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Item{}, err
	}

	matches := current.store.Query(func(it model.Item) bool {
		return strings.HasPrefix(it.ID, ref)
	}, nil)
	switch len(matches) {
	case 0:
		return model.Item{}, model.NotFound(ref)
	case 1:
		return matches[0], nil
	}
	return model.Item{}, model.Invalid("id prefix %q matches %d items", ref, len(matches))
}

var dueLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

// parseDue turns a due-date argument into a time in now's location.
// "none" clears the date.
func parseDue(when string, now time.Time) (*time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(when)) {
	case "none", "clear", "":
		return nil, nil
	case "today":
		return model.TimePtr(dates.TodayAt(now, 0)), nil
	case "tonight", "evening":
		return model.TimePtr(dates.TodayAt(now, 18)), nil
	case "tomorrow":
		return model.TimePtr(dates.StartOfTomorrow(now)), nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(when), now.Location()); err == nil {
			return &t, nil
		}
	}
	return nil, model.Invalid("unrecognised due date %q", when)
}
