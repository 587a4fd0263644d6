package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/baiirun/things/internal/model"
)

const itemColumns = `id, kind, title, details, is_done, project_id, group_id, due_date, order_index, seq, created_at, updated_at`

// LoadItems returns every item in insertion order.
func (db *DB) LoadItems() ([]model.Item, error) {
	return db.queryItems(`SELECT ` + itemColumns + ` FROM items ORDER BY seq ASC`)
}

// queryItems is a helper to scan item rows.
func (db *DB) queryItems(query string, args ...any) ([]model.Item, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	var (
		item                 model.Item
		done                 int
		projectID, groupID   sql.NullString
		dueDate              sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(
		&item.ID, &item.Kind, &item.Title, &item.Details, &done, &projectID, &groupID,
		&dueDate, &item.OrderIndex, &item.Seq, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	item.Done = done == 1
	if projectID.Valid {
		item.ProjectID = &projectID.String
	}
	if groupID.Valid {
		item.GroupID = &groupID.String
	}
	if dueDate.Valid {
		due, err := parseTime(dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("bad due_date for %s: %w", item.ID, err)
		}
		item.DueDate = &due
	}

	var err error
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at for %s: %w", item.ID, err)
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at for %s: %w", item.ID, err)
	}
	return &item, nil
}

// Timestamps are stored as RFC 3339 text in UTC and handed back in local time.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}
