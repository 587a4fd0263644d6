package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/baiirun/things/internal/model"
)

// InsertItem inserts a new item row.
func (db *DB) InsertItem(item *model.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	_, err := db.Exec(`
		INSERT INTO items (id, kind, title, details, is_done, project_id, group_id, due_date, order_index, seq, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Kind, item.Title, item.Details, boolToInt(item.Done),
		item.ProjectID, item.GroupID, formatNullTime(item.DueDate),
		item.OrderIndex, item.Seq, formatTime(item.CreatedAt), formatTime(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// UpdateItem overwrites every mutable column of an existing item.
// The kind, seq and created_at columns never change.
func (db *DB) UpdateItem(item *model.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	result, err := db.Exec(`
		UPDATE items
		SET title = ?,
		    details = ?,
		    is_done = ?,
		    project_id = ?,
		    group_id = ?,
		    due_date = ?,
		    order_index = ?,
		    updated_at = ?
		WHERE id = ?`,
		item.Title, item.Details, boolToInt(item.Done), item.ProjectID, item.GroupID,
		formatNullTime(item.DueDate), item.OrderIndex, formatTime(item.UpdatedAt), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.NotFound(item.ID)
	}
	return nil
}

// DeleteItem removes an item in a single transaction.
// Deleting a project also deletes its tasks; deleting a group ungroups
// the items filed under it and stamps them with at.
func (db *DB) DeleteItem(id string, at time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var kind string
	err = tx.QueryRow(`SELECT kind FROM items WHERE id = ?`, id).Scan(&kind)
	if err == sql.ErrNoRows {
		return model.NotFound(id)
	}
	if err != nil {
		return fmt.Errorf("failed to check item: %w", err)
	}

	switch model.Kind(kind) {
	case model.KindProject:
		if _, err := tx.Exec(`DELETE FROM items WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete project tasks: %w", err)
		}
	case model.KindGroup:
		if _, err := tx.Exec(`UPDATE items SET group_id = NULL, updated_at = ? WHERE group_id = ?`,
			formatTime(at), id); err != nil {
			return fmt.Errorf("failed to ungroup items: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetOrder writes order indices for tasks of one project as one batch,
// stamping each row with at. Either every row is updated or none is.
func (db *DB) SetOrder(projectID string, order map[string]int, at time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`UPDATE items SET order_index = ?, updated_at = ? WHERE id = ? AND project_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare order update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := formatTime(at)
	for id, index := range order {
		result, err := stmt.Exec(index, now, id, projectID)
		if err != nil {
			return fmt.Errorf("failed to set order of %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return model.NotFound(id)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
