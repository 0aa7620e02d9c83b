// ABOUTME: ExercisePerformed CRUD operations for SQLite storage.
// ABOUTME: Shares the uniqueness precheck and filter helpers with the food log.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

const exercisePerformedSelect = `
	SELECT ep.id, ep.user_id, ep.date, ep.minutes,
		e.id, e.name, e.category, e.created_at
	FROM exercise_performed ep
	JOIN exercises e ON e.id = ep.exercise_id
`

// CreateExercisePerformed stores a new exercise log entry.
func (d *DB) CreateExercisePerformed(ep *models.ExercisePerformed) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("create exercise performed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkLogKey(tx, tableExercisePerformed, "exercise_id", ep.Key(), ep.ID()); err != nil {
		return fmt.Errorf("create exercise performed: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO exercise_performed (id, user_id, exercise_id, date, minutes)
		VALUES (?, ?, ?, ?, ?)`,
		ep.ID().String(),
		string(ep.User()),
		ep.Exercise().ID.String(),
		ep.Date(),
		ep.Minutes(),
	)
	if err != nil {
		return fmt.Errorf("create exercise performed: %w", mapLogWriteError(err, ep.Key()))
	}

	return tx.Commit()
}

// UpdateExercisePerformed replaces the stored fields of an existing entry.
func (d *DB) UpdateExercisePerformed(ep *models.ExercisePerformed) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("update exercise performed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkLogKey(tx, tableExercisePerformed, "exercise_id", ep.Key(), ep.ID()); err != nil {
		return fmt.Errorf("update exercise performed: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE exercise_performed
		SET user_id = ?, exercise_id = ?, date = ?, minutes = ?
		WHERE id = ?`,
		string(ep.User()),
		ep.Exercise().ID.String(),
		ep.Date(),
		ep.Minutes(),
		ep.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("update exercise performed: %w", mapLogWriteError(err, ep.Key()))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update exercise performed: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update exercise performed: %w: %s", ErrNotFound, ep.ID())
	}

	return tx.Commit()
}

// GetExercisePerformed retrieves an exercise log entry by ID or ID prefix.
func (d *DB) GetExercisePerformed(idOrPrefix string) (*models.ExercisePerformed, error) {
	id, err := d.resolveID(tableExercisePerformed, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanExercisePerformed(d.db.QueryRow(exercisePerformedSelect+` WHERE ep.id = ?`, id))
}

// FindExercisePerformed retrieves the entry holding a uniqueness key.
func (d *DB) FindExercisePerformed(key models.LogKey) (*models.ExercisePerformed, error) {
	return scanExercisePerformed(d.db.QueryRow(exercisePerformedSelect+`
		WHERE ep.user_id = ? AND ep.exercise_id = ? AND ep.date = ?`,
		string(key.User), key.Entity.String(), key.Date))
}

// ListExercisePerformed lists entries matching filter, oldest day first.
func (d *DB) ListExercisePerformed(filter LogFilter) ([]*models.ExercisePerformed, error) {
	where, args := filterClause("ep", filter)
	query := exercisePerformedSelect + where + ` ORDER BY ep.date ASC, e.name COLLATE NOCASE ASC`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercise performed: %w", err)
	}
	defer rows.Close()

	var entries []*models.ExercisePerformed
	for rows.Next() {
		ep, err := scanExercisePerformed(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ep)
	}
	return entries, rows.Err()
}

// DeleteExercisePerformed removes an exercise log entry by ID or prefix.
func (d *DB) DeleteExercisePerformed(idOrPrefix string) error {
	id, err := d.resolveID(tableExercisePerformed, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete exercise performed: %w", err)
	}
	if err := d.deleteByID(tableExercisePerformed, id); err != nil {
		return fmt.Errorf("delete exercise performed: %w", err)
	}
	return nil
}

func scanExercisePerformed(row rowScanner) (*models.ExercisePerformed, error) {
	var rec ExercisePerformedRecord
	var exercise models.Exercise
	var idStr, userID, exerciseID string
	var category, createdAt sql.NullString

	err := row.Scan(&idStr, &userID, &rec.Date, &rec.Minutes,
		&exerciseID, &exercise.Name, &category, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan exercise performed: %w", err)
	}

	rec.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse exercise performed ID %q: %w", idStr, err)
	}
	exercise.ID, err = uuid.Parse(exerciseID)
	if err != nil {
		return nil, fmt.Errorf("parse exercise ID %q: %w", exerciseID, err)
	}
	if category.Valid {
		exercise.Category = category.String
	}
	if createdAt.Valid {
		exercise.CreatedAt = parseTimestamp(createdAt.String)
	}
	rec.UserID = models.UserID(userID)
	rec.ExerciseID = exercise.ID

	ep, err := rec.Resolve(exercise)
	if err != nil {
		return nil, fmt.Errorf("load exercise performed %s: %w", idStr, err)
	}
	return ep, nil
}
