// ABOUTME: Food and exercise catalog CRUD operations for SQLite storage.
// ABOUTME: Names are unique case-insensitively; referenced entries cannot be deleted.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

const foodColumns = `id, name, default_serving_type, serving_type_qty, calories, fat, saturated_fat,
	sodium, carbs, fiber, sugar, protein, points, created_at`

// CreateFood stores a new catalog food.
func (d *DB) CreateFood(f *models.Food) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("create food: %w", err)
	}

	query := `
		INSERT INTO foods (` + foodColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		f.ID.String(),
		f.Name,
		string(f.DefaultServingType),
		f.ServingTypeQty,
		f.Calories,
		f.Fat,
		f.SaturatedFat,
		f.Sodium,
		f.Carbs,
		f.Fiber,
		f.Sugar,
		f.Protein,
		f.Points,
		f.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create food %q: %w", f.Name, ErrExists)
		}
		return fmt.Errorf("create food: %w", err)
	}
	return nil
}

// GetFood retrieves a food by ID or ID prefix.
func (d *DB) GetFood(idOrPrefix string) (*models.Food, error) {
	id, err := d.resolveID(tableFoods, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanFood(d.db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id))
}

// FindFoodByName retrieves a food by its name, ignoring case.
func (d *DB) FindFoodByName(name string) (*models.Food, error) {
	return scanFood(d.db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE name = ?`, name))
}

// ListFoods lists foods whose name contains search, sorted by name.
func (d *DB) ListFoods(search string, limit int) ([]*models.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE name LIKE '%' || ? || '%' ORDER BY name COLLATE NOCASE`
	args := []interface{}{search}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	var foods []*models.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

// DeleteFood removes a food that no log entry references.
func (d *DB) DeleteFood(idOrPrefix string) error {
	id, err := d.resolveID(tableFoods, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if err := d.deleteByID(tableFoods, id); err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	return nil
}

// CreateExercise stores a new catalog exercise.
func (d *DB) CreateExercise(e *models.Exercise) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}

	var category *string
	if e.Category != "" {
		category = &e.Category
	}
	_, err := d.db.Exec(`
		INSERT INTO exercises (id, name, category, created_at)
		VALUES (?, ?, ?, ?)`,
		e.ID.String(), e.Name, category, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create exercise %q: %w", e.Name, ErrExists)
		}
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

// GetExercise retrieves an exercise by ID or ID prefix.
func (d *DB) GetExercise(idOrPrefix string) (*models.Exercise, error) {
	id, err := d.resolveID(tableExercises, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanExercise(d.db.QueryRow(`SELECT id, name, category, created_at FROM exercises WHERE id = ?`, id))
}

// FindExerciseByName retrieves an exercise by its name, ignoring case.
func (d *DB) FindExerciseByName(name string) (*models.Exercise, error) {
	return scanExercise(d.db.QueryRow(`SELECT id, name, category, created_at FROM exercises WHERE name = ?`, name))
}

// ListExercises lists exercises whose name contains search, sorted by name.
func (d *DB) ListExercises(search string, limit int) ([]*models.Exercise, error) {
	query := `SELECT id, name, category, created_at FROM exercises
		WHERE name LIKE '%' || ? || '%' ORDER BY name COLLATE NOCASE`
	args := []interface{}{search}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// DeleteExercise removes an exercise that no log entry references.
func (d *DB) DeleteExercise(idOrPrefix string) error {
	id, err := d.resolveID(tableExercises, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if err := d.deleteByID(tableExercises, id); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*models.Food, error) {
	var f models.Food
	var idStr, servingType string
	var createdAt sql.NullString

	err := row.Scan(&idStr, &f.Name, &servingType, &f.ServingTypeQty, &f.Calories, &f.Fat,
		&f.SaturatedFat, &f.Sodium, &f.Carbs, &f.Fiber, &f.Sugar, &f.Protein, &f.Points, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan food: %w", err)
	}

	f.ID, _ = uuid.Parse(idStr)
	f.DefaultServingType = models.ServingType(servingType)
	if createdAt.Valid {
		f.CreatedAt = parseTimestamp(createdAt.String)
	}
	return &f, nil
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var e models.Exercise
	var idStr string
	var category, createdAt sql.NullString

	if err := row.Scan(&idStr, &e.Name, &category, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	e.ID, _ = uuid.Parse(idStr)
	if category.Valid {
		e.Category = category.String
	}
	if createdAt.Valid {
		e.CreatedAt = parseTimestamp(createdAt.String)
	}
	return &e, nil
}

func parseTimestamp(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
