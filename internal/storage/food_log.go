// ABOUTME: FoodEaten CRUD operations for SQLite storage.
// ABOUTME: Checks the (user, food, date) uniqueness precondition before every insert and update.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

const foodEatenSelect = `
	SELECT fe.id, fe.user_id, fe.date, fe.serving_type, fe.serving_qty,
		f.id, f.name, f.default_serving_type, f.serving_type_qty, f.calories, f.fat, f.saturated_fat,
		f.sodium, f.carbs, f.fiber, f.sugar, f.protein, f.points, f.created_at
	FROM food_eaten fe
	JOIN foods f ON f.id = fe.food_id
`

// CreateFoodEaten stores a new food log entry.
func (d *DB) CreateFoodEaten(fe *models.FoodEaten) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("create food eaten: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkLogKey(tx, tableFoodEaten, "food_id", fe.Key(), fe.ID()); err != nil {
		return fmt.Errorf("create food eaten: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO food_eaten (id, user_id, food_id, date, serving_type, serving_qty)
		VALUES (?, ?, ?, ?, ?, ?)`,
		fe.ID().String(),
		string(fe.User()),
		fe.Food().ID.String(),
		fe.Date(),
		string(fe.ServingType()),
		fe.ServingQty(),
	)
	if err != nil {
		return fmt.Errorf("create food eaten: %w", mapLogWriteError(err, fe.Key()))
	}

	return tx.Commit()
}

// UpdateFoodEaten replaces the stored fields of an existing entry.
func (d *DB) UpdateFoodEaten(fe *models.FoodEaten) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("update food eaten: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkLogKey(tx, tableFoodEaten, "food_id", fe.Key(), fe.ID()); err != nil {
		return fmt.Errorf("update food eaten: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE food_eaten
		SET user_id = ?, food_id = ?, date = ?, serving_type = ?, serving_qty = ?
		WHERE id = ?`,
		string(fe.User()),
		fe.Food().ID.String(),
		fe.Date(),
		string(fe.ServingType()),
		fe.ServingQty(),
		fe.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("update food eaten: %w", mapLogWriteError(err, fe.Key()))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update food eaten: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update food eaten: %w: %s", ErrNotFound, fe.ID())
	}

	return tx.Commit()
}

// GetFoodEaten retrieves a food log entry by ID or ID prefix.
func (d *DB) GetFoodEaten(idOrPrefix string) (*models.FoodEaten, error) {
	id, err := d.resolveID(tableFoodEaten, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanFoodEaten(d.db.QueryRow(foodEatenSelect+` WHERE fe.id = ?`, id))
}

// FindFoodEaten retrieves the entry holding a uniqueness key.
func (d *DB) FindFoodEaten(key models.LogKey) (*models.FoodEaten, error) {
	return scanFoodEaten(d.db.QueryRow(foodEatenSelect+`
		WHERE fe.user_id = ? AND fe.food_id = ? AND fe.date = ?`,
		string(key.User), key.Entity.String(), key.Date))
}

// ListFoodEaten lists entries matching filter, oldest day first.
func (d *DB) ListFoodEaten(filter LogFilter) ([]*models.FoodEaten, error) {
	where, args := filterClause("fe", filter)
	query := foodEatenSelect + where + ` ORDER BY fe.date ASC, f.name COLLATE NOCASE ASC`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list food eaten: %w", err)
	}
	defer rows.Close()

	var entries []*models.FoodEaten
	for rows.Next() {
		fe, err := scanFoodEaten(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fe)
	}
	return entries, rows.Err()
}

// DeleteFoodEaten removes a food log entry by ID or prefix.
func (d *DB) DeleteFoodEaten(idOrPrefix string) error {
	id, err := d.resolveID(tableFoodEaten, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete food eaten: %w", err)
	}
	if err := d.deleteByID(tableFoodEaten, id); err != nil {
		return fmt.Errorf("delete food eaten: %w", err)
	}
	return nil
}

func scanFoodEaten(row rowScanner) (*models.FoodEaten, error) {
	var rec FoodEatenRecord
	var food models.Food
	var idStr, userID, servingType, foodID, foodServingType string
	var createdAt sql.NullString

	err := row.Scan(&idStr, &userID, &rec.Date, &servingType, &rec.ServingQty,
		&foodID, &food.Name, &foodServingType, &food.ServingTypeQty, &food.Calories, &food.Fat,
		&food.SaturatedFat, &food.Sodium, &food.Carbs, &food.Fiber, &food.Sugar, &food.Protein,
		&food.Points, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan food eaten: %w", err)
	}

	rec.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse food eaten ID %q: %w", idStr, err)
	}
	food.ID, err = uuid.Parse(foodID)
	if err != nil {
		return nil, fmt.Errorf("parse food ID %q: %w", foodID, err)
	}
	food.DefaultServingType = models.ServingType(foodServingType)
	if createdAt.Valid {
		food.CreatedAt = parseTimestamp(createdAt.String)
	}
	rec.UserID = models.UserID(userID)
	rec.FoodID = food.ID
	rec.ServingType = models.ServingType(servingType)

	fe, err := rec.Resolve(food)
	if err != nil {
		return nil, fmt.Errorf("load food eaten %s: %w", idStr, err)
	}
	return fe, nil
}

// checkLogKey fails with a ConflictError when another row already holds key.
func checkLogKey(tx *sql.Tx, table, entityColumn string, key models.LogKey, id uuid.UUID) error {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE user_id = ? AND %s = ? AND date = ?`, table, entityColumn)

	var existing string
	err := tx.QueryRow(query, string(key.User), key.Entity.String(), key.Date).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check uniqueness: %w", err)
	}
	if existing != id.String() {
		return &models.ConflictError{Key: key, ExistingID: existing}
	}
	return nil
}

// mapLogWriteError turns constraint failures into domain errors.
func mapLogWriteError(err error, key models.LogKey) error {
	switch {
	case isUniqueViolation(err):
		return &models.ConflictError{Key: key}
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s %s: %w", key.Kind, key.Entity, ErrNotFound)
	default:
		return err
	}
}

// filterClause builds a WHERE clause for alias from filter.
func filterClause(alias string, filter LogFilter) (string, []interface{}) {
	clause := " WHERE 1 = 1"
	var args []interface{}
	if filter.User != "" {
		clause += " AND " + alias + ".user_id = ?"
		args = append(args, string(filter.User))
	}
	if !filter.From.IsZero() {
		clause += " AND " + alias + ".date >= ?"
		args = append(args, filter.From.String())
	}
	if !filter.To.IsZero() {
		clause += " AND " + alias + ".date <= ?"
		args = append(args, filter.To.String())
	}
	return clause, args
}
