// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the catalog tables and the two log tables with their uniqueness constraints.
package storage

const (
	tableFoods             = "foods"
	tableExercises         = "exercises"
	tableFoodEaten         = "food_eaten"
	tableExercisePerformed = "exercise_performed"
)

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS foods (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		default_serving_type TEXT NOT NULL,
		serving_type_qty REAL NOT NULL,
		calories INTEGER NOT NULL DEFAULT 0,
		fat REAL NOT NULL DEFAULT 0,
		saturated_fat REAL NOT NULL DEFAULT 0,
		sodium REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0,
		fiber REAL NOT NULL DEFAULT 0,
		sugar REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		points REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		category TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS food_eaten (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		food_id TEXT NOT NULL,
		date TEXT NOT NULL,
		serving_type TEXT NOT NULL,
		serving_qty REAL NOT NULL,
		FOREIGN KEY (food_id) REFERENCES foods(id) ON DELETE RESTRICT,
		UNIQUE (user_id, food_id, date)
	);

	CREATE TABLE IF NOT EXISTS exercise_performed (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		date TEXT NOT NULL,
		minutes INTEGER NOT NULL,
		FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE RESTRICT,
		UNIQUE (user_id, exercise_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_food_eaten_user_date ON food_eaten(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_exercise_performed_user_date ON exercise_performed(user_id, date);
	`

	_, err := d.db.Exec(schema)
	return err
}
