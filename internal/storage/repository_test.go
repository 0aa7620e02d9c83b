// ABOUTME: Tests for Repository interface implementations.
// ABOUTME: Verifies catalog and log CRUD, uniqueness, and prefix lookup using SQLite.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/fitlog/internal/models"
)

func TestCreateAndGetFood(t *testing.T) {
	db := setupTestDB(t)

	f := models.NewFood("Pizza", models.ServingSlice, 1).WithNutrients(models.Nutrients{
		Calories: 285, Fat: 10.4, Carbs: 35.7, Protein: 12.2, Points: 8,
	})
	if err := db.CreateFood(f); err != nil {
		t.Fatalf("CreateFood failed: %v", err)
	}

	got, err := db.GetFood(f.ID.String())
	if err != nil {
		t.Fatalf("GetFood failed: %v", err)
	}
	if got.ID != f.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, f.ID)
	}
	if got.Name != "Pizza" {
		t.Errorf("Name mismatch: got %q, want Pizza", got.Name)
	}
	if got.DefaultServingType != models.ServingSlice {
		t.Errorf("DefaultServingType mismatch: got %v, want slice", got.DefaultServingType)
	}
	if got.Calories != 285 || got.Protein != 12.2 {
		t.Errorf("nutrients mismatch: got %d kcal %.1f protein", got.Calories, got.Protein)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestGetFoodByPrefix(t *testing.T) {
	db := setupTestDB(t)

	f := createTestFood(t, db, "Apple", models.ServingPiece, 1, 95)

	got, err := db.GetFood(f.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetFood by prefix failed: %v", err)
	}
	if got.ID != f.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, f.ID)
	}

	if _, err := db.GetFood("zzzzzzzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown prefix, got %v", err)
	}
}

func TestResolveIDCaseAndWildcards(t *testing.T) {
	db := setupTestDB(t)

	apple := createTestFood(t, db, "Apple", models.ServingPiece, 1, 95)
	createTestFood(t, db, "Banana", models.ServingPiece, 1, 105)

	for _, ref := range []string{
		strings.ToUpper(apple.ID.String()),
		strings.ToUpper(apple.ID.String()[:8]),
		" " + apple.ID.String() + " ",
	} {
		got, err := db.GetFood(ref)
		if err != nil {
			t.Fatalf("GetFood(%q) failed: %v", ref, err)
		}
		if got.ID != apple.ID {
			t.Errorf("GetFood(%q) = %v, want %v", ref, got.ID, apple.ID)
		}
	}

	// LIKE wildcards in the input match only themselves.
	for _, ref := range []string{"%", "_", "________", apple.ID.String()[:4] + "%"} {
		if _, err := db.GetFood(ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetFood(%q) err = %v, want ErrNotFound", ref, err)
		}
	}
}

func TestFoodNamesAreUnique(t *testing.T) {
	db := setupTestDB(t)

	createTestFood(t, db, "Oatmeal", models.ServingCup, 1, 150)

	dup := models.NewFood("oatmeal", models.ServingCup, 0.5)
	err := db.CreateFood(dup)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	got, err := db.FindFoodByName("OATMEAL")
	if err != nil {
		t.Fatalf("FindFoodByName failed: %v", err)
	}
	if got.Name != "Oatmeal" {
		t.Errorf("expected Oatmeal, got %q", got.Name)
	}
}

func TestCreateFoodRejectsInvalid(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name string
		food *models.Food
	}{
		{"empty name", models.NewFood("", models.ServingCup, 1)},
		{"unknown serving type", models.NewFood("Soup", models.ServingType("bowl"), 1)},
		{"negative qty", models.NewFood("Soup", models.ServingCup, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.CreateFood(tt.food)
			if !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestListFoods(t *testing.T) {
	db := setupTestDB(t)

	createTestFood(t, db, "Banana", models.ServingPiece, 1, 105)
	createTestFood(t, db, "apple pie", models.ServingSlice, 1, 296)
	createTestFood(t, db, "Apple", models.ServingPiece, 1, 95)

	all, err := db.ListFoods("", 0)
	if err != nil {
		t.Fatalf("ListFoods failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 foods, got %d", len(all))
	}
	if all[0].Name != "Apple" || all[1].Name != "apple pie" || all[2].Name != "Banana" {
		t.Errorf("unexpected order: %s, %s, %s", all[0].Name, all[1].Name, all[2].Name)
	}

	apples, err := db.ListFoods("apple", 0)
	if err != nil {
		t.Fatalf("ListFoods search failed: %v", err)
	}
	if len(apples) != 2 {
		t.Errorf("expected 2 apple foods, got %d", len(apples))
	}

	limited, err := db.ListFoods("", 1)
	if err != nil {
		t.Fatalf("ListFoods limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 food with limit, got %d", len(limited))
	}
}

func TestDeleteFoodInUse(t *testing.T) {
	db := setupTestDB(t)

	f := createTestFood(t, db, "Toast", models.ServingSlice, 1, 80)
	fe, err := models.NewFoodEaten(models.GenerateID(), "harper", *f, models.DateOf(2024, 3, 1), models.ServingSlice, 2)
	if err != nil {
		t.Fatalf("NewFoodEaten failed: %v", err)
	}
	if err := db.CreateFoodEaten(fe); err != nil {
		t.Fatalf("CreateFoodEaten failed: %v", err)
	}

	if err := db.DeleteFood(f.ID.String()); !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}

	if err := db.DeleteFoodEaten(fe.ID().String()); err != nil {
		t.Fatalf("DeleteFoodEaten failed: %v", err)
	}
	if err := db.DeleteFood(f.ID.String()); err != nil {
		t.Fatalf("DeleteFood failed after log entry removed: %v", err)
	}
	if _, err := db.GetFood(f.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateAndGetExercise(t *testing.T) {
	db := setupTestDB(t)

	e := models.NewExercise("Running").WithCategory("cardio")
	if err := db.CreateExercise(e); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}

	got, err := db.GetExercise(e.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetExercise failed: %v", err)
	}
	if got.Name != "Running" || got.Category != "cardio" {
		t.Errorf("unexpected exercise: %+v", got)
	}

	plain := models.NewExercise("Yoga")
	if err := db.CreateExercise(plain); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}
	got, err = db.FindExerciseByName("yoga")
	if err != nil {
		t.Fatalf("FindExerciseByName failed: %v", err)
	}
	if got.Category != "" {
		t.Errorf("expected empty category, got %q", got.Category)
	}

	if err := db.CreateExercise(models.NewExercise("RUNNING")); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestFoodEatenRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	f := createTestFood(t, db, "Rice", models.ServingCup, 1, 200)
	date := models.DateOf(2024, 3, 1)
	fe, err := models.NewFoodEaten(models.GenerateID(), "harper", *f, date, models.ServingOunce, 4)
	if err != nil {
		t.Fatalf("NewFoodEaten failed: %v", err)
	}
	if err := db.CreateFoodEaten(fe); err != nil {
		t.Fatalf("CreateFoodEaten failed: %v", err)
	}

	got, err := db.GetFoodEaten(fe.ID().String()[:8])
	if err != nil {
		t.Fatalf("GetFoodEaten failed: %v", err)
	}
	if got.ID() != fe.ID() {
		t.Errorf("ID mismatch: got %v, want %v", got.ID(), fe.ID())
	}
	if !got.Date().Equal(date) {
		t.Errorf("Date mismatch: got %v, want %v", got.Date(), date)
	}
	if got.ServingType() != models.ServingOunce || got.ServingQty() != 4 {
		t.Errorf("serving mismatch: got %v %v", got.ServingQty(), got.ServingType())
	}
	// 4 oz of a 1 cup (8 oz) reference is half the reference calories.
	if got.Calories() != 100 {
		t.Errorf("Calories = %d, want 100", got.Calories())
	}

	byKey, err := db.FindFoodEaten(fe.Key())
	if err != nil {
		t.Fatalf("FindFoodEaten failed: %v", err)
	}
	if byKey.ID() != fe.ID() {
		t.Errorf("FindFoodEaten returned %v, want %v", byKey.ID(), fe.ID())
	}
}

func TestFoodEatenUniqueness(t *testing.T) {
	db := setupTestDB(t)

	f := createTestFood(t, db, "Coffee", models.ServingCup, 1, 2)
	date := models.DateOf(2024, 3, 1)

	first, _ := models.NewFoodEaten(models.GenerateID(), "harper", *f, date, models.ServingCup, 1)
	if err := db.CreateFoodEaten(first); err != nil {
		t.Fatalf("CreateFoodEaten failed: %v", err)
	}

	second, _ := models.NewFoodEaten(models.GenerateID(), "harper", *f, date, models.ServingCup, 2)
	err := db.CreateFoodEaten(second)
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	var conflict *models.ConflictError
	if !errors.As(err, &conflict) || conflict.ExistingID != first.ID().String() {
		t.Errorf("expected conflict naming %s, got %v", first.ID(), err)
	}

	// A different user or a different day is a distinct key.
	other, _ := models.NewFoodEaten(models.GenerateID(), "alex", *f, date, models.ServingCup, 1)
	if err := db.CreateFoodEaten(other); err != nil {
		t.Errorf("other user should not conflict: %v", err)
	}
	nextDay, _ := models.NewFoodEaten(models.GenerateID(), "harper", *f, date.AddDays(1), models.ServingCup, 1)
	if err := db.CreateFoodEaten(nextDay); err != nil {
		t.Errorf("next day should not conflict: %v", err)
	}

	// Moving an entry onto an occupied key is rejected.
	if err := nextDay.SetDate(date); err != nil {
		t.Fatalf("SetDate failed: %v", err)
	}
	if err := db.UpdateFoodEaten(nextDay); !errors.Is(err, models.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate on update, got %v", err)
	}
}

func TestUpdateFoodEaten(t *testing.T) {
	db := setupTestDB(t)

	f := createTestFood(t, db, "Milk", models.ServingCup, 1, 120)
	fe, _ := models.NewFoodEaten(models.GenerateID(), "harper", *f, models.DateOf(2024, 3, 1), models.ServingCup, 1)
	if err := db.CreateFoodEaten(fe); err != nil {
		t.Fatalf("CreateFoodEaten failed: %v", err)
	}

	if err := fe.SetServingQty(2.5); err != nil {
		t.Fatalf("SetServingQty failed: %v", err)
	}
	if err := db.UpdateFoodEaten(fe); err != nil {
		t.Fatalf("UpdateFoodEaten failed: %v", err)
	}

	got, err := db.GetFoodEaten(fe.ID().String())
	if err != nil {
		t.Fatalf("GetFoodEaten failed: %v", err)
	}
	if got.ServingQty() != 2.5 {
		t.Errorf("ServingQty = %v, want 2.5", got.ServingQty())
	}
	if got.Calories() != 300 {
		t.Errorf("Calories = %d, want 300", got.Calories())
	}

	missing, _ := models.NewFoodEaten(models.GenerateID(), "harper", *f, models.DateOf(2024, 4, 1), models.ServingCup, 1)
	if err := db.UpdateFoodEaten(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound updating unknown entry, got %v", err)
	}
}

func TestCreateFoodEatenUnknownFood(t *testing.T) {
	db := setupTestDB(t)

	ghost := models.NewFood("Ghost", models.ServingCup, 1)
	fe, _ := models.NewFoodEaten(models.GenerateID(), "harper", *ghost, models.DateOf(2024, 3, 1), models.ServingCup, 1)
	if err := db.CreateFoodEaten(fe); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown food, got %v", err)
	}
}

func TestListFoodEatenFilter(t *testing.T) {
	db := setupTestDB(t)

	f := createTestFood(t, db, "Egg", models.ServingPiece, 1, 70)
	g := createTestFood(t, db, "Bacon", models.ServingSlice, 1, 43)

	entries := []struct {
		user models.UserID
		food *models.Food
		date models.Date
	}{
		{"harper", f, models.DateOf(2024, 3, 1)},
		{"harper", g, models.DateOf(2024, 3, 1)},
		{"harper", f, models.DateOf(2024, 3, 2)},
		{"harper", f, models.DateOf(2024, 3, 5)},
		{"alex", f, models.DateOf(2024, 3, 2)},
	}
	for _, e := range entries {
		fe, err := models.NewFoodEaten(models.GenerateID(), e.user, *e.food, e.date, models.ServingPiece, 1)
		if err != nil {
			t.Fatalf("NewFoodEaten failed: %v", err)
		}
		if err := db.CreateFoodEaten(fe); err != nil {
			t.Fatalf("CreateFoodEaten failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter LogFilter
		want   int
	}{
		{"everything", LogFilter{}, 5},
		{"one user", LogFilter{User: "harper"}, 4},
		{"single day", Day("harper", models.DateOf(2024, 3, 1)), 2},
		{"range", LogFilter{User: "harper", From: models.DateOf(2024, 3, 2), To: models.DateOf(2024, 3, 4)}, 1},
		{"open end", LogFilter{From: models.DateOf(2024, 3, 2)}, 3},
		{"limit", LogFilter{Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListFoodEaten(tt.filter)
			if err != nil {
				t.Fatalf("ListFoodEaten failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d entries, want %d", len(got), tt.want)
			}
		})
	}

	day, err := db.ListFoodEaten(Day("harper", models.DateOf(2024, 3, 1)))
	if err != nil {
		t.Fatalf("ListFoodEaten failed: %v", err)
	}
	if day[0].Food().Name != "Bacon" {
		t.Errorf("expected entries sorted by food name, got %s first", day[0].Food().Name)
	}
}

func TestExercisePerformedCRUD(t *testing.T) {
	db := setupTestDB(t)

	e := models.NewExercise("Cycling")
	if err := db.CreateExercise(e); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}
	date := models.DateOf(2024, 3, 1)

	ep, err := models.NewExercisePerformed(models.GenerateID(), "harper", *e, date, 45)
	if err != nil {
		t.Fatalf("NewExercisePerformed failed: %v", err)
	}
	if err := db.CreateExercisePerformed(ep); err != nil {
		t.Fatalf("CreateExercisePerformed failed: %v", err)
	}

	dup, _ := models.NewExercisePerformed(models.GenerateID(), "harper", *e, date, 10)
	if err := db.CreateExercisePerformed(dup); !errors.Is(err, models.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	if err := ep.SetMinutes(60); err != nil {
		t.Fatalf("SetMinutes failed: %v", err)
	}
	if err := db.UpdateExercisePerformed(ep); err != nil {
		t.Fatalf("UpdateExercisePerformed failed: %v", err)
	}

	got, err := db.FindExercisePerformed(ep.Key())
	if err != nil {
		t.Fatalf("FindExercisePerformed failed: %v", err)
	}
	if got.Minutes() != 60 {
		t.Errorf("Minutes = %d, want 60", got.Minutes())
	}
	if got.Exercise().Name != "Cycling" {
		t.Errorf("Exercise = %q, want Cycling", got.Exercise().Name)
	}

	list, err := db.ListExercisePerformed(Day("harper", date))
	if err != nil {
		t.Fatalf("ListExercisePerformed failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}

	if err := db.DeleteExercise(e.ID.String()); !errors.Is(err, ErrInUse) {
		t.Errorf("expected ErrInUse, got %v", err)
	}
	if err := db.DeleteExercisePerformed(ep.ID().String()[:8]); err != nil {
		t.Fatalf("DeleteExercisePerformed failed: %v", err)
	}
	if _, err := db.GetExercisePerformed(ep.ID().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestLogFilterMatches(t *testing.T) {
	mar1 := models.DateOf(2024, 3, 1)
	mar5 := models.DateOf(2024, 3, 5)

	tests := []struct {
		name   string
		filter LogFilter
		user   models.UserID
		date   models.Date
		want   bool
	}{
		{"empty filter", LogFilter{}, "harper", mar1, true},
		{"wrong user", LogFilter{User: "alex"}, "harper", mar1, false},
		{"before range", LogFilter{From: mar5}, "harper", mar1, false},
		{"after range", LogFilter{To: mar1}, "harper", mar5, false},
		{"inclusive bounds", LogFilter{From: mar1, To: mar5}, "harper", mar5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.user, tt.date); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDatabaseFilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "fitlog.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("expected database file to exist: %v", err)
	}
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fitlog-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "fitlog.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func createTestFood(t *testing.T, repo Repository, name string, st models.ServingType, qty float64, calories int) *models.Food {
	t.Helper()

	f := models.NewFood(name, st, qty)
	f.Calories = calories
	f.CreatedAt = time.Now().Add(-time.Minute)
	if err := repo.CreateFood(f); err != nil {
		t.Fatalf("CreateFood(%s) failed: %v", name, err)
	}
	return f
}
