// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool and resource handlers directly against a temp SQLite database.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const testUser = models.UserID("harper")

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "fitlog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func setupServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db := setupTestDB(t)
	server, err := NewServer(db, testUser, log.New(&strings.Builder{}))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

// seedCatalog adds pizza (285 kcal per slice), brown rice (200 kcal per cup)
// and running.
func seedCatalog(t *testing.T, server *Server) {
	t.Helper()
	ctx := context.Background()

	for _, in := range []addFoodInput{
		{Name: "Pizza", Serving: "slice", ServingQty: 1, Calories: 285, Protein: 12},
		{Name: "Brown Rice", Serving: "cup", ServingQty: 1, Calories: 200, Carbs: 44},
	} {
		if _, _, err := server.handleAddFood(ctx, &mcp.CallToolRequest{}, in); err != nil {
			t.Fatalf("add food %s: %v", in.Name, err)
		}
	}
	if _, _, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{Name: "Running", Category: "cardio"}); err != nil {
		t.Fatalf("add exercise: %v", err)
	}
}

func TestNewServer(t *testing.T) {
	db := setupTestDB(t)

	server, err := NewServer(db, testUser, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.logger == nil {
		t.Error("Expected a default logger")
	}
	if server.userOr("") != testUser {
		t.Errorf("userOr(\"\") = %s, want %s", server.userOr(""), testUser)
	}
	if server.userOr("kim") != "kim" {
		t.Errorf("userOr(kim) = %s", server.userOr("kim"))
	}
}

func TestHandleAddFood(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleAddFood(ctx, &mcp.CallToolRequest{}, addFoodInput{
		Name:       "Peanut Butter",
		Serving:    "tbsp",
		ServingQty: 2,
		Calories:   190,
		Fat:        16,
	})
	if err != nil {
		t.Fatalf("handleAddFood: %v", err)
	}

	if out.Food.DefaultServing != string(models.ServingTablespoon) {
		t.Errorf("DefaultServing = %s, want tablespoon", out.Food.DefaultServing)
	}
	if out.Food.Nutrients.Calories != 190 || out.Food.Nutrients.Fat != 16 {
		t.Errorf("Nutrients = %+v", out.Food.Nutrients)
	}
	if !strings.Contains(out.Message, "Peanut Butter") {
		t.Errorf("Message = %q", out.Message)
	}

	stored, err := db.FindFoodByName("peanut butter")
	if err != nil {
		t.Fatalf("FindFoodByName: %v", err)
	}
	if stored.ServingTypeQty != 2 {
		t.Errorf("ServingTypeQty = %v, want 2", stored.ServingTypeQty)
	}
}

func TestHandleAddFoodRejectsBadInput(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	tests := []struct {
		name  string
		input addFoodInput
	}{
		{"unknown unit", addFoodInput{Name: "Soup", Serving: "bowl", ServingQty: 1, Calories: 100}},
		{"negative calories", addFoodInput{Name: "Soup", Serving: "cup", ServingQty: 1, Calories: -1}},
		{"duplicate name", addFoodInput{Name: "PIZZA", Serving: "slice", ServingQty: 1, Calories: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleAddFood(ctx, &mcp.CallToolRequest{}, tt.input); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestHandleAddFoodZeroReferenceWarns(t *testing.T) {
	server, _ := setupServer(t)

	_, out, err := server.handleAddFood(context.Background(), &mcp.CallToolRequest{}, addFoodInput{
		Name: "Mystery", Serving: "cup", ServingQty: 0, Calories: 100,
	})
	if err != nil {
		t.Fatalf("handleAddFood: %v", err)
	}
	if !strings.Contains(out.Message, "zero") {
		t.Errorf("Message = %q, want zero-reference note", out.Message)
	}
}

func TestHandleListFoods(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	_, out, err := server.handleListFoods(ctx, &mcp.CallToolRequest{}, listInput{Search: "rice"})
	if err != nil {
		t.Fatalf("handleListFoods: %v", err)
	}
	foods, ok := out.([]foodView)
	if !ok {
		t.Fatalf("output type = %T, want []foodView", out)
	}
	if len(foods) != 1 || foods[0].Name != "Brown Rice" {
		t.Errorf("foods = %+v", foods)
	}
}

func TestHandleListFoodsEmpty(t *testing.T) {
	server, _ := setupServer(t)

	_, out, err := server.handleListFoods(context.Background(), &mcp.CallToolRequest{}, listInput{})
	if err != nil {
		t.Fatalf("handleListFoods: %v", err)
	}
	msg, ok := out.(map[string]any)
	if !ok || msg["message"] != "No foods found." {
		t.Errorf("output = %v", out)
	}
}

func TestHandleListExercises(t *testing.T) {
	server, _ := setupServer(t)
	seedCatalog(t, server)

	_, out, err := server.handleListExercises(context.Background(), &mcp.CallToolRequest{}, listInput{})
	if err != nil {
		t.Fatalf("handleListExercises: %v", err)
	}
	exercises, ok := out.([]exerciseView)
	if !ok {
		t.Fatalf("output type = %T, want []exerciseView", out)
	}
	if len(exercises) != 1 || exercises[0].Category != "cardio" {
		t.Errorf("exercises = %+v", exercises)
	}
}

func TestHandleLogFood(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	tests := []struct {
		name     string
		input    logFoodInput
		calories int
		unit     string
	}{
		{"default unit", logFoodInput{Food: "pizza", Qty: 2, Date: "2024-03-01"}, 570, "slice"},
		{"converted unit", logFoodInput{Food: "Brown Rice", Qty: 4, Unit: "oz", Date: "2024-03-01"}, 100, "ounce"},
		{"uncountable to countable", logFoodInput{Food: "Pizza", Qty: 4, Unit: "oz", Date: "2024-03-02"}, 0, "ounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, tt.input)
			if err != nil {
				t.Fatalf("handleLogFood: %v", err)
			}
			if out.Entry.Calories != tt.calories {
				t.Errorf("Calories = %d, want %d", out.Entry.Calories, tt.calories)
			}
			if out.Entry.ServingType != tt.unit {
				t.Errorf("ServingType = %s, want %s", out.Entry.ServingType, tt.unit)
			}
			if out.Entry.User != string(testUser) {
				t.Errorf("User = %s, want %s", out.Entry.User, testUser)
			}
			if out.Merged {
				t.Error("Expected a new entry")
			}
		})
	}
}

func TestHandleLogFoodDuplicate(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	in := logFoodInput{Food: "Pizza", Qty: 1, Date: "2024-03-01"}
	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, in); err != nil {
		t.Fatalf("first log: %v", err)
	}

	_, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, in)
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("second log err = %v, want ErrDuplicate", err)
	}

	in.User = "kim"
	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, in); err != nil {
		t.Errorf("same food and day for another user: %v", err)
	}
}

func TestHandleLogFoodMerge(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Food: "Brown Rice", Qty: 1, Date: "2024-03-01"}); err != nil {
		t.Fatalf("first log: %v", err)
	}

	_, out, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{
		Food: "Brown Rice", Qty: 4, Unit: "ounce", Date: "2024-03-01", Merge: true,
	})
	if err != nil {
		t.Fatalf("merge log: %v", err)
	}
	if !out.Merged {
		t.Error("Expected merge")
	}
	if out.Entry.ServingQty != 1.5 || out.Entry.ServingType != "cup" {
		t.Errorf("serving = %v %s, want 1.5 cup", out.Entry.ServingQty, out.Entry.ServingType)
	}
	if out.Entry.Calories != 300 {
		t.Errorf("Calories = %d, want 300", out.Entry.Calories)
	}

	entries, err := db.ListFoodEaten(storage.LogFilter{User: testUser})
	if err != nil {
		t.Fatalf("ListFoodEaten: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestHandleLogFoodUnknownFood(t *testing.T) {
	server, _ := setupServer(t)

	_, _, err := server.handleLogFood(context.Background(), &mcp.CallToolRequest{}, logFoodInput{Food: "nachos", Qty: 1})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHandleLogFoodBadDate(t *testing.T) {
	server, _ := setupServer(t)
	seedCatalog(t, server)

	_, _, err := server.handleLogFood(context.Background(), &mcp.CallToolRequest{}, logFoodInput{Food: "Pizza", Qty: 1, Date: "03/01/2024"})
	if err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestHandleLogExercise(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	in := logExerciseInput{Exercise: "running", Minutes: 30, Date: "2024-03-01"}
	_, out, err := server.handleLogExercise(ctx, &mcp.CallToolRequest{}, in)
	if err != nil {
		t.Fatalf("handleLogExercise: %v", err)
	}
	if out.Entry.Minutes != 30 || out.Entry.Exercise != "Running" {
		t.Errorf("Entry = %+v", out.Entry)
	}

	if _, _, err := server.handleLogExercise(ctx, &mcp.CallToolRequest{}, in); !errors.Is(err, models.ErrDuplicate) {
		t.Errorf("duplicate err = %v, want ErrDuplicate", err)
	}

	in.Minutes = 15
	in.Merge = true
	_, out, err = server.handleLogExercise(ctx, &mcp.CallToolRequest{}, in)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !out.Merged || out.Entry.Minutes != 45 {
		t.Errorf("merged entry = %+v", out.Entry)
	}

	in.Minutes = -5
	in.Merge = false
	in.Date = "2024-03-02"
	if _, _, err := server.handleLogExercise(ctx, &mcp.CallToolRequest{}, in); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("negative minutes err = %v, want ErrInvalidArgument", err)
	}
}

func TestHandleUpdateEntry(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	_, logged, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Food: "Pizza", Qty: 1, Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	qty := 3.0
	_, out, err := server.handleUpdateEntry(ctx, &mcp.CallToolRequest{}, updateEntryInput{
		ID:   logged.Entry.ID[:8],
		Qty:  &qty,
		Date: "2024-03-02",
	})
	if err != nil {
		t.Fatalf("handleUpdateEntry: %v", err)
	}
	if !strings.Contains(out.Message, "855 kcal") {
		t.Errorf("Message = %q, want 855 kcal", out.Message)
	}

	fe, err := db.GetFoodEaten(logged.Entry.ID)
	if err != nil {
		t.Fatalf("GetFoodEaten: %v", err)
	}
	if fe.ServingQty() != 3 || fe.Date() != models.DateOf(2024, 3, 2) {
		t.Errorf("stored entry = %v on %s", fe.ServingQty(), fe.Date())
	}

	minutes := 10
	if _, _, err := server.handleUpdateEntry(ctx, &mcp.CallToolRequest{}, updateEntryInput{ID: logged.Entry.ID, Minutes: &minutes}); err == nil {
		t.Error("Expected error setting minutes on a food entry")
	}
}

func TestHandleUpdateEntryConflict(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Food: "Pizza", Qty: 1, Date: "2024-03-01"}); err != nil {
		t.Fatalf("log: %v", err)
	}
	_, second, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Food: "Pizza", Qty: 2, Date: "2024-03-02"})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	_, _, err = server.handleUpdateEntry(ctx, &mcp.CallToolRequest{}, updateEntryInput{ID: second.Entry.ID, Date: "2024-03-01"})
	if !errors.Is(err, models.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}

func TestHandleDeleteEntry(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	_, logged, err := server.handleLogExercise(ctx, &mcp.CallToolRequest{}, logExerciseInput{Exercise: "Running", Minutes: 20})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	_, out, err := server.handleDeleteEntry(ctx, &mcp.CallToolRequest{}, deleteEntryInput{ID: logged.Entry.ID[:8]})
	if err != nil {
		t.Fatalf("handleDeleteEntry: %v", err)
	}
	if !strings.Contains(out.Message, "exercise") {
		t.Errorf("Message = %q", out.Message)
	}

	if _, err := db.GetExercisePerformed(logged.Entry.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}

	if _, _, err := server.handleDeleteEntry(ctx, &mcp.CallToolRequest{}, deleteEntryInput{ID: "ffffffff"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing entry err = %v, want ErrNotFound", err)
	}
}

func TestHandleGetDay(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	logs := []logFoodInput{
		{Food: "Pizza", Qty: 2, Date: "2024-03-01"},
		{Food: "Brown Rice", Qty: 4, Unit: "oz", Date: "2024-03-01"},
		{Food: "Pizza", Qty: 1, Date: "2024-03-02"},
		{Food: "Pizza", Qty: 5, Date: "2024-03-01", User: "kim"},
	}
	for _, in := range logs {
		if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, in); err != nil {
			t.Fatalf("log %+v: %v", in, err)
		}
	}
	if _, _, err := server.handleLogExercise(ctx, &mcp.CallToolRequest{}, logExerciseInput{Exercise: "Running", Minutes: 30, Date: "2024-03-01"}); err != nil {
		t.Fatalf("log exercise: %v", err)
	}

	_, day, err := server.handleGetDay(ctx, &mcp.CallToolRequest{}, getDayInput{Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("handleGetDay: %v", err)
	}

	if len(day.Foods) != 2 {
		t.Errorf("Foods = %d, want 2", len(day.Foods))
	}
	if day.Calories != 670 {
		t.Errorf("Calories = %d, want 670", day.Calories)
	}
	if day.Minutes != 30 {
		t.Errorf("Minutes = %d, want 30", day.Minutes)
	}
	if day.Totals.Protein != 24 {
		t.Errorf("Protein = %v, want 24", day.Totals.Protein)
	}
}

func TestHandleGetDayEmpty(t *testing.T) {
	server, _ := setupServer(t)

	_, day, err := server.handleGetDay(context.Background(), &mcp.CallToolRequest{}, getDayInput{Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("handleGetDay: %v", err)
	}
	if day.Foods == nil || day.Exercises == nil {
		t.Error("Expected empty, non-nil entry lists")
	}
	if day.Calories != 0 || day.Date != "2024-01-01" {
		t.Errorf("day = %+v", day)
	}
}

func TestHandleGetReport(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	for _, in := range []logFoodInput{
		{Food: "Pizza", Qty: 2, Date: "2024-03-01"},
		{Food: "Pizza", Qty: 1, Date: "2024-03-03"},
		{Food: "Pizza", Qty: 1, Date: "2024-03-09"},
	} {
		if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, in); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	_, r, err := server.handleGetReport(ctx, &mcp.CallToolRequest{}, getReportInput{From: "2024-03-01", To: "2024-03-03"})
	if err != nil {
		t.Fatalf("handleGetReport: %v", err)
	}
	if len(r.Days) != 2 {
		t.Errorf("Days = %d, want 2", len(r.Days))
	}
	if r.Total.Calories != 855 {
		t.Errorf("Total calories = %v, want 855", r.Total.Calories)
	}
	if r.Average.Calories != 285 {
		t.Errorf("Average calories = %v, want 285", r.Average.Calories)
	}

	if _, _, err := server.handleGetReport(ctx, &mcp.CallToolRequest{}, getReportInput{From: "2024-03-03", To: "2024-03-01"}); err == nil {
		t.Error("Expected error for reversed range")
	}
}

func TestHandleTodayResource(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	seedCatalog(t, server)

	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Food: "Pizza", Qty: 1}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Food: "Brown Rice", Qty: 1, Date: "2020-01-01"}); err != nil {
		t.Fatalf("log: %v", err)
	}

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleTodayResource: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Contents = %d, want 1", len(result.Contents))
	}
	if result.Contents[0].URI != todayURI {
		t.Errorf("URI = %s, want %s", result.Contents[0].URI, todayURI)
	}

	var day dayView
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &day); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if day.Date != models.Today().String() {
		t.Errorf("Date = %s, want today", day.Date)
	}
	if len(day.Foods) != 1 || day.Calories != 285 {
		t.Errorf("today = %+v", day)
	}
}

func TestHandleCatalogResource(t *testing.T) {
	server, _ := setupServer(t)
	seedCatalog(t, server)

	result, err := server.handleCatalogResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleCatalogResource: %v", err)
	}
	if result.Contents[0].URI != catalogURI || result.Contents[0].MIMEType != "application/json" {
		t.Errorf("contents = %+v", result.Contents[0])
	}

	var cat struct {
		Foods     []foodView     `json:"foods"`
		Exercises []exerciseView `json:"exercises"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &cat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cat.Foods) != 2 || len(cat.Exercises) != 1 {
		t.Errorf("catalog = %d foods, %d exercises", len(cat.Foods), len(cat.Exercises))
	}
}
