// ABOUTME: MCP tool implementations for the food and exercise log.
// ABOUTME: Provides catalog management, logging, editing, and daily/range reports.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/report"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// add_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_food",
		Description: "Add a food to the catalog with nutrients for a reference serving",
	}, s.handleAddFood)

	// list_foods
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_foods",
		Description: "List catalog foods, optionally filtered by name",
	}, s.handleListFoods)

	// add_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise type to the catalog",
	}, s.handleAddExercise)

	// list_exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List catalog exercises, optionally filtered by name",
	}, s.handleListExercises)

	// log_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food",
		Description: "Log a serving of a catalog food for a day",
	}, s.handleLogFood)

	// log_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_exercise",
		Description: "Log minutes of a catalog exercise for a day",
	}, s.handleLogExercise)

	// update_entry
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_entry",
		Description: "Change the serving, minutes, or date of a logged entry",
	}, s.handleUpdateEntry)

	// delete_entry
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_entry",
		Description: "Delete a logged food or exercise entry by ID or ID prefix",
	}, s.handleDeleteEntry)

	// get_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_day",
		Description: "Get one day's entries and nutrient totals",
	}, s.handleGetDay)

	// get_report
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_report",
		Description: "Get per-day totals, range totals, and daily averages for a date range",
	}, s.handleGetReport)
}

// Tool input/output types

type addFoodInput struct {
	Name         string  `json:"name" jsonschema:"Food name, unique in the catalog"`
	Serving      string  `json:"serving" jsonschema:"Reference serving unit (ounce, cup, pound, piece, slice, tablespoon, teaspoon, gram)"`
	ServingQty   float64 `json:"serving_qty" jsonschema:"Number of reference units the nutrient values describe"`
	Calories     int     `json:"calories" jsonschema:"Calories in the reference serving"`
	Fat          float64 `json:"fat,omitempty" jsonschema:"Fat in grams"`
	SaturatedFat float64 `json:"saturated_fat,omitempty" jsonschema:"Saturated fat in grams"`
	Sodium       float64 `json:"sodium,omitempty" jsonschema:"Sodium in milligrams"`
	Carbs        float64 `json:"carbs,omitempty" jsonschema:"Carbohydrates in grams"`
	Fiber        float64 `json:"fiber,omitempty" jsonschema:"Fiber in grams"`
	Sugar        float64 `json:"sugar,omitempty" jsonschema:"Sugar in grams"`
	Protein      float64 `json:"protein,omitempty" jsonschema:"Protein in grams"`
	Points       float64 `json:"points,omitempty" jsonschema:"Diet points"`
}

type foodOutput struct {
	Food    foodView `json:"food"`
	Message string   `json:"message"`
}

type listInput struct {
	Search string `json:"search,omitempty" jsonschema:"Case-insensitive name filter"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type addExerciseInput struct {
	Name     string `json:"name" jsonschema:"Exercise name, unique in the catalog"`
	Category string `json:"category,omitempty" jsonschema:"Optional category (cardio, strength, etc.)"`
}

type exerciseOutput struct {
	Exercise exerciseView `json:"exercise"`
	Message  string       `json:"message"`
}

type logFoodInput struct {
	Food  string  `json:"food" jsonschema:"Food name or ID prefix"`
	Qty   float64 `json:"qty" jsonschema:"Quantity eaten"`
	Unit  string  `json:"unit,omitempty" jsonschema:"Serving unit, defaults to the food's reference unit"`
	Date  string  `json:"date,omitempty" jsonschema:"Day eaten (YYYY-MM-DD), defaults to today"`
	User  string  `json:"user,omitempty" jsonschema:"User to log for, defaults to the server user"`
	Merge bool    `json:"merge,omitempty" jsonschema:"Add to an existing entry for the same food and day instead of failing"`
}

type foodEntryOutput struct {
	Entry   foodEntryView `json:"entry"`
	Merged  bool          `json:"merged"`
	Message string        `json:"message"`
}

type logExerciseInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name or ID prefix"`
	Minutes  int    `json:"minutes" jsonschema:"Minutes performed"`
	Date     string `json:"date,omitempty" jsonschema:"Day performed (YYYY-MM-DD), defaults to today"`
	User     string `json:"user,omitempty" jsonschema:"User to log for, defaults to the server user"`
	Merge    bool   `json:"merge,omitempty" jsonschema:"Add to an existing entry for the same exercise and day instead of failing"`
}

type exerciseEntryOutput struct {
	Entry   exerciseEntryView `json:"entry"`
	Merged  bool              `json:"merged"`
	Message string            `json:"message"`
}

type updateEntryInput struct {
	ID      string   `json:"id" jsonschema:"Entry ID or ID prefix"`
	Qty     *float64 `json:"qty,omitempty" jsonschema:"New quantity (food entries)"`
	Unit    string   `json:"unit,omitempty" jsonschema:"New serving unit (food entries)"`
	Minutes *int     `json:"minutes,omitempty" jsonschema:"New minutes (exercise entries)"`
	Date    string   `json:"date,omitempty" jsonschema:"New day (YYYY-MM-DD)"`
}

type deleteEntryInput struct {
	ID string `json:"id" jsonschema:"Entry ID or ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type getDayInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
	User string `json:"user,omitempty" jsonschema:"User, defaults to the server user"`
}

type getReportInput struct {
	From string `json:"from" jsonschema:"First day (YYYY-MM-DD)"`
	To   string `json:"to,omitempty" jsonschema:"Last day (YYYY-MM-DD), defaults to today"`
	User string `json:"user,omitempty" jsonschema:"User, defaults to the server user"`
}

// Tool handlers

func (s *Server) handleAddFood(ctx context.Context, req *mcp.CallToolRequest, input addFoodInput) (*mcp.CallToolResult, foodOutput, error) {
	st, err := models.ParseServingType(input.Serving)
	if err != nil {
		return nil, foodOutput{}, err
	}

	f := models.NewFood(input.Name, st, input.ServingQty).WithNutrients(models.Nutrients{
		Calories:     float64(input.Calories),
		Fat:          input.Fat,
		SaturatedFat: input.SaturatedFat,
		Sodium:       input.Sodium,
		Carbs:        input.Carbs,
		Fiber:        input.Fiber,
		Sugar:        input.Sugar,
		Protein:      input.Protein,
		Points:       input.Points,
	})

	if err := s.repo.CreateFood(f); err != nil {
		return nil, foodOutput{}, fmt.Errorf("failed to add food: %w", err)
	}

	msg := fmt.Sprintf("Added %s: %d kcal per %g %s (ID: %s)", f.Name, f.Calories, f.ServingTypeQty, f.DefaultServingType, f.ID.String()[:8])
	if f.ReferenceIsZero() {
		s.logger.Warn("food has a zero reference serving", "food", f.Name)
		msg += "; reference serving is zero so logged amounts will scale to 0"
	}

	return nil, foodOutput{Food: newFoodView(f), Message: msg}, nil
}

func (s *Server) handleListFoods(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	foods, err := s.repo.ListFoods(input.Search, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list foods: %w", err)
	}

	if len(foods) == 0 {
		return nil, map[string]any{"message": "No foods found."}, nil
	}

	views := make([]foodView, 0, len(foods))
	for _, f := range foods {
		views = append(views, newFoodView(f))
	}
	return nil, views, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	e := models.NewExercise(input.Name).WithCategory(input.Category)

	if err := s.repo.CreateExercise(e); err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}

	return nil, exerciseOutput{
		Exercise: newExerciseView(e),
		Message:  fmt.Sprintf("Added exercise %s (ID: %s)", e.Name, e.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	exercises, err := s.repo.ListExercises(input.Search, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	if len(exercises) == 0 {
		return nil, map[string]any{"message": "No exercises found."}, nil
	}

	views := make([]exerciseView, 0, len(exercises))
	for _, e := range exercises {
		views = append(views, newExerciseView(e))
	}
	return nil, views, nil
}

func (s *Server) handleLogFood(ctx context.Context, req *mcp.CallToolRequest, input logFoodInput) (*mcp.CallToolResult, foodEntryOutput, error) {
	food, err := storage.ResolveFood(s.repo, input.Food)
	if err != nil {
		return nil, foodEntryOutput{}, err
	}

	st := food.DefaultServingType
	if input.Unit != "" {
		if st, err = models.ParseServingType(input.Unit); err != nil {
			return nil, foodEntryOutput{}, err
		}
	}

	date, err := parseDateOr(input.Date, models.Today())
	if err != nil {
		return nil, foodEntryOutput{}, err
	}

	fe, merged, err := storage.LogFood(s.repo, s.userOr(input.User), *food, date, st, input.Qty, input.Merge)
	if err != nil {
		return nil, foodEntryOutput{}, fmt.Errorf("failed to log food: %w", err)
	}

	verb := "Logged"
	if merged {
		verb = "Merged into"
	}
	msg := fmt.Sprintf("%s %s on %s: %g %s, %d kcal (ID: %s)",
		verb, food.Name, fe.Date(), fe.ServingQty(), fe.ServingType(), fe.Calories(), fe.ID().String()[:8])

	return nil, foodEntryOutput{
		Entry:   newFoodEntryView(fe),
		Merged:  merged,
		Message: msg,
	}, nil
}

func (s *Server) handleLogExercise(ctx context.Context, req *mcp.CallToolRequest, input logExerciseInput) (*mcp.CallToolResult, exerciseEntryOutput, error) {
	exercise, err := storage.ResolveExercise(s.repo, input.Exercise)
	if err != nil {
		return nil, exerciseEntryOutput{}, err
	}

	date, err := parseDateOr(input.Date, models.Today())
	if err != nil {
		return nil, exerciseEntryOutput{}, err
	}

	ep, merged, err := storage.LogExercise(s.repo, s.userOr(input.User), *exercise, date, input.Minutes, input.Merge)
	if err != nil {
		return nil, exerciseEntryOutput{}, fmt.Errorf("failed to log exercise: %w", err)
	}

	verb := "Logged"
	if merged {
		verb = "Merged into"
	}
	msg := fmt.Sprintf("%s %s on %s: %d min (ID: %s)",
		verb, exercise.Name, ep.Date(), ep.Minutes(), ep.ID().String()[:8])

	return nil, exerciseEntryOutput{
		Entry:   newExerciseEntryView(ep),
		Merged:  merged,
		Message: msg,
	}, nil
}

func (s *Server) handleUpdateEntry(ctx context.Context, req *mcp.CallToolRequest, input updateEntryInput) (*mcp.CallToolResult, simpleOutput, error) {
	change := storage.EntryChange{Qty: input.Qty, Minutes: input.Minutes}

	if input.Unit != "" {
		st, err := models.ParseServingType(input.Unit)
		if err != nil {
			return nil, simpleOutput{}, err
		}
		change.ServingType = &st
	}
	if input.Date != "" {
		d, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, simpleOutput{}, err
		}
		change.Date = &d
	}

	entry, err := storage.UpdateEntry(s.repo, input.ID, change)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update entry: %w", err)
	}

	var msg string
	switch entry.Kind {
	case storage.EntryFood:
		fe := entry.Food
		msg = fmt.Sprintf("Updated %s on %s: %g %s, %d kcal", fe.Food().Name, fe.Date(), fe.ServingQty(), fe.ServingType(), fe.Calories())
	default:
		ep := entry.Exercise
		msg = fmt.Sprintf("Updated %s on %s: %d min", ep.Exercise().Name, ep.Date(), ep.Minutes())
	}
	return nil, simpleOutput{Message: msg}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, req *mcp.CallToolRequest, input deleteEntryInput) (*mcp.CallToolResult, simpleOutput, error) {
	kind, err := storage.DeleteEntry(s.repo, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete entry: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %s entry: %s", kind, input.ID),
	}, nil
}

func (s *Server) handleGetDay(ctx context.Context, req *mcp.CallToolRequest, input getDayInput) (*mcp.CallToolResult, dayView, error) {
	date, err := parseDateOr(input.Date, models.Today())
	if err != nil {
		return nil, dayView{}, err
	}
	user := s.userOr(input.User)

	view, err := s.day(user, date)
	if err != nil {
		return nil, dayView{}, err
	}
	return nil, view, nil
}

func (s *Server) handleGetReport(ctx context.Context, req *mcp.CallToolRequest, input getReportInput) (*mcp.CallToolResult, reportView, error) {
	from, err := models.ParseDate(input.From)
	if err != nil {
		return nil, reportView{}, err
	}
	to, err := parseDateOr(input.To, models.Today())
	if err != nil {
		return nil, reportView{}, err
	}
	if to.Before(from) {
		return nil, reportView{}, fmt.Errorf("report range ends (%s) before it starts (%s)", to, from)
	}

	user := s.userOr(input.User)
	filter := storage.LogFilter{User: user, From: from, To: to}

	foods, err := s.repo.ListFoodEaten(filter)
	if err != nil {
		return nil, reportView{}, fmt.Errorf("failed to list food log: %w", err)
	}
	exercises, err := s.repo.ListExercisePerformed(filter)
	if err != nil {
		return nil, reportView{}, fmt.Errorf("failed to list exercise log: %w", err)
	}

	return nil, newReportView(report.Summarize(user, from, to, foods, exercises)), nil
}

// day loads a single day's entries for user and summarizes them.
func (s *Server) day(user models.UserID, date models.Date) (dayView, error) {
	filter := storage.Day(user, date)

	foods, err := s.repo.ListFoodEaten(filter)
	if err != nil {
		return dayView{}, fmt.Errorf("failed to list food log: %w", err)
	}
	exercises, err := s.repo.ListExercisePerformed(filter)
	if err != nil {
		return dayView{}, fmt.Errorf("failed to list exercise log: %w", err)
	}

	r := report.Summarize(user, date, date, foods, exercises)
	var d *report.Day
	if len(r.Days) > 0 {
		d = r.Days[0]
	}
	return newDayView(user, date, d), nil
}

// parseDateOr parses s as YYYY-MM-DD, or returns def when s is empty.
func parseDateOr(s string, def models.Date) (models.Date, error) {
	if s == "" {
		return def, nil
	}
	return models.ParseDate(s)
}
