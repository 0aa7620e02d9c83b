// ABOUTME: Export and import of the catalog and both logs.
// ABOUTME: Supports JSON and YAML round-trips plus a per-day Markdown digest.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format.
type ExportData struct {
	Version           string                    `json:"version" yaml:"version"`
	ExportedAt        time.Time                 `json:"exported_at" yaml:"exported_at"`
	Tool              string                    `json:"tool" yaml:"tool"`
	Foods             []*models.Food            `json:"foods" yaml:"foods"`
	Exercises         []*models.Exercise        `json:"exercises" yaml:"exercises"`
	FoodEaten         []FoodEatenRecord         `json:"food_eaten" yaml:"food_eaten"`
	ExercisePerformed []ExercisePerformedRecord `json:"exercise_performed" yaml:"exercise_performed"`
}

// ImportSummary counts the entries written by ImportData.
type ImportSummary struct {
	Foods             int
	Exercises         int
	FoodEaten         int
	ExercisePerformed int
	Skipped           int
}

// GetAllData retrieves everything in repo for export.
func GetAllData(repo Repository) (*ExportData, error) {
	foods, err := repo.ListFoods("", 0)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	exercises, err := repo.ListExercises("", 0)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	eaten, err := repo.ListFoodEaten(LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("list food eaten: %w", err)
	}
	performed, err := repo.ListExercisePerformed(LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("list exercise performed: %w", err)
	}

	data := &ExportData{
		Version:           ExportVersion,
		ExportedAt:        time.Now(),
		Tool:              "fitlog",
		Foods:             foods,
		Exercises:         exercises,
		FoodEaten:         make([]FoodEatenRecord, 0, len(eaten)),
		ExercisePerformed: make([]ExercisePerformedRecord, 0, len(performed)),
	}
	for _, fe := range eaten {
		data.FoodEaten = append(data.FoodEaten, NewFoodEatenRecord(fe))
	}
	for _, ep := range performed {
		data.ExercisePerformed = append(data.ExercisePerformed, NewExercisePerformedRecord(ep))
	}
	return data, nil
}

// ValidateExport checks an export batch before anything is written: every
// catalog entry must be valid, every record must resolve against the batch
// catalog, and no two records may share a uniqueness key.
func ValidateExport(data *ExportData) error {
	foods := make(map[uuid.UUID]models.Food, len(data.Foods))
	for _, f := range data.Foods {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("food %q: %w", f.Name, err)
		}
		foods[f.ID] = *f
	}
	exercises := make(map[uuid.UUID]models.Exercise, len(data.Exercises))
	for _, e := range data.Exercises {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("exercise %q: %w", e.Name, err)
		}
		exercises[e.ID] = *e
	}

	index := models.NewLogIndex()
	for _, rec := range data.FoodEaten {
		food, ok := foods[rec.FoodID]
		if !ok {
			return fmt.Errorf("food eaten %s: food %s: %w", rec.ID, rec.FoodID, ErrNotFound)
		}
		fe, err := rec.Resolve(food)
		if err != nil {
			return fmt.Errorf("food eaten %s: %w", rec.ID, err)
		}
		if err := index.Claim(fe.Key(), fe.ID()); err != nil {
			return fmt.Errorf("food eaten %s: %w", rec.ID, err)
		}
	}
	for _, rec := range data.ExercisePerformed {
		exercise, ok := exercises[rec.ExerciseID]
		if !ok {
			return fmt.Errorf("exercise performed %s: exercise %s: %w", rec.ID, rec.ExerciseID, ErrNotFound)
		}
		ep, err := rec.Resolve(exercise)
		if err != nil {
			return fmt.Errorf("exercise performed %s: %w", rec.ID, err)
		}
		if err := index.Claim(ep.Key(), ep.ID()); err != nil {
			return fmt.Errorf("exercise performed %s: %w", rec.ID, err)
		}
	}
	return nil
}

// ImportData validates data and writes it into repo. Catalog entries whose
// ID already exists in repo are reused; log records already present are
// skipped.
func ImportData(repo Repository, data *ExportData) (*ImportSummary, error) {
	if err := ValidateExport(data); err != nil {
		return nil, fmt.Errorf("validate import: %w", err)
	}
	summary := &ImportSummary{}

	foods := make(map[uuid.UUID]models.Food, len(data.Foods))
	for _, f := range data.Foods {
		if existing, err := repo.GetFood(f.ID.String()); err == nil {
			foods[f.ID] = *existing
			continue
		}
		if err := repo.CreateFood(f); err != nil {
			return summary, fmt.Errorf("import food %q: %w", f.Name, err)
		}
		foods[f.ID] = *f
		summary.Foods++
	}

	exercises := make(map[uuid.UUID]models.Exercise, len(data.Exercises))
	for _, e := range data.Exercises {
		if existing, err := repo.GetExercise(e.ID.String()); err == nil {
			exercises[e.ID] = *existing
			continue
		}
		if err := repo.CreateExercise(e); err != nil {
			return summary, fmt.Errorf("import exercise %q: %w", e.Name, err)
		}
		exercises[e.ID] = *e
		summary.Exercises++
	}

	for _, rec := range data.FoodEaten {
		if _, err := repo.GetFoodEaten(rec.ID.String()); err == nil {
			summary.Skipped++
			continue
		}
		fe, err := rec.Resolve(foods[rec.FoodID])
		if err != nil {
			return summary, fmt.Errorf("import food eaten %s: %w", rec.ID, err)
		}
		if err := repo.CreateFoodEaten(fe); err != nil {
			return summary, fmt.Errorf("import food eaten %s: %w", rec.ID, err)
		}
		summary.FoodEaten++
	}

	for _, rec := range data.ExercisePerformed {
		if _, err := repo.GetExercisePerformed(rec.ID.String()); err == nil {
			summary.Skipped++
			continue
		}
		ep, err := rec.Resolve(exercises[rec.ExerciseID])
		if err != nil {
			return summary, fmt.Errorf("import exercise performed %s: %w", rec.ID, err)
		}
		if err := repo.CreateExercisePerformed(ep); err != nil {
			return summary, fmt.Errorf("import exercise performed %s: %w", rec.ID, err)
		}
		summary.ExercisePerformed++
	}

	return summary, nil
}

// ParseExport decodes an export document. format is "json" or "yaml".
func ParseExport(raw []byte, format string) (*ExportData, error) {
	var data ExportData
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
	return &data, nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := GetAllData(repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML. Alongside the raw records it writes
// a per-user, per-day journal with derived nutrient values.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := GetAllData(repo)
	if err != nil {
		return nil, err
	}
	journal, err := buildJournal(repo, LogFilter{})
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		ExportData `yaml:",inline"`
		Journal    map[string]map[string]*yamlDay `yaml:"journal"`
	}{
		ExportData: *data,
		Journal:    journal,
	}
	return yaml.Marshal(yamlData)
}

type yamlDay struct {
	Foods     []yamlFood     `yaml:"foods,omitempty"`
	Exercises []yamlExercise `yaml:"exercises,omitempty"`
	Totals    yamlTotals     `yaml:"totals"`
}

type yamlFood struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	ServingQty  float64 `yaml:"serving_qty"`
	ServingType string  `yaml:"serving_type"`
	Calories    int     `yaml:"calories"`
	Fat         float64 `yaml:"fat"`
	Carbs       float64 `yaml:"carbs"`
	Protein     float64 `yaml:"protein"`
	Points      float64 `yaml:"points"`
}

type yamlExercise struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Minutes int    `yaml:"minutes"`
}

type yamlTotals struct {
	Calories int     `yaml:"calories"`
	Fat      float64 `yaml:"fat"`
	Carbs    float64 `yaml:"carbs"`
	Protein  float64 `yaml:"protein"`
	Points   float64 `yaml:"points"`
	Minutes  int     `yaml:"minutes"`
}

// buildJournal groups log entries by user and then by date string.
func buildJournal(repo Repository, filter LogFilter) (map[string]map[string]*yamlDay, error) {
	eaten, err := repo.ListFoodEaten(filter)
	if err != nil {
		return nil, fmt.Errorf("list food eaten: %w", err)
	}
	performed, err := repo.ListExercisePerformed(filter)
	if err != nil {
		return nil, fmt.Errorf("list exercise performed: %w", err)
	}

	journal := make(map[string]map[string]*yamlDay)
	day := func(user models.UserID, date models.Date) *yamlDay {
		days, ok := journal[string(user)]
		if !ok {
			days = make(map[string]*yamlDay)
			journal[string(user)] = days
		}
		d, ok := days[date.String()]
		if !ok {
			d = &yamlDay{}
			days[date.String()] = d
		}
		return d
	}

	for _, fe := range eaten {
		d := day(fe.User(), fe.Date())
		d.Foods = append(d.Foods, yamlFood{
			ID:          fe.ID().String()[:8],
			Name:        fe.Food().Name,
			ServingQty:  fe.ServingQty(),
			ServingType: string(fe.ServingType()),
			Calories:    fe.Calories(),
			Fat:         fe.Fat(),
			Carbs:       fe.Carbs(),
			Protein:     fe.Protein(),
			Points:      fe.Points(),
		})
		d.Totals.Calories += fe.Calories()
		d.Totals.Fat += fe.Fat()
		d.Totals.Carbs += fe.Carbs()
		d.Totals.Protein += fe.Protein()
		d.Totals.Points += fe.Points()
	}
	for _, ep := range performed {
		d := day(ep.User(), ep.Date())
		d.Exercises = append(d.Exercises, yamlExercise{
			ID:      ep.ID().String()[:8],
			Name:    ep.Exercise().Name,
			Minutes: ep.Minutes(),
		})
		d.Totals.Minutes += ep.Minutes()
	}
	return journal, nil
}

// ExportMarkdown renders the log entries matching filter as one Markdown
// section per user and day.
func ExportMarkdown(repo Repository, filter LogFilter) (string, error) {
	journal, err := buildJournal(repo, filter)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(fmt.Sprintf("# Fitlog Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	users := make([]string, 0, len(journal))
	for u := range journal {
		users = append(users, u)
	}
	sort.Strings(users)

	for _, user := range users {
		days := journal[user]
		dates := make([]string, 0, len(days))
		for d := range days {
			dates = append(dates, d)
		}
		sort.Strings(dates)

		for _, date := range dates {
			d := days[date]
			sb.WriteString(fmt.Sprintf("## %s - %s\n\n", date, user))
			if len(d.Foods) > 0 {
				sb.WriteString("| Food | Serving | Calories | Fat | Carbs | Protein | Points |\n")
				sb.WriteString("|------|---------|----------|-----|-------|---------|--------|\n")
				for _, f := range d.Foods {
					sb.WriteString(fmt.Sprintf("| %s | %g %s | %d | %.1f | %.1f | %.1f | %.1f |\n",
						f.Name, f.ServingQty, f.ServingType, f.Calories, f.Fat, f.Carbs, f.Protein, f.Points))
				}
				sb.WriteString("\n")
			}
			if len(d.Exercises) > 0 {
				sb.WriteString("| Exercise | Minutes |\n")
				sb.WriteString("|----------|---------|\n")
				for _, e := range d.Exercises {
					sb.WriteString(fmt.Sprintf("| %s | %d |\n", e.Name, e.Minutes))
				}
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("**Total:** %d kcal, %.1f points, %d min\n\n",
				d.Totals.Calories, d.Totals.Points, d.Totals.Minutes))
		}
	}

	return sb.String(), nil
}
