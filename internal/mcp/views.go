// ABOUTME: JSON views of catalog entries, log records, and reports for MCP output.
// ABOUTME: Dates are rendered as YYYY-MM-DD strings and derived nutrients are included.
package mcp

import (
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/report"
)

type foodView struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	DefaultServing string           `json:"default_serving"`
	ServingQty     float64          `json:"serving_qty"`
	Nutrients      models.Nutrients `json:"nutrients"`
}

func newFoodView(f *models.Food) foodView {
	return foodView{
		ID:             f.ID.String(),
		Name:           f.Name,
		DefaultServing: string(f.DefaultServingType),
		ServingQty:     f.ServingTypeQty,
		Nutrients:      f.Nutrients(),
	}
}

type exerciseView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

func newExerciseView(e *models.Exercise) exerciseView {
	return exerciseView{
		ID:       e.ID.String(),
		Name:     e.Name,
		Category: e.Category,
	}
}

type foodEntryView struct {
	ID          string           `json:"id"`
	User        string           `json:"user"`
	Date        string           `json:"date"`
	Food        string           `json:"food"`
	ServingType string           `json:"serving_type"`
	ServingQty  float64          `json:"serving_qty"`
	Calories    int              `json:"calories"`
	Nutrients   models.Nutrients `json:"nutrients"`
}

func newFoodEntryView(fe *models.FoodEaten) foodEntryView {
	return foodEntryView{
		ID:          fe.ID().String(),
		User:        fe.User().String(),
		Date:        fe.Date().String(),
		Food:        fe.Food().Name,
		ServingType: string(fe.ServingType()),
		ServingQty:  fe.ServingQty(),
		Calories:    fe.Calories(),
		Nutrients:   fe.Nutrients(),
	}
}

type exerciseEntryView struct {
	ID       string `json:"id"`
	User     string `json:"user"`
	Date     string `json:"date"`
	Exercise string `json:"exercise"`
	Minutes  int    `json:"minutes"`
}

func newExerciseEntryView(ep *models.ExercisePerformed) exerciseEntryView {
	return exerciseEntryView{
		ID:       ep.ID().String(),
		User:     ep.User().String(),
		Date:     ep.Date().String(),
		Exercise: ep.Exercise().Name,
		Minutes:  ep.Minutes(),
	}
}

type dayView struct {
	Date      string              `json:"date"`
	User      string              `json:"user"`
	Foods     []foodEntryView     `json:"foods"`
	Exercises []exerciseEntryView `json:"exercises"`
	Totals    models.Nutrients    `json:"totals"`
	Calories  int                 `json:"calories"`
	Minutes   int                 `json:"minutes"`
}

func newDayView(user models.UserID, date models.Date, d *report.Day) dayView {
	v := dayView{
		Date:      date.String(),
		User:      user.String(),
		Foods:     []foodEntryView{},
		Exercises: []exerciseEntryView{},
	}
	if d == nil {
		return v
	}
	for _, fe := range d.Foods {
		v.Foods = append(v.Foods, newFoodEntryView(fe))
	}
	for _, ep := range d.Exercises {
		v.Exercises = append(v.Exercises, newExerciseEntryView(ep))
	}
	v.Totals = d.Nutrients
	v.Calories = int(d.Nutrients.Calories)
	v.Minutes = d.Minutes
	return v
}

type reportDayView struct {
	Date     string           `json:"date"`
	Calories int              `json:"calories"`
	Totals   models.Nutrients `json:"totals"`
	Minutes  int              `json:"minutes"`
}

type reportView struct {
	User    string           `json:"user"`
	From    string           `json:"from"`
	To      string           `json:"to"`
	Days    []reportDayView  `json:"days"`
	Total   models.Nutrients `json:"total"`
	Average models.Nutrients `json:"average"`
	Minutes int              `json:"minutes"`
}

func newReportView(r *report.Report) reportView {
	v := reportView{
		User:    r.User.String(),
		From:    r.From.String(),
		To:      r.To.String(),
		Days:    []reportDayView{},
		Total:   r.Total,
		Average: r.Average(),
		Minutes: r.Minutes,
	}
	for _, d := range r.Days {
		v.Days = append(v.Days, reportDayView{
			Date:     d.Date.String(),
			Calories: int(d.Nutrients.Calories),
			Totals:   d.Nutrients,
			Minutes:  d.Minutes,
		})
	}
	return v
}
