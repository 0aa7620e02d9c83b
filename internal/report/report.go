// ABOUTME: Aggregates logged food and exercise into per-day and range totals.
// ABOUTME: Reads derived nutrient values from records; never stores them.
package report

import (
	"sort"

	"github.com/harperreed/fitlog/internal/models"
)

// Day holds one day's entries and totals for a single user.
type Day struct {
	Date      models.Date                 `json:"date" yaml:"date"`
	Foods     []*models.FoodEaten         `json:"-" yaml:"-"`
	Exercises []*models.ExercisePerformed `json:"-" yaml:"-"`
	Nutrients models.Nutrients            `json:"nutrients" yaml:"nutrients"`
	Minutes   int                         `json:"minutes" yaml:"minutes"`
}

// Report covers an inclusive date range for one user.
type Report struct {
	User    models.UserID    `json:"user" yaml:"user"`
	From    models.Date      `json:"from" yaml:"from"`
	To      models.Date      `json:"to" yaml:"to"`
	Days    []*Day           `json:"days" yaml:"days"`
	Total   models.Nutrients `json:"total" yaml:"total"`
	Minutes int              `json:"minutes" yaml:"minutes"`
}

// Summarize groups the records belonging to user within [from, to] by day.
// Records for other users or outside the range are ignored. Days with no
// records are omitted. Per-record calories are truncated before summing, so
// a day's calories equal the sum of what each entry displays.
func Summarize(user models.UserID, from, to models.Date, foods []*models.FoodEaten, exercises []*models.ExercisePerformed) *Report {
	r := &Report{User: user, From: from, To: to}
	days := make(map[models.Date]*Day)

	day := func(d models.Date) *Day {
		if existing, ok := days[d]; ok {
			return existing
		}
		created := &Day{Date: d}
		days[d] = created
		return created
	}

	for _, fe := range foods {
		if !inRange(fe.User(), fe.Date(), user, from, to) {
			continue
		}
		d := day(fe.Date())
		d.Foods = append(d.Foods, fe)
		d.Nutrients = d.Nutrients.Add(fe.Nutrients())
	}
	for _, ep := range exercises {
		if !inRange(ep.User(), ep.Date(), user, from, to) {
			continue
		}
		d := day(ep.Date())
		d.Exercises = append(d.Exercises, ep)
		d.Minutes += ep.Minutes()
	}

	for _, d := range days {
		r.Days = append(r.Days, d)
		r.Total = r.Total.Add(d.Nutrients)
		r.Minutes += d.Minutes
	}
	sort.Slice(r.Days, func(i, j int) bool {
		return r.Days[i].Date.Before(r.Days[j].Date)
	})

	return r
}

// DayCount returns the number of calendar days in the range, or the number
// of days with entries when either bound is open.
func (r *Report) DayCount() int {
	if r.From.IsZero() || r.To.IsZero() {
		return len(r.Days)
	}
	n := 0
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		n++
	}
	return n
}

// Average returns the mean daily nutrients over DayCount days.
func (r *Report) Average() models.Nutrients {
	n := r.DayCount()
	if n == 0 {
		return models.Nutrients{}
	}
	return r.Total.Scale(1 / float64(n))
}

func inRange(owner models.UserID, date models.Date, user models.UserID, from, to models.Date) bool {
	if user != "" && owner != user {
		return false
	}
	if !from.IsZero() && date.Before(from) {
		return false
	}
	if !to.IsZero() && date.After(to) {
		return false
	}
	return true
}
