// ABOUTME: Logging workflows shared by the CLI and the MCP server.
// ABOUTME: Resolves catalog references by name or ID and merges repeat entries on request.
package storage

import (
	"errors"
	"fmt"

	"github.com/harperreed/fitlog/internal/models"
)

// EntryKind names the log an entry ID was found in.
type EntryKind string

const (
	EntryFood     EntryKind = "food"
	EntryExercise EntryKind = "exercise"
)

// ResolveFood finds a food by exact name (ignoring case), then by ID prefix.
func ResolveFood(repo Repository, ref string) (*models.Food, error) {
	f, err := repo.FindFoodByName(ref)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	f, err = repo.GetFood(ref)
	if err != nil {
		return nil, fmt.Errorf("food %q: %w", ref, err)
	}
	return f, nil
}

// ResolveExercise finds an exercise by exact name (ignoring case), then by ID prefix.
func ResolveExercise(repo Repository, ref string) (*models.Exercise, error) {
	e, err := repo.FindExerciseByName(ref)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	e, err = repo.GetExercise(ref)
	if err != nil {
		return nil, fmt.Errorf("exercise %q: %w", ref, err)
	}
	return e, nil
}

// LogFood records a serving of food for user on date. With merge set, a
// serving logged into an existing (user, food, date) entry is added to it
// instead of failing with models.ErrDuplicate. The returned bool reports
// whether a merge happened.
func LogFood(repo Repository, user models.UserID, food models.Food, date models.Date, st models.ServingType, qty float64, merge bool) (*models.FoodEaten, bool, error) {
	fe, err := models.NewFoodEaten(models.GenerateID(), user, food, date, st, qty)
	if err != nil {
		return nil, false, err
	}

	if merge {
		existing, err := repo.FindFoodEaten(fe.Key())
		switch {
		case err == nil:
			if err := existing.AddServing(st, qty); err != nil {
				return nil, false, err
			}
			if err := repo.UpdateFoodEaten(existing); err != nil {
				return nil, false, err
			}
			return existing, true, nil
		case !errors.Is(err, ErrNotFound):
			return nil, false, err
		}
	}

	if err := repo.CreateFoodEaten(fe); err != nil {
		return nil, false, err
	}
	return fe, false, nil
}

// LogExercise records minutes of exercise for user on date. With merge set,
// minutes are added to an existing (user, exercise, date) entry.
func LogExercise(repo Repository, user models.UserID, exercise models.Exercise, date models.Date, minutes int, merge bool) (*models.ExercisePerformed, bool, error) {
	ep, err := models.NewExercisePerformed(models.GenerateID(), user, exercise, date, minutes)
	if err != nil {
		return nil, false, err
	}

	if merge {
		existing, err := repo.FindExercisePerformed(ep.Key())
		switch {
		case err == nil:
			if err := existing.SetMinutes(existing.Minutes() + minutes); err != nil {
				return nil, false, err
			}
			if err := repo.UpdateExercisePerformed(existing); err != nil {
				return nil, false, err
			}
			return existing, true, nil
		case !errors.Is(err, ErrNotFound):
			return nil, false, err
		}
	}

	if err := repo.CreateExercisePerformed(ep); err != nil {
		return nil, false, err
	}
	return ep, false, nil
}

// Entry is a log entry of either kind. Exactly one of Food and Exercise is set.
type Entry struct {
	Kind     EntryKind
	Food     *models.FoodEaten
	Exercise *models.ExercisePerformed
}

// GetEntry looks an ID or prefix up in the food log, then the exercise log.
func GetEntry(repo Repository, idOrPrefix string) (*Entry, error) {
	fe, err := repo.GetFoodEaten(idOrPrefix)
	if err == nil {
		return &Entry{Kind: EntryFood, Food: fe}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	ep, err := repo.GetExercisePerformed(idOrPrefix)
	if err == nil {
		return &Entry{Kind: EntryExercise, Exercise: ep}, nil
	}
	return nil, fmt.Errorf("entry %s: %w", idOrPrefix, err)
}

// DeleteEntry removes a log entry of either kind.
func DeleteEntry(repo Repository, idOrPrefix string) (EntryKind, error) {
	entry, err := GetEntry(repo, idOrPrefix)
	if err != nil {
		return "", err
	}
	switch entry.Kind {
	case EntryFood:
		return EntryFood, repo.DeleteFoodEaten(entry.Food.ID().String())
	default:
		return EntryExercise, repo.DeleteExercisePerformed(entry.Exercise.ID().String())
	}
}

// EntryChange holds the optional edits for UpdateEntry. Nil fields are kept.
type EntryChange struct {
	Qty         *float64
	ServingType *models.ServingType
	Date        *models.Date
	Minutes     *int
}

// UpdateEntry applies change to the entry with the given ID or prefix and
// stores it. Food-only fields on an exercise entry, or minutes on a food
// entry, are rejected.
func UpdateEntry(repo Repository, idOrPrefix string, change EntryChange) (*Entry, error) {
	entry, err := GetEntry(repo, idOrPrefix)
	if err != nil {
		return nil, err
	}

	switch entry.Kind {
	case EntryFood:
		fe := entry.Food
		if change.Minutes != nil {
			return nil, &models.ValidationError{Field: "minutes", Reason: "food entries have no minutes"}
		}
		if change.ServingType != nil {
			if err := fe.SetServingType(*change.ServingType); err != nil {
				return nil, err
			}
		}
		if change.Qty != nil {
			if err := fe.SetServingQty(*change.Qty); err != nil {
				return nil, err
			}
		}
		if change.Date != nil {
			if err := fe.SetDate(*change.Date); err != nil {
				return nil, err
			}
		}
		if err := repo.UpdateFoodEaten(fe); err != nil {
			return nil, err
		}
	default:
		ep := entry.Exercise
		if change.Qty != nil || change.ServingType != nil {
			return nil, &models.ValidationError{Field: "serving", Reason: "exercise entries have no serving"}
		}
		if change.Minutes != nil {
			if err := ep.SetMinutes(*change.Minutes); err != nil {
				return nil, err
			}
		}
		if change.Date != nil {
			if err := ep.SetDate(*change.Date); err != nil {
				return nil, err
			}
		}
		if err := repo.UpdateExercisePerformed(ep); err != nil {
			return nil, err
		}
	}

	return entry, nil
}
