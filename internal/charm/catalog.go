// ABOUTME: Food and exercise catalog CRUD operations for Charm KV storage.
// ABOUTME: Enforces case-insensitive name uniqueness and reference checks client-side.
package charm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
)

// CreateFood stores a new catalog food.
func (c *Client) CreateFood(f *models.Food) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("create food: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	values, err := c.scan(FoodPrefix)
	if err != nil {
		return fmt.Errorf("create food: %w", err)
	}
	for _, existing := range decodeAll[models.Food](c.logger, values) {
		if existing.ID == f.ID || strings.EqualFold(existing.Name, f.Name) {
			return fmt.Errorf("create food %q: %w", f.Name, storage.ErrExists)
		}
	}

	data, err := marshalJSON(f)
	if err != nil {
		return fmt.Errorf("marshal food: %w", err)
	}
	return c.put(FoodPrefix+f.ID.String(), data)
}

// GetFood retrieves a food by ID or ID prefix.
func (c *Client) GetFood(idOrPrefix string) (*models.Food, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getFood(idOrPrefix)
}

func (c *Client) getFood(idOrPrefix string) (*models.Food, error) {
	_, data, err := c.lookup(FoodPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get food: %w", err)
	}
	food, err := unmarshalJSON[models.Food](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal food: %w", err)
	}
	return food, nil
}

// FindFoodByName retrieves a food by its name, ignoring case.
func (c *Client) FindFoodByName(name string) (*models.Food, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, err := c.scan(FoodPrefix)
	if err != nil {
		return nil, fmt.Errorf("find food: %w", err)
	}
	for _, f := range decodeAll[models.Food](c.logger, values) {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("food %q: %w", name, storage.ErrNotFound)
}

// ListFoods lists foods whose name contains search, sorted by name.
func (c *Client) ListFoods(search string, limit int) ([]*models.Food, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, err := c.scan(FoodPrefix)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}

	needle := strings.ToLower(search)
	var foods []*models.Food
	for _, f := range decodeAll[models.Food](c.logger, values) {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			foods = append(foods, f)
		}
	}
	sort.Slice(foods, func(i, j int) bool {
		return strings.ToLower(foods[i].Name) < strings.ToLower(foods[j].Name)
	})

	if limit > 0 && len(foods) > limit {
		foods = foods[:limit]
	}
	return foods, nil
}

// DeleteFood removes a food that no log entry references.
func (c *Client) DeleteFood(idOrPrefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, _, err := c.lookup(FoodPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	id, err := uuid.Parse(extractID(key, FoodPrefix))
	if err != nil {
		return fmt.Errorf("delete food: parse key %q: %w", key, err)
	}

	records, err := c.scan(FoodEatenPrefix)
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	for _, rec := range decodeAll[storage.FoodEatenRecord](c.logger, records) {
		if rec.FoodID == id {
			return fmt.Errorf("delete food: %w", storage.ErrInUse)
		}
	}

	if err := c.remove(key); err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	return nil
}

// CreateExercise stores a new catalog exercise.
func (c *Client) CreateExercise(e *models.Exercise) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	values, err := c.scan(ExercisePrefix)
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	for _, existing := range decodeAll[models.Exercise](c.logger, values) {
		if existing.ID == e.ID || strings.EqualFold(existing.Name, e.Name) {
			return fmt.Errorf("create exercise %q: %w", e.Name, storage.ErrExists)
		}
	}

	data, err := marshalJSON(e)
	if err != nil {
		return fmt.Errorf("marshal exercise: %w", err)
	}
	return c.put(ExercisePrefix+e.ID.String(), data)
}

// GetExercise retrieves an exercise by ID or ID prefix.
func (c *Client) GetExercise(idOrPrefix string) (*models.Exercise, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getExercise(idOrPrefix)
}

func (c *Client) getExercise(idOrPrefix string) (*models.Exercise, error) {
	_, data, err := c.lookup(ExercisePrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	exercise, err := unmarshalJSON[models.Exercise](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal exercise: %w", err)
	}
	return exercise, nil
}

// FindExerciseByName retrieves an exercise by its name, ignoring case.
func (c *Client) FindExerciseByName(name string) (*models.Exercise, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, err := c.scan(ExercisePrefix)
	if err != nil {
		return nil, fmt.Errorf("find exercise: %w", err)
	}
	for _, e := range decodeAll[models.Exercise](c.logger, values) {
		if strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("exercise %q: %w", name, storage.ErrNotFound)
}

// ListExercises lists exercises whose name contains search, sorted by name.
func (c *Client) ListExercises(search string, limit int) ([]*models.Exercise, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, err := c.scan(ExercisePrefix)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	needle := strings.ToLower(search)
	var exercises []*models.Exercise
	for _, e := range decodeAll[models.Exercise](c.logger, values) {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			exercises = append(exercises, e)
		}
	}
	sort.Slice(exercises, func(i, j int) bool {
		return strings.ToLower(exercises[i].Name) < strings.ToLower(exercises[j].Name)
	})

	if limit > 0 && len(exercises) > limit {
		exercises = exercises[:limit]
	}
	return exercises, nil
}

// DeleteExercise removes an exercise that no log entry references.
func (c *Client) DeleteExercise(idOrPrefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, _, err := c.lookup(ExercisePrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	id, err := uuid.Parse(extractID(key, ExercisePrefix))
	if err != nil {
		return fmt.Errorf("delete exercise: parse key %q: %w", key, err)
	}

	records, err := c.scan(ExercisePerformedPrefix)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	for _, rec := range decodeAll[storage.ExercisePerformedRecord](c.logger, records) {
		if rec.ExerciseID == id {
			return fmt.Errorf("delete exercise: %w", storage.ErrInUse)
		}
	}

	if err := c.remove(key); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return nil
}
