// ABOUTME: FoodEaten and ExercisePerformed CRUD operations for Charm KV storage.
// ABOUTME: Records are stored flat and uniqueness is checked against a LogIndex of stored keys.
package charm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
)

// indexEntry is one stored record's claim on a log key.
type indexEntry struct {
	key models.LogKey
	id  uuid.UUID
}

// buildIndex loads stored claims into a LogIndex. Two devices can sync
// conflicting entries into one store; claims are made in ID order, so the
// record with the lowest ID always owns the key and the rest are logged.
func buildIndex(logger *log.Logger, entries []indexEntry) *models.LogIndex {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].id.String() < entries[j].id.String()
	})

	index := models.NewLogIndex()
	for _, e := range entries {
		if err := index.Claim(e.key, e.id); err != nil {
			logger.Warn("conflicting log entries in store", "id", e.id, "err", err)
		}
	}
	return index
}

func foodEatenIndex(logger *log.Logger, records []*storage.FoodEatenRecord) *models.LogIndex {
	entries := make([]indexEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, indexEntry{key: r.Key(), id: r.ID})
	}
	return buildIndex(logger, entries)
}

func exercisePerformedIndex(logger *log.Logger, records []*storage.ExercisePerformedRecord) *models.LogIndex {
	entries := make([]indexEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, indexEntry{key: r.Key(), id: r.ID})
	}
	return buildIndex(logger, entries)
}

// CreateFoodEaten stores a new food log entry.
func (c *Client) CreateFoodEaten(fe *models.FoodEaten) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.getFood(fe.Food().ID.String()); err != nil {
		return fmt.Errorf("create food eaten: %w", err)
	}
	key := FoodEatenPrefix + fe.ID().String()
	if ok, err := c.exists(key); err != nil {
		return fmt.Errorf("create food eaten: %w", err)
	} else if ok {
		return fmt.Errorf("create food eaten %s: %w", fe.ID(), storage.ErrExists)
	}

	records, err := c.foodEatenRecords()
	if err != nil {
		return fmt.Errorf("create food eaten: %w", err)
	}
	if err := foodEatenIndex(c.logger, records).Claim(fe.Key(), fe.ID()); err != nil {
		return fmt.Errorf("create food eaten: %w", err)
	}

	return c.putFoodEaten(fe)
}

// UpdateFoodEaten replaces the stored fields of an existing entry.
func (c *Client) UpdateFoodEaten(fe *models.FoodEaten) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.foodEatenRecords()
	if err != nil {
		return fmt.Errorf("update food eaten: %w", err)
	}
	var current *storage.FoodEatenRecord
	for _, r := range records {
		if r.ID == fe.ID() {
			current = r
			break
		}
	}
	if current == nil {
		return fmt.Errorf("update food eaten: %w: %s", storage.ErrNotFound, fe.ID())
	}
	if _, err := c.getFood(fe.Food().ID.String()); err != nil {
		return fmt.Errorf("update food eaten: %w", err)
	}
	if err := foodEatenIndex(c.logger, records).Move(current.Key(), fe.Key(), fe.ID()); err != nil {
		return fmt.Errorf("update food eaten: %w", err)
	}

	return c.putFoodEaten(fe)
}

func (c *Client) putFoodEaten(fe *models.FoodEaten) error {
	data, err := marshalJSON(storage.NewFoodEatenRecord(fe))
	if err != nil {
		return fmt.Errorf("marshal food eaten: %w", err)
	}
	return c.put(FoodEatenPrefix+fe.ID().String(), data)
}

// GetFoodEaten retrieves a food log entry by ID or ID prefix.
func (c *Client) GetFoodEaten(idOrPrefix string) (*models.FoodEaten, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, data, err := c.lookup(FoodEatenPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get food eaten: %w", err)
	}
	rec, err := unmarshalJSON[storage.FoodEatenRecord](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal food eaten: %w", err)
	}
	return c.resolveFoodEaten(rec)
}

// FindFoodEaten retrieves the entry holding a uniqueness key.
func (c *Client) FindFoodEaten(key models.LogKey) (*models.FoodEaten, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, err := c.foodEatenRecords()
	if err != nil {
		return nil, fmt.Errorf("find food eaten: %w", err)
	}
	for _, r := range records {
		if r.Key() == key {
			return c.resolveFoodEaten(r)
		}
	}
	return nil, storage.ErrNotFound
}

// ListFoodEaten lists entries matching filter, oldest day first.
func (c *Client) ListFoodEaten(filter storage.LogFilter) ([]*models.FoodEaten, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, err := c.foodEatenRecords()
	if err != nil {
		return nil, fmt.Errorf("list food eaten: %w", err)
	}
	foodValues, err := c.scan(FoodPrefix)
	if err != nil {
		return nil, fmt.Errorf("list food eaten: %w", err)
	}
	foods := make(map[uuid.UUID]models.Food, len(foodValues))
	for _, f := range decodeAll[models.Food](c.logger, foodValues) {
		foods[f.ID] = *f
	}

	var entries []*models.FoodEaten
	for _, r := range records {
		if !filter.Matches(r.UserID, r.Date) {
			continue
		}
		food, ok := foods[r.FoodID]
		if !ok {
			c.logger.Warn("food eaten references missing food", "id", r.ID, "food", r.FoodID)
			continue
		}
		fe, err := r.Resolve(food)
		if err != nil {
			c.logger.Warn("skipping invalid food eaten", "id", r.ID, "err", err)
			continue
		}
		entries = append(entries, fe)
	}

	sortFoodEaten(entries)
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

// DeleteFoodEaten removes a food log entry by ID or prefix.
func (c *Client) DeleteFoodEaten(idOrPrefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, _, err := c.lookup(FoodEatenPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete food eaten: %w", err)
	}
	if err := c.remove(key); err != nil {
		return fmt.Errorf("delete food eaten: %w", err)
	}
	return nil
}

func (c *Client) foodEatenRecords() ([]*storage.FoodEatenRecord, error) {
	values, err := c.scan(FoodEatenPrefix)
	if err != nil {
		return nil, err
	}
	return decodeAll[storage.FoodEatenRecord](c.logger, values), nil
}

func (c *Client) resolveFoodEaten(rec *storage.FoodEatenRecord) (*models.FoodEaten, error) {
	food, err := c.getFood(rec.FoodID.String())
	if err != nil {
		return nil, fmt.Errorf("load food eaten %s: %w", rec.ID, err)
	}
	fe, err := rec.Resolve(*food)
	if err != nil {
		return nil, fmt.Errorf("load food eaten %s: %w", rec.ID, err)
	}
	return fe, nil
}

// CreateExercisePerformed stores a new exercise log entry.
func (c *Client) CreateExercisePerformed(ep *models.ExercisePerformed) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.getExercise(ep.Exercise().ID.String()); err != nil {
		return fmt.Errorf("create exercise performed: %w", err)
	}
	key := ExercisePerformedPrefix + ep.ID().String()
	if ok, err := c.exists(key); err != nil {
		return fmt.Errorf("create exercise performed: %w", err)
	} else if ok {
		return fmt.Errorf("create exercise performed %s: %w", ep.ID(), storage.ErrExists)
	}

	records, err := c.exercisePerformedRecords()
	if err != nil {
		return fmt.Errorf("create exercise performed: %w", err)
	}
	if err := exercisePerformedIndex(c.logger, records).Claim(ep.Key(), ep.ID()); err != nil {
		return fmt.Errorf("create exercise performed: %w", err)
	}

	return c.putExercisePerformed(ep)
}

// UpdateExercisePerformed replaces the stored fields of an existing entry.
func (c *Client) UpdateExercisePerformed(ep *models.ExercisePerformed) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.exercisePerformedRecords()
	if err != nil {
		return fmt.Errorf("update exercise performed: %w", err)
	}
	var current *storage.ExercisePerformedRecord
	for _, r := range records {
		if r.ID == ep.ID() {
			current = r
			break
		}
	}
	if current == nil {
		return fmt.Errorf("update exercise performed: %w: %s", storage.ErrNotFound, ep.ID())
	}
	if _, err := c.getExercise(ep.Exercise().ID.String()); err != nil {
		return fmt.Errorf("update exercise performed: %w", err)
	}
	if err := exercisePerformedIndex(c.logger, records).Move(current.Key(), ep.Key(), ep.ID()); err != nil {
		return fmt.Errorf("update exercise performed: %w", err)
	}

	return c.putExercisePerformed(ep)
}

func (c *Client) putExercisePerformed(ep *models.ExercisePerformed) error {
	data, err := marshalJSON(storage.NewExercisePerformedRecord(ep))
	if err != nil {
		return fmt.Errorf("marshal exercise performed: %w", err)
	}
	return c.put(ExercisePerformedPrefix+ep.ID().String(), data)
}

// GetExercisePerformed retrieves an exercise log entry by ID or ID prefix.
func (c *Client) GetExercisePerformed(idOrPrefix string) (*models.ExercisePerformed, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, data, err := c.lookup(ExercisePerformedPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get exercise performed: %w", err)
	}
	rec, err := unmarshalJSON[storage.ExercisePerformedRecord](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal exercise performed: %w", err)
	}
	return c.resolveExercisePerformed(rec)
}

// FindExercisePerformed retrieves the entry holding a uniqueness key.
func (c *Client) FindExercisePerformed(key models.LogKey) (*models.ExercisePerformed, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, err := c.exercisePerformedRecords()
	if err != nil {
		return nil, fmt.Errorf("find exercise performed: %w", err)
	}
	for _, r := range records {
		if r.Key() == key {
			return c.resolveExercisePerformed(r)
		}
	}
	return nil, storage.ErrNotFound
}

// ListExercisePerformed lists entries matching filter, oldest day first.
func (c *Client) ListExercisePerformed(filter storage.LogFilter) ([]*models.ExercisePerformed, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, err := c.exercisePerformedRecords()
	if err != nil {
		return nil, fmt.Errorf("list exercise performed: %w", err)
	}
	exerciseValues, err := c.scan(ExercisePrefix)
	if err != nil {
		return nil, fmt.Errorf("list exercise performed: %w", err)
	}
	exercises := make(map[uuid.UUID]models.Exercise, len(exerciseValues))
	for _, e := range decodeAll[models.Exercise](c.logger, exerciseValues) {
		exercises[e.ID] = *e
	}

	var entries []*models.ExercisePerformed
	for _, r := range records {
		if !filter.Matches(r.UserID, r.Date) {
			continue
		}
		exercise, ok := exercises[r.ExerciseID]
		if !ok {
			c.logger.Warn("exercise performed references missing exercise", "id", r.ID, "exercise", r.ExerciseID)
			continue
		}
		ep, err := r.Resolve(exercise)
		if err != nil {
			c.logger.Warn("skipping invalid exercise performed", "id", r.ID, "err", err)
			continue
		}
		entries = append(entries, ep)
	}

	sortExercisePerformed(entries)
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

// DeleteExercisePerformed removes an exercise log entry by ID or prefix.
func (c *Client) DeleteExercisePerformed(idOrPrefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, _, err := c.lookup(ExercisePerformedPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete exercise performed: %w", err)
	}
	if err := c.remove(key); err != nil {
		return fmt.Errorf("delete exercise performed: %w", err)
	}
	return nil
}

func (c *Client) exercisePerformedRecords() ([]*storage.ExercisePerformedRecord, error) {
	values, err := c.scan(ExercisePerformedPrefix)
	if err != nil {
		return nil, err
	}
	return decodeAll[storage.ExercisePerformedRecord](c.logger, values), nil
}

func (c *Client) resolveExercisePerformed(rec *storage.ExercisePerformedRecord) (*models.ExercisePerformed, error) {
	exercise, err := c.getExercise(rec.ExerciseID.String())
	if err != nil {
		return nil, fmt.Errorf("load exercise performed %s: %w", rec.ID, err)
	}
	ep, err := rec.Resolve(*exercise)
	if err != nil {
		return nil, fmt.Errorf("load exercise performed %s: %w", rec.ID, err)
	}
	return ep, nil
}

// sortFoodEaten orders entries by date, then food name.
func sortFoodEaten(entries []*models.FoodEaten) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date().Equal(entries[j].Date()) {
			return entries[i].Date().Before(entries[j].Date())
		}
		return strings.ToLower(entries[i].Food().Name) < strings.ToLower(entries[j].Food().Name)
	})
}

// sortExercisePerformed orders entries by date, then exercise name.
func sortExercisePerformed(entries []*models.ExercisePerformed) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date().Equal(entries[j].Date()) {
			return entries[i].Date().Before(entries[j].Date())
		}
		return strings.ToLower(entries[i].Exercise().Name) < strings.ToLower(entries[j].Exercise().Name)
	})
}
