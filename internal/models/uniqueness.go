// ABOUTME: Uniqueness policy: one record per (user, entity, date) for each log kind.
// ABOUTME: LogIndex is the check storage backends run before insert and update.
package models

import (
	"github.com/google/uuid"
)

// LogKind separates the food and exercise key spaces.
type LogKind string

const (
	KindFood     LogKind = "food"
	KindExercise LogKind = "exercise"
)

// LogKey is the uniqueness key of a log record.
type LogKey struct {
	Kind   LogKind
	User   UserID
	Entity uuid.UUID
	Date   Date
}

// LogIndex tracks which record holds each key. It does not lock; callers
// that share one across goroutines must serialize access.
type LogIndex struct {
	owners map[LogKey]uuid.UUID
}

// NewLogIndex returns an empty index.
func NewLogIndex() *LogIndex {
	return &LogIndex{owners: make(map[LogKey]uuid.UUID)}
}

// Check returns a ConflictError if key is held by a record other than id.
func (ix *LogIndex) Check(key LogKey, id uuid.UUID) error {
	if owner, ok := ix.owners[key]; ok && owner != id {
		return &ConflictError{Key: key, ExistingID: owner.String()}
	}
	return nil
}

// Claim records id as the holder of key. Claiming a key the same record
// already holds is a no-op, so updates that keep their key pass.
func (ix *LogIndex) Claim(key LogKey, id uuid.UUID) error {
	if err := ix.Check(key, id); err != nil {
		return err
	}
	ix.owners[key] = id
	return nil
}

// Move re-keys a record after an update changed its user, entity or date.
func (ix *LogIndex) Move(from, to LogKey, id uuid.UUID) error {
	if from == to {
		return ix.Claim(to, id)
	}
	if err := ix.Check(to, id); err != nil {
		return err
	}
	if ix.owners[from] == id {
		delete(ix.owners, from)
	}
	ix.owners[to] = id
	return nil
}

// Release frees key.
func (ix *LogIndex) Release(key LogKey) {
	delete(ix.owners, key)
}

// Owner returns the record holding key, if any.
func (ix *LogIndex) Owner(key LogKey) (uuid.UUID, bool) {
	id, ok := ix.owners[key]
	return id, ok
}

// Len returns the number of claimed keys.
func (ix *LogIndex) Len() int {
	return len(ix.owners)
}
