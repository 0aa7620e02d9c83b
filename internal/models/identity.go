// ABOUTME: Record identity: explicit "generate new" vs "caller supplied" id sources.
// ABOUTME: Generated ids are random v4 UUIDs so records can be created offline.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// UserID is an opaque reference to the owning user. It is only compared,
// never interpreted.
type UserID string

func (u UserID) String() string { return string(u) }

func validateUser(u UserID) error {
	if strings.TrimSpace(string(u)) == "" {
		return invalid("user", "is required")
	}
	return nil
}

// IDSource says where a new record's identifier comes from.
type IDSource struct {
	id       uuid.UUID
	supplied bool
}

// GenerateID asks the constructor to mint a random identifier.
func GenerateID() IDSource {
	return IDSource{}
}

// UseID asks the constructor to keep an identifier the caller already has,
// typically one read back from storage.
func UseID(id uuid.UUID) IDSource {
	return IDSource{id: id, supplied: true}
}

// Supplied reports whether the caller provided the identifier.
func (s IDSource) Supplied() bool { return s.supplied }

func (s IDSource) resolve() (uuid.UUID, error) {
	if !s.supplied {
		return uuid.New(), nil
	}
	if s.id == uuid.Nil {
		return uuid.Nil, invalid("id", "supplied identifier is the nil UUID")
	}
	return s.id, nil
}
