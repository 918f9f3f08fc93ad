package core

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidID reports a string that is not a canonical UUID.
var ErrInvalidID = errors.New("Invalid UUID format")

// ID is a validated UUID used as entity identity. The zero value is not a
// valid ID; construct via NewID or ParseID.
type ID struct {
	value uuid.UUID
}

// NewID returns a fresh random (v4) identifier.
func NewID() ID {
	return ID{value: uuid.New()}
}

// ParseID validates s against the canonical 8-4-4-4-12 hex form.
func ParseID(s string) Result[ID] {
	parsed, err := uuid.Parse(s)
	if err != nil || len(s) != 36 {
		return Fail[ID](ErrInvalidID)
	}
	return Ok(ID{value: parsed})
}

// String returns the canonical lowercase textual form.
func (id ID) String() string {
	return id.value.String()
}

// Equal reports whether two IDs refer to the same entity.
func (id ID) Equal(other ID) bool {
	return id.value == other.value
}
