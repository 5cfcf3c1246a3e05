package macho

import (
	"fmt"

	"github.com/google/uuid"
)

// IdentifierSize is the size of an LC_UUID payload.
const IdentifierSize = 16

// ExtractIdentifier returns the build identifier carried by rec, if rec is an
// LC_UUID command with a 16-byte payload.
func ExtractIdentifier(rec Record) (uuid.UUID, bool) {
	if rec.Type != RecordUUID || len(rec.Payload) != IdentifierSize {
		return uuid.Nil, false
	}
	var id uuid.UUID
	copy(id[:], rec.Payload)
	return id, true
}

// ParseIdentifier parses a build identifier in its textual form, for example
// 123e4567-e89b-12d3-a456-426614174000.
func ParseIdentifier(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse build identifier %q: %w", s, err)
	}
	return id, nil
}
