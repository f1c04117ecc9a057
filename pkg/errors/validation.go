package errors

import (
	"unicode"

	"github.com/google/uuid"
)

// MaxNeighborLimit caps how many neighbors a single expansion may request.
const MaxNeighborLimit = 1000

// ValidateSessionID checks that id is a UUID as issued by the session
// runner. Session ids end up in cache keys and file paths, so anything
// else is rejected before it reaches a store.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid session id %q", id)
	}
	return nil
}

// ValidateVertexID checks an expansion target: non-empty, at most 512
// bytes and free of control characters.
func ValidateVertexID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "vertex id cannot be empty")
	}
	if len(id) > 512 {
		return New(ErrCodeInvalidInput, "vertex id too long (max 512 bytes)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "vertex id contains control characters")
		}
	}
	return nil
}

// ValidateLimit checks a neighbor limit. Zero means "source default".
func ValidateLimit(limit int) error {
	if limit < 0 || limit > MaxNeighborLimit {
		return New(ErrCodeInvalidInput, "limit must be between 0 and %d, got %d", MaxNeighborLimit, limit)
	}
	return nil
}
