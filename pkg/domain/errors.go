package domain

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound marks a lookup of an id that is not in the store.
	ErrNotFound = errors.New("not found")

	// ErrMalformedProcess marks a process whose input/output mapping is
	// absent where derivation requires one.
	ErrMalformedProcess = errors.New("malformed process")
)

// NotFoundError reports ids of one entity type missing from the store.
type NotFoundError struct {
	Entity EntityType
	IDs    []string
}

// NewNotFound returns a NotFoundError for the given ids.
func NewNotFound(entity EntityType, ids ...string) NotFoundError {
	return NotFoundError{Entity: entity, IDs: ids}
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, strings.Join(e.IDs, ", "))
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
