package domain

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Ref links one entity to another. A ref is either unresolved, carrying only
// the target id, or resolved, carrying a copy of the target entity as looked up
// from a store. The zero Ref is the null reference.
type Ref[T any] struct {
	id     string
	entity *T
}

// Unresolved returns a reference holding only the target id.
func Unresolved[T any](id string) Ref[T] {
	return Ref[T]{id: id}
}

// Resolved returns a reference holding the target entity.
func Resolved[T Entity](entity T) Ref[T] {
	return Ref[T]{id: entity.EntityID(), entity: &entity}
}

// ID returns the referenced id, empty for the null reference.
func (r Ref[T]) ID() string { return r.id }

// IsZero reports whether r is the null reference.
func (r Ref[T]) IsZero() bool { return r.id == "" && r.entity == nil }

// IsResolved reports whether r carries its target entity.
func (r Ref[T]) IsResolved() bool { return r.entity != nil }

// Entity returns the resolved target.
func (r Ref[T]) Entity() (T, bool) {
	if r.entity == nil {
		var zero T
		return zero, false
	}
	return *r.entity, true
}

// Unresolve drops the resolved entity, keeping the id.
func (r Ref[T]) Unresolve() Ref[T] { return Ref[T]{id: r.id} }

// MarshalJSON encodes the reference as its id, or null.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON decodes an id string, or null, into an unresolved reference.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var id *string
	if err := json.Unmarshal(data, &id); err != nil {
		return errors.Wrap(err, "decode reference")
	}
	*r = Ref[T]{}
	if id != nil {
		r.id = *id
	}
	return nil
}

// RefIDs returns the ids of refs in order.
func RefIDs[T any](refs []Ref[T]) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID())
	}
	return out
}
