package attrs

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned by Merge when two domains produce the same
// attribute name. Attribute names must be unique across domains; a later
// domain must never silently overwrite an earlier domain's value.
var ErrDuplicateKey = errors.New("duplicate attribute key")

// Set is an insertion-ordered mapping from attribute name to value.
// The zero value is not usable; create sets with NewSet.
type Set struct {
	keys   []string
	values map[string]Value
}

// NewSet creates an empty attribute set.
func NewSet() *Set {
	return &Set{values: make(map[string]Value)}
}

// Put stores a value under the given key. Re-putting an existing key
// replaces the value but keeps the original position; domains use this to
// refine their own attributes while building a set.
func (s *Set) Put(key string, v Value) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// PutNumber stores a numeric value.
func (s *Set) PutNumber(key string, f float64) {
	s.Put(key, Number(f))
}

// PutText stores a textual value.
func (s *Set) PutText(key, text string) {
	s.Put(key, Text(text))
}

// Get returns the value for a key and whether it exists.
func (s *Set) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the attribute names in insertion order.
func (s *Set) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of attributes.
func (s *Set) Len() int {
	return len(s.keys)
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	out := NewSet()
	for _, k := range s.keys {
		out.Put(k, s.values[k])
	}
	return out
}

// Merge appends every attribute from other into s, preserving other's
// ordering. A key already present in s fails the merge with
// ErrDuplicateKey; nothing is overwritten.
func (s *Set) Merge(other *Set) error {
	for _, k := range other.keys {
		if _, exists := s.values[k]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
	}
	for _, k := range other.keys {
		s.Put(k, other.values[k])
	}
	return nil
}
