package types

import "sort"

// Set represents a collection of unique elements.
type Set[T comparable] struct {
	data map[T]struct{}
}

// NewSet creates and returns a new set holding values.
func NewSet[T comparable](values ...T) *Set[T] {
	s := &Set[T]{data: make(map[T]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add adds an element to the set.
func (s *Set[T]) Add(value T) {
	s.data[value] = struct{}{}
}

// Remove removes an element from the set.
func (s *Set[T]) Remove(value T) {
	delete(s.data, value)
}

// Contains checks if an element is in the set. A nil set contains nothing.
func (s *Set[T]) Contains(value T) bool {
	if s == nil {
		return false
	}
	_, exists := s.data[value]
	return exists
}

// Size returns the number of elements in the set.
func (s *Set[T]) Size() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Values returns all elements in the set as a slice.
func (s *Set[T]) Values() []T {
	if s == nil {
		return nil
	}
	keys := make([]T, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys
}

// SortedKeys returns the keys of a node key set in lexical order.
func SortedKeys(s *Set[NodeKey]) []NodeKey {
	keys := s.Values()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
