// Package best provides tie-aware reducers that keep the minimum of a stream
// of keyed values.
package best

import "iter"

// Keyed is implemented by values ordered by a scalar key, smaller is better.
type Keyed interface {
	Key() float64
}

// Single keeps one value with the minimal key. A candidate replaces the held
// value when its key is less than or equal to it, so on exact ties the most
// recently inserted value wins. The zero value is empty and ready to use.
type Single[T Keyed] struct {
	value T
	ok    bool
}

// Insert offers a candidate.
func (s *Single[T]) Insert(v T) {
	if !s.ok || v.Key() <= s.value.Key() {
		s.value = v
		s.ok = true
	}
}

// Clear empties the reducer.
func (s *Single[T]) Clear() {
	var zero T
	s.value = zero
	s.ok = false
}

// First returns the held value, if any.
func (s *Single[T]) First() (T, bool) {
	return s.value, s.ok
}

// Len returns 0 or 1.
func (s *Single[T]) Len() int {
	if s.ok {
		return 1
	}
	return 0
}

// All yields the held value, if any.
func (s *Single[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s.ok {
			yield(s.value)
		}
	}
}

// Drain yields the held value and leaves the reducer empty.
func (s *Single[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		v, ok := s.value, s.ok
		s.Clear()
		if ok {
			yield(v)
		}
	}
}

// Multi keeps every value tied at the minimal key. A strictly smaller
// candidate evicts the held set, an equal one joins it, a larger one is
// ignored. The zero value is empty and ready to use; Clear keeps capacity.
type Multi[T Keyed] struct {
	values []T
}

// Insert offers a candidate.
func (m *Multi[T]) Insert(v T) {
	if len(m.values) == 0 {
		m.values = append(m.values, v)
		return
	}
	k, cur := v.Key(), m.values[0].Key()
	switch {
	case k < cur:
		m.values = append(m.values[:0], v)
	case k == cur:
		m.values = append(m.values, v)
	}
}

// Clear empties the set.
func (m *Multi[T]) Clear() {
	clear(m.values)
	m.values = m.values[:0]
}

// IsEmpty reports whether nothing is held.
func (m *Multi[T]) IsEmpty() bool {
	return len(m.values) == 0
}

// Len returns the number of tied values held.
func (m *Multi[T]) Len() int {
	return len(m.values)
}

// First returns the earliest inserted of the held values.
func (m *Multi[T]) First() (T, bool) {
	if len(m.values) == 0 {
		var zero T
		return zero, false
	}
	return m.values[0], true
}

// All yields the held values in insertion order.
func (m *Multi[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range m.values {
			if !yield(v) {
				return
			}
		}
	}
}

// Drain yields the held values in insertion order and leaves the set empty,
// even if iteration stops early.
func (m *Multi[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer m.Clear()
		for _, v := range m.values {
			if !yield(v) {
				return
			}
		}
	}
}
