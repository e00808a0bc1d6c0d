package filterkit

import (
	"iter"
)

// SequenceView is a restartable filtered view over a multi-pass Sequence.
//
// SequenceView is immutable, and it is a Sequence on its own.
type SequenceView[T any] struct {
	base      Sequence[T]
	predicate Predicate[T]
}

// MakeIterator returns a fresh Iterator which starts from the beginning of a new traversal of the base.
//
// Complexity: O(1)
func (v SequenceView[T]) MakeIterator() *Iterator[T] {
	return NewIterator(v.base.MakeProducer(), v.predicate)
}

func (v SequenceView[T]) MakeProducer() Producer[T] {
	return v.MakeIterator()
}

// Base returns the underlying Sequence whose elements are being filtered.
func (v SequenceView[T]) Base() Sequence[T] {
	return v.base
}

// Filter narrows down the view further.
// The returned view includes only the elements which satisfy both the current and the new predicate.
func (v SequenceView[T]) Filter(predicate Predicate[T]) SequenceView[T] {
	return FilterSequence(v.base, and(v.predicate, predicate))
}

// All returns an iter.Seq which makes a new Iterator for every range loop.
func (v SequenceView[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := range v.MakeIterator().All() {
			if !yield(e) {
				return
			}
		}
	}
}
