package filterkit

import (
	"go.llib.dev/frameless/pkg/iterkit"
)

// Iterator is a pull based traversal over the elements of a base Producer that satisfy the predicate.
//
// Iterator is single-pass, and it mutates its base Producer as it advances.
type Iterator[T any] struct {
	base      Producer[T]
	predicate Predicate[T]
}

// NewIterator makes an Iterator which yields the elements of base for which the predicate is true.
// The Iterator takes over the base, the caller should no longer advance it directly.
func NewIterator[T any](base Producer[T], predicate Predicate[T]) *Iterator[T] {
	return &Iterator[T]{base: base, predicate: predicate}
}

// Next advances the Iterator to the next matching element and returns it.
// When the base is exhausted before a match, Next returns false.
//
// Calling Next again after it already returned false is undefined behaviour.
// Most Producer will keep reporting exhaustion, but it is not guaranteed.
func (i *Iterator[T]) Next() (T, bool) {
	for {
		v, ok := i.base.Next()
		if !ok {
			return v, false
		}
		if i.predicate(v) {
			return v, true
		}
	}
}

// Base returns the underlying Producer whose elements are being filtered.
func (i *Iterator[T]) Base() Producer[T] {
	return i.base
}

// Stop releases the base Producer, when it holds resources.
// Stop is only needed when the traversal is abandoned before exhaustion.
func (i *Iterator[T]) Stop() {
	if s, ok := i.base.(Stopper); ok {
		s.Stop()
	}
}

// All turns the Iterator into a range-over-func sequence.
// Breaking out of the range loop stops the Iterator.
func (i *Iterator[T]) All() iterkit.SingleUseSeq[T] {
	return iterkit.FromPull(i.Next, i.Stop)
}
