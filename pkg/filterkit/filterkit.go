// Package filterkit provides lazy, predicate filtered views over existing sequences and ordered collections.
//
// # Summary
//
// A filtered view never copies its base and never evaluates the predicate before an element is requested.
// There are two ways to traverse a filtered view:
//
//   - pull based: an Iterator is a single-pass, forward-only traversal which skips the non-matching elements.
//     A SequenceView can make any number of independent Iterator from a multi-pass Sequence.
//   - positional: a CollectionView exposes re-enterable Index positions over an ordered Collection.
//     The Index values order exactly like the base positions they wrap.
//
// # Complexity
//
// Pull based traversal evaluates the predicate exactly once per base element.
// Positional traversal may evaluate the predicate multiple times for the same element,
// and unlike most collections, CollectionView.Start is not O(1),
// it scans the base until the first match on every call.
// Cache the start Index if you need it repeatedly.
//
// # Misuse
//
// No recoverable error exists in this package.
// Stepping past the end, advancing by a negative amount, or subscripting the end position
// is a programming error, and it panics on the spot.
package filterkit

import (
	"iter"

	"go.llib.dev/frameless/pkg/compare"
	"go.llib.dev/frameless/pkg/errorkit"
)

const (
	ErrNegativeAdvance errorkit.Error = "ErrNegativeAdvance: filtered views can only advance forward"
	ErrSuccessorOfEnd  errorkit.Error = "ErrSuccessorOfEnd: the end position has no successor"
	ErrSubscriptEnd    errorkit.Error = "ErrSubscriptEnd: the end position is not a valid subscript"
)

// Predicate is the inclusion test of a filtered view.
//
// A Predicate should be safe to call repeatedly with the same element,
// as positional traversal might test an element more than once.
type Predicate[T any] func(T) bool

// Producer is a single-pass source of elements.
// Next returns the next element, or false when the producer is exhausted.
// Once exhausted, a Producer is not expected to produce again.
type Producer[T any] interface {
	Next() (T, bool)
}

// ProducerFunc is the func form of a Producer, which makes the "next" of an iter.Pull usable as a Producer.
type ProducerFunc[T any] func() (T, bool)

func (fn ProducerFunc[T]) Next() (T, bool) { return fn() }

// Stopper is an optional interface for Producer implementations which hold resources until they are exhausted.
type Stopper interface {
	Stop()
}

// Sequence is a multi-pass source.
// Every MakeProducer call must start a fresh traversal,
// independent from the previously made producers.
//
// When the Sequence is single-pass by nature,
// only the first Producer made from it will observe the elements.
type Sequence[T any] interface {
	MakeProducer() Producer[T]
}

// Collection is an ordered, indexable container.
//
// Start returns the position of the first element, or End when the collection is empty.
// End is the "past the end" position, greater than every element position.
// Successor returns the position following a non-end position.
// At returns the element at a non-end position.
//
// Positions from the same Collection must form a total order through their Compare method.
type Collection[T any, P compare.Interface[P]] interface {
	Sequence[T]
	Start() P
	End() P
	Successor(P) P
	At(P) T
}

// Seq turns a re-callable iter.Seq into a Sequence.
type Seq[T any] iter.Seq[T]

func (seq Seq[T]) MakeProducer() Producer[T] {
	if seq == nil {
		return ProducerFunc[T](func() (T, bool) {
			var zero T
			return zero, false
		})
	}
	next, stop := iter.Pull(iter.Seq[T](seq))
	return &pullProducer[T]{next: next, stop: stop}
}

type pullProducer[T any] struct {
	next func() (T, bool)
	stop func()
}

func (p *pullProducer[T]) Next() (T, bool) {
	v, ok := p.next()
	if !ok {
		p.stop()
	}
	return v, ok
}

func (p *pullProducer[T]) Stop() { p.stop() }

// FilterSequence makes a lazy SequenceView over the base which only includes elements that satisfy the predicate.
func FilterSequence[T any](base Sequence[T], predicate Predicate[T]) SequenceView[T] {
	return SequenceView[T]{base: base, predicate: predicate}
}

// FilterSeq is a FilterSequence shortcut for iter.Seq.
func FilterSeq[T any](seq iter.Seq[T], predicate Predicate[T]) SequenceView[T] {
	return FilterSequence[T](Seq[T](seq), predicate)
}

// FilterCollection makes a lazy CollectionView over the base which only includes elements that satisfy the predicate.
func FilterCollection[T any, P compare.Interface[P]](base Collection[T, P], predicate Predicate[T]) CollectionView[T, P] {
	return CollectionView[T, P]{base: base, predicate: predicate}
}

func and[T any](a, b Predicate[T]) Predicate[T] {
	return func(v T) bool { return a(v) && b(v) }
}
