package filterkit

import (
	"iter"

	"go.llib.dev/frameless/pkg/compare"
)

// CollectionView is a lazy filtered view over an ordered Collection,
// with stable, re-enterable Index positions.
//
// The view never copies the base.
// Every position reachable from Start through Successor points to a matching element, until End is reached.
//
// CollectionView is itself a Collection over Index positions, so it can be used as a base of another view.
type CollectionView[T any, P compare.Interface[P]] struct {
	base      Collection[T, P]
	predicate Predicate[T]
}

// Start returns the Index of the first matching element, or End when nothing matches.
//
// Complexity: O(K), where K is the distance of the first match from the base start.
// Start scans on every call, cache the result when it is needed repeatedly.
func (v CollectionView[T, P]) Start() Index[P] {
	return Index[P]{base: v.seek(v.base.Start())}
}

// End returns the "past the end" Index, which is always the end position of the base.
//
// Complexity: O(1)
func (v CollectionView[T, P]) End() Index[P] {
	return Index[P]{base: v.base.End()}
}

// Successor returns the Index of the next matching element after i, or End.
// Successor panics when i is the End.
func (v CollectionView[T, P]) Successor(i Index[P]) Index[P] {
	end := v.base.End()
	if isEqual(i.base, end) {
		panic(ErrSuccessorOfEnd)
	}
	return Index[P]{base: v.seekFrom(v.base.Successor(i.base), end)}
}

// Advance moves i forward by n matching elements.
// When End is reached earlier, Advance returns End.
// Advance panics when n is negative.
func (v CollectionView[T, P]) Advance(i Index[P], n int) Index[P] {
	if n < 0 {
		panic(ErrNegativeAdvance)
	}
	var (
		end = v.base.End()
		pos = i.base
	)
	for range n {
		if isEqual(pos, end) {
			break
		}
		pos = v.seekFrom(v.base.Successor(pos), end)
	}
	return Index[P]{base: pos}
}

// AdvanceLimit moves i forward by n matching elements,
// but it stops as soon as the scan reaches limit or End.
// The returned Index is where the scan stopped: limit, End or the nth match.
//
// A limit which is not ahead of i is never reached.
// AdvanceLimit panics when n is negative.
func (v CollectionView[T, P]) AdvanceLimit(i Index[P], n int, limit Index[P]) Index[P] {
	if n < 0 {
		panic(ErrNegativeAdvance)
	}
	var (
		end = v.base.End()
		pos = i.base
	)
	for range n {
		if isEqual(pos, end) || isEqual(pos, limit.base) {
			break
		}
		pos = v.seekLimit(v.base.Successor(pos), end, limit.base)
	}
	return Index[P]{base: pos}
}

// At returns the element at i.
//
// The i must be a non-end Index made by this view.
// At doesn't test the predicate again, it delegates to the base directly.
// At panics when i is the End.
func (v CollectionView[T, P]) At(i Index[P]) T {
	if isEqual(i.base, v.base.End()) {
		panic(ErrSubscriptEnd)
	}
	return v.base.At(i.base)
}

// MakeIterator returns an Iterator over the matching elements, built on the base's own Producer.
// Linear traversal with an Iterator is cheaper than stepping through Index positions.
func (v CollectionView[T, P]) MakeIterator() *Iterator[T] {
	return NewIterator(v.base.MakeProducer(), v.predicate)
}

func (v CollectionView[T, P]) MakeProducer() Producer[T] {
	return v.MakeIterator()
}

// Base returns the underlying Collection whose elements are being filtered.
func (v CollectionView[T, P]) Base() Collection[T, P] {
	return v.base
}

// IsEmpty reports whether no element of the base satisfies the predicate.
func (v CollectionView[T, P]) IsEmpty() bool {
	return v.Start().Equal(v.End())
}

// First returns the first matching element.
func (v CollectionView[T, P]) First() (T, bool) {
	start := v.Start()
	if start.Equal(v.End()) {
		var zero T
		return zero, false
	}
	return v.base.At(start.base), true
}

// Filter narrows down the view further.
// The returned view shares the base, so its Index values are interchangeable with the current view's Index values.
func (v CollectionView[T, P]) Filter(predicate Predicate[T]) CollectionView[T, P] {
	return FilterCollection(v.base, and(v.predicate, predicate))
}

// Values returns the matching elements as an iter.Seq, using a new Iterator for each range loop.
func (v CollectionView[T, P]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := range v.MakeIterator().All() {
			if !yield(e) {
				return
			}
		}
	}
}

// Indices walks the view by positions, yielding each Index with its element.
func (v CollectionView[T, P]) Indices() iter.Seq2[Index[P], T] {
	return func(yield func(Index[P], T) bool) {
		var end = v.End()
		for i := v.Start(); !i.Equal(end); i = v.Successor(i) {
			if !yield(i, v.base.At(i.base)) {
				return
			}
		}
	}
}

func (v CollectionView[T, P]) seek(pos P) P {
	return v.seekFrom(pos, v.base.End())
}

func (v CollectionView[T, P]) seekFrom(pos, end P) P {
	for !isEqual(pos, end) {
		if v.predicate(v.base.At(pos)) {
			return pos
		}
		pos = v.base.Successor(pos)
	}
	return pos
}

func (v CollectionView[T, P]) seekLimit(pos, end, limit P) P {
	for !isEqual(pos, end) && !isEqual(pos, limit) {
		if v.predicate(v.base.At(pos)) {
			return pos
		}
		pos = v.base.Successor(pos)
	}
	return pos
}
