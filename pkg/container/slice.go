// Package container holds ordered base collections which can be filtered with filterkit.
package container

import (
	"go.llib.dev/frameless/pkg/compare"
	"go.llib.dev/lazyfilter/pkg/filterkit"
)

// Offset is a position in a Slice.
type Offset int

func (o Offset) Compare(oth Offset) int { return compare.Numbers(int(o), int(oth)) }

// Slice is a random access filterkit.Collection over a []T.
type Slice[T any] []T

var _ filterkit.Collection[any, Offset] = Slice[any]{}

func (s Slice[T]) Start() Offset { return 0 }

func (s Slice[T]) End() Offset { return Offset(len(s)) }

func (s Slice[T]) Successor(o Offset) Offset { return o + 1 }

func (s Slice[T]) At(o Offset) T { return s[o] }

func (s Slice[T]) MakeProducer() filterkit.Producer[T] {
	var offset int
	return filterkit.ProducerFunc[T](func() (T, bool) {
		if len(s) <= offset {
			var zero T
			return zero, false
		}
		v := s[offset]
		offset++
		return v, true
	})
}
