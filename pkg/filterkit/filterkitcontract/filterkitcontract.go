package filterkitcontract

import (
	"testing"

	"go.llib.dev/frameless/pkg/compare"
	"go.llib.dev/frameless/port/contract"
	"go.llib.dev/lazyfilter/pkg/filterkit"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
)

// Sequence asserts that every Producer made by the Sequence starts a fresh, independent traversal.
func Sequence[T any](mk contract.Make[filterkit.Sequence[T]]) contract.Contract {
	s := testcase.NewSpec(nil)

	subject := testcase.Let(s, func(t *testcase.T) filterkit.Sequence[T] {
		return mk(t)
	})

	s.Test("producers replay the same elements", func(t *testcase.T) {
		exp := collect(subject.Get(t).MakeProducer())
		got := collect(subject.Get(t).MakeProducer())
		assert.Equal(t, exp, got)
	})

	s.Test("producers don't share progress", func(t *testcase.T) {
		var (
			p1 = subject.Get(t).MakeProducer()
			p2 = subject.Get(t).MakeProducer()
		)
		defer stop(p2)
		first, ok := p1.Next()
		if !ok {
			t.Skip("the sequence is empty")
		}
		_ = collect(p1)
		got, ok := p2.Next()
		assert.True(t, ok, "second producer should still have its first element")
		assert.Equal(t, first, got)
	})

	s.Test("an exhausted producer keeps reporting exhaustion", func(t *testcase.T) {
		p := subject.Get(t).MakeProducer()
		_ = collect(p)
		_, ok := p.Next()
		assert.False(t, ok)
	})

	return s.AsSuite("filterkit.Sequence")
}

type CollectionSubject[T any, P compare.Interface[P]] struct {
	Collection filterkit.Collection[T, P]
	// Elements are the elements of the Collection in order.
	Elements []T
}

// Collection asserts the ordering and traversal laws of an ordered filterkit.Collection.
func Collection[T any, P compare.Interface[P]](mk contract.Make[CollectionSubject[T, P]]) contract.Contract {
	s := testcase.NewSpec(nil)

	subject := testcase.Let(s, func(t *testcase.T) CollectionSubject[T, P] {
		return mk(t)
	})

	positions := testcase.Let(s, func(t *testcase.T) []P {
		c := subject.Get(t).Collection
		var ps []P
		for p := c.Start(); !compare.IsEqual(p.Compare(c.End())); p = c.Successor(p) {
			ps = append(ps, p)
		}
		return ps
	})

	s.Test("stepping from start to end visits every element in order", func(t *testcase.T) {
		c := subject.Get(t).Collection
		var got []T
		for _, p := range positions.Get(t) {
			got = append(got, c.At(p))
		}
		assert.Equal(t, len(subject.Get(t).Elements), len(got))
		if 0 < len(got) {
			assert.Equal(t, subject.Get(t).Elements, got)
		}
	})

	s.Test("start equals end only when the collection is empty", func(t *testcase.T) {
		c := subject.Get(t).Collection
		isEmpty := compare.IsEqual(c.Start().Compare(c.End()))
		assert.Equal(t, len(subject.Get(t).Elements) == 0, isEmpty)
	})

	s.Test("end is idempotent", func(t *testcase.T) {
		c := subject.Get(t).Collection
		assert.True(t, compare.IsEqual(c.End().Compare(c.End())))
	})

	s.Test("positions compare equal to themselves", func(t *testcase.T) {
		for _, p := range positions.Get(t) {
			assert.True(t, compare.IsEqual(p.Compare(p)))
		}
	})

	s.Test("successor is strictly greater and end is the greatest", func(t *testcase.T) {
		c := subject.Get(t).Collection
		end := c.End()
		for _, p := range positions.Get(t) {
			next := c.Successor(p)
			assert.True(t, compare.IsGreater(next.Compare(p)))
			assert.True(t, compare.IsLess(p.Compare(next)))
			assert.True(t, compare.IsLess(p.Compare(end)))
			assert.True(t, compare.IsLessOrEqual(next.Compare(end)))
		}
	})

	s.Test("ordering is antisymmetric and transitive", func(t *testcase.T) {
		ps := positions.Get(t)
		for i := range ps {
			for j := range ps {
				cmpIJ, cmpJI := ps[i].Compare(ps[j]), ps[j].Compare(ps[i])
				switch {
				case i < j:
					assert.True(t, compare.IsLess(cmpIJ))
					assert.True(t, compare.IsGreater(cmpJI))
				case i == j:
					assert.True(t, compare.IsEqual(cmpIJ))
				default:
					assert.True(t, compare.IsGreater(cmpIJ))
					assert.True(t, compare.IsLess(cmpJI))
				}
			}
		}
	})

	s.Test("the producer agrees with positional traversal", func(t *testcase.T) {
		got := collect(subject.Get(t).Collection.MakeProducer())
		assert.Equal(t, len(subject.Get(t).Elements), len(got))
		if 0 < len(got) {
			assert.Equal(t, subject.Get(t).Elements, got)
		}
	})

	testcase.RunSuite(s, Sequence(func(tb testing.TB) filterkit.Sequence[T] {
		return mk(tb).Collection
	}))

	return s.AsSuite("filterkit.Collection")
}

func stop[T any](p filterkit.Producer[T]) {
	if s, ok := p.(filterkit.Stopper); ok {
		s.Stop()
	}
}

func collect[T any](p filterkit.Producer[T]) []T {
	var vs []T
	for {
		v, ok := p.Next()
		if !ok {
			return vs
		}
		vs = append(vs, v)
	}
}
