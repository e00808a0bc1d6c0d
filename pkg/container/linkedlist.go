package container

import (
	"iter"

	"go.llib.dev/frameless/pkg/compare"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/slicekit"
	"go.llib.dev/lazyfilter/pkg/filterkit"
)

// LinkedList is a doubly linked list, and an ordered filterkit.Collection with Node positions.
//
// Positions are only valid until the list is mutated.
type LinkedList[T any] struct {
	head   *llElem[T]
	tail   *llElem[T]
	length int
}

type llElem[T any] struct {
	data T
	prev *llElem[T]
	next *llElem[T]
}

var _ filterkit.Collection[any, Node[any]] = (*LinkedList[any])(nil)

const ErrEndNode errorkit.Error = "ErrEndNode: the end node has no element and no successor"

// Node is a position in a LinkedList.
// Nodes are ordered by their distance from the head of the list.
type Node[T any] struct {
	elem    *llElem[T]
	ordinal int
}

func (n Node[T]) Compare(oth Node[T]) int { return compare.Numbers(n.ordinal, oth.ordinal) }

// Ordinal is the distance of the Node from the head of the list.
func (n Node[T]) Ordinal() int { return n.ordinal }

func (ll *LinkedList[T]) Start() Node[T] {
	if ll.head == nil {
		return ll.End()
	}
	return Node[T]{elem: ll.head, ordinal: 0}
}

func (ll *LinkedList[T]) End() Node[T] {
	return Node[T]{ordinal: ll.length}
}

// Successor panics with ErrEndNode when n is the end Node.
func (ll *LinkedList[T]) Successor(n Node[T]) Node[T] {
	if n.elem == nil {
		panic(ErrEndNode)
	}
	return Node[T]{elem: n.elem.next, ordinal: n.ordinal + 1}
}

// At panics with ErrEndNode when n is the end Node.
func (ll *LinkedList[T]) At(n Node[T]) T {
	if n.elem == nil {
		panic(ErrEndNode)
	}
	return n.elem.data
}

func (ll *LinkedList[T]) MakeProducer() filterkit.Producer[T] {
	var current = ll.head
	return filterkit.ProducerFunc[T](func() (T, bool) {
		if current == nil {
			var zero T
			return zero, false
		}
		v := current.data
		current = current.next
		return v, true
	})
}

func (ll *LinkedList[T]) Iter() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if ll == nil {
			return
		}
		var index int
		for current := ll.head; current != nil; current = current.next {
			if !yield(index, current.data) {
				return
			}
			index++
		}
	}
}

func (ll *LinkedList[T]) ToSlice() []T {
	var vs []T
	for _, v := range ll.Iter() {
		vs = append(vs, v)
	}
	return vs
}

func (ll *LinkedList[T]) Append(vs ...T) {
	for _, v := range vs {
		ll.append(v)
	}
}

func (ll *LinkedList[T]) append(v T) {
	elem := &llElem[T]{data: v, prev: ll.tail}
	if ll.tail == nil {
		ll.head = elem
	} else {
		ll.tail.next = elem
	}
	ll.tail = elem
	ll.length++
}

// Prepend adds elements to the beginning of the list, keeping their order.
func (ll *LinkedList[T]) Prepend(vs ...T) {
	for _, v := range slicekit.IterReverse(vs) {
		ll.prepend(v)
	}
}

func (ll *LinkedList[T]) prepend(v T) {
	elem := &llElem[T]{data: v, next: ll.head}
	if ll.head != nil {
		ll.head.prev = elem
	}
	ll.head = elem
	if ll.tail == nil {
		ll.tail = elem
	}
	ll.length++
}

// Length returns the number of elements in the list
func (ll *LinkedList[T]) Length() int {
	return ll.length
}

// Shift removes and returns the first element.
func (ll *LinkedList[T]) Shift() (T, bool) {
	first := ll.head
	if first == nil {
		var zero T
		return zero, false
	}
	ll.head = first.next
	if ll.head == nil {
		ll.tail = nil
	} else {
		ll.head.prev = nil
	}
	ll.length--
	return first.data, true
}
