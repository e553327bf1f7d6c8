// Package sequence wraps iter.Seq with chainable read-only queries.
package sequence

import "iter"

// Iterator is an immutable, chainable view over a sequence of T.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From iterates a slice. The slice header is captured at call time, so
// later appends by the owner are not observed.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, v := range data {
				if !yield(v) {
					return
				}
			}
		},
	}
}

// Seq returns the underlying sequence for use with range.
func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Collect exhausts the iterator. The result is never nil.
func (i *Iterator[T]) Collect() []T {
	out := make([]T, 0)
	for v := range i.seq {
		out = append(out, v)
	}
	return out
}

func (i *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for v := range i.seq {
				if pred(v) && !yield(v) {
					return
				}
			}
		},
	}
}

// Find returns the first element matching pred.
func (i *Iterator[T]) Find(pred func(T) bool) (T, bool) {
	for v := range i.seq {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Map transforms every element of it with fn.
func Map[T any, R any](it *Iterator[T], fn func(T) R) *Iterator[R] {
	return &Iterator[R]{
		seq: func(yield func(R) bool) {
			for v := range it.seq {
				if !yield(fn(v)) {
					return
				}
			}
		},
	}
}
