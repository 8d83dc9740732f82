package utils

import (
	"iter"

	"github.com/oomph-ac/charsim/assert"
)

// RingBuffer is a fixed-capacity circular buffer. Adding to a full buffer overwrites the
// oldest element.
type RingBuffer[T any] struct {
	items []T
	head  int // Points to the oldest element
	size  int
}

// NewRingBuffer creates a new ring buffer with the specified capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	assert.IsTrue(capacity > 0, "ring buffer capacity must be positive (got %d)", capacity)
	return &RingBuffer[T]{items: make([]T, capacity)}
}

// Add inserts an item after the newest element, dropping the oldest one if the buffer is full.
func (rb *RingBuffer[T]) Add(item T) {
	rb.items[(rb.head+rb.size)%len(rb.items)] = item
	if rb.size == len(rb.items) {
		rb.head = (rb.head + 1) % len(rb.items)
		return
	}
	rb.size++
}

// At returns the element at logical position index, where 0 is the oldest element.
func (rb *RingBuffer[T]) At(index int) (T, bool) {
	var zero T
	if index < 0 || index >= rb.size {
		return zero, false
	}
	return rb.items[(rb.head+index)%len(rb.items)], true
}

// Latest returns the newest element.
func (rb *RingBuffer[T]) Latest() (T, bool) {
	return rb.At(rb.size - 1)
}

// Oldest returns the oldest element.
func (rb *RingBuffer[T]) Oldest() (T, bool) {
	return rb.At(0)
}

// Len returns the amount of elements in the buffer.
func (rb *RingBuffer[T]) Len() int {
	return rb.size
}

// Capacity returns the maximum amount of elements the buffer can hold.
func (rb *RingBuffer[T]) Capacity() int {
	return len(rb.items)
}

// Clear removes all elements from the buffer.
func (rb *RingBuffer[T]) Clear() {
	clear(rb.items)
	rb.head, rb.size = 0, 0
}

// All iterates over the elements from oldest to newest.
func (rb *RingBuffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range rb.size {
			if !yield(rb.items[(rb.head+index)%len(rb.items)]) {
				return
			}
		}
	}
}

// Backward iterates over the elements from newest to oldest.
func (rb *RingBuffer[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := rb.size - 1; index >= 0; index-- {
			if !yield(rb.items[(rb.head+index)%len(rb.items)]) {
				return
			}
		}
	}
}
