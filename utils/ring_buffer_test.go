package utils

import (
	"slices"
	"testing"
)

func TestRingBufferOverwrite(t *testing.T) {
	rb := NewRingBuffer[int](3)
	for i := 1; i <= 5; i++ {
		rb.Add(i)
	}

	if rb.Len() != 3 || rb.Capacity() != 3 {
		t.Fatalf("expected a full buffer of 3, got %d/%d", rb.Len(), rb.Capacity())
	}
	if got := slices.Collect(rb.All()); !slices.Equal(got, []int{3, 4, 5}) {
		t.Fatalf("expected [3 4 5], got %v", got)
	}
	if got := slices.Collect(rb.Backward()); !slices.Equal(got, []int{5, 4, 3}) {
		t.Fatalf("expected [5 4 3], got %v", got)
	}
	if v, ok := rb.Latest(); !ok || v != 5 {
		t.Fatalf("expected latest 5, got %v", v)
	}
	if v, ok := rb.Oldest(); !ok || v != 3 {
		t.Fatalf("expected oldest 3, got %v", v)
	}
	if _, ok := rb.At(3); ok {
		t.Fatalf("expected out of range access to fail")
	}
}

func TestRingBufferClear(t *testing.T) {
	rb := NewRingBuffer[string](2)
	rb.Add("a")
	rb.Clear()

	if _, ok := rb.Latest(); ok || rb.Len() != 0 {
		t.Fatalf("expected an empty buffer after clear")
	}
	rb.Add("b")
	rb.Add("c")
	rb.Add("d")
	if got := slices.Collect(rb.All()); !slices.Equal(got, []string{"c", "d"}) {
		t.Fatalf("expected [c d], got %v", got)
	}
}

func TestRingBufferZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a zero capacity")
		}
	}()
	NewRingBuffer[int](0)
}
