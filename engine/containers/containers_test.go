package containers

import (
	"errors"
	"testing"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](3)
	for i := 1; i <= 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d) = %v", i, err)
		}
	}
	if !rq.IsFull() {
		t.Fatal("queue should be full")
	}
	if err := rq.Enqueue(4); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue on full queue = %v, want ErrQueueFull", err)
	}
	if got := rq.At(2); got != 3 {
		t.Errorf("At(2) = %d, want 3", got)
	}

	v, err := rq.Dequeue()
	if err != nil || v != 1 {
		t.Fatalf("Dequeue() = %d, %v, want 1", v, err)
	}
	// Wrap the write index around.
	if err := rq.Enqueue(4); err != nil {
		t.Fatalf("Enqueue after Dequeue = %v", err)
	}
	for _, want := range []int{2, 3, 4} {
		v, err := rq.Dequeue()
		if err != nil || v != want {
			t.Fatalf("Dequeue() = %d, %v, want %d", v, err, want)
		}
	}
	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Dequeue on empty = %v, want ErrQueueEmpty", err)
	}
	if _, err := rq.Peek(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Peek on empty = %v, want ErrQueueEmpty", err)
	}
}

func TestRingQueueReset(t *testing.T) {
	rq := NewRingQueue[string](2)
	_ = rq.Enqueue("a")
	_ = rq.Enqueue("b")
	rq.Reset()
	if !rq.IsEmpty() || rq.Len() != 0 {
		t.Fatalf("Reset left %d elements", rq.Len())
	}
	if rq.Cap() != 2 {
		t.Fatalf("Cap() = %d, want 2", rq.Cap())
	}
	_ = rq.Enqueue("c")
	if v, _ := rq.Peek(); v != "c" {
		t.Fatalf("Peek() = %q, want c", v)
	}
}

func TestStack(t *testing.T) {
	s := NewStack[int](2)
	if _, ok := s.Pop(); ok {
		t.Fatal("Pop on empty stack reported ok")
	}
	s.Push(1)
	s.Push(2)
	s.Push(3)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	for _, want := range []int{3, 2} {
		if v, ok := s.Pop(); !ok || v != want {
			t.Fatalf("Pop() = %d, %v, want %d", v, ok, want)
		}
	}
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("Len() after Reset = %d", s.Len())
	}
}
