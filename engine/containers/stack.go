package containers

// Stack is a LIFO backed by a slice that keeps its storage across Reset.
type Stack[T any] struct {
	data []T
}

func NewStack[T any](capacity int) *Stack[T] {
	return &Stack[T]{data: make([]T, 0, capacity)}
}

func (s *Stack[T]) Push(value T) {
	s.data = append(s.data, value)
}

// Pop removes the top element. ok is false on an empty stack.
func (s *Stack[T]) Pop() (value T, ok bool) {
	if len(s.data) == 0 {
		return value, false
	}
	last := len(s.data) - 1
	value = s.data[last]
	var zero T
	s.data[last] = zero
	s.data = s.data[:last]
	return value, true
}

func (s *Stack[T]) Len() int {
	return len(s.data)
}

func (s *Stack[T]) Reset() {
	clear(s.data)
	s.data = s.data[:0]
}
