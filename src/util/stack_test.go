package util

import "testing"

func TestStackPushPopLIFO(t *testing.T) {
	var s Stack[int]
	s.Push(1)
	s.Push(2)
	s.Push(3)

	v, ok := s.Pop()
	if !ok || v != 3 {
		t.Fatalf("Pop() = (%d, %v), want (3, true)", v, ok)
	}
	v, ok = s.Pop()
	if !ok || v != 2 {
		t.Fatalf("Pop() = (%d, %v), want (2, true)", v, ok)
	}
}

func TestStackPopEmpty(t *testing.T) {
	var s Stack[string]
	if _, ok := s.Pop(); ok {
		t.Fatal("Pop() on an empty stack should report false")
	}
}

func TestStackPeekDoesNotRemove(t *testing.T) {
	var s Stack[int]
	s.Push(42)
	if v, ok := s.Peek(); !ok || v != 42 {
		t.Fatalf("Peek() = (%d, %v), want (42, true)", v, ok)
	}
	if s.Size() != 1 {
		t.Fatalf("Size() after Peek() = %d, want 1", s.Size())
	}
}

func TestStackGetOneIndexedFromTop(t *testing.T) {
	var s Stack[int]
	s.Push(1)
	s.Push(2)
	s.Push(3)
	if v, ok := s.Get(1); !ok || v != 3 {
		t.Fatalf("Get(1) = (%d, %v), want (3, true)", v, ok)
	}
	if v, ok := s.Get(3); !ok || v != 1 {
		t.Fatalf("Get(3) = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := s.Get(4); ok {
		t.Fatal("Get(4) out of range should report false")
	}
}

func TestStackPopNOrderIsTopFirst(t *testing.T) {
	var s Stack[int]
	s.Push(1)
	s.Push(2)
	s.Push(3)
	got := s.PopN(2)
	want := []int{3, 2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("PopN(2) = %v, want %v", got, want)
	}
	if s.Size() != 1 {
		t.Fatalf("Size() after PopN(2) = %d, want 1", s.Size())
	}
}

func TestStackPopNStopsAtEmpty(t *testing.T) {
	var s Stack[int]
	s.Push(1)
	got := s.PopN(5)
	if len(got) != 1 {
		t.Fatalf("PopN(5) on a 1-element stack returned %d elements, want 1", len(got))
	}
}
