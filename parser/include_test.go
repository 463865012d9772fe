package parser

import "testing"

func TestIncludeStackPushPop(t *testing.T) {
	s := NewIncludeStack("top.s", []byte("top"))
	if !s.AtTopLevel() {
		t.Fatalf("expected to start at top level")
	}
	if err := s.Push("inner.s", []byte("inner")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if s.AtTopLevel() {
		t.Fatalf("expected not to be at top level after push")
	}
	if s.Top().Name != "inner.s" {
		t.Fatalf("Top().Name = %q, want inner.s", s.Top().Name)
	}
	s.Pop()
	if !s.AtTopLevel() || s.Top().Name != "top.s" {
		t.Fatalf("expected to resume top.s after pop")
	}
}

func TestIncludeStackPopAtTopLevelIsNoOp(t *testing.T) {
	s := NewIncludeStack("top.s", []byte("top"))
	s.Pop()
	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", s.Depth())
	}
}

func TestIncludeStackDepthExceeded(t *testing.T) {
	s := NewIncludeStackWithDepth("top.s", []byte("top"), 2)
	if err := s.Push("a.s", []byte("a")); err != nil {
		t.Fatalf("Push a.s: %v", err)
	}
	if err := s.Push("b.s", []byte("b")); err == nil {
		t.Fatalf("expected depth-exceeded error")
	}
}
