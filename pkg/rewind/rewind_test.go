package rewind

import "testing"

func TestPushPopFIFOOrder(t *testing.T) {
	b := New(4)
	b.Push([]byte{1})
	b.Push([]byte{2})
	b.Push([]byte{3})

	if got, ok := b.Pop(); !ok || got[0] != 1 {
		t.Fatalf("expected {1}, got %v ok=%v", got, ok)
	}
	if got, ok := b.Pop(); !ok || got[0] != 2 {
		t.Fatalf("expected {2}, got %v ok=%v", got, ok)
	}
}

func TestPopNewestUndoesLastPush(t *testing.T) {
	b := New(4)
	b.Push([]byte{1})
	b.Push([]byte{2})
	b.Push([]byte{3})

	got, ok := b.PopNewest()
	if !ok || got[0] != 3 {
		t.Fatalf("expected {3}, got %v ok=%v", got, ok)
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", b.Len())
	}

	got, ok = b.PopNewest()
	if !ok || got[0] != 2 {
		t.Fatalf("expected {2}, got %v ok=%v", got, ok)
	}
}

func TestPushBeyondCapacityEvictsOldest(t *testing.T) {
	// Capacity 3 holds at most 2 entries before eviction starts.
	b := New(3)
	b.Push([]byte{1})
	b.Push([]byte{2})
	b.Push([]byte{3})
	b.Push([]byte{4})

	if b.Len() != 2 {
		t.Fatalf("expected 2 entries held, got %d", b.Len())
	}
	got, ok := b.Pop()
	if !ok || got[0] != 3 {
		t.Fatalf("expected oldest surviving entry {3}, got %v ok=%v", got, ok)
	}
	got, ok = b.Pop()
	if !ok || got[0] != 4 {
		t.Fatalf("expected {4}, got %v ok=%v", got, ok)
	}
}

func TestEmptyBufferReportsNotOK(t *testing.T) {
	b := New(4)
	if _, ok := b.Pop(); ok {
		t.Fatal("expected Pop on empty buffer to report false")
	}
	if _, ok := b.PopNewest(); ok {
		t.Fatal("expected PopNewest on empty buffer to report false")
	}
}
