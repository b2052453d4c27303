package cache

import (
	"testing"
	"time"
)

func TestSeenMark(t *testing.T) {
	s := NewSeen(10, time.Minute)
	if !s.Mark("a") {
		t.Fatal("first mark should be new")
	}
	if s.Mark("a") {
		t.Fatal("second mark should not be new")
	}
	s.Forget("a")
	if !s.Mark("a") {
		t.Fatal("forgotten id should be new again")
	}
}

func TestSeenEvictsLeastRecent(t *testing.T) {
	s := NewSeen(2, time.Minute)
	s.Mark("a")
	s.Mark("b")
	s.Mark("a") // a is now most recent
	s.Mark("c") // evicts b

	if s.Len() != 2 {
		t.Fatalf("expected 2 ids, got %d", s.Len())
	}
	if s.Mark("a") {
		t.Error("a should still be remembered")
	}
	if !s.Mark("b") {
		t.Error("b should have been evicted")
	}
}

func TestSeenExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSeen(10, time.Minute)
	s.now = func() time.Time { return now }

	s.Mark("a")
	now = now.Add(2 * time.Minute)
	if !s.Mark("a") {
		t.Error("expired id should be new")
	}
}
