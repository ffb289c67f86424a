package realtime

import (
	"testing"
	"time"
)

func TestTypingStartAndStop(t *testing.T) {
	tr := NewTypingTracker()
	room := ConversationRoom("c1")

	tr.Start(room, "alice")
	tr.Start(room, "bob")

	active := tr.Active(room, time.Minute)
	if len(active) != 2 {
		t.Fatalf("active = %v, want 2 users", active)
	}

	tr.Stop(room, "alice")
	active = tr.Active(room, time.Minute)
	if len(active) != 1 || active[0] != "bob" {
		t.Fatalf("active = %v, want [bob]", active)
	}
}

func TestTypingStopIsIdempotent(t *testing.T) {
	tr := NewTypingTracker()
	room := ConversationRoom("c1")

	tr.Stop(room, "ghost")
	tr.Start(room, "alice")
	tr.Stop(room, "alice")
	tr.Stop(room, "alice")

	if active := tr.Active(room, time.Minute); len(active) != 0 {
		t.Fatalf("active = %v, want empty", active)
	}
}

func TestTypingEntriesAgeOut(t *testing.T) {
	tr := NewTypingTracker()
	room := ConversationRoom("c1")

	tr.Start(room, "alice")
	time.Sleep(20 * time.Millisecond)

	if active := tr.Active(room, 5*time.Millisecond); len(active) != 0 {
		t.Fatalf("active = %v, want stale entry dropped", active)
	}
	if active := tr.Active(room, time.Minute); len(active) != 1 {
		t.Fatalf("active = %v, want entry inside window", active)
	}
}

func TestTypingRoomsAreIsolated(t *testing.T) {
	tr := NewTypingTracker()

	tr.Start(ConversationRoom("c1"), "alice")
	if active := tr.Active(ConversationRoom("c2"), time.Minute); len(active) != 0 {
		t.Fatalf("active = %v, want no bleed between rooms", active)
	}
}
