package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/creativemexy/learnvastora-sub003/internal/domain"
)

func TestJoinCapacityAndOrder(t *testing.T) {
	reg := NewRegistry(4)
	room := domain.RoomID("booking-42")

	for i := 0; i < 4; i++ {
		id := domain.ConnID(fmt.Sprintf("conn-%d", i))
		snapshot, added, err := reg.Join(room, session(id, &fakeConn{}))
		if err != nil {
			t.Fatalf("join %d returned error: %v", i, err)
		}
		if !added {
			t.Fatalf("join %d reported not added", i)
		}
		if len(snapshot) != i+1 {
			t.Fatalf("expected %d members, got %d", i+1, len(snapshot))
		}
	}

	// Fifth joiner is rejected without touching the membership.
	_, _, err := reg.Join(room, session("conn-4", &fakeConn{}))
	if !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	list := reg.Participants(room)
	if len(list) != 4 {
		t.Fatalf("membership changed by rejected join: %d members", len(list))
	}
	for i, p := range list {
		want := domain.ConnID(fmt.Sprintf("conn-%d", i))
		if p.ID != want {
			t.Fatalf("join order broken at %d: got %s want %s", i, p.ID, want)
		}
	}

	// After one member leaves, the rejected connection can join on retry.
	if _, _, ok := reg.Leave(room, "conn-1"); !ok {
		t.Fatal("leave of existing member failed")
	}
	snapshot, added, err := reg.Join(room, session("conn-4", &fakeConn{}))
	if err != nil || !added {
		t.Fatalf("retry join failed: added=%v err=%v", added, err)
	}
	if got := snapshot[len(snapshot)-1].ID; got != "conn-4" {
		t.Fatalf("retried joiner should be last in join order, got %s", got)
	}
}

func TestJoinIdempotent(t *testing.T) {
	reg := NewRegistry(4)
	room := domain.RoomID("r")

	first, _, err := reg.Join(room, session("a", &fakeConn{}))
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	again, added, err := reg.Join(room, session("a", &fakeConn{}))
	if err != nil {
		t.Fatalf("re-join returned error: %v", err)
	}
	if added {
		t.Fatal("re-join of an existing member must be a no-op")
	}
	if len(again) != len(first) || again[0].ID != "a" {
		t.Fatalf("re-join changed the snapshot: %v", again)
	}
}

func TestLeaveUnknownRoomIsNoOp(t *testing.T) {
	reg := NewRegistry(4)
	if _, _, ok := reg.Leave("nope", "a"); ok {
		t.Fatal("leave of unknown room reported a removal")
	}
	if got := reg.Participants("nope"); len(got) != 0 {
		t.Fatalf("unknown room has participants: %v", got)
	}
}

func TestEmptyRoomIsRemoved(t *testing.T) {
	reg := NewRegistry(4)
	room := domain.RoomID("ephemeral")

	if _, _, err := reg.Join(room, session("a", &fakeConn{})); err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(reg.Rooms()) != 1 {
		t.Fatal("room was not created")
	}

	reg.Leave(room, "a")
	if len(reg.Rooms()) != 0 {
		t.Fatal("empty room was not garbage collected")
	}
	if reg.Occupancy(room) != 0 {
		t.Fatal("occupancy of removed room is non-zero")
	}
	// A snapshot of the vanished room is an empty list, not an error.
	if got := reg.Participants(room); len(got) != 0 {
		t.Fatalf("removed room still has participants: %v", got)
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	reg := NewRegistry(4)
	room := domain.RoomID("r")
	a, b := &fakeConn{}, &fakeConn{}
	reg.Join(room, session("a", a))
	reg.Join(room, session("b", b))

	res := reg.Broadcast(room, "a", []byte(`{"type":"signal"}`))
	if res.SentTo != 1 || res.Dropped != 0 {
		t.Fatalf("unexpected publish result: %+v", res)
	}
	if len(a.events(t)) != 0 {
		t.Fatal("sender received its own broadcast")
	}
	if len(b.events(t)) != 1 {
		t.Fatalf("peer received %d frames, want 1", len(b.events(t)))
	}

	if res := reg.Broadcast("unknown", "", []byte(`{}`)); res.SentTo != 0 {
		t.Fatalf("broadcast to unknown room delivered frames: %+v", res)
	}
}

func TestBroadcastCountsDropped(t *testing.T) {
	reg := NewRegistry(4)
	room := domain.RoomID("r")
	reg.Join(room, session("a", &fakeConn{}))
	reg.Join(room, session("b", &fakeConn{failing: true}))

	res := reg.Broadcast(room, "", []byte(`{}`))
	if res.SentTo != 1 || res.Dropped != 1 {
		t.Fatalf("unexpected publish result: %+v", res)
	}
}
