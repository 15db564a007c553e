package app

import (
	"encoding/json"
	"testing"

	"github.com/creativemexy/learnvastora-sub003/internal/domain"
	"github.com/creativemexy/learnvastora-sub003/internal/protocol"
)

func TestRelayExcludesSender(t *testing.T) {
	reg := NewRegistry(4)
	relay := NewRelay(reg)
	room := domain.RoomID("r")
	a, b, c := &fakeConn{}, &fakeConn{}, &fakeConn{}
	reg.Join(room, session("a", a))
	reg.Join(room, session("b", b))
	reg.Join(room, session("c", c))

	payload := json.RawMessage(`{"sdp":"v=0...","kind":"offer"}`)
	relay.RelaySignal(room, "a", payload)

	if len(a.events(t)) != 0 {
		t.Fatal("sender received its own signal")
	}
	for name, conn := range map[string]*fakeConn{"b": b, "c": c} {
		evs := conn.events(t)
		if len(evs) != 1 || evs[0].Type != protocol.EventSignal {
			t.Fatalf("%s received %v, want one signal event", name, evs)
		}
		if evs[0].From != "a" {
			t.Fatalf("%s saw sender %s, want a", name, evs[0].From)
		}
		if string(evs[0].Data) != string(payload) {
			t.Fatalf("payload was not passed through unchanged: %s", evs[0].Data)
		}
	}
}

func TestRelayUnknownRoomIsNoOp(t *testing.T) {
	reg := NewRegistry(4)
	relay := NewRelay(reg)
	// Must not panic or error; an empty room is a valid relay target.
	relay.RelaySignal("nope", "a", json.RawMessage(`{}`))
	relay.RelayChat("nope", "a", json.RawMessage(`"hi"`))
}

func TestRelayChatFanOut(t *testing.T) {
	reg := NewRegistry(4)
	relay := NewRelay(reg)
	room := domain.RoomID("r")
	a, b := &fakeConn{}, &fakeConn{}
	reg.Join(room, session("a", a))
	reg.Join(room, session("b", b))

	msg := json.RawMessage(`{"text":"see you at 5"}`)
	relay.RelayChat(room, "a", msg)

	evs := b.events(t)
	if len(evs) != 1 || evs[0].Type != protocol.EventChatMessage {
		t.Fatalf("peer received %v, want one chat-message", evs)
	}
	if string(evs[0].Msg) != string(msg) {
		t.Fatalf("chat message altered in transit: %s", evs[0].Msg)
	}
	if len(a.events(t)) != 0 {
		t.Fatal("sender received its own chat message")
	}
}

func TestRelaySkipsUnreachablePeer(t *testing.T) {
	reg := NewRegistry(4)
	relay := NewRelay(reg)
	room := domain.RoomID("r")
	b := &fakeConn{failing: true}
	c := &fakeConn{}
	reg.Join(room, session("a", &fakeConn{}))
	reg.Join(room, session("b", b))
	reg.Join(room, session("c", c))

	relay.RelaySignal(room, "a", json.RawMessage(`{}`))

	// Best effort: the healthy peer still gets the frame, the dead one is
	// dropped without retry.
	if len(c.events(t)) != 1 {
		t.Fatalf("healthy peer got %d frames, want 1", len(c.events(t)))
	}
}
