package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/creativemexy/learnvastora-sub003/internal/core"
	"github.com/creativemexy/learnvastora-sub003/internal/domain"
	"github.com/creativemexy/learnvastora-sub003/internal/protocol"
)

// fakeConn captures frames instead of writing to a socket.
type fakeConn struct {
	mu      sync.Mutex
	frames  []core.Frame
	failing bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("send failed")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

// outEvent is the superset decode of every outbound frame.
type outEvent struct {
	Type         protocol.EventType   `json:"type"`
	RoomID       domain.RoomID        `json:"roomId"`
	From         domain.ConnID        `json:"from"`
	Peer         domain.Participant   `json:"peer"`
	Participants []domain.Participant `json:"participants"`
	Data         json.RawMessage      `json:"data"`
	Msg          json.RawMessage      `json:"msg"`
}

func (f *fakeConn) events(t *testing.T) []outEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]outEvent, 0, len(f.frames))
	for _, fr := range f.frames {
		var ev outEvent
		if err := json.Unmarshal(fr, &ev); err != nil {
			t.Fatalf("undecodable outbound frame %q: %v", fr, err)
		}
		out = append(out, ev)
	}
	return out
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

func countType(evs []outEvent, typ protocol.EventType) int {
	n := 0
	for _, ev := range evs {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func lastOfType(t *testing.T, evs []outEvent, typ protocol.EventType) outEvent {
	t.Helper()
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Type == typ {
			return evs[i]
		}
	}
	t.Fatalf("no %q event among %d events", typ, len(evs))
	return outEvent{}
}

func session(id domain.ConnID, conn core.SignalConnection) core.PeerSession {
	return core.NewPeerSession(domain.NewParticipant(id, domain.ParticipantInfo{Name: string(id)}), conn)
}
