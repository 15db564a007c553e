package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/creativemexy/learnvastora-sub003/internal/core"
	"github.com/creativemexy/learnvastora-sub003/internal/domain"
	"github.com/creativemexy/learnvastora-sub003/internal/metrics"
)

// DefaultMaxOccupancy bounds a session room: one tutor, up to three students.
const DefaultMaxOccupancy = 4

var ErrRoomFull = errors.New("room is full")

// roomEntry keeps members in join order. Lookups scan the slice; rooms hold
// at most a handful of members, so ordering matters more than lookup cost.
type roomEntry struct {
	members []core.PeerSession
}

func (e *roomEntry) index(id domain.ConnID) int {
	for i, m := range e.members {
		if m.Participant().ID == id {
			return i
		}
	}
	return -1
}

func (e *roomEntry) snapshot() []domain.Participant {
	out := make([]domain.Participant, 0, len(e.members))
	for _, m := range e.members {
		out = append(out, m.Participant())
	}
	return out
}

// Registry is the authoritative room -> participants mapping. Rooms are
// created implicitly on first join and removed the instant they empty; every
// public operation is atomic under one lock.
type Registry struct {
	mu    sync.RWMutex
	max   int
	rooms map[domain.RoomID]*roomEntry
}

func NewRegistry(maxOccupancy int) *Registry {
	if maxOccupancy <= 0 {
		maxOccupancy = DefaultMaxOccupancy
	}
	return &Registry{
		max:   maxOccupancy,
		rooms: make(map[domain.RoomID]*roomEntry),
	}
}

func (r *Registry) MaxOccupancy() int { return r.max }

// Join adds sess to the room, creating the room if needed. A connection that
// is already a member is a no-op returning success with added=false. Returns
// ErrRoomFull, without mutating anything, when the room is at capacity.
// The returned snapshot reflects the committed membership in join order.
func (r *Registry) Join(roomID domain.RoomID, sess core.PeerSession) ([]domain.Participant, bool, error) {
	id := sess.Participant().ID

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[roomID]
	if !ok {
		entry = &roomEntry{}
		r.rooms[roomID] = entry
		metrics.ActiveRooms.Inc()
		log.Debug().Str("module", "app.registry").Str("room", string(roomID)).Msg("room created")
	}

	if entry.index(id) >= 0 {
		return entry.snapshot(), false, nil
	}

	if len(entry.members) >= r.max {
		return nil, false, ErrRoomFull
	}

	entry.members = append(entry.members, sess)
	metrics.ActiveParticipants.Inc()
	log.Info().Str("module", "app.registry").Str("room", string(roomID)).Str("conn", string(id)).Int("occupancy", len(entry.members)).Msg("member joined")
	return entry.snapshot(), true, nil
}

// Leave removes the connection from the room if present; leaving a room it
// never joined is a silent no-op. Empty rooms are deleted immediately.
func (r *Registry) Leave(roomID domain.RoomID, id domain.ConnID) (domain.Participant, []domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[roomID]
	if !ok {
		return domain.Participant{}, nil, false
	}
	i := entry.index(id)
	if i < 0 {
		return domain.Participant{}, entry.snapshot(), false
	}

	removed := entry.members[i].Participant()
	entry.members = append(entry.members[:i], entry.members[i+1:]...)
	metrics.ActiveParticipants.Dec()

	if len(entry.members) == 0 {
		delete(r.rooms, roomID)
		metrics.ActiveRooms.Dec()
		log.Debug().Str("module", "app.registry").Str("room", string(roomID)).Msg("room removed")
	}
	log.Info().Str("module", "app.registry").Str("room", string(roomID)).Str("conn", string(id)).Int("occupancy", len(entry.members)).Msg("member left")
	return removed, entry.snapshot(), true
}

// Participants returns the membership in join order. Unknown rooms yield an
// empty list, never an error.
func (r *Registry) Participants(roomID domain.RoomID) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.rooms[roomID]
	if !ok {
		return []domain.Participant{}
	}
	return entry.snapshot()
}

func (r *Registry) Occupancy(roomID domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.rooms[roomID]
	if !ok {
		return 0
	}
	return len(entry.members)
}

// Broadcast fans a frame out to the room's current members, skipping except
// when non-empty. Delivery is best-effort: a member whose connection cannot
// accept the frame is counted as dropped, never retried.
func (r *Registry) Broadcast(roomID domain.RoomID, except domain.ConnID, frame core.Frame) core.PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := core.PublishResult{}
	entry, ok := r.rooms[roomID]
	if !ok {
		return res
	}
	for _, m := range entry.members {
		if except != "" && m.Participant().ID == except {
			continue
		}
		if err := m.Signal().TrySend(frame); err != nil {
			res.Dropped++
			continue
		}
		res.SentTo++
	}
	return res
}

// Rooms lists active rooms for the read-only HTTP API.
func (r *Registry) Rooms() []core.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for id, entry := range r.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: len(entry.members)})
	}
	return out
}
