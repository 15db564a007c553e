package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/creativemexy/learnvastora-sub003/internal/core"
	"github.com/creativemexy/learnvastora-sub003/internal/domain"
	"github.com/creativemexy/learnvastora-sub003/internal/metrics"
	"github.com/creativemexy/learnvastora-sub003/internal/protocol"
)

var (
	ErrNotConnected = errors.New("connection is not registered")
	ErrJoinDenied   = errors.New("join denied by policy")
)

type connState struct {
	conn core.SignalConnection
	room domain.RoomID // "" when not in any room
}

// Lifecycle drives the per-connection state machine:
// Disconnected -> Connected(no room) -> Connected(in room R) -> Disconnected.
// It owns the connection -> current room index and is the only component that
// mutates the registry, so a connection is never a member of two rooms, even
// transiently. One mutex serializes every sequence; notifications therefore
// always match the registry snapshot they announce.
type Lifecycle struct {
	mu       sync.Mutex
	registry *Registry
	policy   JoinPolicy
	conns    map[domain.ConnID]*connState
}

func NewLifecycle(registry *Registry, policy JoinPolicy) *Lifecycle {
	if policy == nil {
		policy = AllowAll{}
	}
	return &Lifecycle{
		registry: registry,
		policy:   policy,
		conns:    make(map[domain.ConnID]*connState),
	}
}

// Connect registers a freshly accepted connection in state Connected(no room).
func (l *Lifecycle) Connect(id domain.ConnID, conn core.SignalConnection) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conns[id] = &connState{conn: conn}
	log.Info().Str("module", "app.lifecycle").Str("conn", string(id)).Msg("connected")
}

// JoinRoom runs the full join sequence: leave the previous room first (with
// its own notifications), gate on the join policy, then join and notify.
// On a full room only the requester hears about it.
func (l *Lifecycle) JoinRoom(id domain.ConnID, roomID domain.RoomID, info domain.ParticipantInfo) error {
	roomID = roomID.Clamp()

	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.conns[id]
	if !ok {
		return ErrNotConnected
	}

	if st.room != "" && st.room != roomID {
		l.leaveLocked(id, st)
	}

	if !l.policy.Joinable(roomID, id) {
		metrics.JoinsRejectedTotal.WithLabelValues("denied").Inc()
		frame, err := protocol.JoinDenied(roomID)
		l.sendTo(st.conn, frame, err)
		log.Warn().Str("module", "app.lifecycle").Str("conn", string(id)).Str("room", string(roomID)).Msg("join denied")
		return ErrJoinDenied
	}

	sess := core.NewPeerSession(domain.NewParticipant(id, info), st.conn)
	snapshot, added, err := l.registry.Join(roomID, sess)
	if err != nil {
		metrics.JoinsRejectedTotal.WithLabelValues("room_full").Inc()
		frame, encErr := protocol.RoomFull(roomID)
		l.sendTo(st.conn, frame, encErr)
		log.Info().Str("module", "app.lifecycle").Str("conn", string(id)).Str("room", string(roomID)).Msg("join rejected, room full")
		return err
	}
	st.room = roomID

	frame, encErr := protocol.RoomJoined(roomID)
	l.sendTo(st.conn, frame, encErr)

	if added {
		metrics.JoinsTotal.Inc()
		if len(snapshot) > 1 {
			frame, encErr = protocol.PeerJoined(sess.Participant())
			l.broadcast(roomID, id, frame, encErr)
		}
	}

	// Everyone, the new member included, converges on the same list.
	frame, encErr = protocol.ParticipantsUpdate(roomID, snapshot)
	l.broadcast(roomID, "", frame, encErr)
	return nil
}

// LeaveRoom takes the connection back to Connected(no room). Leaving while
// not in a room is a no-op.
func (l *Lifecycle) LeaveRoom(id domain.ConnID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.conns[id]; ok {
		l.leaveLocked(id, st)
	}
}

// Disconnect runs leave cleanup for whichever room the connection belonged to
// and forgets it. Keyed by connection handle, so signaling it twice is safe.
func (l *Lifecycle) Disconnect(id domain.ConnID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.conns[id]
	if !ok {
		return
	}
	l.leaveLocked(id, st)
	delete(l.conns, id)
	log.Info().Str("module", "app.lifecycle").Str("conn", string(id)).Msg("disconnected")
}

// Participants answers a requester-only snapshot query.
func (l *Lifecycle) Participants(roomID domain.RoomID) []domain.Participant {
	return l.registry.Participants(roomID)
}

// RoomOf reports the connection's current room, if any.
func (l *Lifecycle) RoomOf(id domain.ConnID) (domain.RoomID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.conns[id]
	if !ok || st.room == "" {
		return "", false
	}
	return st.room, true
}

// leaveLocked removes the connection from its current room and notifies the
// remaining members. Caller holds l.mu.
func (l *Lifecycle) leaveLocked(id domain.ConnID, st *connState) {
	roomID := st.room
	if roomID == "" {
		return
	}
	removed, snapshot, ok := l.registry.Leave(roomID, id)
	st.room = ""
	if !ok || len(snapshot) == 0 {
		return
	}

	frame, err := protocol.PeerLeft(removed)
	l.broadcast(roomID, "", frame, err)

	frame, err = protocol.ParticipantsUpdate(roomID, snapshot)
	l.broadcast(roomID, "", frame, err)
}

func (l *Lifecycle) sendTo(conn core.SignalConnection, frame []byte, err error) {
	if err != nil {
		log.Error().Err(err).Str("module", "app.lifecycle").Msg("encode outbound event")
		return
	}
	if sendErr := conn.TrySend(frame); sendErr != nil {
		metrics.DroppedTotal.Inc()
		log.Debug().Err(sendErr).Str("module", "app.lifecycle").Msg("requester send dropped")
	}
}

func (l *Lifecycle) broadcast(roomID domain.RoomID, except domain.ConnID, frame []byte, err error) {
	if err != nil {
		log.Error().Err(err).Str("module", "app.lifecycle").Msg("encode outbound event")
		return
	}
	res := l.registry.Broadcast(roomID, except, frame)
	if res.Dropped > 0 {
		metrics.DroppedTotal.Add(float64(res.Dropped))
		log.Debug().Str("module", "app.lifecycle").Str("room", string(roomID)).Int("dropped", res.Dropped).Msg("broadcast partially dropped")
	}
}
