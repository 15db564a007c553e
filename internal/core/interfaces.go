package core

import "github.com/creativemexy/learnvastora-sub003/internal/domain"

// Frame is an encoded outbound event, ready for the wire.
type Frame []byte

// SignalConnection abstracts the signaling transport of one peer.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues a frame without blocking. It fails instead of waiting
	// when the peer is slow or the connection is closed.
	TrySend(Frame) error
	Close()
}

// PeerSession binds a participant record to its transport endpoint.
// This is what the room registry stores and fans out to.
type PeerSession interface {
	Participant() domain.Participant
	Signal() SignalConnection
}

// PublishResult reports delivery stats of a fan-out.
type PublishResult struct {
	SentTo  int
	Dropped int
}

// RoomInfo is a read-only room summary for APIs (no transport fields).
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"memberCount"`
}
