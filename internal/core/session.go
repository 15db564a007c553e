package core

import "github.com/creativemexy/learnvastora-sub003/internal/domain"

// peerSession implements PeerSession by pairing meta + transport.
type peerSession struct {
	participant domain.Participant
	conn        SignalConnection
}

func NewPeerSession(p domain.Participant, conn SignalConnection) PeerSession {
	return &peerSession{participant: p, conn: conn}
}

func (s *peerSession) Participant() domain.Participant { return s.participant }
func (s *peerSession) Signal() SignalConnection        { return s.conn }
