package app

import "github.com/creativemexy/learnvastora-sub003/internal/domain"

// JoinPolicy answers whether a connection is entitled to the session behind a
// room id. The booking service owns that decision; the coordinator only
// consumes the boolean before running the join sequence.
type JoinPolicy interface {
	Joinable(roomID domain.RoomID, conn domain.ConnID) bool
}

// AllowAll admits every join request. Used when the coordinator runs behind
// an upstream that already gated the connection.
type AllowAll struct{}

func (AllowAll) Joinable(domain.RoomID, domain.ConnID) bool { return true }
