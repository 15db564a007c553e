// Package domain contains entities without logic, just meta-data.
package domain

import "time"

const (
	MaxNameLen   = 64
	MaxAvatarLen = 256
	MaxRoleLen   = 32
)

// ConnID identifies one live signaling connection. It is unique per
// connection, not per user: a user who reconnects gets a fresh ConnID and is
// a logically new participant.
type ConnID string

// ParticipantInfo is the caller-supplied profile attached to a join request.
// The coordinator treats it as free-form display data.
type ParticipantInfo struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Participant is one connection's membership record within a room.
// Immutable after creation.
type Participant struct {
	ID       ConnID    `json:"id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar,omitempty"`
	Role     string    `json:"role,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewParticipant builds the membership record for a successful join.
// Display fields are clamped, never rejected.
func NewParticipant(id ConnID, info ParticipantInfo) Participant {
	return Participant{
		ID:       id,
		Name:     clamp(info.Name, MaxNameLen),
		Avatar:   clamp(info.Avatar, MaxAvatarLen),
		Role:     clamp(info.Role, MaxRoleLen),
		JoinedAt: time.Now().UTC(),
	}
}

func clamp(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
