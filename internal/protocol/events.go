// Package protocol defines the closed set of events exchanged with clients
// over the signaling connection. Every inbound and outbound message is a JSON
// object carrying a "type" tag; payloads the coordinator merely relays stay
// json.RawMessage and are never inspected.
package protocol

import (
	"encoding/json"

	"github.com/creativemexy/learnvastora-sub003/internal/domain"
)

type EventType string

// Inbound (client -> server).
const (
	EventJoinRoom        EventType = "join-room"
	EventSignal          EventType = "signal"
	EventChatMessage     EventType = "chat-message"
	EventGetParticipants EventType = "get-participants"
)

// Outbound (server -> client). EventSignal and EventChatMessage reappear on
// the way out as relayed traffic.
const (
	EventRoomJoined         EventType = "room-joined"
	EventRoomFull           EventType = "room-full"
	EventJoinDenied         EventType = "join-denied"
	EventPeerJoined         EventType = "peer-joined"
	EventPeerLeft           EventType = "peer-left"
	EventParticipantsUpdate EventType = "participants-update"
)

// Envelope is the minimal decode used to dispatch an inbound message.
type Envelope struct {
	Type EventType `json:"type"`
}

type JoinRoomPayload struct {
	RoomID          domain.RoomID          `json:"roomId"`
	ParticipantInfo domain.ParticipantInfo `json:"participantInfo"`
}

type SignalPayload struct {
	RoomID domain.RoomID   `json:"roomId"`
	Data   json.RawMessage `json:"data"`
}

type ChatPayload struct {
	RoomID domain.RoomID   `json:"roomId"`
	Msg    json.RawMessage `json:"msg"`
}

type GetParticipantsPayload struct {
	RoomID domain.RoomID `json:"roomId"`
}
