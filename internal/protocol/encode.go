package protocol

import (
	"encoding/json"

	"github.com/creativemexy/learnvastora-sub003/internal/domain"
)

// Outbound constructors. Each returns a wire-ready frame; marshal errors are
// only possible for relayed RawMessage payloads, which the caller already
// decoded from valid JSON.

func RoomJoined(roomID domain.RoomID) ([]byte, error) {
	return json.Marshal(struct {
		Type   EventType     `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
	}{EventRoomJoined, roomID})
}

func RoomFull(roomID domain.RoomID) ([]byte, error) {
	return json.Marshal(struct {
		Type   EventType     `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
	}{EventRoomFull, roomID})
}

func JoinDenied(roomID domain.RoomID) ([]byte, error) {
	return json.Marshal(struct {
		Type   EventType     `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
	}{EventJoinDenied, roomID})
}

func PeerJoined(p domain.Participant) ([]byte, error) {
	return json.Marshal(struct {
		Type EventType          `json:"type"`
		Peer domain.Participant `json:"peer"`
	}{EventPeerJoined, p})
}

func PeerLeft(p domain.Participant) ([]byte, error) {
	return json.Marshal(struct {
		Type EventType          `json:"type"`
		Peer domain.Participant `json:"peer"`
	}{EventPeerLeft, p})
}

func ParticipantsUpdate(roomID domain.RoomID, list []domain.Participant) ([]byte, error) {
	if list == nil {
		list = []domain.Participant{}
	}
	return json.Marshal(struct {
		Type         EventType            `json:"type"`
		RoomID       domain.RoomID        `json:"roomId"`
		Participants []domain.Participant `json:"participants"`
	}{EventParticipantsUpdate, roomID, list})
}

// RelayedSignal wraps an opaque signaling payload with the sender's handle so
// the receiving peer can address its answer.
func RelayedSignal(from domain.ConnID, data json.RawMessage) ([]byte, error) {
	return json.Marshal(struct {
		Type EventType       `json:"type"`
		From domain.ConnID   `json:"from"`
		Data json.RawMessage `json:"data"`
	}{EventSignal, from, data})
}

func RelayedChat(from domain.ConnID, msg json.RawMessage) ([]byte, error) {
	return json.Marshal(struct {
		Type EventType       `json:"type"`
		From domain.ConnID   `json:"from"`
		Msg  json.RawMessage `json:"msg"`
	}{EventChatMessage, from, msg})
}
