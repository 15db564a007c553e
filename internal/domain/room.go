package domain

// RoomID is the opaque identifier of a live session room. Clients derive it
// from a booking id upstream; the coordinator never interprets it.
type RoomID string

const MaxRoomIDLen = 64

// Clamp shortens externally supplied ids to a sane length.
func (id RoomID) Clamp() RoomID {
	if len(id) > MaxRoomIDLen {
		return id[:MaxRoomIDLen]
	}
	return id
}
