package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/creativemexy/learnvastora-sub003/internal/domain"
	"github.com/creativemexy/learnvastora-sub003/internal/protocol"
)

func (ctl *Controller) handleEvent(sid domain.ConnID, c *wsSignalConn, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case protocol.EventJoinRoom:
		ctl.handleJoin(sid, c, data)
	case protocol.EventSignal:
		ctl.handleSignal(sid, data)
	case protocol.EventChatMessage:
		ctl.handleChat(sid, data)
	case protocol.EventGetParticipants:
		ctl.handleGetParticipants(sid, c, data)
	default:
		log.Warn().Str("module", "signal").Str("type", string(env.Type)).Msg("unknown event")
	}
}

func (ctl *Controller) handleJoin(sid domain.ConnID, c *wsSignalConn, data []byte) {
	var p protocol.JoinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		return
	}
	// Outcome events (room-joined / room-full / join-denied) are sent by the
	// lifecycle itself; the error only feeds the log here.
	if err := ctl.lifecycle.JoinRoom(sid, p.RoomID, p.ParticipantInfo); err != nil {
		log.Info().Err(err).Str("module", "signal").Str("conn", string(sid)).Str("room", string(p.RoomID)).Msg("join not completed")
	}
}

func (ctl *Controller) handleSignal(sid domain.ConnID, data []byte) {
	var p protocol.SignalPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad signal payload")
		return
	}
	ctl.relay.RelaySignal(p.RoomID.Clamp(), sid, p.Data)
}

func (ctl *Controller) handleChat(sid domain.ConnID, data []byte) {
	var p protocol.ChatPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}
	ctl.relay.RelayChat(p.RoomID.Clamp(), sid, p.Msg)
}

func (ctl *Controller) handleGetParticipants(sid domain.ConnID, c *wsSignalConn, data []byte) {
	var p protocol.GetParticipantsPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad get-participants payload")
		return
	}
	roomID := p.RoomID.Clamp()
	snapshot := ctl.lifecycle.Participants(roomID)
	frame, err := protocol.ParticipantsUpdate(roomID, snapshot)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode participants-update")
		return
	}
	if err := c.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("snapshot send dropped")
	}
}
