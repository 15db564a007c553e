package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/creativemexy/learnvastora-sub003/internal/domain"
	"github.com/creativemexy/learnvastora-sub003/internal/metrics"
	"github.com/creativemexy/learnvastora-sub003/internal/protocol"
)

// Relay fans opaque payloads out to the other members of the sender's room.
// It never parses, validates, or persists a payload, and it is untouched by
// the registry's occupancy rules: relaying into an unknown or empty room is a
// silent no-op. Delivery is at-most-once per member present at the moment of
// relay.
type Relay struct {
	registry *Registry
}

func NewRelay(registry *Registry) *Relay {
	return &Relay{registry: registry}
}

// RelaySignal forwards media-negotiation data to the sender's room peers.
func (r *Relay) RelaySignal(roomID domain.RoomID, from domain.ConnID, data json.RawMessage) {
	frame, err := protocol.RelayedSignal(from, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode signal")
		return
	}
	res := r.registry.Broadcast(roomID, from, frame)
	metrics.RelayedTotal.WithLabelValues("signal").Add(float64(res.SentTo))
	if res.Dropped > 0 {
		metrics.DroppedTotal.Add(float64(res.Dropped))
	}
	log.Debug().Str("module", "app.relay").Str("room", string(roomID)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("signal relayed")
}

// RelayChat forwards a chat message with the same fan-out semantics. Kept as
// a separate operation because it is semantically distinct traffic, not
// because the mechanics differ.
func (r *Relay) RelayChat(roomID domain.RoomID, from domain.ConnID, msg json.RawMessage) {
	frame, err := protocol.RelayedChat(from, msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode chat")
		return
	}
	res := r.registry.Broadcast(roomID, from, frame)
	metrics.RelayedTotal.WithLabelValues("chat").Add(float64(res.SentTo))
	if res.Dropped > 0 {
		metrics.DroppedTotal.Add(float64(res.Dropped))
	}
	log.Debug().Str("module", "app.relay").Str("room", string(roomID)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("chat relayed")
}
