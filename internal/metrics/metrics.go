// Package metrics exposes Prometheus collectors for the room coordinator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coordinator_active_rooms",
		Help: "Number of rooms with at least one participant.",
	})

	ActiveParticipants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coordinator_active_participants",
		Help: "Number of participants currently in a room.",
	})

	JoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coordinator_joins_total",
		Help: "Successful room joins.",
	})

	JoinsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_joins_rejected_total",
		Help: "Join requests rejected, by reason.",
	}, []string{"reason"})

	RelayedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_relayed_frames_total",
		Help: "Frames relayed to room peers, by kind.",
	}, []string{"kind"})

	DroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coordinator_dropped_frames_total",
		Help: "Frames dropped because a peer connection could not accept them.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
