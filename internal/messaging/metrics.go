// internal/messaging/metrics.go

package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ember_chat_active_streams",
		Help: "Number of open chat event streams",
	})

	messagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ember_chat_messages_sent_total",
		Help: "Number of chat messages accepted",
	})

	streamEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ember_chat_stream_events_total",
		Help: "Number of events written to chat streams, by type",
	}, []string{"type"})
)
