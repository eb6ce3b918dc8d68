package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	messagesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hazelcast",
			Subsystem: "protocol",
			Name:      "messages_total",
			Help:      "Decoded client-protocol messages.",
		},
		[]string{"operation", "event"},
	)
	messageBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hazelcast",
			Subsystem: "protocol",
			Name:      "message_bytes",
			Help:      "Total frame length of decoded messages.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		},
	)
	decodeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hazelcast",
			Subsystem: "protocol",
			Name:      "decode_failures_total",
			Help:      "Messages rejected by the decode path.",
		},
		[]string{"kind"},
	)
	fragmentChunks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hazelcast",
			Subsystem: "protocol",
			Name:      "fragment_chunks_total",
			Help:      "Fragment chunks accepted by the reassembler.",
		},
	)
	reassemblies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hazelcast",
			Subsystem: "protocol",
			Name:      "reassemblies_total",
			Help:      "Fragmented messages fully reassembled.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(messagesDecoded, messageBytes, decodeFailures, fragmentChunks, reassemblies)
	})
}

func RecordMessage(operation string, event bool, totalBytes int) {
	RegisterMetrics()
	eventLabel := "false"
	if event {
		eventLabel = "true"
	}
	messagesDecoded.WithLabelValues(operation, eventLabel).Inc()
	messageBytes.Observe(float64(totalBytes))
}

func RecordDecodeFailure(kind string) {
	RegisterMetrics()
	decodeFailures.WithLabelValues(kind).Inc()
}

func RecordFragmentChunk() {
	RegisterMetrics()
	fragmentChunks.Inc()
}

func RecordReassembly() {
	RegisterMetrics()
	reassemblies.Inc()
}
