package kafka

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kwire/kafka-protocol/protocol"
)

// Frame direction label values.
const (
	DirectionRequest  = "request"
	DirectionResponse = "response"
)

// DefaultFrameSizeBuckets are size buckets for frames, from a few bytes of
// group coordination up to the default max frame size.
var DefaultFrameSizeBuckets = prometheus.ExponentialBuckets(16, 4, 12)

// Metrics holds the metrics reported by a Codec.
type Metrics struct {
	// RequestsDecoded counts request frames decoded successfully.
	// Labels: api, version
	RequestsDecoded *prometheus.CounterVec

	// DecodeErrors counts request frames that could not be decoded.
	// Labels: api (unknown when the header itself was unreadable)
	DecodeErrors *prometheus.CounterVec

	// ErrorResponses counts error responses synthesized by the codec.
	// Labels: api, code
	ErrorResponses *prometheus.CounterVec

	// FrameBytes tracks the size of the frames read and written.
	// Labels: direction (request, response)
	FrameBytes *prometheus.HistogramVec
}

// NewMetrics creates the metrics of a codec and registers them with reg. A
// nil reg leaves them unregistered, which is useful for tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsDecoded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kafka",
				Subsystem: "protocol",
				Name:      "requests_decoded_total",
				Help:      "Total number of request frames decoded, by api and version.",
			},
			[]string{"api", "version"},
		),
		DecodeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kafka",
				Subsystem: "protocol",
				Name:      "decode_errors_total",
				Help:      "Total number of request frames that could not be decoded, by api.",
			},
			[]string{"api"},
		),
		ErrorResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kafka",
				Subsystem: "protocol",
				Name:      "error_responses_total",
				Help:      "Total number of error responses synthesized, by api and error code.",
			},
			[]string{"api", "code"},
		),
		FrameBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "kafka",
				Subsystem: "protocol",
				Name:      "frame_bytes",
				Help:      "Size of the frames read and written, in bytes.",
				Buckets:   DefaultFrameSizeBuckets,
			},
			[]string{"direction"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.RequestsDecoded)
		reg.MustRegister(m.DecodeErrors)
		reg.MustRegister(m.ErrorResponses)
		reg.MustRegister(m.FrameBytes)
	}

	return m
}

// RecordDecoded records a request decoded from a frame of the given size.
func (m *Metrics) RecordDecoded(k protocol.ApiKey, version int16, size int) {
	m.RequestsDecoded.WithLabelValues(k.String(), strconv.Itoa(int(version))).Inc()
	m.FrameBytes.WithLabelValues(DirectionRequest).Observe(float64(size))
}

// RecordDecodeError records a request frame that could not be decoded. api
// is empty when the header could not be read, and size is zero when the frame
// was rejected before its payload was read.
func (m *Metrics) RecordDecodeError(api string, size int) {
	if api == "" {
		api = "unknown"
	}
	m.DecodeErrors.WithLabelValues(api).Inc()
	if size > 0 {
		m.FrameBytes.WithLabelValues(DirectionRequest).Observe(float64(size))
	}
}

// RecordErrorResponse records an error response synthesized with code.
func (m *Metrics) RecordErrorResponse(k protocol.ApiKey, code protocol.ErrorCode) {
	m.ErrorResponses.WithLabelValues(k.String(), code.Name()).Inc()
}

// RecordResponse records a response frame of the given size.
func (m *Metrics) RecordResponse(size int) {
	m.FrameBytes.WithLabelValues(DirectionResponse).Observe(float64(size))
}
