package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics defines our Prometheus metrics
type Metrics struct {
	OpenConnections prometheus.Gauge
	ReadySessions   prometheus.Gauge
	AuthFailures    prometheus.Counter
	EventsPublished *prometheus.CounterVec
	EventsConsumed  *prometheus.CounterVec
	FramesDelivered *prometheus.CounterVec
	FramesDropped   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gateway_open_connections",
			Help: "Number of open websocket connections, authenticated or not.",
		}),
		ReadySessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gateway_ready_sessions",
			Help: "Number of authenticated sessions on this instance.",
		}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_auth_failures_total",
			Help: "Handshake attempts rejected during token validation.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_events_published_total",
			Help: "Domain events published to the bus by this instance.",
		}, []string{"kind"}),
		EventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_events_consumed_total",
			Help: "Domain events received from the bus by this instance.",
		}, []string{"kind"}),
		FramesDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_frames_delivered_total",
			Help: "Frames written to local sockets during fanout.",
		}, []string{"kind"}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_frames_dropped_total",
			Help: "Frames dropped because a client's send buffer was full.",
		}),
	}

	reg.MustRegister(
		m.OpenConnections,
		m.ReadySessions,
		m.AuthFailures,
		m.EventsPublished,
		m.EventsConsumed,
		m.FramesDelivered,
		m.FramesDropped,
	)

	return m
}
