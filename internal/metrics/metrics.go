// Package metrics exposes arpshieldd's Prometheus instrumentation on a
// private registry, grounded on the reference fleet's per-package stats
// pattern (metallb's internal/arp/stats.go).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every counter/gauge arpshieldd exports. It is built on a
// private registry rather than the global default so tests can construct
// independent instances without collisions.
type Metrics struct {
	Registry *prometheus.Registry

	FramesDropped   *prometheus.CounterVec
	NoticesRaised   *prometheus.CounterVec
	RepliesSent     *prometheus.CounterVec
	RequestsSent    *prometheus.CounterVec
	RARPRepliesSent *prometheus.CounterVec

	CacheEntries    *prometheus.GaugeVec
	NegCacheEntries *prometheus.GaugeVec
	PendingEntries  *prometheus.GaugeVec
	FloodEntries    prometheus.Gauge
	ACDState        *prometheus.GaugeVec
}

// New builds a fresh instrumentation set and registers it on its own
// registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arpshield",
			Name:      "frames_dropped_total",
			Help:      "Inbound frames silently dropped, by reason.",
		}, []string{"iface", "reason"}),

		NoticesRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arpshield",
			Name:      "notices_raised_total",
			Help:      "Non-dropping notices raised while processing a frame.",
		}, []string{"iface", "notice"}),

		RepliesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arpshield",
			Name:      "replies_sent_total",
			Help:      "ARP replies sent for owned addresses; RARP replies are counted separately.",
		}, []string{"iface"}),

		RequestsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arpshield",
			Name:      "requests_sent_total",
			Help:      "ARP requests sent, including Tick retransmissions and ACD probes/announcements.",
		}, []string{"iface"}),

		RARPRepliesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arpshield",
			Name:      "rarp_replies_sent_total",
			Help:      "RARP replies sent from the reverse-lookup table.",
		}, []string{"iface"}),

		CacheEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "arpshield",
			Name:      "cache_entries",
			Help:      "Current resolution cache size, by entry kind.",
		}, []string{"iface", "kind"}),

		NegCacheEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "arpshield",
			Name:      "negative_cache_entries",
			Help:      "Current negative-cache size.",
		}, []string{"iface"}),

		PendingEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "arpshield",
			Name:      "pending_requests",
			Help:      "Current outstanding-request queue size.",
		}, []string{"iface"}),

		FloodEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "arpshield",
			Name:      "flood_table_targets",
			Help:      "Number of targets currently tracked by flood control.",
		}),

		ACDState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "arpshield",
			Name:      "acd_state",
			Help:      "Current address-conflict-detection lifecycle phase, one gauge per known phase (1 = active).",
		}, []string{"iface", "phase"}),
	}

	m.Registry.MustRegister(
		m.FramesDropped,
		m.NoticesRaised,
		m.RepliesSent,
		m.RequestsSent,
		m.RARPRepliesSent,
		m.CacheEntries,
		m.NegCacheEntries,
		m.PendingEntries,
		m.FloodEntries,
		m.ACDState,
	)

	return m
}
