package metrics

import (
	"go.arpshield.dev/arpshield/internal/engine"
)

// ObserveStep updates the counters affected by a single Step outcome.
func (m *Metrics) ObserveStep(iface string, outcome engine.StepOutcome, isRARP bool) {
	if outcome.Drop != engine.DropNone {
		m.FramesDropped.WithLabelValues(iface, outcome.Drop.String()).Inc()
		return
	}
	if outcome.Notice != engine.NoticeNone {
		m.NoticesRaised.WithLabelValues(iface, outcome.Notice.String()).Inc()
	}
	if outcome.Frame != nil {
		if isRARP {
			m.RARPRepliesSent.WithLabelValues(iface).Inc()
		} else {
			m.RepliesSent.WithLabelValues(iface).Inc()
		}
	}
}

// ObserveRequestsSent records n outbound Requests (from Request or Tick's
// retransmissions) on iface.
func (m *Metrics) ObserveRequestsSent(iface string, n int) {
	if n > 0 {
		m.RequestsSent.WithLabelValues(iface).Add(float64(n))
	}
}

// acdPhases lists every phase ACDState.String() can report, so a gauge
// series exists (at 0) for phases an interface isn't currently in.
var acdPhases = []string{"idle", "probing", "announcing", "bound", "conflict", "defending"}

// ObserveState refreshes every gauge from a full engine snapshot. Callers
// run this periodically (e.g. alongside Tick) rather than on every Step,
// since cache/pending sizes only need eventual accuracy for dashboards.
func (m *Metrics) ObserveState(s engine.State) {
	m.FloodEntries.Set(float64(s.Flood.Len()))

	for id, iface := range s.Interfaces {
		static, dynamic := iface.Cache.CountByKind()
		m.CacheEntries.WithLabelValues(id, "static").Set(float64(static))
		m.CacheEntries.WithLabelValues(id, "dynamic").Set(float64(dynamic))
		m.NegCacheEntries.WithLabelValues(id).Set(float64(iface.NegCache.Len()))
		m.PendingEntries.WithLabelValues(id).Set(float64(iface.Pending.Len()))

		current := iface.ACD.Kind.String()
		for _, phase := range acdPhases {
			v := 0.0
			if phase == current {
				v = 1.0
			}
			m.ACDState.WithLabelValues(id, phase).Set(v)
		}
	}
}
