package engine

import "go.arpshield.dev/arpshield/internal/wire"

// FloodRecord is the sliding-window request counter for one target.
type FloodRecord struct {
	WindowStart uint64
	Count       int
}

// FloodTable is the process-wide, per-target flood-control table. Unlike
// Cache/NegCache it is shared across interfaces rather than held per-link.
type FloodTable struct {
	entries  map[wire.IPv4]FloodRecord
	max      int
	windowMs uint64
	maxCount int
}

// NewFloodTable returns an empty flood table bounded to max targets,
// allowing up to maxCount requests per windowMs per target.
func NewFloodTable(max int, windowMs uint64, maxCount int) FloodTable {
	return FloodTable{
		entries:  make(map[wire.IPv4]FloodRecord),
		max:      max,
		windowMs: windowMs,
		maxCount: maxCount,
	}
}

func (t FloodTable) clone() FloodTable {
	out := make(map[wire.IPv4]FloodRecord, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return FloodTable{entries: out, max: t.max, windowMs: t.windowMs, maxCount: t.maxCount}
}

// Len returns the number of targets currently tracked.
func (t FloodTable) Len() int {
	return len(t.entries)
}

// Allow applies the sliding-window policy for target at time now,
// returning the updated table and whether the request is allowed.
func (t FloodTable) Allow(target wire.IPv4, now uint64) (FloodTable, bool) {
	rec, ok := t.entries[target]

	switch {
	case !ok:
		return t.set(target, FloodRecord{WindowStart: now, Count: 1}), true

	case now-rec.WindowStart >= t.windowMs:
		return t.set(target, FloodRecord{WindowStart: now, Count: 1}), true

	case rec.Count < t.maxCount:
		return t.set(target, FloodRecord{WindowStart: rec.WindowStart, Count: rec.Count + 1}), true

	default:
		return t, false
	}
}

func (t FloodTable) set(target wire.IPv4, rec FloodRecord) FloodTable {
	next := t.clone()
	if _, exists := next.entries[target]; !exists && len(next.entries) >= next.max {
		if victim, ok := next.oldestWindow(); ok {
			delete(next.entries, victim)
		}
	}
	next.entries[target] = rec
	return next
}

// oldestWindow returns the target with the oldest WindowStart, ties broken
// by lexicographically smaller IP, the eviction victim when the table is
// full.
func (t FloodTable) oldestWindow() (wire.IPv4, bool) {
	var best wire.IPv4
	var bestRec FloodRecord
	found := false
	for ip, rec := range t.entries {
		if !found || rec.WindowStart < bestRec.WindowStart || (rec.WindowStart == bestRec.WindowStart && ip.Less(best)) {
			best = ip
			bestRec = rec
			found = true
		}
	}
	return best, found
}
