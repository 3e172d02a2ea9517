package engine

import "go.arpshield.dev/arpshield/internal/wire"

// MaxAttempts is the retry ceiling: past this many attempts
// a pending request is dropped and a negative-cache record is created.
const MaxAttempts = 3

// PendingEntry is one outstanding resolution request.
type PendingEntry struct {
	IP         wire.IPv4
	Attempts   int
	LastSentAt uint64
}

// PendingQueue is the bounded per-interface table of outstanding requests.
type PendingQueue struct {
	entries map[wire.IPv4]PendingEntry
	max     int
}

// NewPendingQueue returns an empty queue bounded to max entries.
func NewPendingQueue(max int) PendingQueue {
	return PendingQueue{entries: make(map[wire.IPv4]PendingEntry), max: max}
}

func (q PendingQueue) clone() PendingQueue {
	out := make(map[wire.IPv4]PendingEntry, len(q.entries))
	for k, v := range q.entries {
		out[k] = v
	}
	return PendingQueue{entries: out, max: q.max}
}

// Len returns the number of outstanding requests.
func (q PendingQueue) Len() int {
	return len(q.entries)
}

// Get returns the pending entry for ip, if any.
func (q PendingQueue) Get(ip wire.IPv4) (PendingEntry, bool) {
	e, ok := q.entries[ip]
	return e, ok
}

// Place registers a new pending request for ip with zero attempts. If the
// queue is already at bound and ip is not already tracked, the request is
// dropped silently (no eviction policy applies to pending entries, it is
// only bounds it).
func (q PendingQueue) Place(ip wire.IPv4, now uint64) PendingQueue {
	if _, exists := q.entries[ip]; !exists && len(q.entries) >= q.max {
		return q
	}
	next := q.clone()
	next.entries[ip] = PendingEntry{IP: ip, Attempts: 0, LastSentAt: now}
	return next
}

// MarkSent increments the attempt counter and refreshes LastSentAt.
func (q PendingQueue) MarkSent(ip wire.IPv4, now uint64) PendingQueue {
	e, ok := q.entries[ip]
	if !ok {
		return q
	}
	e.Attempts++
	e.LastSentAt = now
	next := q.clone()
	next.entries[ip] = e
	return next
}

// Remove deletes the pending entry for ip, if present; called when the
// target resolves.
func (q PendingQueue) Remove(ip wire.IPv4) PendingQueue {
	if _, ok := q.entries[ip]; !ok {
		return q
	}
	next := q.clone()
	delete(next.entries, ip)
	return next
}

// Due returns every pending entry whose retry interval has elapsed as of
// now, for Tick to retransmit.
func (q PendingQueue) Due(now, retryIntervalMs uint64) []PendingEntry {
	var due []PendingEntry
	for _, e := range q.entries {
		if now >= e.LastSentAt+retryIntervalMs {
			due = append(due, e)
		}
	}
	return due
}
