package engine

import "go.arpshield.dev/arpshield/internal/wire"

// NegEntry records that resolving IP recently failed.
type NegEntry struct {
	IP         wire.IPv4
	InsertedAt uint64
	TTL        uint64
}

func (e NegEntry) expired(now uint64) bool {
	return now >= e.InsertedAt+e.TTL
}

// NegCache is the bounded negative-resolution cache.
type NegCache struct {
	entries map[wire.IPv4]NegEntry
	max     int
}

// NewNegCache returns an empty negative cache bounded to max entries.
func NewNegCache(max int) NegCache {
	return NegCache{entries: make(map[wire.IPv4]NegEntry), max: max}
}

func (c NegCache) clone() NegCache {
	out := make(map[wire.IPv4]NegEntry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return NegCache{entries: out, max: c.max}
}

// Len returns the number of entries currently held.
func (c NegCache) Len() int {
	return len(c.entries)
}

// IsNegative reports whether ip has an unexpired failure record.
func (c NegCache) IsNegative(ip wire.IPv4, now uint64) bool {
	e, ok := c.entries[ip]
	return ok && !e.expired(now)
}

// RecordFailure inserts a failure record for ip, evicting the oldest entry
// (by InsertedAt) if the cache is at bound.
func (c NegCache) RecordFailure(ip wire.IPv4, now, ttl uint64) NegCache {
	next := c.clone()
	if _, exists := next.entries[ip]; !exists && len(next.entries) >= next.max {
		if victim, ok := next.oldest(); ok {
			delete(next.entries, victim)
		}
	}
	next.entries[ip] = NegEntry{IP: ip, InsertedAt: now, TTL: ttl}
	return next
}

func (c NegCache) oldest() (wire.IPv4, bool) {
	var best wire.IPv4
	var bestAt uint64
	found := false
	for ip, e := range c.entries {
		if !found || e.InsertedAt < bestAt || (e.InsertedAt == bestAt && ip.Less(best)) {
			best = ip
			bestAt = e.InsertedAt
			found = true
		}
	}
	return best, found
}

// Remove deletes the negative entry for ip, if present, used when a
// positive resolution arrives.
func (c NegCache) Remove(ip wire.IPv4) NegCache {
	if _, ok := c.entries[ip]; !ok {
		return c
	}
	next := c.clone()
	delete(next.entries, ip)
	return next
}

// Age removes every expired entry.
func (c NegCache) Age(now uint64) NegCache {
	var toRemove []wire.IPv4
	for ip, e := range c.entries {
		if e.expired(now) {
			toRemove = append(toRemove, ip)
		}
	}
	if len(toRemove) == 0 {
		return c
	}
	next := c.clone()
	for _, ip := range toRemove {
		delete(next.entries, ip)
	}
	return next
}
