package engine

import "go.arpshield.dev/arpshield/internal/wire"

// EntryKind distinguishes administratively fixed cache entries from ones
// learned off the wire.
type EntryKind int

// Cache entry kinds.
const (
	KindDynamic EntryKind = iota
	KindStatic
)

func (k EntryKind) String() string {
	if k == KindStatic {
		return "static"
	}
	return "dynamic"
}

// CacheEntry is one IPv4-to-MAC mapping. TTL is ignored for
// Static entries, which never expire.
type CacheEntry struct {
	IP         wire.IPv4
	MAC        wire.MAC
	InsertedAt uint64
	TTL        uint64
	Kind       EntryKind
}

func (e CacheEntry) expired(now uint64) bool {
	if e.Kind == KindStatic {
		return false
	}
	return now >= e.InsertedAt+e.TTL
}

// Cache is the bounded per-interface IPv4->MAC resolution cache. It is a
// §4.4). It is a value type: every mutating method returns a new Cache,
// leaving the receiver untouched, so that engine.State composes as an
// immutable value per call to Step/Tick/etc.
type Cache struct {
	entries map[wire.IPv4]CacheEntry
	max     int
}

// NewCache returns an empty cache bounded to max entries.
func NewCache(max int) Cache {
	return Cache{entries: make(map[wire.IPv4]CacheEntry), max: max}
}

func (c Cache) clone() Cache {
	out := make(map[wire.IPv4]CacheEntry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return Cache{entries: out, max: c.max}
}

// Len returns the number of entries currently held.
func (c Cache) Len() int {
	return len(c.entries)
}

// Get returns the entry for ip, if any.
func (c Cache) Get(ip wire.IPv4) (CacheEntry, bool) {
	e, ok := c.entries[ip]
	return e, ok
}

// Put inserts or overwrites the entry for e.IP, evicting the oldest Dynamic
// entry (by InsertedAt, ties broken by lexicographically smaller IP) if the
// cache is at bound and e.IP is not already present. Returns the new cache
// and false if the cache is full of Static entries and no room could be
// made. In that case the original
// (unmodified) cache is returned.
func (c Cache) Put(e CacheEntry) (Cache, bool) {
	if _, exists := c.entries[e.IP]; exists {
		next := c.clone()
		next.entries[e.IP] = e
		return next, true
	}

	if len(c.entries) < c.max {
		next := c.clone()
		next.entries[e.IP] = e
		return next, true
	}

	victim, ok := c.oldestDynamic()
	if !ok {
		return c, false
	}

	next := c.clone()
	delete(next.entries, victim)
	next.entries[e.IP] = e
	return next, true
}

// oldestDynamic returns the Dynamic entry with the smallest InsertedAt,
// ties broken by the lexicographically smaller IP.
func (c Cache) oldestDynamic() (wire.IPv4, bool) {
	var best wire.IPv4
	var bestEntry CacheEntry
	found := false

	for ip, e := range c.entries {
		if e.Kind == KindStatic {
			continue
		}
		if !found || e.InsertedAt < bestEntry.InsertedAt || (e.InsertedAt == bestEntry.InsertedAt && ip.Less(best)) {
			best = ip
			bestEntry = e
			found = true
		}
	}
	return best, found
}

// UpdateMAC overwrites the MAC/InsertedAt of a non-Static entry for ip,
// leaving Static entries untouched. Reports whether an update actually
// happened and whether ip names a Static entry (a StaticViolation
// notice).
func (c Cache) UpdateMAC(ip wire.IPv4, mac wire.MAC, now uint64) (cache Cache, updated bool, staticViolation bool) {
	e, ok := c.entries[ip]
	if !ok {
		return c, false, false
	}
	if e.Kind == KindStatic {
		return c, false, true
	}
	e.MAC = mac
	e.InsertedAt = now
	next := c.clone()
	next.entries[ip] = e
	return next, true, false
}

// Remove deletes the entry for ip, if present.
func (c Cache) Remove(ip wire.IPv4) Cache {
	if _, ok := c.entries[ip]; !ok {
		return c
	}
	next := c.clone()
	delete(next.entries, ip)
	return next
}

// Age removes every Dynamic entry whose TTL has elapsed as of now. Aging
// never increases the cache's size.
func (c Cache) Age(now uint64) Cache {
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

// CountByKind returns the number of entries of each kind, for metrics.
func (c Cache) CountByKind() (static, dynamic int) {
	for _, e := range c.entries {
		if e.Kind == KindStatic {
			static++
		} else {
			dynamic++
		}
	}
	return static, dynamic
}
