package engine

import "go.arpshield.dev/arpshield/internal/wire"

// StaticEntry is an administratively fixed cache entry supplied at Init
// time, a static table established at initialization from outside the
// merge algorithm's reach.
type StaticEntry struct {
	IP  wire.IPv4
	MAC wire.MAC
}

// ReverseEntry maps a MAC back to an IPv4 address for RARP.
type ReverseEntry struct {
	MAC wire.MAC
	IP  wire.IPv4
}

// InterfaceConfig is one interface's static configuration.
type InterfaceConfig struct {
	ID            string
	MAC           wire.MAC
	IP            wire.IPv4
	Subnet        *wire.Subnet // nil = unconfigured, no subnet check
	VLAN          *wire.VLAN   // nil = untagged
	RARPEnabled   bool
	StaticEntries []StaticEntry
}

// Config is the full engine configuration, passed to Init.
type Config struct {
	Interfaces []InterfaceConfig
	ReverseMap []ReverseEntry

	DynTTLMs         uint64
	NegTTLMs         uint64
	FloodWindowMs    uint64
	FloodMax         int
	MaxCache         int
	MaxNeg           int
	MaxFlood         int
	MaxPending       int
	ProbeNum         int
	AnnounceNum      int
	DefendIntervalMs uint64
	RetryIntervalMs  uint64

	RNGSeed uint64
}

// DefaultConfig returns reasonable defaults with no interfaces configured.
func DefaultConfig() Config {
	return Config{
		DynTTLMs:         300000,
		NegTTLMs:         60000,
		FloodWindowMs:    1000,
		FloodMax:         5,
		MaxCache:         1024,
		MaxNeg:           256,
		MaxFlood:         512,
		MaxPending:       128,
		ProbeNum:         3,
		AnnounceNum:      2,
		DefendIntervalMs: 10000,
		RetryIntervalMs:  1000,
	}
}

// Interface is one link's mutable engine state.
type Interface struct {
	ID          string
	OwnMAC      wire.MAC
	OwnIP       wire.IPv4
	Subnet      *wire.Subnet
	VLAN        *wire.VLAN
	RARPEnabled bool

	Cache    Cache
	NegCache NegCache
	Pending  PendingQueue
	ACD      ACDState
}

// State is the complete, immutable-by-convention engine state: every
// Interfaces value and the FloodTable are copied on write, so State is
// safe to hold across calls and compare structurally in tests. Callers
// pass a State by value and receive a new one back.
type State struct {
	Interfaces map[string]Interface
	Flood      FloodTable
	ReverseMap map[wire.MAC]wire.IPv4
	RNG        RNG
	Config     Config
}

func (s State) cloneInterfaces() map[string]Interface {
	out := make(map[string]Interface, len(s.Interfaces))
	for k, v := range s.Interfaces {
		out[k] = v
	}
	return out
}

func (s State) withInterface(i Interface) State {
	next := s
	next.Interfaces = s.cloneInterfaces()
	next.Interfaces[i.ID] = i
	return next
}

// Init builds the initial engine state from cfg.
func Init(cfg Config) State {
	ifaces := make(map[string]Interface, len(cfg.Interfaces))
	for _, ic := range cfg.Interfaces {
		cache := NewCache(cfg.MaxCache)
		for _, se := range ic.StaticEntries {
			cache, _ = cache.Put(CacheEntry{
				IP:   se.IP,
				MAC:  se.MAC,
				Kind: KindStatic,
			})
		}

		ifaces[ic.ID] = Interface{
			ID:          ic.ID,
			OwnMAC:      ic.MAC,
			OwnIP:       ic.IP,
			Subnet:      ic.Subnet,
			VLAN:        ic.VLAN,
			RARPEnabled: ic.RARPEnabled,
			Cache:       cache,
			NegCache:    NewNegCache(cfg.MaxNeg),
			Pending:     NewPendingQueue(cfg.MaxPending),
			ACD:         IdleACD,
		}
	}

	reverse := make(map[wire.MAC]wire.IPv4, len(cfg.ReverseMap))
	for _, re := range cfg.ReverseMap {
		reverse[re.MAC] = re.IP
	}

	return State{
		Interfaces: ifaces,
		Flood:      NewFloodTable(cfg.MaxFlood, cfg.FloodWindowMs, cfg.FloodMax),
		ReverseMap: reverse,
		RNG:        NewRNG(cfg.RNGSeed),
		Config:     cfg,
	}
}

// AddStatic administers a new Static entry on iface outside the merge
// algorithm's reach. It fails silently (returns s unchanged) if the
// interface is unknown or the cache has no room and is full of Static
// entries.
func AddStatic(s State, ifaceID string, ip wire.IPv4, mac wire.MAC) State {
	iface, ok := s.Interfaces[ifaceID]
	if !ok {
		return s
	}
	cache, ok := iface.Cache.Put(CacheEntry{IP: ip, MAC: mac, Kind: KindStatic})
	if !ok {
		return s
	}
	iface.Cache = cache
	return s.withInterface(iface)
}

// RemoveStatic removes a Static entry administratively. Entries of any
// other kind for ip are left untouched if the removal target isn't
// actually Static.
func RemoveStatic(s State, ifaceID string, ip wire.IPv4) State {
	iface, ok := s.Interfaces[ifaceID]
	if !ok {
		return s
	}
	entry, ok := iface.Cache.Get(ip)
	if !ok || entry.Kind != KindStatic {
		return s
	}
	iface.Cache = iface.Cache.Remove(ip)
	return s.withInterface(iface)
}

// SetReverseMap replaces the RARP reverse-lookup table wholesale, for a
// config reload that doesn't restart listeners.
func SetReverseMap(s State, entries []ReverseEntry) State {
	next := s
	next.ReverseMap = make(map[wire.MAC]wire.IPv4, len(entries))
	for _, e := range entries {
		next.ReverseMap[e.MAC] = e.IP
	}
	return next
}
