package engine

import "go.arpshield.dev/arpshield/internal/wire"

// ACDKind names a phase of the RFC 5227 Probe/Announce/Defend lifecycle.
type ACDKind int

// ACD lifecycle phases.
const (
	ACDIdle ACDKind = iota
	ACDProbing
	ACDAnnouncing
	ACDBound
	ACDConflict
	ACDDefending
)

func (k ACDKind) String() string {
	switch k {
	case ACDIdle:
		return "idle"
	case ACDProbing:
		return "probing"
	case ACDAnnouncing:
		return "announcing"
	case ACDBound:
		return "bound"
	case ACDConflict:
		return "conflict"
	case ACDDefending:
		return "defending"
	default:
		return "unknown"
	}
}

// RFC 5227 timing constants. ProbeNum, AnnounceNum and DefendIntervalMs
// are configurable; the rest are fixed here as the RFC specifies.
const (
	ProbeMinMs          uint64 = 1000
	ProbeMaxMs          uint64 = 2000
	ProbeWaitMs         uint64 = 1000
	AnnounceIntervalMs  uint64 = 2000
)

// ACDState is one interface's address-conflict-detection lifecycle state.
type ACDState struct {
	Kind          ACDKind
	CandidateIP   wire.IPv4
	Start         uint64 // t0 of the current phase
	NSent         int    // probes or announces sent so far in this phase
	NextActionAt  uint64 // when Tick should next send/transition
	LastDefenseAt uint64
}

// IdleACD is the zero ACD state.
var IdleACD = ACDState{Kind: ACDIdle}

// startDAD begins probing candidateIP, the Idle -> Probing transition. A
// candidate already in flight (Probing/Announcing/Defending) is left
// alone rather than restarted out from under itself; the caller must wait
// for Bound or Conflict before probing a new candidate (see DESIGN.md).
func startDAD(a ACDState, candidateIP wire.IPv4, now uint64) ACDState {
	switch a.Kind {
	case ACDProbing, ACDAnnouncing, ACDDefending:
		return a
	default:
		return ACDState{
			Kind:         ACDProbing,
			CandidateIP:  candidateIP,
			Start:        now,
			NSent:        0,
			NextActionAt: now,
		}
	}
}

// acdOutFrame describes an ARP payload the ACD state machine wants sent,
// before addressing/encapsulation (done by the processor).
type acdOutFrame struct {
	senderIP wire.IPv4
	targetIP wire.IPv4
}

// acdTick advances a's timers, returning the new state, the advanced RNG,
// and zero or more probe/announce payloads to send. cfg carries the
// configured ProbeNum/AnnounceNum/DefendIntervalMs.
func acdTick(a ACDState, ownMAC wire.MAC, now uint64, rng RNG, cfg Config) (ACDState, RNG, []acdOutFrame) {
	_ = ownMAC
	switch a.Kind {
	case ACDProbing:
		return acdTickProbing(a, now, rng, cfg)
	case ACDAnnouncing:
		return acdTickAnnouncing(a, now, rng, cfg)
	case ACDDefending:
		if now-a.LastDefenseAt >= cfg.DefendIntervalMs {
			return ACDState{Kind: ACDBound, CandidateIP: a.CandidateIP}, rng, nil
		}
		return a, rng, nil
	default:
		return a, rng, nil
	}
}

func acdTickProbing(a ACDState, now uint64, rng RNG, cfg Config) (ACDState, RNG, []acdOutFrame) {
	if now < a.NextActionAt {
		return a, rng, nil
	}

	if a.NSent >= cfg.ProbeNum {
		// PROBE_WAIT has elapsed since the last probe with no conflict.
		return ACDState{
			Kind:         ACDAnnouncing,
			CandidateIP:  a.CandidateIP,
			Start:        now,
			NSent:        0,
			NextActionAt: now,
		}, rng, nil
	}

	next := a
	next.NSent++
	if next.NSent >= cfg.ProbeNum {
		next.NextActionAt = now + ProbeWaitMs
	} else {
		jitter, r := rng.JitterMs(ProbeMinMs, ProbeMaxMs)
		rng = r
		next.NextActionAt = now + jitter
	}

	out := []acdOutFrame{{senderIP: wire.IPv4{}, targetIP: a.CandidateIP}}
	return next, rng, out
}

func acdTickAnnouncing(a ACDState, now uint64, rng RNG, cfg Config) (ACDState, RNG, []acdOutFrame) {
	if now < a.NextActionAt {
		return a, rng, nil
	}

	next := a
	next.NSent++
	out := []acdOutFrame{{senderIP: a.CandidateIP, targetIP: a.CandidateIP}}

	if next.NSent >= cfg.AnnounceNum {
		return ACDState{Kind: ACDBound, CandidateIP: a.CandidateIP}, rng, out
	}

	next.NextActionAt = now + AnnounceIntervalMs
	return next, rng, out
}

// acdOnConflict handles a validated packet that conflicts with a's
// candidate/bound address: same sender IP, different sender MAC than our
// own. It returns the new state and whether a single defense
// announcement should be emitted now.
func acdOnConflict(a ACDState, now uint64, defendIntervalMs uint64) (ACDState, bool) {
	switch a.Kind {
	case ACDProbing, ACDAnnouncing:
		return ACDState{Kind: ACDConflict, CandidateIP: a.CandidateIP}, false

	case ACDBound:
		return ACDState{Kind: ACDDefending, CandidateIP: a.CandidateIP, LastDefenseAt: now}, true

	case ACDDefending:
		if now-a.LastDefenseAt < defendIntervalMs {
			return ACDState{Kind: ACDConflict, CandidateIP: a.CandidateIP}, false
		}
		return ACDState{Kind: ACDDefending, CandidateIP: a.CandidateIP, LastDefenseAt: now}, true

	default:
		return a, false
	}
}
