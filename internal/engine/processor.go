package engine

import (
	"sort"

	"go.arpshield.dev/arpshield/internal/wire"
)

// StepOutcome carries everything Step produces besides the new State: an
// optional outbound frame, the DropReason if the input was rejected, and
// any Notice worth surfacing.
type StepOutcome struct {
	Frame  []byte
	Drop   DropReason
	Notice Notice
}

// LookupStatus is a three-way result in place of a nullable lookup:
// Resolved/Negative/Unknown are semantically distinct, so a null sentinel
// would conflate the last two.
type LookupStatus int

// Lookup outcomes.
const (
	LookupUnknown LookupStatus = iota
	LookupResolved
	LookupNegative
)

// LookupResult is the outcome of Lookup.
type LookupResult struct {
	Status LookupStatus
	MAC    wire.MAC
}

func mapParseErr(err error) DropReason {
	switch err {
	case wire.ErrBadHwType:
		return DropBadHwType
	case wire.ErrBadProtoType:
		return DropBadProtoType
	case wire.ErrBadLens:
		return DropBadLens
	case wire.ErrBadOp:
		return DropBadOp
	default:
		return DropTooShort
	}
}

// Step is the processor entry point: it decapsulates frameBytes,
// validates and dispatches it against interface ifaceID, and returns the
// new state plus an optional reply frame.
func Step(s State, ifaceID string, frameBytes []byte, now uint64) (State, StepOutcome) {
	eth, err := wire.Decap(frameBytes)
	if err != nil {
		reason := DropTooShort
		if err == wire.ErrBadCrc {
			reason = DropBadCrc
		}
		return s, StepOutcome{Drop: reason}
	}

	if eth.EtherType != wire.EtherTypeARP && eth.EtherType != wire.EtherTypeRARP {
		return s, StepOutcome{Drop: DropBadEtherType}
	}

	iface, ok := s.Interfaces[ifaceID]
	if !ok {
		return s, StepOutcome{Drop: DropUnknownInterface}
	}

	pkt, err := wire.Parse(eth.Payload)
	if err != nil {
		return s, StepOutcome{Drop: mapParseErr(err)}
	}

	vr := Validate(iface, pkt, now)
	if vr.Drop != DropNone {
		return s, StepOutcome{Drop: vr.Drop}
	}

	if vr.SelfConflict {
		return stepConflict(s, iface, eth, now)
	}

	var replyPkt *wire.Packet
	notice := NoticeNone

	switch pkt.Operation {
	case wire.OpRequest, wire.OpReply:
		iface, replyPkt, notice = merge(iface, pkt, now, s.Config.DynTTLMs)
	case wire.OpRARPRequest:
		if rp, ok := rarpReply(iface, s.ReverseMap, pkt); ok {
			replyPkt = &rp
		}
	case wire.OpRARPReply:
		// No cache to update, no reply to send; RARP replies are only
		// consumed by whatever asked for one, outside this engine.
	}

	next := s.withInterface(iface)

	var frameOut []byte
	if replyPkt != nil {
		frameOut = wire.Encap(wire.Frame{
			Destination: replyPkt.TargetMAC,
			Source:      iface.OwnMAC,
			VLAN:        eth.VLAN, // reply on the same VLAN the request arrived on
			EtherType:   eth.EtherType,
			Payload:     wire.Serialize(*replyPkt),
		})
	}

	return next, StepOutcome{Frame: frameOut, Notice: notice}
}

// stepConflict handles a validated packet that Validate flagged as a
// self-conflict with an active ACD session, feeding it into the ACD
// conflict-handling state transition rather than merging or replying.
func stepConflict(s State, iface Interface, eth wire.Frame, now uint64) (State, StepOutcome) {
	newACD, sendDefense := acdOnConflict(iface.ACD, now, s.Config.DefendIntervalMs)
	iface.ACD = newACD

	notice := NoticeNone
	if newACD.Kind == ACDConflict {
		notice = NoticeDadConflict
	}

	var frameOut []byte
	if sendDefense {
		pkt := wire.Packet{
			Operation: wire.OpRequest,
			SenderMAC: iface.OwnMAC,
			SenderIP:  newACD.CandidateIP,
			TargetMAC: wire.MAC{},
			TargetIP:  newACD.CandidateIP,
		}
		frameOut = wire.Encap(wire.Frame{
			Destination: wire.Broadcast,
			Source:      iface.OwnMAC,
			VLAN:        eth.VLAN,
			EtherType:   wire.EtherTypeARP,
			Payload:     wire.Serialize(pkt),
		})
	}

	return s.withInterface(iface), StepOutcome{Frame: frameOut, Notice: notice}
}

// Lookup reports the current resolution status of ip on ifaceID.
func Lookup(s State, ifaceID string, ip wire.IPv4, now uint64) LookupResult {
	iface, ok := s.Interfaces[ifaceID]
	if !ok {
		return LookupResult{Status: LookupUnknown}
	}
	if e, ok := iface.Cache.Get(ip); ok && !e.expired(now) {
		return LookupResult{Status: LookupResolved, MAC: e.MAC}
	}
	if iface.NegCache.IsNegative(ip, now) {
		return LookupResult{Status: LookupNegative}
	}
	return LookupResult{Status: LookupUnknown}
}

func buildRequestFrame(iface Interface, targetIP wire.IPv4) []byte {
	pkt := wire.Packet{
		Operation: wire.OpRequest,
		SenderMAC: iface.OwnMAC,
		SenderIP:  iface.OwnIP,
		TargetMAC: wire.MAC{},
		TargetIP:  targetIP,
	}
	return wire.Encap(wire.Frame{
		Destination: wire.Broadcast,
		Source:      iface.OwnMAC,
		VLAN:        iface.VLAN,
		EtherType:   wire.EtherTypeARP,
		Payload:     wire.Serialize(pkt),
	})
}

// Request emits an ARP Request for targetIP from ifaceID, subject to
// flood control. A pending entry for targetIP is placed (if not already
// tracked) regardless of whether the flood check allows this call to
// actually transmit; on denial the existing pending entry is retained
// untouched for a later retry via Tick.
func Request(s State, ifaceID string, targetIP wire.IPv4, now uint64) (State, []byte) {
	iface, ok := s.Interfaces[ifaceID]
	if !ok {
		return s, nil
	}

	if _, exists := iface.Pending.Get(targetIP); !exists {
		iface.Pending = iface.Pending.Place(targetIP, now)
	}

	flood, allowed := s.Flood.Allow(targetIP, now)
	s = s.withInterface(iface)
	s.Flood = flood
	if !allowed {
		return s, nil
	}

	iface = s.Interfaces[ifaceID]
	iface.Pending = iface.Pending.MarkSent(targetIP, now)
	s = s.withInterface(iface)

	return s, buildRequestFrame(iface, targetIP)
}

// Tick ages caches, retransmits due pending requests, and advances every
// interface's ACD lifecycle. Interfaces are visited in ID order so the
// returned frame list is deterministic.
func Tick(s State, now uint64) (State, [][]byte) {
	var out [][]byte

	ids := make([]string, 0, len(s.Interfaces))
	for id := range s.Interfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rng := s.RNG
	for _, id := range ids {
		iface := s.Interfaces[id]

		iface.Cache = iface.Cache.Age(now)
		iface.NegCache = iface.NegCache.Age(now)

		due := iface.Pending.Due(now, s.Config.RetryIntervalMs)
		sort.Slice(due, func(i, j int) bool { return due[i].IP.Less(due[j].IP) })
		for _, e := range due {
			if e.Attempts > MaxAttempts {
				iface.Pending = iface.Pending.Remove(e.IP)
				iface.NegCache = iface.NegCache.RecordFailure(e.IP, now, s.Config.NegTTLMs)
				continue
			}
			out = append(out, buildRequestFrame(iface, e.IP))
			iface.Pending = iface.Pending.MarkSent(e.IP, now)
		}

		var acdFrames []acdOutFrame
		iface.ACD, rng, acdFrames = acdTick(iface.ACD, iface.OwnMAC, now, rng, s.Config)
		for _, af := range acdFrames {
			pkt := wire.Packet{
				Operation: wire.OpRequest,
				SenderMAC: iface.OwnMAC,
				SenderIP:  af.senderIP,
				TargetMAC: wire.MAC{},
				TargetIP:  af.targetIP,
			}
			out = append(out, wire.Encap(wire.Frame{
				Destination: wire.Broadcast,
				Source:      iface.OwnMAC,
				VLAN:        iface.VLAN,
				EtherType:   wire.EtherTypeARP,
				Payload:     wire.Serialize(pkt),
			}))
		}

		s = s.withInterface(iface)
	}
	s.RNG = rng

	return s, out
}

// StartDAD begins probing candidateIP on ifaceID. rngSeed reseeds the
// jitter stream so probe spacing is reproducible given the same seed.
func StartDAD(s State, ifaceID string, candidateIP wire.IPv4, now, rngSeed uint64) State {
	iface, ok := s.Interfaces[ifaceID]
	if !ok {
		return s
	}
	iface.ACD = startDAD(iface.ACD, candidateIP, now)
	s = s.withInterface(iface)
	s.RNG = NewRNG(rngSeed)
	return s
}
