package engine

import "go.arpshield.dev/arpshield/internal/wire"

// ValidationResult is the outcome of applying the sender-address and
// self-conflict rules to an inbound ARP payload on a given interface.
type ValidationResult struct {
	// Drop is non-zero when the packet must be silently dropped: no
	// state mutation, no reply.
	Drop DropReason

	// SelfConflict is set when rule 5 detects another host claiming the
	// IPv4 address actively under ACD with a different MAC. When set, the
	// processor routes the packet to ACD instead of the ordinary
	// merge/RARP dispatch. A conflict against OwnIP with no ACD session
	// to own it is reported via Drop instead, never via this field.
	SelfConflict bool
}

// Validate applies structural/semantic checks to pkt as received on iface
// at time now. Structural well-formedness is assumed already checked by
// wire.Parse before Validate is called.
func Validate(iface Interface, pkt wire.Packet, now uint64) ValidationResult {
	_ = now

	// Rule 2: source-MAC sanity.
	switch {
	case pkt.SenderMAC.IsBroadcast():
		return ValidationResult{Drop: DropBroadcastSource}
	case pkt.SenderMAC.IsMulticast():
		return ValidationResult{Drop: DropMulticastSource}
	case pkt.SenderMAC.IsZero():
		return ValidationResult{Drop: DropZeroSource}
	}

	// Rule 3: subnet containment, exempting ACD probes (sender_ip = 0).
	if iface.Subnet != nil && !pkt.SenderIP.IsZero() && !iface.Subnet.Contains(pkt.SenderIP) {
		return ValidationResult{Drop: DropCrossSubnet}
	}

	// Rule 4: RARP gating. Structural op validity (op in {1,2,3,4}) was
	// already enforced by wire.Parse.
	if (pkt.Operation == wire.OpRARPRequest || pkt.Operation == wire.OpRARPReply) && !iface.RARPEnabled {
		return ValidationResult{Drop: DropRARPDisabled}
	}

	// Rule 5: self-check, in two independent parts. The address under
	// active probe/announce/defend (if any) is checked first and routed
	// to ACD; our statically configured address is checked unconditionally
	// afterward, so a spoof against OwnIP is never missed just because ACD
	// happens to be busy with some other candidate.
	if iface.ACD.Kind != ACDIdle && !iface.ACD.CandidateIP.IsZero() &&
		pkt.SenderIP == iface.ACD.CandidateIP && pkt.SenderMAC != iface.OwnMAC {
		return ValidationResult{SelfConflict: true}
	}
	if !iface.OwnIP.IsZero() && pkt.SenderIP == iface.OwnIP && pkt.SenderMAC != iface.OwnMAC {
		// No ACD session owns this address (or the one above already
		// claimed it): nothing to route the conflict to, drop silently.
		return ValidationResult{Drop: DropSelfConflictSilent}
	}

	return ValidationResult{}
}
