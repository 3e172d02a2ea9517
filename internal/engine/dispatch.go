package engine

import "go.arpshield.dev/arpshield/internal/wire"

// ResolveInterface answers "which interface owns destination D?" for
// callers outside the pure core (ioadapter) that receive a bare
// destination IP without an iface_id already in hand. Step, Request and
// Lookup all take iface_id explicitly and never call this; it exists
// purely as a convenience for the transport layer's dispatch loop.
//
// An interface owns ip if ip equals its own address or falls inside its
// configured subnet. An own-address match on any interface is preferred
// over a subnet match; among several matches of the same kind, the first
// in map iteration order wins, so callers that need determinism should
// configure disjoint subnets, which is the only supported topology.
func ResolveInterface(s State, ip wire.IPv4) (string, bool) {
	for id, iface := range s.Interfaces {
		if iface.OwnIP == ip {
			return id, true
		}
	}
	for id, iface := range s.Interfaces {
		if iface.Subnet != nil && iface.Subnet.Contains(ip) {
			return id, true
		}
	}
	return "", false
}
