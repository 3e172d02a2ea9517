package engine

import (
	"testing"

	"go.arpshield.dev/arpshield/internal/wire"
)

func testInterface(t *testing.T) Interface {
	t.Helper()
	ownIP := mustIP(t, "10.0.0.1")
	ownMAC := mustMAC(t, "02:00:00:00:00:01")
	subnet := &wire.Subnet{Network: mustIP(t, "10.0.0.0"), Prefix: 24}

	return Interface{
		ID:       "eth0",
		OwnMAC:   ownMAC,
		OwnIP:    ownIP,
		Subnet:   subnet,
		Cache:    NewCache(16),
		NegCache: NewNegCache(16),
		Pending:  NewPendingQueue(16),
		ACD:      IdleACD,
	}
}

func TestValidateRejectsBroadcastSource(t *testing.T) {
	iface := testInterface(t)
	pkt := wire.Packet{Operation: wire.OpRequest, SenderMAC: wire.Broadcast, SenderIP: mustIP(t, "10.0.0.9"), TargetIP: iface.OwnIP}
	if r := Validate(iface, pkt, 0); r.Drop != DropBroadcastSource {
		t.Fatalf("Drop = %v, want DropBroadcastSource", r.Drop)
	}
}

func TestValidateRejectsMulticastSource(t *testing.T) {
	iface := testInterface(t)
	mac := mustMAC(t, "01:00:00:00:00:01")
	pkt := wire.Packet{Operation: wire.OpRequest, SenderMAC: mac, SenderIP: mustIP(t, "10.0.0.9"), TargetIP: iface.OwnIP}
	if r := Validate(iface, pkt, 0); r.Drop != DropMulticastSource {
		t.Fatalf("Drop = %v, want DropMulticastSource", r.Drop)
	}
}

func TestValidateRejectsZeroSource(t *testing.T) {
	iface := testInterface(t)
	pkt := wire.Packet{Operation: wire.OpRequest, SenderMAC: wire.MAC{}, SenderIP: mustIP(t, "10.0.0.9"), TargetIP: iface.OwnIP}
	if r := Validate(iface, pkt, 0); r.Drop != DropZeroSource {
		t.Fatalf("Drop = %v, want DropZeroSource", r.Drop)
	}
}

func TestValidateRejectsCrossSubnetSource(t *testing.T) {
	iface := testInterface(t)
	pkt := wire.Packet{
		Operation: wire.OpRequest,
		SenderMAC: mustMAC(t, "02:00:00:00:00:02"),
		SenderIP:  mustIP(t, "192.168.1.9"),
		TargetIP:  iface.OwnIP,
	}
	if r := Validate(iface, pkt, 0); r.Drop != DropCrossSubnet {
		t.Fatalf("Drop = %v, want DropCrossSubnet", r.Drop)
	}
}

func TestValidateAllowsZeroSourceForACDProbe(t *testing.T) {
	iface := testInterface(t)
	pkt := wire.Packet{
		Operation: wire.OpRequest,
		SenderMAC: mustMAC(t, "02:00:00:00:00:02"),
		SenderIP:  wire.IPv4{},
		TargetIP:  mustIP(t, "10.0.0.5"),
	}
	if r := Validate(iface, pkt, 0); r.Drop != DropNone {
		t.Fatalf("Drop = %v, want DropNone for zero-source probe", r.Drop)
	}
}

func TestValidateRejectsRARPWhenDisabled(t *testing.T) {
	iface := testInterface(t)
	iface.RARPEnabled = false
	pkt := wire.Packet{
		Operation: wire.OpRARPRequest,
		SenderMAC: mustMAC(t, "02:00:00:00:00:02"),
		SenderIP:  mustIP(t, "10.0.0.9"),
	}
	if r := Validate(iface, pkt, 0); r.Drop != DropRARPDisabled {
		t.Fatalf("Drop = %v, want DropRARPDisabled", r.Drop)
	}
}

func TestValidateSelfConflictSilentWhenIdle(t *testing.T) {
	iface := testInterface(t)
	pkt := wire.Packet{
		Operation: wire.OpRequest,
		SenderMAC: mustMAC(t, "02:00:00:00:00:02"),
		SenderIP:  iface.OwnIP,
		TargetIP:  mustIP(t, "10.0.0.5"),
	}
	r := Validate(iface, pkt, 0)
	if r.Drop != DropSelfConflictSilent || r.SelfConflict {
		t.Fatalf("Validate = %+v, want silent self-conflict drop", r)
	}
}

func TestValidateSelfConflictRoutedToACDWhenActive(t *testing.T) {
	iface := testInterface(t)
	iface.ACD = ACDState{Kind: ACDBound, CandidateIP: iface.OwnIP}
	pkt := wire.Packet{
		Operation: wire.OpRequest,
		SenderMAC: mustMAC(t, "02:00:00:00:00:02"),
		SenderIP:  iface.OwnIP,
		TargetIP:  mustIP(t, "10.0.0.5"),
	}
	r := Validate(iface, pkt, 0)
	if r.Drop != DropNone || !r.SelfConflict {
		t.Fatalf("Validate = %+v, want SelfConflict routed to ACD", r)
	}
}

func TestValidateSelfConflictOnOwnIPStillCaughtWhileProbingOtherCandidate(t *testing.T) {
	iface := testInterface(t)
	iface.ACD = ACDState{Kind: ACDProbing, CandidateIP: mustIP(t, "10.0.0.77")}
	pkt := wire.Packet{
		Operation: wire.OpRequest,
		SenderMAC: mustMAC(t, "02:00:00:00:00:02"),
		SenderIP:  iface.OwnIP,
		TargetIP:  mustIP(t, "10.0.0.5"),
	}
	r := Validate(iface, pkt, 0)
	if r.Drop != DropSelfConflictSilent || r.SelfConflict {
		t.Fatalf("Validate = %+v, want silent self-conflict drop for OwnIP despite unrelated active probe", r)
	}
}

func TestValidateAllowsWellFormedRequest(t *testing.T) {
	iface := testInterface(t)
	pkt := wire.Packet{
		Operation: wire.OpRequest,
		SenderMAC: mustMAC(t, "02:00:00:00:00:02"),
		SenderIP:  mustIP(t, "10.0.0.9"),
		TargetIP:  iface.OwnIP,
	}
	r := Validate(iface, pkt, 0)
	if r.Drop != DropNone || r.SelfConflict {
		t.Fatalf("Validate = %+v, want a clean pass", r)
	}
}
