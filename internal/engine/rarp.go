package engine

import "go.arpshield.dev/arpshield/internal/wire"

// rarpReply implements RFC 903-style reverse lookup: on an RARP Request
// naming MAC M in the target hardware address field, look M up in the
// configured reverse map and, if found, build an RARP Reply carrying M's
// IPv4 address.
func rarpReply(iface Interface, reverseMap map[wire.MAC]wire.IPv4, pkt wire.Packet) (wire.Packet, bool) {
	if pkt.Operation != wire.OpRARPRequest {
		return wire.Packet{}, false
	}

	ip, ok := reverseMap[pkt.TargetMAC]
	if !ok {
		return wire.Packet{}, false
	}

	return wire.Packet{
		Operation: wire.OpRARPReply,
		SenderMAC: iface.OwnMAC,
		SenderIP:  iface.OwnIP,
		TargetMAC: pkt.TargetMAC,
		TargetIP:  ip,
	}, true
}
