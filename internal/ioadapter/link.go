// Package ioadapter drives the engine's pure core against real network
// interfaces: one raw AF_PACKET socket per configured interface feeding
// whole frames into engine.Step, and a shared ticker driving engine.Tick.
// Grounded on the reference fleet's per-interface responder shape
// (internal/layer2/arp.go's arpResponder), moved down from parsed ARP
// packets to raw frame bytes so internal/wire keeps sole ownership of
// framing and CRC.
package ioadapter

import (
	"fmt"
	"net"

	"github.com/mdlayher/packet"
	"golang.org/x/sys/unix"

	"go.arpshield.dev/arpshield/internal/wire"
)

// maxFrame is large enough for any VLAN-tagged ARP/RARP frame this engine
// builds or accepts, with headroom for jumbo padding some drivers add.
const maxFrame = 1600

// link is a raw socket bound to a single network interface. It moves whole
// Ethernet frames in and out; it never parses ARP/RARP itself.
type link struct {
	ifaceID string
	ifi     *net.Interface
	conn    *packet.Conn
}

func openLink(ifaceID, linkName string) (*link, error) {
	ifi, err := net.InterfaceByName(linkName)
	if err != nil {
		return nil, fmt.Errorf("ioadapter: interface %q: %w", linkName, err)
	}

	conn, err := packet.Listen(ifi, packet.Raw, htons(unix.ETH_P_ALL), nil)
	if err != nil {
		return nil, fmt.Errorf("ioadapter: listen on %q: %w", linkName, err)
	}

	return &link{ifaceID: ifaceID, ifi: ifi, conn: conn}, nil
}

func (l *link) close() error {
	return l.conn.Close()
}

// readFrame blocks for the next frame arriving on the link.
func (l *link) readFrame(buf []byte) (int, error) {
	n, _, err := l.conn.ReadFrom(buf)
	return n, err
}

// writeFrame transmits a fully-framed Ethernet frame as produced by
// wire.Encap. The destination hardware address for the socket address is
// read back out of the frame itself, since wire.Encap already placed it
// there.
func (l *link) writeFrame(frame []byte) error {
	if len(frame) < 6 {
		return fmt.Errorf("ioadapter: frame too short to address (%d bytes)", len(frame))
	}
	addr := &packet.Addr{HardwareAddr: net.HardwareAddr(wire.MACFromBytes(frame[0:6]).Bytes())}
	_, err := l.conn.WriteTo(frame, addr)
	return err
}

// htons converts a 16-bit value from host to network byte order, needed
// because AF_PACKET's protocol field is interpreted big-endian regardless
// of host endianness.
func htons(i int) int {
	v := uint16(i)
	return int(v<<8 | v>>8)
}
