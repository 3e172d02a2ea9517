package wire

import (
	"encoding/binary"
	"errors"
)

// Operation is the ARP/RARP opcode.
type Operation uint16

// Operation values.
const (
	OpRequest     Operation = 1
	OpReply       Operation = 2
	OpRARPRequest Operation = 3
	OpRARPReply   Operation = 4
)

const (
	hwTypeEthernet    = 1
	protoTypeIPv4     = 0x0800
	hwAddrLen         = 6
	protoAddrLen      = 4
	payloadSize       = 28
)

// Parse error reasons.
var (
	ErrTooShort     = errors.New("wire: payload shorter than 28 bytes")
	ErrBadHwType    = errors.New("wire: hardware type is not Ethernet (1)")
	ErrBadProtoType = errors.New("wire: protocol type is not IPv4 (0x0800)")
	ErrBadLens      = errors.New("wire: hardware/protocol address lengths are not (6,4)")
	ErrBadOp        = errors.New("wire: operation is not in {1,2,3,4}")
	ErrBadCrc       = errors.New("wire: Ethernet frame check sequence mismatch")
)

// Packet is a parsed 28-byte ARP (or RARP) payload.
type Packet struct {
	Operation  Operation
	SenderMAC  MAC
	SenderIP   IPv4
	TargetMAC  MAC
	TargetIP   IPv4
}

// Serialize encodes p as the 28-byte big-endian ARP wire payload.
// Serialize never fails: Packet's fields are always wire-representable.
func Serialize(p Packet) []byte {
	b := make([]byte, payloadSize)

	binary.BigEndian.PutUint16(b[0:2], hwTypeEthernet)
	binary.BigEndian.PutUint16(b[2:4], protoTypeIPv4)
	b[4] = hwAddrLen
	b[5] = protoAddrLen
	binary.BigEndian.PutUint16(b[6:8], uint16(p.Operation))

	copy(b[8:14], p.SenderMAC[:])
	copy(b[14:18], p.SenderIP[:])
	copy(b[18:24], p.TargetMAC[:])
	copy(b[24:28], p.TargetIP[:])

	return b
}

// Parse decodes a 28-byte ARP payload, validating every structural
// length and field constraint before returning a Packet.
func Parse(b []byte) (Packet, error) {
	var p Packet

	if len(b) < payloadSize {
		return p, ErrTooShort
	}

	if binary.BigEndian.Uint16(b[0:2]) != hwTypeEthernet {
		return p, ErrBadHwType
	}
	if binary.BigEndian.Uint16(b[2:4]) != protoTypeIPv4 {
		return p, ErrBadProtoType
	}
	if b[4] != hwAddrLen || b[5] != protoAddrLen {
		return p, ErrBadLens
	}

	op := Operation(binary.BigEndian.Uint16(b[6:8]))
	switch op {
	case OpRequest, OpReply, OpRARPRequest, OpRARPReply:
	default:
		return p, ErrBadOp
	}

	p.Operation = op
	p.SenderMAC = MACFromBytes(b[8:14])
	p.SenderIP = IPv4FromBytes(b[14:18])
	p.TargetMAC = MACFromBytes(b[18:24])
	p.TargetIP = IPv4FromBytes(b[24:28])

	return p, nil
}
