package wire

import "encoding/binary"

// EtherType identifies the payload protocol carried by an Ethernet frame.
type EtherType uint16

// EtherType values relevant to this codec.
const (
	EtherTypeARP  EtherType = 0x0806
	EtherTypeRARP EtherType = 0x8035
)

const vlanTPID uint16 = 0x8100

const (
	ethHeaderLen  = 12 // destination + source
	vlanTagLen    = 4
	ethTypeLen    = 2
	crcLen        = 4
	minFrameBytes = 60 // minimum length of dst..payload, pre-CRC
)

// VLAN is an 802.1Q tag: TPID is implicit (always 0x8100 on the wire).
type VLAN struct {
	PCP uint8  // 3 bits
	DEI bool   // 1 bit
	VID uint16 // 12 bits
}

func (v VLAN) tci() uint16 {
	tci := v.VID & 0x0FFF
	tci |= uint16(v.PCP&0x07) << 13
	if v.DEI {
		tci |= 0x1000
	}
	return tci
}

// Frame is a parsed Ethernet frame, with an optional VLAN tag, wrapping an
// ARP/RARP payload.
type Frame struct {
	Destination MAC
	Source      MAC
	VLAN        *VLAN
	EtherType   EtherType
	Payload     []byte
}

// Encap serializes f into a full Ethernet frame: destination, source,
// optional VLAN tag, ethertype, payload, zero-padding to the 60-byte
// pre-CRC minimum, and a trailing IEEE 802.3 CRC-32.
func Encap(f Frame) []byte {
	hdrLen := ethHeaderLen + ethTypeLen
	if f.VLAN != nil {
		hdrLen += vlanTagLen
	}

	body := make([]byte, hdrLen+len(f.Payload))
	copy(body[0:6], f.Destination[:])
	copy(body[6:12], f.Source[:])

	off := ethHeaderLen
	if f.VLAN != nil {
		binary.BigEndian.PutUint16(body[off:off+2], vlanTPID)
		binary.BigEndian.PutUint16(body[off+2:off+4], f.VLAN.tci())
		off += vlanTagLen
	}
	binary.BigEndian.PutUint16(body[off:off+2], uint16(f.EtherType))
	off += ethTypeLen
	copy(body[off:], f.Payload)

	if len(body) < minFrameBytes {
		pad := make([]byte, minFrameBytes-len(body))
		body = append(body, pad...)
	}

	crc := CRC32(body)
	out := make([]byte, len(body)+crcLen)
	copy(out, body)
	binary.BigEndian.PutUint32(out[len(body):], crc)
	return out
}

// Decap is Encap's inverse: it validates the trailing CRC-32 and returns
// the decoded Frame. Trailing zero-padding (or any non-zero filler, which
// is tolerated) remains part of Payload; higher-layer
// parsing (wire.Parse) only consumes the bytes it needs.
func Decap(b []byte) (Frame, error) {
	var f Frame

	if len(b) < ethHeaderLen+ethTypeLen+crcLen {
		return f, ErrTooShort
	}

	body := b[:len(b)-crcLen]
	wantCRC := binary.BigEndian.Uint32(b[len(b)-crcLen:])
	if CRC32(body) != wantCRC {
		return f, ErrBadCrc
	}

	f.Destination = MACFromBytes(body[0:6])
	f.Source = MACFromBytes(body[6:12])

	off := ethHeaderLen
	if len(body) >= off+vlanTagLen+ethTypeLen && binary.BigEndian.Uint16(body[off:off+2]) == vlanTPID {
		tci := binary.BigEndian.Uint16(body[off+2 : off+4])
		f.VLAN = &VLAN{
			PCP: uint8(tci >> 13),
			DEI: tci&0x1000 != 0,
			VID: tci & 0x0FFF,
		}
		off += vlanTagLen
	}

	if len(body) < off+ethTypeLen {
		return f, ErrTooShort
	}
	f.EtherType = EtherType(binary.BigEndian.Uint16(body[off : off+2]))
	off += ethTypeLen

	f.Payload = body[off:]
	return f, nil
}
