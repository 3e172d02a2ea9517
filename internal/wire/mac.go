// Package wire implements the byte-exact ARP payload and Ethernet/VLAN
// framing formats, independent of any transport.
package wire

import "fmt"

// MAC is a six-byte Ethernet hardware address.
type MAC [6]byte

// Broadcast is the all-ones link-layer destination.
var Broadcast = MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// ParseMAC parses a colon-hex address such as "02:00:00:00:00:01".
func ParseMAC(s string) (MAC, error) {
	var m MAC
	var b [6]int
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x", &b[0], &b[1], &b[2], &b[3], &b[4], &b[5])
	if err != nil || n != 6 {
		return m, fmt.Errorf("wire: invalid MAC address %q", s)
	}
	for i, v := range b {
		if v < 0 || v > 0xFF {
			return m, fmt.Errorf("wire: invalid MAC address %q", s)
		}
		m[i] = byte(v)
	}
	return m, nil
}

// MACFromBytes copies six bytes into a MAC. Panics if b is shorter than 6
// bytes; callers must length-check before calling (mirrors the codec's own
// length checks upstream).
func MACFromBytes(b []byte) MAC {
	var m MAC
	copy(m[:], b[:6])
	return m
}

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Bytes returns the address as a freshly allocated 6-byte slice.
func (m MAC) Bytes() []byte {
	b := make([]byte, 6)
	copy(b, m[:])
	return b
}

// IsBroadcast reports whether m is the all-ones address.
func (m MAC) IsBroadcast() bool {
	return m == Broadcast
}

// IsMulticast reports whether the least-significant bit of the first byte
// is set, per the IEEE 802.3 I/G bit convention.
func (m MAC) IsMulticast() bool {
	return m[0]&0x01 == 1
}

// IsZero reports whether m is 00:00:00:00:00:00.
func (m MAC) IsZero() bool {
	return m == MAC{}
}
