package wire

import (
	"bytes"
	"testing"
)

func TestEncapDecapRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		f    Frame
	}{
		{
			name: "untagged ARP",
			f: Frame{
				Destination: MAC{0x02, 0, 0, 0, 0, 2},
				Source:      MAC{0x02, 0, 0, 0, 0, 1},
				EtherType:   EtherTypeARP,
				Payload:     Serialize(Packet{Operation: OpRequest, SenderIP: IPv4{10, 0, 0, 1}}),
			},
		},
		{
			name: "VLAN-tagged ARP",
			f: Frame{
				Destination: Broadcast,
				Source:      MAC{0x02, 0, 0, 0, 0, 1},
				VLAN:        &VLAN{PCP: 5, DEI: true, VID: 100},
				EtherType:   EtherTypeARP,
				Payload:     Serialize(Packet{Operation: OpReply}),
			},
		},
		{
			name: "RARP",
			f: Frame{
				Destination: Broadcast,
				Source:      MAC{0x02, 0, 0, 0, 0, 9},
				EtherType:   EtherTypeRARP,
				Payload:     Serialize(Packet{Operation: OpRARPRequest}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Encap(tt.f)
			if len(b) < minFrameBytes+crcLen {
				t.Fatalf("Encap produced %d bytes, want at least %d", len(b), minFrameBytes+crcLen)
			}

			got, err := Decap(b)
			if err != nil {
				t.Fatalf("Decap: %v", err)
			}
			if got.Destination != tt.f.Destination {
				t.Errorf("Destination = %v, want %v", got.Destination, tt.f.Destination)
			}
			if got.Source != tt.f.Source {
				t.Errorf("Source = %v, want %v", got.Source, tt.f.Source)
			}
			if got.EtherType != tt.f.EtherType {
				t.Errorf("EtherType = %v, want %v", got.EtherType, tt.f.EtherType)
			}
			if (got.VLAN == nil) != (tt.f.VLAN == nil) {
				t.Fatalf("VLAN presence = %v, want %v", got.VLAN != nil, tt.f.VLAN != nil)
			}
			if tt.f.VLAN != nil && *got.VLAN != *tt.f.VLAN {
				t.Errorf("VLAN = %+v, want %+v", got.VLAN, tt.f.VLAN)
			}
			if !bytes.Equal(got.Payload[:len(tt.f.Payload)], tt.f.Payload) {
				t.Errorf("Payload prefix = %x, want %x", got.Payload[:len(tt.f.Payload)], tt.f.Payload)
			}
		})
	}
}

func TestDecapBadCrc(t *testing.T) {
	b := Encap(Frame{
		Destination: MAC{0x02, 0, 0, 0, 0, 2},
		Source:      MAC{0x02, 0, 0, 0, 0, 1},
		EtherType:   EtherTypeARP,
		Payload:     Serialize(Packet{Operation: OpRequest}),
	})
	b[len(b)-1] ^= 0xFF

	if _, err := Decap(b); err != ErrBadCrc {
		t.Fatalf("Decap() error = %v, want ErrBadCrc", err)
	}
}

func TestDecapTooShort(t *testing.T) {
	if _, err := Decap([]byte{1, 2, 3}); err != ErrTooShort {
		t.Fatalf("Decap() error = %v, want ErrTooShort", err)
	}
}

func TestEncapPadsToMinimum(t *testing.T) {
	b := Encap(Frame{
		Destination: MAC{0x02, 0, 0, 0, 0, 2},
		Source:      MAC{0x02, 0, 0, 0, 0, 1},
		EtherType:   EtherTypeARP,
		Payload:     []byte{1, 2, 3},
	})
	if len(b) != minFrameBytes+crcLen {
		t.Fatalf("len(Encap()) = %d, want %d", len(b), minFrameBytes+crcLen)
	}
}
