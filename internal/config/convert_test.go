package config

import (
	"testing"

	"go.arpshield.dev/arpshield/internal/wire"
)

func TestToEngineConfigConvertsInterfaceFields(t *testing.T) {
	c := &Config{
		Interfaces: []InterfaceConfig{
			{
				Name:        "eth0",
				MAC:         "02:00:00:00:00:01",
				IP:          "10.0.0.1",
				Subnet:      "10.0.0.0/24",
				RARPEnabled: true,
				VLAN:        &VLANConfig{ID: 100, PCP: 3, DEI: true},
				Static: map[string]string{
					"10.0.0.5": "02:00:00:00:00:05",
				},
			},
		},
		ReverseMap: map[string]string{
			"02:00:00:00:00:01": "10.0.0.1",
		},
		Tunables: TunablesConfig{
			DynTTL: "5m", NegTTL: "1m", FloodWindow: "1s", FloodMax: 5,
			MaxCache: 1024, MaxNeg: 256, MaxFlood: 512, MaxPending: 128,
			ProbeNum: 3, AnnounceNum: 2, DefendInterval: "10s", RetryInterval: "1s",
			TickInterval: "200ms",
		},
	}

	cfg, err := c.ToEngineConfig()
	if err != nil {
		t.Fatalf("ToEngineConfig: %v", err)
	}

	if len(cfg.Interfaces) != 1 {
		t.Fatalf("len(Interfaces) = %d, want 1", len(cfg.Interfaces))
	}
	iface := cfg.Interfaces[0]

	wantMAC, _ := wire.ParseMAC("02:00:00:00:00:01")
	if iface.MAC != wantMAC {
		t.Errorf("MAC = %v, want %v", iface.MAC, wantMAC)
	}
	if iface.Subnet == nil || iface.Subnet.Prefix != 24 {
		t.Errorf("Subnet = %+v, want prefix 24", iface.Subnet)
	}
	if iface.VLAN == nil || iface.VLAN.VID != 100 || iface.VLAN.PCP != 3 || !iface.VLAN.DEI {
		t.Errorf("VLAN = %+v, want {VID:100 PCP:3 DEI:true}", iface.VLAN)
	}
	if len(iface.StaticEntries) != 1 {
		t.Fatalf("len(StaticEntries) = %d, want 1", len(iface.StaticEntries))
	}
	if len(cfg.ReverseMap) != 1 {
		t.Fatalf("len(ReverseMap) = %d, want 1", len(cfg.ReverseMap))
	}

	if cfg.DynTTLMs != 300000 {
		t.Errorf("DynTTLMs = %d, want 300000", cfg.DynTTLMs)
	}
	if cfg.DefendIntervalMs != 10000 {
		t.Errorf("DefendIntervalMs = %d, want 10000", cfg.DefendIntervalMs)
	}
}

func TestToEngineConfigRejectsOutOfRangeVLAN(t *testing.T) {
	c := &Config{
		Interfaces: []InterfaceConfig{
			{
				Name: "eth0",
				MAC:  "02:00:00:00:00:01",
				IP:   "10.0.0.1",
				VLAN: &VLANConfig{ID: 5000},
			},
		},
		Tunables: TunablesConfig{
			DynTTL: "5m", NegTTL: "1m", FloodWindow: "1s", FloodMax: 5,
			MaxCache: 1024, MaxNeg: 256, MaxFlood: 512, MaxPending: 128,
			ProbeNum: 3, AnnounceNum: 2, DefendInterval: "10s", RetryInterval: "1s",
			TickInterval: "200ms",
		},
	}

	if _, err := c.ToEngineConfig(); err == nil {
		t.Fatal("ToEngineConfig succeeded, want error for out-of-range VLAN id")
	}
}

func TestParseSubnetRejectsMalformedCIDR(t *testing.T) {
	if _, err := parseSubnet("10.0.0.0"); err == nil {
		t.Fatal("parseSubnet succeeded, want error for CIDR missing prefix")
	}
	if _, err := parseSubnet("10.0.0.0/40"); err == nil {
		t.Fatal("parseSubnet succeeded, want error for out-of-range prefix")
	}
}
