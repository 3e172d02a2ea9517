package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"go.arpshield.dev/arpshield/internal/engine"
	"go.arpshield.dev/arpshield/internal/safeconvert"
	"go.arpshield.dev/arpshield/internal/wire"
)

func parseSubnet(cidr string) (wire.Subnet, error) {
	parts := strings.SplitN(cidr, "/", 2)
	if len(parts) != 2 {
		return wire.Subnet{}, errors.Errorf("invalid CIDR %q, want addr/prefix", cidr)
	}
	network, err := wire.ParseIPv4(parts[0])
	if err != nil {
		return wire.Subnet{}, errors.Wrapf(err, "invalid CIDR %q", cidr)
	}
	prefixInt, err := strconv.Atoi(parts[1])
	if err != nil {
		return wire.Subnet{}, errors.Errorf("invalid CIDR %q: bad prefix", cidr)
	}
	prefix, err := safeconvert.IntToPrefixLen(prefixInt)
	if err != nil {
		return wire.Subnet{}, errors.Wrapf(err, "invalid CIDR %q", cidr)
	}
	return wire.Subnet{Network: network, Prefix: prefix}, nil
}

func durationMs(s string) (uint64, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.Errorf("duration %q must not be negative", s)
	}
	return uint64(d.Milliseconds()), nil
}

// ToEngineConfig converts the loaded document into engine.Config.
func (c *Config) ToEngineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	var err error
	if cfg.DynTTLMs, err = durationMs(c.Tunables.DynTTL); err != nil {
		return cfg, errors.Wrap(err, "tunables.dyn_ttl")
	}
	if cfg.NegTTLMs, err = durationMs(c.Tunables.NegTTL); err != nil {
		return cfg, errors.Wrap(err, "tunables.neg_ttl")
	}
	if cfg.FloodWindowMs, err = durationMs(c.Tunables.FloodWindow); err != nil {
		return cfg, errors.Wrap(err, "tunables.flood_window")
	}
	if cfg.DefendIntervalMs, err = durationMs(c.Tunables.DefendInterval); err != nil {
		return cfg, errors.Wrap(err, "tunables.defend_interval")
	}
	if cfg.RetryIntervalMs, err = durationMs(c.Tunables.RetryInterval); err != nil {
		return cfg, errors.Wrap(err, "tunables.retry_interval")
	}

	cfg.FloodMax = c.Tunables.FloodMax
	cfg.MaxCache = c.Tunables.MaxCache
	cfg.MaxNeg = c.Tunables.MaxNeg
	cfg.MaxFlood = c.Tunables.MaxFlood
	cfg.MaxPending = c.Tunables.MaxPending
	cfg.ProbeNum = c.Tunables.ProbeNum
	cfg.AnnounceNum = c.Tunables.AnnounceNum

	for _, ic := range c.Interfaces {
		iface, err := convertInterface(ic)
		if err != nil {
			return cfg, errors.Wrapf(err, "interface %q", ic.Name)
		}
		cfg.Interfaces = append(cfg.Interfaces, iface)
	}

	for macStr, ipStr := range c.ReverseMap {
		mac, _ := wire.ParseMAC(macStr)
		ip, _ := wire.ParseIPv4(ipStr)
		cfg.ReverseMap = append(cfg.ReverseMap, engine.ReverseEntry{MAC: mac, IP: ip})
	}

	return cfg, nil
}

func convertInterface(ic InterfaceConfig) (engine.InterfaceConfig, error) {
	mac, err := wire.ParseMAC(ic.MAC)
	if err != nil {
		return engine.InterfaceConfig{}, err
	}
	ip, err := wire.ParseIPv4(ic.IP)
	if err != nil {
		return engine.InterfaceConfig{}, err
	}

	out := engine.InterfaceConfig{
		ID:          ic.Name,
		MAC:         mac,
		IP:          ip,
		RARPEnabled: ic.RARPEnabled,
	}

	if ic.Subnet != "" {
		subnet, err := parseSubnet(ic.Subnet)
		if err != nil {
			return engine.InterfaceConfig{}, err
		}
		out.Subnet = &subnet
	}

	if ic.VLAN != nil {
		vid, err := safeconvert.IntToVLANID(ic.VLAN.ID)
		if err != nil {
			return engine.InterfaceConfig{}, err
		}
		pcp, err := safeconvert.IntToUInt8(ic.VLAN.PCP)
		if err != nil {
			return engine.InterfaceConfig{}, err
		}
		out.VLAN = &wire.VLAN{PCP: pcp, DEI: ic.VLAN.DEI, VID: vid}
	}

	for ipStr, macStr := range ic.Static {
		sip, err := wire.ParseIPv4(ipStr)
		if err != nil {
			return engine.InterfaceConfig{}, err
		}
		smac, err := wire.ParseMAC(macStr)
		if err != nil {
			return engine.InterfaceConfig{}, err
		}
		out.StaticEntries = append(out.StaticEntries, engine.StaticEntry{IP: sip, MAC: smac})
	}

	return out, nil
}
