// Package config loads arpshieldd's static configuration using viper.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"go.arpshield.dev/arpshield/internal/wire"
)

// InterfaceConfig is one link's static configuration, matching the
// `interfaces:` list in YAML.
type InterfaceConfig struct {
	Name        string            `mapstructure:"name"`
	MAC         string            `mapstructure:"mac"`
	IP          string            `mapstructure:"ip"`
	Subnet      string            `mapstructure:"subnet"` // CIDR, e.g. "10.0.0.0/24"; empty disables the check
	VLAN        *VLANConfig       `mapstructure:"vlan"`
	RARPEnabled bool              `mapstructure:"rarp_enabled"`
	Static      map[string]string `mapstructure:"static"` // ip -> mac
}

// VLANConfig is one interface's 802.1Q tag.
type VLANConfig struct {
	ID  int  `mapstructure:"id"`
	PCP int  `mapstructure:"pcp"`
	DEI bool `mapstructure:"dei"`
}

// TunablesConfig holds the engine's numeric knobs, passed through to
// engine.Init after parsing.
type TunablesConfig struct {
	DynTTL         string `mapstructure:"dyn_ttl"`
	NegTTL         string `mapstructure:"neg_ttl"`
	FloodWindow    string `mapstructure:"flood_window"`
	FloodMax       int    `mapstructure:"flood_max"`
	MaxCache       int    `mapstructure:"max_cache"`
	MaxNeg         int    `mapstructure:"max_neg"`
	MaxFlood       int    `mapstructure:"max_flood"`
	MaxPending     int    `mapstructure:"max_pending"`
	ProbeNum       int    `mapstructure:"probe_num"`
	AnnounceNum    int    `mapstructure:"announce_num"`
	DefendInterval string `mapstructure:"defend_interval"`
	RetryInterval  string `mapstructure:"retry_interval"`
	TickInterval   string `mapstructure:"tick_interval"`
}

// MetricsConfig configures the Prometheus HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the top-level configuration document.
type Config struct {
	Interfaces []InterfaceConfig `mapstructure:"interfaces"`
	ReverseMap map[string]string `mapstructure:"reverse_map"` // mac -> ip
	Tunables   TunablesConfig    `mapstructure:"tunables"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
	Log        LogConfig         `mapstructure:"log"`
}

// Load reads and validates the configuration document at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("ARPSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "config: unmarshaling %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tunables.dyn_ttl", "5m")
	v.SetDefault("tunables.neg_ttl", "1m")
	v.SetDefault("tunables.flood_window", "1s")
	v.SetDefault("tunables.flood_max", 5)
	v.SetDefault("tunables.max_cache", 1024)
	v.SetDefault("tunables.max_neg", 256)
	v.SetDefault("tunables.max_flood", 512)
	v.SetDefault("tunables.max_pending", 128)
	v.SetDefault("tunables.probe_num", 3)
	v.SetDefault("tunables.announce_num", 2)
	v.SetDefault("tunables.defend_interval", "10s")
	v.SetDefault("tunables.retry_interval", "1s")
	v.SetDefault("tunables.tick_interval", "200ms")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen", ":9481")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "logfmt")
}

// Validate checks the document for structural well-formedness beyond
// what mapstructure alone enforces: unique interface names, parseable
// addresses, and a valid log level. This is a config-time failure mode,
// distinct from the wire-level DropReason set.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Interfaces))
	for _, ic := range c.Interfaces {
		if ic.Name == "" {
			return errors.New("interface entry missing name")
		}
		if seen[ic.Name] {
			return errors.Errorf("duplicate interface name %q", ic.Name)
		}
		seen[ic.Name] = true

		if _, err := wire.ParseMAC(ic.MAC); err != nil {
			return errors.Wrapf(err, "interface %q", ic.Name)
		}
		if _, err := wire.ParseIPv4(ic.IP); err != nil {
			return errors.Wrapf(err, "interface %q", ic.Name)
		}
		if ic.Subnet != "" {
			if _, err := parseSubnet(ic.Subnet); err != nil {
				return errors.Wrapf(err, "interface %q", ic.Name)
			}
		}
		if ic.VLAN != nil {
			if ic.VLAN.ID < 0 || ic.VLAN.ID > 0x0FFF {
				return errors.Errorf("interface %q: vlan id %d out of range 0..4095", ic.Name, ic.VLAN.ID)
			}
		}
		for ipStr, macStr := range ic.Static {
			if _, err := wire.ParseIPv4(ipStr); err != nil {
				return errors.Wrapf(err, "interface %q: static entry", ic.Name)
			}
			if _, err := wire.ParseMAC(macStr); err != nil {
				return errors.Wrapf(err, "interface %q: static entry", ic.Name)
			}
		}
	}

	for macStr, ipStr := range c.ReverseMap {
		if _, err := wire.ParseMAC(macStr); err != nil {
			return errors.Wrap(err, "reverse_map")
		}
		if _, err := wire.ParseIPv4(ipStr); err != nil {
			return errors.Wrap(err, "reverse_map")
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "all", "debug", "info", "warn", "error", "none":
	default:
		return errors.Errorf("log.level %q not recognized", c.Log.Level)
	}

	if _, err := time.ParseDuration(c.Tunables.TickInterval); err != nil {
		return errors.Wrap(err, "tunables.tick_interval")
	}

	return nil
}
