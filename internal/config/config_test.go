package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
interfaces:
- name: eth0
  mac: "02:00:00:00:00:01"
  ip: "10.0.0.1"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Tunables.DynTTL != "5m" {
		t.Errorf("dyn_ttl default = %q, want 5m", cfg.Tunables.DynTTL)
	}
	if cfg.Tunables.FloodMax != 5 {
		t.Errorf("flood_max default = %d, want 5", cfg.Tunables.FloodMax)
	}
	if cfg.Metrics.Listen != ":9481" {
		t.Errorf("metrics.listen default = %q, want :9481", cfg.Metrics.Listen)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log.level default = %q, want info", cfg.Log.Level)
	}
}

func TestLoadRejectsDuplicateInterfaceNames(t *testing.T) {
	path := writeConfig(t, `
interfaces:
- name: eth0
  mac: "02:00:00:00:00:01"
  ip: "10.0.0.1"
- name: eth0
  mac: "02:00:00:00:00:02"
  ip: "10.0.0.2"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded, want error for duplicate interface name")
	}
}

func TestLoadRejectsBadMAC(t *testing.T) {
	path := writeConfig(t, `
interfaces:
- name: eth0
  mac: "not-a-mac"
  ip: "10.0.0.1"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded, want error for malformed MAC")
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	path := writeConfig(t, `
interfaces:
- name: eth0
  mac: "02:00:00:00:00:01"
  ip: "10.0.0.1"
log:
  level: chatty
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded, want error for unrecognized log level")
	}
}

func TestLoadRejectsBadTickInterval(t *testing.T) {
	path := writeConfig(t, `
interfaces:
- name: eth0
  mac: "02:00:00:00:00:01"
  ip: "10.0.0.1"
tunables:
  tick_interval: "not-a-duration"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded, want error for malformed tick_interval")
	}
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	path := writeConfig(t, `
interfaces:
- name: eth0
  mac: "02:00:00:00:00:01"
  ip: "10.0.0.1"
`)

	t.Setenv("ARPSHIELD_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug (from env)", cfg.Log.Level)
	}
}
