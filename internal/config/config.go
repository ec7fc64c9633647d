// Package config loads the engine's recognized configuration options
// (spec.md §6) from YAML, matching the teacher's "module-level side
// effects -> none" doctrine: the file is read once, at construction time,
// never watched or hot-reloaded.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EventLogConfig configures the hash-chained append-only log.
type EventLogConfig struct {
	SegmentSize       int `yaml:"segment_size"`
	SnapshotEvery     int `yaml:"snapshot_every"`
	RetentionSegments int `yaml:"retention_segments"`
	MaxEventsExport   int `yaml:"max_events_export"`
	MaxEventsReplay   int `yaml:"max_events_replay"`
}

// Quotas are the per-tenant limits spec.md §4.7/§6 names. Tagged for both
// YAML (the top-level config file) and JSON (the tenant registry, which
// spec.md §4.7 pins to config/tenants.json regardless of the rest of the
// config surface).
type Quotas struct {
	MaxEvents    int `yaml:"max_events" json:"max_events"`
	MaxStorageMB int `yaml:"max_storage_mb" json:"max_storage_mb"`
	RateLimitRPM int `yaml:"rate_limit_rpm" json:"rate_limit_rpm"`
}

// Config is the full recognized configuration surface.
type Config struct {
	BaseDir   string         `yaml:"base_dir"`
	EventLog  EventLogConfig `yaml:"event_log"`
	Quotas    Quotas         `yaml:"default_quotas"`
}

// Default returns the configuration with every default spec.md §6 names.
func Default() Config {
	return Config{
		BaseDir: "./data",
		EventLog: EventLogConfig{
			SegmentSize:       1000,
			SnapshotEvery:     500,
			RetentionSegments: 30,
			MaxEventsExport:   10000,
			MaxEventsReplay:   50000,
		},
		Quotas: Quotas{
			MaxEvents:    0, // 0 == unlimited
			MaxStorageMB: 0,
			RateLimitRPM: 0,
		},
	}
}

// Load reads a YAML configuration file, applying defaults for any field the
// file omits.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}
