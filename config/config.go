// Package config loads the settlement engine's boot-time configuration and
// defines the administratively-tunable parameter set. Loading follows
// a create-default-on-missing-file idiom: a missing file is populated with
// defaults and written back out, so a fresh deployment never needs a
// hand-authored file to get started.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// EngineConfig captures the boot-time settings a host process needs to wire
// the engine, its logger, and its telemetry exporters. These fields are not
// administratively tunable at runtime — see Tunables for the fields the
// admin action queue is allowed to mutate.
type EngineConfig struct {
	ServiceName        string `toml:"ServiceName"`
	Environment        string `toml:"Environment"`
	DataDir            string `toml:"DataDir"`
	MetricsAddress     string `toml:"MetricsAddress"`
	OTLPEndpoint       string `toml:"OTLPEndpoint"`
	OTLPInsecure       bool   `toml:"OTLPInsecure"`
	EnableTraces       bool   `toml:"EnableTraces"`
	EnableMetrics      bool   `toml:"EnableMetrics"`
	ActionExpirySeconds int64 `toml:"ActionExpirySeconds"`
}

// Load reads the engine configuration from path, creating a default file if
// none exists yet.
func Load(path string) (*EngineConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &EngineConfig{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createDefault(path string) (*EngineConfig, error) {
	cfg := &EngineConfig{
		ServiceName:         "streetmktd",
		Environment:         "development",
		DataDir:             "./streetmkt-data",
		MetricsAddress:      ":9464",
		OTLPEndpoint:        "localhost:4318",
		OTLPInsecure:        true,
		EnableTraces:        false,
		EnableMetrics:       false,
		ActionExpirySeconds: 72 * 60 * 60,
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
