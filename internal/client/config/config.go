package config

import "time"

// Config holds runtime settings for the nutriledger CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the ledger gRPC endpoint.
//   - StateDir: directory holding the local session database.
//   - RequestTimeout: deadline applied to every remote call.
type Config struct {
	ServerEndpointAddr string
	StateDir           string
	RequestTimeout     time.Duration
}

// SessionFile is the name of the SQLite file kept inside StateDir.
const SessionFile = "session.db"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.StateDir = ".nutriledger"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
