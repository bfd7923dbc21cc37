package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/nutriledger/internal/flagx"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
)

// JsonConfig is the on-disk shape of the client config file. Durations may be
// given as "10s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	StateDir           string         `json:"state_dir"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config (or $NUTRI_CONFIG).
// Empty fields in the file keep the current value. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.StateDir != "" {
		cfg.StateDir = jc.StateDir
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
