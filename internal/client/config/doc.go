// Package config loads runtime configuration for the nutriledger CLI.
//
// Sources, in order of precedence (later wins):
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or $NUTRI_CONFIG.
//  3. Command-line flags -a, -s and -t.
//
// JSON example:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "state_dir": "/home/me/.nutriledger",
//	  "request_timeout": "10s"
//	}
package config
