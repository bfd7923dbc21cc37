package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
				"-t", "1", "-r", "3", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
				"-x", "http://llm", "-k", "key", "-m", "model", "-w", "1800", "-n", "7", "-l", "warn",
			},
			expected: &Config{
				EndpointAddrGRPC:             "127.0.0.1:9090",
				DatabaseDSN:                  "db",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
				TextGenURL:                   "http://llm",
				TextGenAPIKey:                "key",
				TextGenModel:                 "model",
				DefaultWaterGoalMl:           1800,
				ConsumeRetries:               7,
				LogLevel:                     "warn",
			},
		},
		{
			name:        "bad number",
			args:        []string{"cmd", "-w", "plenty"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := os.Args
			t.Cleanup(func() { os.Args = orig })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
