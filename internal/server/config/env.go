package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is read, if present, before the environment is consulted.
// Variables already set in the environment win over the file.
var envFile = ".env"

// parseEnv overlays NUTRI_* environment variables onto config. Malformed
// numeric or duration values panic, like a broken JSON file does.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
	applyEnv(config, os.LookupEnv)
}

func applyEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			*dst = d
		}
	}
	integer := func(name string, dst *int64) {
		if v, ok := lookup(name); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			*dst = n
		}
	}

	str("NUTRI_GRPC_ADDR", &config.EndpointAddrGRPC)
	str("NUTRI_DATABASE_DSN", &config.DatabaseDSN)
	str("NUTRI_SECRET_KEY", &config.SecretKey)
	dur("NUTRI_ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	dur("NUTRI_REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	str("NUTRI_S3_USER", &config.S3RootUser)
	str("NUTRI_S3_PASSWORD", &config.S3RootPassword)
	str("NUTRI_S3_BUCKET", &config.S3Bucket)
	str("NUTRI_S3_REGION", &config.S3Region)
	str("NUTRI_S3_ENDPOINT", &config.S3BaseEndpoint)
	str("NUTRI_TEXTGEN_URL", &config.TextGenURL)
	str("NUTRI_TEXTGEN_API_KEY", &config.TextGenAPIKey)
	str("NUTRI_TEXTGEN_MODEL", &config.TextGenModel)
	integer("NUTRI_WATER_GOAL_ML", &config.DefaultWaterGoalMl)

	retries := int64(config.ConsumeRetries)
	integer("NUTRI_CONSUME_RETRIES", &retries)
	config.ConsumeRetries = int(retries)

	str("NUTRI_LOG_LEVEL", &config.LogLevel)
}
