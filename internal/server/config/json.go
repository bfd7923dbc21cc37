package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/nutriledger/internal/flagx"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	TextGenURL                   string         `json:"textgen_url"`
	TextGenAPIKey                string         `json:"textgen_api_key"`
	TextGenModel                 string         `json:"textgen_model"`
	DefaultWaterGoalMl           int64          `json:"default_water_goal_ml"`
	ConsumeRetries               int            `json:"consume_retries"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config (or $NUTRI_CONFIG) into
// config. Keys missing from the file keep their current value. An
// unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.TextGenURL, c.TextGenURL)
	setString(&config.TextGenAPIKey, c.TextGenAPIKey)
	setString(&config.TextGenModel, c.TextGenModel)
	if c.DefaultWaterGoalMl != 0 {
		config.DefaultWaterGoalMl = c.DefaultWaterGoalMl
	}
	if c.ConsumeRetries != 0 {
		config.ConsumeRetries = c.ConsumeRetries
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
