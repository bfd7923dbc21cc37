package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN, or "memory"
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x string   text generation endpoint URL
//	-k string   text generation API key
//	-m string   text generation model
//	-w int      default daily water goal, ml
//	-n int      consumption toggle retries
//	-l string   log level (debug, info, warn, error)
//
// Duration flags are whole minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-x", "-k", "-m", "-w", "-n", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.TextGenURL, "x", config.TextGenURL, "text generation endpoint")
	fs.StringVar(&config.TextGenAPIKey, "k", config.TextGenAPIKey, "text generation API key")
	fs.StringVar(&config.TextGenModel, "m", config.TextGenModel, "text generation model")

	fs.Int64Var(&config.DefaultWaterGoalMl, "w", config.DefaultWaterGoalMl, "default daily water goal (ml)")
	fs.IntVar(&config.ConsumeRetries, "n", config.ConsumeRetries, "consumption toggle retries")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
