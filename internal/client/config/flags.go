package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the ledger server
//	-s string   state directory for the session database
//	-t int      request timeout in seconds
//
// Only the flags listed above are taken from os.Args; everything else is left
// for the command dispatcher.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.StateDir, "s", cfg.StateDir, "directory for local session state")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
