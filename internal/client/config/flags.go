package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/localmart-users/internal/flagx"
)

// Flags lists every flag the CLI configuration consumes, including the ones
// that take a value. The command dispatcher uses it to find positional
// arguments.
var Flags = []string{"-a", "-f", "-i", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the users API
//	-f string   token cache file
//	-i int      request timeout in seconds
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-f", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the users API")
	fs.StringVar(&cfg.TokenFile, "f", cfg.TokenFile, "file the access token is cached in")
	timeout := fs.Int("i", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
