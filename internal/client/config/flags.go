package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/flagx"
)

// parseFlags populates cfg from -a, -s and -t. Other arguments are filtered
// out with flagx.FilterArgs before parsing.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "journal API base URL")
	fs.StringVar(&cfg.StateDBPath, "s", cfg.StateDBPath, "local state database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
