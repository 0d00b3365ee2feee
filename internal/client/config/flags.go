package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/skillsync/internal/flagx"
)

var knownFlags = flagx.Known{
	"u": true, "timeout": true, "d": true, "ttl": true, "redirect-delay": true,
	"refresh-lead": true, "log-level": true, "debug-snapshots": false,
	"a": true, "rate": true, "burst": true,
}

// parseFlags populates Config fields from command-line flags.
//
//	-u string            GraphQL endpoint URL
//	-timeout duration    per-request timeout
//	-d string            SQLite DSN of the flag store
//	-ttl duration        lifetime of pending-challenge flags
//	-redirect-delay      wait before navigating after sign-in
//	-refresh-lead        refresh this long before the token expires
//	-log-level string    debug, info, warn or error
//	-debug-snapshots     record the last redirect decision in the flag store
//	-a string            proxy listen address
//	-rate float          proxy requests per second per client IP
//	-burst int           proxy burst per client IP
//
// os.Args is filtered with flagx.FilterArgs first so commands and their
// arguments do not reach this flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.GraphQLURL, "u", cfg.GraphQLURL, "GraphQL endpoint URL")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.StateDSN, "d", cfg.StateDSN, "SQLite DSN of the flag store")
	fs.DurationVar(&cfg.FlagTTL, "ttl", cfg.FlagTTL, "lifetime of pending-challenge flags")
	fs.DurationVar(&cfg.RedirectDelay, "redirect-delay", cfg.RedirectDelay, "wait before navigating after sign-in")
	fs.DurationVar(&cfg.RefreshLead, "refresh-lead", cfg.RefreshLead, "refresh this long before the token expires")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.DebugSnapshots, "debug-snapshots", cfg.DebugSnapshots, "record redirect decisions")
	fs.StringVar(&cfg.ProxyAddr, "a", cfg.ProxyAddr, "proxy listen address")
	fs.Float64Var(&cfg.ProxyRateLimit, "rate", cfg.ProxyRateLimit, "proxy requests per second per client IP")
	fs.IntVar(&cfg.ProxyBurst, "burst", cfg.ProxyBurst, "proxy burst per client IP")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
