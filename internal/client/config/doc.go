// Package config loads runtime configuration for the SkillSync CLI and the
// onboarding proxy.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/-config or $SKILLSYNC_CONFIG.
//  3. Environment: NEXT_PUBLIC_GRAPHQL_API_URL, SKILLSYNC_LOG_LEVEL,
//     SKILLSYNC_STATE_DSN, SKILLSYNC_DEBUG_SNAPSHOTS.
//  4. Command-line flags (see parseFlags), which override everything else.
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "10m" or
// integer nanoseconds. Every key is optional:
//
//	{
//	  "graphql_url": "https://api.skillsync.example/graphql",
//	  "request_timeout": "15s",
//	  "state_dsn": "file:/var/lib/skillsync/state.db",
//	  "flag_ttl": "10m",
//	  "redirect_delay": "100ms",
//	  "refresh_lead": "1m",
//	  "log_level": "info",
//	  "debug_snapshots": false,
//	  "proxy_addr": ":3000",
//	  "proxy_rate_limit": 5,
//	  "proxy_burst": 10
//	}
package config
