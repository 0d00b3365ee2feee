package config

import (
	"os"
	"strconv"

	"github.com/dmitrijs2005/skillsync/internal/common"
)

const (
	LogLevelEnv = "SKILLSYNC_LOG_LEVEL"
	StateDSNEnv = "SKILLSYNC_STATE_DSN"
	DebugEnv    = "SKILLSYNC_DEBUG_SNAPSHOTS"
)

// parseEnv overlays Config with the environment variables that are set and
// non-empty. An unparsable boolean is ignored.
func parseEnv(cfg *Config) {
	if v := os.Getenv(common.GraphQLURLEnv); v != "" {
		cfg.GraphQLURL = v
	}
	if v := os.Getenv(LogLevelEnv); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(StateDSNEnv); v != "" {
		cfg.StateDSN = v
	}
	if v := os.Getenv(DebugEnv); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DebugSnapshots = b
		}
	}
}
