package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/filex"
)

const stateFileName = "state.db"

// Config holds runtime settings for the SkillSync CLI and onboarding proxy.
//
// Durations are time.Duration values; the JSON file accepts "10m" style
// strings or integer nanoseconds.
type Config struct {
	GraphQLURL     string
	RequestTimeout time.Duration

	// StateDSN is the SQLite DSN of the flag store. Empty means
	// <user config dir>/skillsync/state.db.
	StateDSN       string
	FlagTTL        time.Duration
	RedirectDelay  time.Duration
	RefreshLead    time.Duration
	LogLevel       string
	DebugSnapshots bool

	ProxyAddr      string
	ProxyRateLimit float64
	ProxyBurst     int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GraphQLURL = "http://localhost:4000/graphql"
	c.RequestTimeout = 15 * time.Second
	c.StateDSN = ""
	c.FlagTTL = 10 * time.Minute
	c.RedirectDelay = 100 * time.Millisecond
	c.RefreshLead = time.Minute
	c.LogLevel = "info"
	c.DebugSnapshots = false
	c.ProxyAddr = ":3000"
	c.ProxyRateLimit = 5
	c.ProxyBurst = 10
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.GraphQLURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("graphql url %q must be an absolute http(s) URL", c.GraphQLURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.FlagTTL <= 0 {
		return errors.New("flag ttl must be positive")
	}
	if c.RedirectDelay < 0 || c.RefreshLead < 0 {
		return errors.New("redirect delay and refresh lead must not be negative")
	}
	if c.ProxyRateLimit <= 0 || c.ProxyBurst <= 0 {
		return errors.New("proxy rate limit and burst must be positive")
	}
	return nil
}

// ResolveStateDSN returns StateDSN, or the DSN of the default state file,
// creating its directory.
func (c *Config) ResolveStateDSN() (string, error) {
	if c.StateDSN != "" {
		return c.StateDSN, nil
	}
	dir, err := filex.DefaultStateDir()
	if err != nil {
		return "", err
	}
	return "file:" + filepath.Join(dir, stateFileName) + "?_pragma=busy_timeout(5000)", nil
}
