package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/flagx"
	"github.com/dmitrijs2005/skillsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from the zero value, so a file only
// overrides what it names.
type JsonConfig struct {
	GraphQLURL     *string         `json:"graphql_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StateDSN       *string         `json:"state_dsn"`
	FlagTTL        *timex.Duration `json:"flag_ttl"`
	RedirectDelay  *timex.Duration `json:"redirect_delay"`
	RefreshLead    *timex.Duration `json:"refresh_lead"`
	LogLevel       *string         `json:"log_level"`
	DebugSnapshots *bool           `json:"debug_snapshots"`
	ProxyAddr      *string         `json:"proxy_addr"`
	ProxyRateLimit *float64        `json:"proxy_rate_limit"`
	ProxyBurst     *int            `json:"proxy_burst"`
}

// parseJson overlays Config with values loaded from a JSON file named by
// -c/-config or $SKILLSYNC_CONFIG. Without a file it does nothing.
//
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.GraphQLURL, jc.GraphQLURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setString(&cfg.StateDSN, jc.StateDSN)
	setDuration(&cfg.FlagTTL, jc.FlagTTL)
	setDuration(&cfg.RedirectDelay, jc.RedirectDelay)
	setDuration(&cfg.RefreshLead, jc.RefreshLead)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.ProxyAddr, jc.ProxyAddr)
	if jc.DebugSnapshots != nil {
		cfg.DebugSnapshots = *jc.DebugSnapshots
	}
	if jc.ProxyRateLimit != nil {
		cfg.ProxyRateLimit = *jc.ProxyRateLimit
	}
	if jc.ProxyBurst != nil {
		cfg.ProxyBurst = *jc.ProxyBurst
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
