package flagx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	known := Known{"c": true, "config": true, "ttl": true, "debug-snapshots": false}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "separate value",
			args: []string{"-c", "conf.json", "-a", "localhost"},
			want: []string{"-c", "conf.json"},
		},
		{
			name: "double dash with equals",
			args: []string{"--config=alt.json", "-a", "localhost"},
			want: []string{"--config=alt.json"},
		},
		{
			name: "order preserved",
			args: []string{"--ttl=1m", "-c", "second.json", "-x", "1"},
			want: []string{"--ttl=1m", "-c", "second.json"},
		},
		{
			name: "bool flag does not swallow command",
			args: []string{"-debug-snapshots", "signin", "-ttl", "2m"},
			want: []string{"-debug-snapshots", "-ttl", "2m"},
		},
		{
			name: "value that looks like a flag is not consumed",
			args: []string{"-c", "-ttl", "5m"},
			want: []string{"-c", "-ttl", "5m"},
		},
		{
			name: "missing trailing value",
			args: []string{"-ttl"},
			want: []string{"-ttl"},
		},
		{
			name: "stops at terminator",
			args: []string{"-ttl", "1m", "--", "-c", "x.json"},
			want: []string{"-ttl", "1m"},
		},
		{
			name: "unknown and positional ignored",
			args: []string{"status", "--verbose", "-x=1"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, known)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Run("short flag", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "")
		assert.Equal(t, "/path/short.json", ConfigPath([]string{"-c", "/path/short.json"}))
	})

	t.Run("long flag with equals", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "")
		assert.Equal(t, "/path/long.json", ConfigPath([]string{"signin", "--config=/path/long.json"}))
	})

	t.Run("nothing given", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "")
		assert.Empty(t, ConfigPath([]string{"-ttl", "1m"}))
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "/path/env.json")
		assert.Equal(t, "/path/env.json", ConfigPath(nil))
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "/path/env.json")
		assert.Equal(t, "/path/flag.json", ConfigPath([]string{"-c", "/path/flag.json"}))
	})

	t.Run("last flag wins", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "")
		assert.Equal(t, "/path/2.json", ConfigPath([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})
}
