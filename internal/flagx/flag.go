// Package flagx picks the flags a config loader owns out of the command line.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigFileEnv names the environment variable consulted when neither -c nor
// -config is given on the command line.
const ConfigFileEnv = "SKILLSYNC_CONFIG"

// Known maps a flag name, without dashes, to whether it takes a value.
// Boolean flags map to false and never consume the next argument.
type Known map[string]bool

// FilterArgs keeps the arguments of known flags and drops everything else:
// unknown flags, positional arguments and anything after "--".
//
// Both -name and --name are accepted, with the value either joined by '='
// or in the following argument. A value argument that starts with '-' is
// not consumed.
func FilterArgs(args []string, known Known) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, joined := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		takesValue, ok := known[name]
		if !ok {
			continue
		}

		out = append(out, arg)
		if joined || !takesValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// ConfigPath returns the file named by -c or -config in args, falling back
// to $SKILLSYNC_CONFIG. It is empty when neither names a file.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, Known{"c": true, "config": true}))

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	return path
}
