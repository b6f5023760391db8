// Package flagx holds helpers for parsing a subset of command-line flags
// without colliding with flags owned by other components.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigFileEnv names the environment variable consulted when no -c/-config
// flag is given.
const ConfigFileEnv = "MIXMINI_CONFIG"

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Both "-c conf.json" and "-config=conf.json" forms are recognised. A value is
// only taken from the following argument when that argument does not itself
// start with "-".
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFile extracts the config file path from -c / -config in args,
// falling back to $MIXMINI_CONFIG. Empty means no file.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	return path
}
