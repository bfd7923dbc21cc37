// Package flagx contains helpers for sharing os.Args between several
// independent flag sets (config file lookup, server flags, client flags).
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigEnvVar names the environment variable consulted when no -c/-config
// flag is given.
const ConfigEnvVar = "NUTRI_CONFIG"

// FilterArgs keeps only the flags listed in allowedFlags (and their values)
// so a flag set can parse its own subset of os.Args without failing on
// flags that belong to somebody else.
//
// Supported forms are "-c conf.json" and "--config=conf.json". A separate
// value is only consumed when it does not itself start with "-".
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigPath returns the JSON config path given by -c/-config in args,
// falling back to $NUTRI_CONFIG. Empty means "no config file".
func ConfigPath(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	if config == "" {
		config = os.Getenv(ConfigEnvVar)
	}
	return config
}

// JsonConfigFlags is ConfigPath applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}

// StripArgs is the complement of FilterArgs: it drops the listed flags (and
// their values) and returns everything else in order. The CLI uses it to get
// at the command words after its own flags were parsed.
func StripArgs(args []string, flags []string) []string {
	keep := FilterArgs(args, flags)
	rest := make([]string, 0, len(args)-len(keep))

	i := 0
	for _, arg := range args {
		if i < len(keep) && arg == keep[i] {
			i++
			continue
		}
		rest = append(rest, arg)
	}
	return rest
}
