// Package flagx lets several components parse their own flags out of one
// shared command line without tripping over each other.
package flagx

import (
	"strings"

	"github.com/spf13/pflag"
)

// FilterArgs returns the subset of args that fs knows about, together with
// their values. Unknown flags and positional arguments are dropped.
//
// Supported forms:
//
//	-c conf.json   --config conf.json
//	-c=conf.json   --config=conf.json
//	--verbose      (boolean flags never consume the next argument)
func FilterArgs(args []string, fs *pflag.FlagSet) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		f := lookup(fs, arg)
		if f == nil {
			continue
		}
		filtered = append(filtered, arg)

		if strings.Contains(arg, "=") || f.NoOptDefVal != "" {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func lookup(fs *pflag.FlagSet, arg string) *pflag.Flag {
	var name string
	switch {
	case strings.HasPrefix(arg, "--"):
		name = strings.TrimPrefix(arg, "--")
	case strings.HasPrefix(arg, "-"):
		name = strings.TrimPrefix(arg, "-")
	default:
		return nil
	}
	name, _, _ = strings.Cut(name, "=")
	if name == "" {
		return nil
	}

	if strings.HasPrefix(arg, "--") {
		return fs.Lookup(name)
	}
	if len(name) == 1 {
		return fs.ShorthandLookup(name)
	}
	return nil
}

// ConfigPath extracts the config file path given via -c or --config.
// It returns an empty string when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.StringVarP(&path, "config", "c", "", "path to config file")
	_ = fs.Parse(FilterArgs(args, fs))

	return path
}
