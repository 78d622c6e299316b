// Package flagx lets several config loaders share one os.Args: each loader
// picks out only the flags it owns before handing them to a flag.FlagSet.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Filter selects the arguments a single component owns out of a shared argv.
// Valued flags may take their value from the next argument; boolean flags
// never do, so "-l positional" keeps "positional" out of the result.
type Filter struct {
	valued map[string]struct{}
	bools  map[string]struct{}
}

// NewFilter builds a Filter for the given valued flags (e.g. "-a", "--config")
// and boolean flags (e.g. "-l").
func NewFilter(valued []string, bools ...string) *Filter {
	f := &Filter{
		valued: make(map[string]struct{}, len(valued)),
		bools:  make(map[string]struct{}, len(bools)),
	}
	for _, v := range valued {
		f.valued[v] = struct{}{}
	}
	for _, b := range bools {
		f.bools[b] = struct{}{}
	}
	return f
}

func (f *Filter) owns(name string) bool {
	if _, ok := f.valued[name]; ok {
		return true
	}
	_, ok := f.bools[name]
	return ok
}

// Apply returns the owned flags (and their values) in their original order.
// The result is never nil.
//
// Supported forms:
//
//	-c conf.json
//	--config=conf.json
//	-l            (boolean)
//	-l=false      (boolean)
func (f *Filter) Apply(args []string) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if f.owns(name) {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := f.bools[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := f.valued[arg]; ok {
			filtered = append(filtered, arg)
			// the next token is a value unless it looks like another flag
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// FilterArgs is shorthand for NewFilter(allowedFlags).Apply(args).
func FilterArgs(args []string, allowedFlags []string) []string {
	return NewFilter(allowedFlags).Apply(args)
}

// ConfigFile returns the config file path given via -c or -config in args,
// or "" when neither is present. The last occurrence wins.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// JsonConfigFlags reads the config file path from os.Args.
func JsonConfigFlags() string {
	return ConfigFile(os.Args[1:])
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
