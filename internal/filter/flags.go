package filter

import (
	"strings"

	"github.com/spf13/pflag"
)

// FlagName returns the command-line flag name for a query key
// ("min_fare" becomes "min-fare").
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// BindFlags registers one string flag per filter dimension on fs, writing
// into s.
func BindFlags(fs *pflag.FlagSet, s *State) {
	for _, f := range fields {
		fs.StringVar(f.ptr(s), FlagName(f.Key), "", f.Usage)
	}
}

// Changed returns a State holding only the fields whose flags were set
// explicitly on fs.
func Changed(fs *pflag.FlagSet, s State) State {
	var out State
	for _, f := range fields {
		if fs.Changed(FlagName(f.Key)) {
			f.Set(&out, f.Get(s))
		}
	}
	return out
}
