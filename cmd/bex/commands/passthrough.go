package commands

import (
	"strings"

	"github.com/spf13/pflag"
)

// splitPassthrough inserts "--" before the first argument that is not one of
// bex's own flags or a flag value. The entrypoint receives that argument and
// everything after it unchanged, whether it is a positional, an unknown flag
// or a word such as "help".
func splitPassthrough(flags *pflag.FlagSet, args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return args
		case strings.HasPrefix(arg, "--"):
			name, _, inline := strings.Cut(arg[2:], "=")
			f := flags.Lookup(name)
			if f == nil {
				return insertSeparator(args, i)
			}
			if !inline && f.NoOptDefVal == "" {
				i++
			}
		case len(arg) > 1 && arg[0] == '-':
			takesNext, ok := shorthandCluster(flags, arg[1:])
			if !ok {
				return insertSeparator(args, i)
			}
			if takesNext {
				i++
			}
		default:
			return insertSeparator(args, i)
		}
	}
	return args
}

// shorthandCluster reports whether every letter of a cluster such as "vvq" or
// "fbex.py" is a known shorthand, and whether the last one consumes the next
// argument as its value.
func shorthandCluster(flags *pflag.FlagSet, cluster string) (takesNext, ok bool) {
	for j := range len(cluster) {
		f := flags.ShorthandLookup(cluster[j : j+1])
		if f == nil {
			return false, false
		}
		if f.NoOptDefVal == "" {
			// The rest of the cluster is the value.
			return j == len(cluster)-1, true
		}
	}
	return false, true
}

func insertSeparator(args []string, i int) []string {
	out := make([]string, 0, len(args)+1)
	out = append(out, args[:i]...)
	out = append(out, "--")
	return append(out, args[i:]...)
}
