package main

import (
	"os"
	"strings"

	"tajawal-cli/internal/cli"

	"github.com/spf13/cobra"
)

// commandNames returns every name and alias that cobra resolves as a subcommand of root.
func commandNames(root *cobra.Command) map[string]bool {
	names := map[string]bool{"help": true, "completion": true, "__complete": true, "__completeNoDesc": true}
	for _, c := range root.Commands() {
		names[c.Name()] = true
		for _, a := range c.Aliases {
			names[a] = true
		}
	}
	return names
}

func rewriteDirectTripArgs(argv []string, commands map[string]bool) []string {
	// Convenience: `tajawal <trip-id>` works like `tajawal show <trip-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
	// parsing. Persistent flags often come first (`tajawal --dir ... <trip-id>`), so this
	// looks for the first positional token, not argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--storage":   true,
		"--trip":      true,
		"--log-level": true,
	}

	insertShow := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && !commands[argv[i+1]] {
				return insertShow(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		// First positional token.
		if commands[a] {
			return argv
		}
		return insertShow(i)
	}

	return argv
}

func main() {
	cmd := cli.NewRootCmd()
	os.Args = rewriteDirectTripArgs(os.Args, commandNames(cmd))
	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
