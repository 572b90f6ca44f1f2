// Command secu packs directory trees into secu archives and unpacks them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type config struct {
	verbose     bool
	warnEntries uint64
	maxEntries  uint64

	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := &config{stdout: stdout, stderr: stderr}
	cmd := newRootCommand(cfg)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "secu: %v\n", err)
		return exitStatus(err)
	}
	return 0
}

func newRootCommand(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "secu",
		Short:         "Pack directory trees into single-file archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelWarn
			if cfg.verbose {
				level = slog.LevelDebug
			}
			cfg.logger = slog.New(slog.NewTextHandler(cfg.stderr, &slog.HandlerOptions{Level: level}))
		},
	}
	cmd.PersistentFlags().BoolVarP(&cfg.verbose, "verbose", "v", false, "log every entry as it is processed")

	cmd.AddCommand(
		newPackCommand(cfg),
		newUnpackCommand(cfg),
		newListCommand(cfg),
		newInspectCommand(cfg),
	)
	return cmd
}
