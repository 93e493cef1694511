// Package cmd is the command surface (§4.5): argument parsing, dispatch to
// the reconciliation engine, and output formatting. A cobra rootCmd stashes
// the active *cobra.Command (and, here, a configured logger) in the command
// context so leaf RunE functions can reach cmd.OutOrStdout()/ErrOrStderr()
// and the logger without threading them through every function signature.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// buildVersion defaults to "dev" and can be set at build time via -ldflags.
// GIT_NOMAD_BUILD_VERSION is read from the environment when the program
// starts, not at build time; when non-empty it overrides either value.
var buildVersion = "dev"

var (
	userFlag    string
	hostFlag    string
	remoteFlag  string
	quietFlag   bool
	verboseFlag int
)

var rootCmd = &cobra.Command{
	Use:   "git-nomad",
	Short: "Synchronize work-in-progress branches across machines sharing a git remote.",
	Long: `
git-nomad synchronizes work-in-progress branches across multiple machines
that all clone the same git repository, without relying on external
file-syncing tools and without polluting the shared branch namespace.

On demand, it publishes each local branch under a per-user, per-host
namespace on a git remote (refs/nomad/<user>/<host>/<branch>), and mirrors
the union of all such published branches back into the local clone as
locally visible refs (refs/nomad/<host>/<branch>). It also cleans up
published refs when their source branches disappear.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		c.SetContext(withLogger(withCommand(c.Context(), c), newLogger(quietFlag, verboseFlag)))
		return nil
	},
}

func init() {
	if v := os.Getenv("GIT_NOMAD_BUILD_VERSION"); v != "" {
		buildVersion = v
	}
	rootCmd.Version = buildVersion

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&userFlag, "user", "", "User token that scopes a population of hosts (default: $GIT_NOMAD_USER, nomad.user, OS username)")
	pf.StringVar(&hostFlag, "host", "", "Host token that identifies this working copy (default: $GIT_NOMAD_HOST, nomad.host, OS hostname)")
	pf.StringVarP(&remoteFlag, "remote", "R", "", `Git remote to publish to and mirror from (default: $GIT_NOMAD_REMOTE, nomad.remote, "origin")`)
	pf.BoolVar(&quietFlag, "quiet", false, "Suppress warning output; only fatal errors are printed.")
	pf.CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity; repeatable (-v, -vv).")
}

// Execute runs the command surface. Returns a process exit code: 0 on
// success, non-zero on any fatal error (§6).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

type commandKey struct{}
type loggerKey struct{}

func withCommand(ctx context.Context, c *cobra.Command) context.Context {
	return context.WithValue(ctx, commandKey{}, c)
}

func commandFrom(ctx context.Context) *cobra.Command {
	c, _ := ctx.Value(commandKey{}).(*cobra.Command)
	return c
}

func withLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// newLogger builds the process's one logger (§9 design note: "the only
// process-wide resource is the logger, whose level is chosen by
// -v/-vv/--quiet at startup"), grounded on act3-ai/gnoci's log/slog usage.
func newLogger(quiet bool, verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
