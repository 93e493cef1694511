package cmd

import (
	"fmt"

	"github.com/nomadic-vcs/git-nomad/internal/engine"
	"github.com/nomadic-vcs/git-nomad/internal/nomadconfig"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
	cmdutil "github.com/nomadic-vcs/git-nomad/internal/util/command"
	utilslices "github.com/nomadic-vcs/git-nomad/internal/util/slices"
	"github.com/spf13/cobra"
)

var (
	purgeAll   bool
	purgeHosts []string
)

func init() {
	purgeCmd.Flags().BoolVar(&purgeAll, "all", false, "Delete every nomad ref for the configured user.")
	purgeCmd.Flags().Var(newRepeatableStrings(&purgeHosts), "host", "Delete only this host's nomad refs. Repeatable. Mutually exclusive with --all.")
	rootCmd.AddCommand(purgeCmd)
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete published nomad refs, on the remote and in this clone.",
	Long: `
Delete nomad refs for the configured user: either every ref (--all), or
only the refs belonging to specific hosts (--host, repeatable). Exactly one
of --all or --host must be given.

The remote deletion happens before the local deletion, so a partial failure
leaves the remote cleaner, not dirtier.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		if purgeAll == (len(purgeHosts) > 0) {
			return fmt.Errorf("%w: exactly one of --all or --host is required", nomadconfig.ErrInvalid)
		}

		ctx := c.Context()
		inv, cfg, err := setup(ctx)
		if err != nil {
			return err
		}

		opts := engine.PurgeOptions{All: purgeAll}
		for _, h := range utilslices.SortedUnique(purgeHosts) {
			opts.Hosts = append(opts.Hosts, nomadref.Host(h))
		}

		res, err := engine.Purge(ctx, inv, cfg, opts)
		if err != nil {
			return err
		}
		reportWarnings(ctx, res.Warnings)

		for _, r := range res.Deleted {
			cmdutil.Println(c, fmt.Sprintf("Delete %s @ %s", r.RemoteName(), r.Commit))
		}
		return nil
	},
}
