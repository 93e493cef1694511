package cmd

import (
	"fmt"

	"github.com/nomadic-vcs/git-nomad/internal/engine"
	cmdutil "github.com/nomadic-vcs/git-nomad/internal/util/command"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Publish local branches and mirror every host's published branches.",
	Long: `
Publish every local branch under refs/nomad/<user>/<host>/<branch> on the
configured remote, deleting any previously-published branch for this host
whose source branch no longer exists locally. Then mirror the union of
every host's published branches back into this clone under
refs/nomad/<host>/<branch>.

Running sync twice in a row with no intervening local branch changes is a
no-op: the second run's push plan carries no deletions, and every addition
is a no-op from git's perspective.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		ctx := c.Context()
		inv, cfg, err := setup(ctx)
		if err != nil {
			return err
		}

		res, err := engine.Sync(ctx, inv, cfg)
		if err != nil {
			return err
		}
		reportWarnings(ctx, res.Warnings)

		for _, d := range res.Deleted {
			cmdutil.Println(c, fmt.Sprintf("Delete %s", d.LocalName()))
		}
		printGroups(c, engine.GroupByHost(res.All))
		return nil
	},
}
