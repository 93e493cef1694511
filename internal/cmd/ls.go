package cmd

import (
	"github.com/nomadic-vcs/git-nomad/internal/engine"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
	cmdutil "github.com/nomadic-vcs/git-nomad/internal/util/command"
	utilslices "github.com/nomadic-vcs/git-nomad/internal/util/slices"
	"github.com/spf13/cobra"
)

var (
	lsFetch     bool
	lsHosts     []string
	lsBranches  []string
	lsHead      bool
	lsPrintSelf bool
	lsPrint     string
)

func init() {
	lsCmd.Flags().BoolVar(&lsFetch, "fetch", false, "Mirror the remote before listing.")
	lsCmd.Flags().Var(newRepeatableStrings(&lsHosts), "host", "Restrict output to this host. Repeatable. Default: all hosts.")
	lsCmd.Flags().Var(newRepeatableStrings(&lsBranches), "branch", "Restrict output to this branch. Repeatable. Default: all branches.")
	lsCmd.Flags().BoolVar(&lsHead, "head", false, "Restrict output to the branch HEAD currently points at.")
	lsCmd.Flags().BoolVar(&lsPrintSelf, "print-self", false, "Include this host's own published refs in the output.")
	lsCmd.Flags().Var(newPrintFormat(&lsPrint), "print", "Output format: ref, commit, or grouped (default).")
	rootCmd.AddCommand(lsCmd)
}

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List nomad refs published for the configured user.",
	Long: `
List nomad refs published for the configured user, read from this clone's
local refs/nomad/* mirror. By default the current host's own refs are
omitted, since ls is meant to surface what other hosts have published; pass
--print-self to include them.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		ctx := c.Context()
		inv, cfg, err := setup(ctx)
		if err != nil {
			return err
		}

		opts := engine.LsOptions{
			Fetch:     lsFetch,
			Head:      lsHead,
			PrintSelf: lsPrintSelf,
		}
		for _, h := range utilslices.SortedUnique(lsHosts) {
			opts.Hosts = append(opts.Hosts, nomadref.Host(h))
		}
		for _, b := range utilslices.SortedUnique(lsBranches) {
			opts.Branches = append(opts.Branches, nomadref.Branch(b))
		}

		res, err := engine.Ls(ctx, inv, cfg, opts)
		if err != nil {
			return err
		}
		reportWarnings(ctx, res.Warnings)

		switch lsPrint {
		case printRef:
			for _, r := range res.Refs {
				cmdutil.Println(c, r.RemoteName())
			}
		case printCommit:
			for _, r := range res.Refs {
				cmdutil.Println(c, r.Commit)
			}
		default:
			printGroups(c, engine.GroupByHost(res.Refs))
		}
		return nil
	},
}
