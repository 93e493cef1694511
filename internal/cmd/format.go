package cmd

import (
	"fmt"

	"github.com/nomadic-vcs/git-nomad/internal/engine"
	cmdutil "github.com/nomadic-vcs/git-nomad/internal/util/command"
	"github.com/spf13/cobra"
)

// printGroups renders nomad refs grouped by host, the default human format
// (§4.3.2 step 4).
func printGroups(c *cobra.Command, groups []engine.HostGroup) {
	for _, g := range groups {
		cmdutil.Println(c, fmt.Sprintf("%s:", g.Host))
		for _, r := range g.Refs {
			cmdutil.Println(c, fmt.Sprintf("  %s %s", r.Branch, r.Commit))
		}
	}
}
