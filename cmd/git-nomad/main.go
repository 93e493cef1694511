// Command git-nomad synchronizes work-in-progress branches across machines
// sharing a git remote.
package main

import (
	"os"

	"github.com/nomadic-vcs/git-nomad/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
