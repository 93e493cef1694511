package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke"
	"github.com/nomadic-vcs/git-nomad/internal/nomadconfig"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

// PurgeOptions selects which hosts' refs to remove (§4.3.3). Exactly one of
// All or a non-empty Hosts must be set; the command surface enforces this
// before calling Purge (a ConfigInvalid-flavored usage error, fatal before
// any side effect, per §7).
type PurgeOptions struct {
	All   bool
	Hosts []nomadref.Host
}

// Purge removes every NomadRef for the configured user matching the target
// host set, on the remote first and then locally, so a partial failure
// leaves the remote cleaner rather than dirtier (§4.3.3).
func Purge(ctx context.Context, inv gitinvoke.Invoker, cfg nomadconfig.Resolved, opts PurgeOptions) (PurgeResult, error) {
	// 1. Fetch first to refresh local knowledge.
	if err := inv.Fetch(ctx, cfg.Remote, mirrorRefspec(cfg.User)); err != nil {
		return PurgeResult{}, fmt.Errorf("fetching nomad mirror: %w", err)
	}

	// 2. List remote refs for the user, filtered to the target host set.
	remote, warnings, err := inv.ListRemoteNomadRefs(ctx, cfg.Remote, cfg.User)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("listing remote nomad refs: %w", err)
	}

	var targets []nomadref.NomadRef
	for _, r := range remote {
		if opts.All || slices.Contains(opts.Hosts, r.Host) {
			targets = append(targets, r)
		}
	}

	// 3. Issue one push with empty additions and the filtered deletions.
	deletions := make([]plumbing.ReferenceName, 0, len(targets))
	for _, r := range targets {
		deletions = append(deletions, r.RemoteName())
	}
	if err := inv.Push(ctx, cfg.Remote, nil, deletions); err != nil {
		return PurgeResult{}, err
	}

	// 4. Delete the corresponding local mirror refs. Individual failures
	// are logged, not fatal (§7); the batch continues.
	localRefs := make([]plumbing.ReferenceName, 0, len(targets))
	for _, r := range targets {
		localRefs = append(localRefs, r.LocalName())
	}
	mutationErrs := inv.DeleteLocalRefs(ctx, localRefs)
	for _, e := range mutationErrs {
		warnings = append(warnings, e)
	}

	// 5. Report every ref deleted with its prior commit.
	return PurgeResult{Deleted: targets, Warnings: warnings}, nil
}
