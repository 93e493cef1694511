// Package engine is the reconciliation engine (§4.3): the three-way
// set-difference computation over local branches, refs already published for
// this host, and refs published by other hosts, that produces a minimal,
// idempotent batch of git ref mutations. It is pure with respect to the
// gitinvoke.Invoker abstraction it consumes; every test here substitutes
// invoketest.Fake instead of a real git subprocess.
package engine

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke"
	"github.com/nomadic-vcs/git-nomad/internal/nomadconfig"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

// mirrorRefspec is the fetch refspec that mirrors refs/nomad/<user>/* on the
// remote to refs/nomad/* locally, with prune semantics so remote deletions
// propagate (§6). The leading "+" allows non-fast-forward updates.
func mirrorRefspec(user nomadref.User) string {
	return fmt.Sprintf("+refs/nomad/%s/*:refs/nomad/*", user)
}

// Sync makes the remote's refs/nomad/<user>/<host>/* match the current local
// branches exactly, then mirrors the union of all hosts' published refs
// back into the local clone (§4.3.1).
func Sync(ctx context.Context, inv gitinvoke.Invoker, cfg nomadconfig.Resolved) (SyncResult, error) {
	// 1. Snapshot local branches.
	local, err := inv.ListLocalBranches(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("listing local branches: %w", err)
	}

	branchPresent := make(map[nomadref.Branch]bool, len(local))
	for _, b := range local {
		branchPresent[b.Branch] = true
	}

	// 3. Fetch current remote refs for self (reused as the union for step 7
	// after the mirror settles, but we only need the self-host subset here).
	remoteForUser, warnings, err := inv.ListRemoteNomadRefs(ctx, cfg.Remote, cfg.User)
	if err != nil {
		return SyncResult{}, fmt.Errorf("listing remote nomad refs: %w", err)
	}

	// 2 & 4. Compute the push plan: always push every local branch
	// (additions), and delete self-host remote refs whose branch is gone
	// locally (deletions).
	additions := make([]gitinvoke.RefUpdate, 0, len(local))
	pushed := make([]nomadref.NomadRef, 0, len(local))
	for _, b := range local {
		nr := nomadref.NomadRef{User: cfg.User, Host: cfg.Host, Branch: b.Branch, Commit: b.Commit}
		additions = append(additions, gitinvoke.RefUpdate{
			Src: nomadref.LocalBranchRef(b.Branch),
			Dst: nr.RemoteName(),
		})
		pushed = append(pushed, nr)
	}

	var deletions []plumbing.ReferenceName
	var deletedRemote []nomadref.NomadRef
	for _, r := range remoteForUser {
		if r.Host != cfg.Host {
			continue
		}
		if !branchPresent[r.Branch] {
			deletions = append(deletions, r.RemoteName())
			deletedRemote = append(deletedRemote, r)
		}
	}

	// 5. Execute push as one atomic invocation.
	if err := inv.Push(ctx, cfg.Remote, additions, deletions); err != nil {
		return SyncResult{}, err
	}

	// 6. Mirror remote -> local. Push must precede fetch so this host's own
	// state is visible in the mirror.
	if err := inv.Fetch(ctx, cfg.Remote, mirrorRefspec(cfg.User)); err != nil {
		return SyncResult{}, fmt.Errorf("fetching nomad mirror: %w", err)
	}

	// 7. Report the full union of remote nomad refs for the user.
	all, moreWarnings, err := inv.ListRemoteNomadRefs(ctx, cfg.Remote, cfg.User)
	if err != nil {
		return SyncResult{}, fmt.Errorf("listing remote nomad refs after sync: %w", err)
	}
	warnings = append(warnings, moreWarnings...)

	return SyncResult{
		Pushed:   pushed,
		Deleted:  deletedRemote,
		All:      all,
		Warnings: warnings,
	}, nil
}
