package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke"
	"github.com/nomadic-vcs/git-nomad/internal/nomadconfig"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

// LsOptions controls the read-only enumeration performed by Ls (§4.3.2).
type LsOptions struct {
	// Fetch mirrors the remote before listing, per the --fetch flag.
	Fetch bool

	// Hosts restricts output to these hosts. Empty means all hosts.
	Hosts []nomadref.Host

	// Branches restricts output to these branches. Empty means all
	// branches.
	Branches []nomadref.Branch

	// Head restricts output to the branch HEAD currently points at. If
	// HEAD is detached, yields no refs.
	Head bool

	// PrintSelf keeps the current host's own refs in the output. By
	// default they're omitted, since `ls` is meant to surface what *other*
	// hosts have published.
	PrintSelf bool
}

// Ls enumerates nomad refs for the configured user, optionally after a
// fetch, filtered and ordered per LsOptions (§4.3.2).
func Ls(ctx context.Context, inv gitinvoke.Invoker, cfg nomadconfig.Resolved, opts LsOptions) (LsResult, error) {
	// 1. Optionally refresh the local mirror first.
	if opts.Fetch {
		if err := inv.Fetch(ctx, cfg.Remote, mirrorRefspec(cfg.User)); err != nil {
			return LsResult{}, fmt.Errorf("fetching nomad mirror: %w", err)
		}
	}

	// 2. List local refs/nomad/*, parsed with the configured user.
	refs, warnings, err := inv.ListLocalNomadRefs(ctx, cfg.User)
	if err != nil {
		return LsResult{}, fmt.Errorf("listing local nomad refs: %w", err)
	}

	var headBranch nomadref.Branch
	if opts.Head {
		b, onBranch, err := inv.CurrentBranch(ctx)
		if err != nil {
			return LsResult{}, fmt.Errorf("resolving HEAD: %w", err)
		}
		if !onBranch {
			return LsResult{Refs: nil, Warnings: warnings}, nil
		}
		headBranch = b
	}

	// 3. Apply filters.
	filtered := make([]nomadref.NomadRef, 0, len(refs))
	for _, r := range refs {
		if !opts.PrintSelf && r.Host == cfg.Host {
			continue
		}
		if len(opts.Hosts) > 0 && !slices.Contains(opts.Hosts, r.Host) {
			continue
		}
		if len(opts.Branches) > 0 && !slices.Contains(opts.Branches, r.Branch) {
			continue
		}
		if opts.Head && r.Branch != headBranch {
			continue
		}
		filtered = append(filtered, r)
	}

	return LsResult{Refs: filtered, Warnings: warnings}, nil
}
