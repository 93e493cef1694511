package engine

import (
	"slices"

	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

// SyncResult reports what a sync operation did, and the full post-sync
// remote state for the user, grouped for display (§4.3.1 step 7).
type SyncResult struct {
	// Pushed is every (local-branch, commit) pair submitted as a push
	// addition, regardless of whether git considered it a no-op.
	Pushed []nomadref.NomadRef

	// Deleted is every remote ref this host's sync removed because its
	// source branch is gone locally.
	Deleted []nomadref.NomadRef

	// All is the full union of remote nomad refs for the user, fetched
	// after the push/fetch settled.
	All []nomadref.NomadRef

	// Warnings are ParseError occurrences from listing the remote; logged,
	// not fatal (§7).
	Warnings []error
}

// LsResult reports a read-only enumeration of nomad refs.
type LsResult struct {
	Refs     []nomadref.NomadRef
	Warnings []error
}

// PurgeResult reports every ref purge removed, with its prior commit.
type PurgeResult struct {
	Deleted  []nomadref.NomadRef
	Warnings []error
}

// HostGroup is one host's refs, for grouped display (§4.3.2 step 4).
type HostGroup struct {
	Host nomadref.Host
	Refs []nomadref.NomadRef
}

// GroupByHost groups refs by host and sorts hosts, then branches within
// each host, lexicographically (§4.3.2 step 4: "stable lexicographic order
// of host then branch").
func GroupByHost(refs []nomadref.NomadRef) []HostGroup {
	byHost := make(map[nomadref.Host][]nomadref.NomadRef)
	for _, r := range refs {
		byHost[r.Host] = append(byHost[r.Host], r)
	}
	hosts := make([]nomadref.Host, 0, len(byHost))
	for h := range byHost {
		hosts = append(hosts, h)
	}
	slices.Sort(hosts)

	groups := make([]HostGroup, 0, len(hosts))
	for _, h := range hosts {
		rs := byHost[h]
		slices.SortFunc(rs, func(a, b nomadref.NomadRef) int {
			if a.Branch < b.Branch {
				return -1
			}
			if a.Branch > b.Branch {
				return 1
			}
			return 0
		})
		groups = append(groups, HostGroup{Host: h, Refs: rs})
	}
	return groups
}
