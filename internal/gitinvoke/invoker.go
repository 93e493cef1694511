// Package gitinvoke is the git invoker: an abstract boundary over the git
// operations the reconciliation engine needs, so the
// engine can be tested against an in-memory double (see invoketest) instead
// of a real git subprocess. Production code only ever reaches refs under
// refs/nomad/ or reads refs/heads/ for enumeration; it never writes outside
// its own hierarchy.
package gitinvoke

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

// LocalBranch is one entry from `git for-each-ref refs/heads/`.
type LocalBranch struct {
	Branch nomadref.Branch
	Commit nomadref.CommitId
}

// RefUpdate is one addition in a push plan: force-update Dst to point at
// whatever Src currently resolves to.
type RefUpdate struct {
	Src plumbing.ReferenceName
	Dst plumbing.ReferenceName
}

// Invoker is the abstract boundary the reconciliation engine (internal/engine)
// consumes. It carries no business rules of its own; every decision about
// what to push, fetch, or delete is made by the engine and handed to the
// Invoker as a fully-formed plan.
type Invoker interface {
	// ListLocalBranches lists every branch under refs/heads/ in the current
	// clone, with the commit id each currently points at.
	ListLocalBranches(ctx context.Context) ([]LocalBranch, error)

	// ListRemoteNomadRefs lists every ref under refs/nomad/<user>/* on the
	// given remote. Returns no refs and a nil error if the remote is
	// reachable but has no such refs. Returns an error wrapping
	// ErrRemoteUnavailable if the remote could not be reached or refused
	// authentication. Ref names that don't parse per nomadref.ParseRemoteFor
	// are skipped and reported as ParseError via the returned warnings.
	ListRemoteNomadRefs(ctx context.Context, remote string, user nomadref.User) ([]nomadref.NomadRef, []error, error)

	// ListLocalNomadRefs lists every ref under refs/nomad/ in the current
	// clone, with user filled in from the given value (the local mirror
	// form omits user, since a clone belongs to exactly one user).
	ListLocalNomadRefs(ctx context.Context, user nomadref.User) ([]nomadref.NomadRef, []error, error)

	// Push submits additions and deletions as refspecs in a single atomic
	// `git push` invocation. Additions are always forced updates (the
	// engine never fast-forward-checks). Pre-push hooks are suppressed.
	// The production implementation returns an error wrapping
	// ErrPushRejected whenever `git push` exits non-zero, with git's stderr
	// preserved on it; it does not tell an unreachable remote apart from a
	// rejected refspec, so it never returns ErrRemoteUnavailable. If git
	// cannot be started, the error wraps ErrGitUnavailable.
	Push(ctx context.Context, remote string, additions []RefUpdate, deletions []plumbing.ReferenceName) error

	// Fetch mirrors refs from the remote to the local clone per the given
	// refspec (which the engine always constructs with a leading "+" and
	// relies on --prune semantics to propagate remote deletions).
	Fetch(ctx context.Context, remote string, refspec string) error

	// DeleteLocalRefs deletes each local ref with `update-ref -d`,
	// continuing past individual failures. Failures are returned as
	// *RefMutationError values in the slice, one per failed ref; an empty
	// result means every deletion succeeded.
	DeleteLocalRefs(ctx context.Context, refs []plumbing.ReferenceName) []error

	// ReadConfig reads a single-valued git config key from the clone's own
	// config. ok is false if the key is unset.
	ReadConfig(ctx context.Context, key string) (value string, ok bool, err error)

	// WriteConfig persists a single-valued git config key to the clone's
	// own config.
	WriteConfig(ctx context.Context, key, value string) error

	// CurrentBranch returns the branch HEAD currently points at, or false
	// if HEAD is detached.
	CurrentBranch(ctx context.Context) (nomadref.Branch, bool, error)
}
