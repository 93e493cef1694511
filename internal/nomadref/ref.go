// Package nomadref models the refs/nomad/ ref hierarchy that git-nomad
// publishes to a remote and mirrors back into a local clone.
//
// Two forms exist. On the remote, a nomad ref carries the owning user so
// multiple users can share one remote without collision:
//
//	refs/nomad/<user>/<host>/<branch>
//
// In the local clone that published (or mirrored) it, the user is implicit
// (a clone belongs to exactly one user):
//
//	refs/nomad/<host>/<branch>
//
// <branch> may contain "/"; <host> may not (such a host is rejected at
// configuration time). Parsing therefore takes <host> as the first path
// component after the known prefix and keeps the remainder whole as the
// branch. See ParseLocal and ParseRemoteFor.
package nomadref

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const (
	// nomadPrefix is the ref namespace root both locally and on the remote.
	nomadPrefix = "refs/nomad/"

	// headsPrefix is the ref namespace for local branches.
	headsPrefix = "refs/heads/"
)

// User identifies the person who owns a population of hosts publishing to a
// shared remote. Opaque, non-empty, and must not contain "/".
type User string

// Host identifies one working copy (clone) of a User's. Opaque, non-empty,
// and must not contain "/" (a host containing "/" would make the remote-form
// grammar ambiguous, so it is rejected at configuration time rather than
// here).
type Host string

// Branch is a git local branch name exactly as it appears under
// refs/heads/. May contain "/".
type Branch string

// CommitId is an opaque git object id, either the 40-hex SHA-1 or 64-hex
// SHA-256 form. Equality is exact; the engine never interprets ancestry.
type CommitId string

// String renders the commit id as the bare hex string git itself prints.
func (c CommitId) String() string { return string(c) }

// LocalBranchRef is the refs/heads/ ref for a Branch in the current clone.
func LocalBranchRef(b Branch) plumbing.ReferenceName {
	return plumbing.ReferenceName(headsPrefix + string(b))
}

// NomadRef is a single published branch: the (user, host, branch) identity
// tuple bound to the commit it pointed at when last written.
type NomadRef struct {
	User   User
	Host   Host
	Branch Branch
	Commit CommitId
}

// RemoteName renders the wire-visible ref name this NomadRef occupies on a
// remote: refs/nomad/<user>/<host>/<branch>.
func (r NomadRef) RemoteName() plumbing.ReferenceName {
	return plumbing.ReferenceName(nomadPrefix + string(r.User) + "/" + string(r.Host) + "/" + string(r.Branch))
}

// LocalName renders the ref name this NomadRef occupies in a local clone's
// mirror: refs/nomad/<host>/<branch>. The User is omitted, as a clone
// belongs to exactly one user.
func (r NomadRef) LocalName() plumbing.ReferenceName {
	return plumbing.ReferenceName(nomadPrefix + string(r.Host) + "/" + string(r.Branch))
}

func (r NomadRef) String() string {
	return fmt.Sprintf("%s@%s", r.RemoteName(), r.Commit)
}

// ParseRemoteFor parses a ref name of the form
// refs/nomad/<user>/<host>/<branch>, requiring that <user> equal the given
// user exactly (the caller already scoped its ls-remote glob to that user).
// The remainder after <user>/ is split into <host> (first path component)
// and <branch> (everything after), per the ref model's §4.1 context-bearing
// rule.
func ParseRemoteFor(name string, user User) (host Host, branch Branch, ok bool) {
	rest, found := strings.CutPrefix(name, nomadPrefix+string(user)+"/")
	if !found {
		return "", "", false
	}
	return splitHostBranch(rest)
}

// ParseLocal parses a ref name of the form refs/nomad/<host>/<branch>, the
// local mirror form where the user is implicit.
func ParseLocal(name string) (host Host, branch Branch, ok bool) {
	rest, found := strings.CutPrefix(name, nomadPrefix)
	if !found {
		return "", "", false
	}
	return splitHostBranch(rest)
}

// splitHostBranch splits "<host>/<branch...>" at the first path separator,
// accepting <host> as the first path component. Branch names containing "/"
// are preserved whole in the remainder.
func splitHostBranch(rest string) (host Host, branch Branch, ok bool) {
	i := strings.IndexByte(rest, '/')
	if i < 0 || i == 0 || i == len(rest)-1 {
		return "", "", false
	}
	return Host(rest[:i]), Branch(rest[i+1:]), true
}
