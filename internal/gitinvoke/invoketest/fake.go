// Package invoketest provides an in-memory double of gitinvoke.Invoker for
// exercising internal/engine without spawning real git subprocesses: the
// engine only ever talks to the Invoker interface, so tests substitute this
// fake and assert on its recorded state instead of a real repository's
// refs.
package invoketest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

// Fake is an in-memory Invoker. Zero value is ready to use once its maps are
// populated (or left nil, meaning empty).
type Fake struct {
	// LocalBranches models refs/heads/ in the current clone.
	LocalBranches map[nomadref.Branch]nomadref.CommitId

	// LocalNomadRefs models refs/nomad/<host>/<branch> in the current
	// clone, keyed by the full local ref name.
	LocalNomadRefs map[string]nomadref.CommitId

	// RemoteRefs models refs/nomad/<user>/<host>/<branch> on each named
	// remote, keyed by remote name then full ref name.
	RemoteRefs map[string]map[string]nomadref.CommitId

	// Config models the clone's own `git config --local` key/value store.
	// Single-valued only, matching git-nomad's scalar config keys.
	Config map[string]string

	// HeadBranch and HeadDetached model `git symbolic-ref --short HEAD`.
	HeadBranch   nomadref.Branch
	HeadDetached bool

	// UnavailableRemotes names remotes that should behave as unreachable.
	UnavailableRemotes map[string]bool

	// PushCalls and FetchCalls record every invocation, for assertions.
	PushCalls  []PushCall
	FetchCalls []FetchCall
}

// PushCall records one Push invocation.
type PushCall struct {
	Remote    string
	Additions []gitinvoke.RefUpdate
	Deletions []plumbing.ReferenceName
}

// FetchCall records one Fetch invocation.
type FetchCall struct {
	Remote  string
	Refspec string
}

var _ gitinvoke.Invoker = (*Fake)(nil)

func (f *Fake) ListLocalBranches(context.Context) ([]gitinvoke.LocalBranch, error) {
	out := make([]gitinvoke.LocalBranch, 0, len(f.LocalBranches))
	for _, b := range slices.Sorted(maps.Keys(f.LocalBranches)) {
		out = append(out, gitinvoke.LocalBranch{Branch: b, Commit: f.LocalBranches[b]})
	}
	return out, nil
}

func (f *Fake) ListLocalNomadRefs(_ context.Context, user nomadref.User) ([]nomadref.NomadRef, []error, error) {
	var refs []nomadref.NomadRef
	var warnings []error
	for _, name := range slices.Sorted(maps.Keys(f.LocalNomadRefs)) {
		host, branch, ok := nomadref.ParseLocal(name)
		if !ok {
			warnings = append(warnings, &gitinvoke.ParseError{RefName: name})
			continue
		}
		refs = append(refs, nomadref.NomadRef{User: user, Host: host, Branch: branch, Commit: f.LocalNomadRefs[name]})
	}
	return refs, warnings, nil
}

func (f *Fake) ListRemoteNomadRefs(_ context.Context, remote string, user nomadref.User) ([]nomadref.NomadRef, []error, error) {
	if f.UnavailableRemotes[remote] {
		return nil, nil, fmt.Errorf("%w: %s", gitinvoke.ErrRemoteUnavailable, remote)
	}
	var refs []nomadref.NomadRef
	var warnings []error
	for _, name := range slices.Sorted(maps.Keys(f.RemoteRefs[remote])) {
		host, branch, ok := nomadref.ParseRemoteFor(name, user)
		if !ok {
			warnings = append(warnings, &gitinvoke.ParseError{RefName: name})
			continue
		}
		refs = append(refs, nomadref.NomadRef{User: user, Host: host, Branch: branch, Commit: f.RemoteRefs[remote][name]})
	}
	return refs, warnings, nil
}

func (f *Fake) Push(_ context.Context, remote string, additions []gitinvoke.RefUpdate, deletions []plumbing.ReferenceName) error {
	f.PushCalls = append(f.PushCalls, PushCall{Remote: remote, Additions: additions, Deletions: deletions})
	if f.UnavailableRemotes[remote] {
		return fmt.Errorf("%w: %s", gitinvoke.ErrRemoteUnavailable, remote)
	}
	if f.RemoteRefs == nil {
		f.RemoteRefs = make(map[string]map[string]nomadref.CommitId)
	}
	if f.RemoteRefs[remote] == nil {
		f.RemoteRefs[remote] = make(map[string]nomadref.CommitId)
	}
	for _, a := range additions {
		branch, found := strings.CutPrefix(a.Src.String(), "refs/heads/")
		if !found {
			return fmt.Errorf("fake push: unsupported source ref %q", a.Src)
		}
		commit, ok := f.LocalBranches[nomadref.Branch(branch)]
		if !ok {
			return fmt.Errorf("fake push: source branch %q does not exist locally", branch)
		}
		f.RemoteRefs[remote][a.Dst.String()] = commit
	}
	for _, d := range deletions {
		delete(f.RemoteRefs[remote], d.String())
	}
	return nil
}

func (f *Fake) Fetch(_ context.Context, remote, refspec string) error {
	f.FetchCalls = append(f.FetchCalls, FetchCall{Remote: remote, Refspec: refspec})
	if f.UnavailableRemotes[remote] {
		return fmt.Errorf("%w: %s", gitinvoke.ErrRemoteUnavailable, remote)
	}
	srcGlob, dstGlob, ok := strings.Cut(strings.TrimPrefix(refspec, "+"), ":")
	if !ok {
		return fmt.Errorf("fake fetch: malformed refspec %q", refspec)
	}
	srcPrefix := strings.TrimSuffix(srcGlob, "*")
	dstPrefix := strings.TrimSuffix(dstGlob, "*")

	wantLocal := make(map[string]nomadref.CommitId)
	for name, commit := range f.RemoteRefs[remote] {
		suffix, found := strings.CutPrefix(name, srcPrefix)
		if !found {
			continue
		}
		wantLocal[dstPrefix+suffix] = commit
	}

	if f.LocalNomadRefs == nil {
		f.LocalNomadRefs = make(map[string]nomadref.CommitId)
	}
	// prune local refs under dstPrefix that no longer exist on the remote
	for name := range f.LocalNomadRefs {
		if !strings.HasPrefix(name, dstPrefix) {
			continue
		}
		if _, ok := wantLocal[name]; !ok {
			delete(f.LocalNomadRefs, name)
		}
	}
	maps.Copy(f.LocalNomadRefs, wantLocal)
	return nil
}

func (f *Fake) DeleteLocalRefs(_ context.Context, refs []plumbing.ReferenceName) []error {
	var errs []error
	for _, ref := range refs {
		if _, ok := f.LocalNomadRefs[ref.String()]; !ok {
			errs = append(errs, &gitinvoke.RefMutationError{Ref: ref.String(), Err: fmt.Errorf("unknown ref")})
			continue
		}
		delete(f.LocalNomadRefs, ref.String())
	}
	return errs
}

func (f *Fake) ReadConfig(_ context.Context, key string) (string, bool, error) {
	v, ok := f.Config[key]
	return v, ok, nil
}

func (f *Fake) WriteConfig(_ context.Context, key, value string) error {
	if f.Config == nil {
		f.Config = make(map[string]string)
	}
	f.Config[key] = value
	return nil
}

func (f *Fake) CurrentBranch(context.Context) (nomadref.Branch, bool, error) {
	return f.HeadBranch, !f.HeadDetached, nil
}
