package gitinvoke

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

// execInvoker is the production Invoker, backed by `git` subprocesses in
// the working directory of the current clone. Every subprocess failure is
// wrapped with the command line and captured stderr.
type execInvoker struct {
	dir string
}

// New returns an Invoker that operates on the git clone at dir (use "." for
// the current directory).
func New(dir string) Invoker {
	return &execInvoker{dir: dir}
}

func (g *execInvoker) cmd(ctx context.Context, args ...string) *exec.Cmd {
	full := append([]string{"-C", g.dir}, args...)
	return exec.CommandContext(ctx, "git", full...)
}

func (g *execInvoker) ListLocalBranches(ctx context.Context) ([]LocalBranch, error) {
	lines, err := g.forEachRef(ctx, "refs/heads/")
	if err != nil {
		return nil, err
	}
	branches := make([]LocalBranch, 0, len(lines))
	for _, l := range lines {
		name, found := strings.CutPrefix(l.refname, "refs/heads/")
		if !found {
			continue
		}
		branches = append(branches, LocalBranch{Branch: nomadref.Branch(name), Commit: nomadref.CommitId(l.objectID)})
	}
	return branches, nil
}

func (g *execInvoker) ListLocalNomadRefs(ctx context.Context, user nomadref.User) ([]nomadref.NomadRef, []error, error) {
	lines, err := g.forEachRef(ctx, "refs/nomad/")
	if err != nil {
		return nil, nil, err
	}
	var refs []nomadref.NomadRef
	var warnings []error
	for _, l := range lines {
		host, branch, ok := nomadref.ParseLocal(l.refname)
		if !ok {
			warnings = append(warnings, &ParseError{RefName: l.refname})
			continue
		}
		refs = append(refs, nomadref.NomadRef{User: user, Host: host, Branch: branch, Commit: nomadref.CommitId(l.objectID)})
	}
	return refs, warnings, nil
}

type refLine struct {
	refname  string
	objectID string
}

func (g *execInvoker) forEachRef(ctx context.Context, pattern string) ([]refLine, error) {
	cmd := g.cmd(ctx, "for-each-ref", "--format=%(refname)\t%(objectname)", pattern)
	out, err := cmd.Output()
	if err != nil {
		return nil, wrapExit(cmd.String(), err, exitStderr(err))
	}
	var lines []refLine
	s := bufio.NewScanner(bytes.NewReader(out))
	for s.Scan() {
		name, obj, ok := strings.Cut(s.Text(), "\t")
		if !ok {
			continue
		}
		lines = append(lines, refLine{refname: name, objectID: obj})
	}
	return lines, s.Err()
}

func (g *execInvoker) ListRemoteNomadRefs(ctx context.Context, remote string, user nomadref.User) ([]nomadref.NomadRef, []error, error) {
	cmd := g.cmd(ctx, "ls-remote", remote, "refs/nomad/"+string(user)+"/*")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: could not %q: %v: %s", ErrRemoteUnavailable, cmd.String(), err, stderr.Bytes())
	}
	var refs []nomadref.NomadRef
	var warnings []error
	s := bufio.NewScanner(bytes.NewReader(out))
	for s.Scan() {
		obj, name, ok := strings.Cut(s.Text(), "\t")
		if !ok {
			continue
		}
		host, branch, ok := nomadref.ParseRemoteFor(name, user)
		if !ok {
			warnings = append(warnings, &ParseError{RefName: name})
			continue
		}
		refs = append(refs, nomadref.NomadRef{User: user, Host: host, Branch: branch, Commit: nomadref.CommitId(obj)})
	}
	return refs, warnings, s.Err()
}

func (g *execInvoker) Push(ctx context.Context, remote string, additions []RefUpdate, deletions []plumbing.ReferenceName) error {
	args := []string{"push", "--no-verify", "--atomic", remote}
	for _, a := range additions {
		args = append(args, fmt.Sprintf("+%s:%s", a.Src, a.Dst))
	}
	for _, d := range deletions {
		args = append(args, fmt.Sprintf(":%s", d))
	}
	if len(additions) == 0 && len(deletions) == 0 {
		// nothing to do; avoid invoking `git push` with no refspecs, which
		// would push the current branch under its default upstream
		// configuration instead of being a no-op.
		return nil
	}
	cmd := g.cmd(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: could not %q: %v: %s", ErrPushRejected, cmd.String(), err, stderr.Bytes())
		}
		return fmt.Errorf("%w: could not %q: %v", ErrGitUnavailable, cmd.String(), err)
	}
	return nil
}

func (g *execInvoker) Fetch(ctx context.Context, remote, refspec string) error {
	cmd := g.cmd(ctx, "fetch", "--prune", remote, refspec)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: could not %q: %v: %s", ErrRemoteUnavailable, cmd.String(), err, out)
	}
	return nil
}

func (g *execInvoker) DeleteLocalRefs(ctx context.Context, refs []plumbing.ReferenceName) []error {
	var errs []error
	for _, ref := range refs {
		cmd := g.cmd(ctx, "update-ref", "-d", ref.String())
		if out, err := cmd.CombinedOutput(); err != nil {
			errs = append(errs, &RefMutationError{Ref: ref.String(), Err: wrapExit(cmd.String(), err, out)})
		}
	}
	return errs
}

func (g *execInvoker) ReadConfig(ctx context.Context, key string) (string, bool, error) {
	cmd := g.cmd(ctx, "config", "get", "--local", key)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, wrapExit(cmd.String(), err, exitStderr(err))
	}
	return strings.TrimSpace(string(out)), true, nil
}

func (g *execInvoker) WriteConfig(ctx context.Context, key, value string) error {
	cmd := g.cmd(ctx, "config", "set", "--local", key, value)
	if out, err := cmd.CombinedOutput(); err != nil {
		return wrapExit(cmd.String(), err, out)
	}
	return nil
}

func (g *execInvoker) CurrentBranch(ctx context.Context) (nomadref.Branch, bool, error) {
	cmd := g.cmd(ctx, "symbolic-ref", "--short", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// detached HEAD or no commits yet
			return "", false, nil
		}
		return "", false, wrapExit(cmd.String(), err, exitStderr(err))
	}
	return nomadref.Branch(strings.TrimSpace(string(out))), true, nil
}

func exitStderr(err error) []byte {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Stderr
	}
	return nil
}
