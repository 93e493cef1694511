package gitinvoke

import (
	"errors"
	"fmt"
)

// ErrGitUnavailable indicates the git executable could not be invoked at
// all (not found, not executable).
var ErrGitUnavailable = errors.New("git is not available")

// ErrRemoteUnavailable indicates a remote operation (ls-remote, push,
// fetch) failed because the remote could not be reached or rejected
// authentication. Distinct from a reachable remote returning zero refs.
var ErrRemoteUnavailable = errors.New("remote unavailable")

// ErrPushRejected indicates the remote rejected one or more refspecs in a
// push (e.g. insufficient permission). Git's stderr is preserved on the
// wrapped error.
var ErrPushRejected = errors.New("push rejected by remote")

// RefMutationError records that update-ref -d failed for one local ref.
// Per §7 this is logged, not fatal; callers aggregate these into a
// warning report and continue processing the remaining refs.
type RefMutationError struct {
	Ref string
	Err error
}

func (e *RefMutationError) Error() string {
	return fmt.Sprintf("could not delete local ref %q: %v", e.Ref, e.Err)
}

func (e *RefMutationError) Unwrap() error { return e.Err }

// ParseError records that a ref name returned by the remote did not match
// the expected refs/nomad/<user>/<host>/<branch> schema. Per §7 this is
// logged with the offending name and the ref is skipped, not fatal.
type ParseError struct {
	RefName string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse nomad ref name: %q", e.RefName)
}

// wrapExit wraps a failed subprocess invocation, preserving its combined
// output.
func wrapExit(cmdString string, err error, out []byte) error {
	return fmt.Errorf("could not %q: %w: %s", cmdString, err, out)
}
