package testing

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// Execute the given system command, ensuring it succeeded, returning the stdout.
func Execute(t testing.TB, command ...string) string {
	t.Helper()
	cmd := exec.Command(command[0], command[1:]...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.Errorf("unexpected error exec'ing %q: %v\n\nstdout:\n%s\n\nstderr:\n%s\n", cmd.String(), err, out, exitErr.Stderr)
		} else {
			t.Errorf("unexpected error exec'ing %q: %v", cmd.String(), err)
		}
	}
	return string(out)
}

// Check ensures that the given error is nil.
func Check(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ExpectError ensures that the given error is non-nil.
func ExpectError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error, but was nil")
	}
}

// TempRepo returns a temporary directory with a non-bare git repository
// initialized and a commit identity configured, standing in for one
// "machine" in a scenario test. The directory is cleaned up when the test
// completes.
func TempRepo(t testing.TB) string {
	t.Helper()
	path := t.TempDir()
	_ = Execute(t, "git", "-C", path, "init")
	_ = Execute(t, "git", "-C", path, "config", "user.email", "nomad@example.com")
	_ = Execute(t, "git", "-C", path, "config", "user.name", "nomad")
	return path
}

// TempBareRepo returns a temporary directory holding a bare git repository,
// standing in for the shared remote in a scenario test.
func TempBareRepo(t testing.TB) string {
	t.Helper()
	path := t.TempDir()
	_ = Execute(t, "git", "-C", path, "init", "--bare")
	return path
}

// NomadBuild compiles this project's git-nomad binary to an executable file
// in a temp directory and returns the path to it, so scenario tests can
// exec it the way a user would invoke it.
func NomadBuild() (string, error) {
	_, thisFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("could not determine current source file path")
	}
	projectSourceDir := filepath.Join(filepath.Dir(thisFilePath), "../../..")
	mainPkg := filepath.Join(projectSourceDir, "cmd", "git-nomad")
	path := filepath.Join(os.TempDir(), fmt.Sprintf("git-nomad-%d", rand.Int()))
	cmd := exec.Command("go", "build", "-o", path, mainPkg)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return path, fmt.Errorf("unexpected error exec'ing %q: %v\n\nstdout:\n%s\n\nstderr:\n%s", cmd.String(), err, out, exitErr.Stderr)
		} else {
			return path, fmt.Errorf("unexpected error exec'ing %q: %v", cmd.String(), err)
		}
	}
	return path, nil
}
