// Package nomadconfig resolves the (user, host, remote) triple every engine
// operation needs (§4.4), merging command-line flags, environment
// variables, git config, and OS defaults, in that priority order.
package nomadconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"

	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

// Git config keys, persisted in the clone's own --local config.
const (
	UserKey   = "nomad.user"
	HostKey   = "nomad.host"
	RemoteKey = "nomad.remote"
)

// Environment variables, checked after flags and before git config.
const (
	UserEnv   = "GIT_NOMAD_USER"
	HostEnv   = "GIT_NOMAD_HOST"
	RemoteEnv = "GIT_NOMAD_REMOTE"
)

// defaultRemote is used when no flag, env var, or git config value is set.
const defaultRemote = "origin"

// ErrInvalid wraps every configuration resolution failure; it corresponds
// to the ConfigInvalid error kind in §7 and is always fatal before any git
// side effect.
var ErrInvalid = errors.New("invalid git-nomad configuration")

// Flags holds whatever the command line explicitly set. Empty string means
// "not set on the command line", not "set to empty".
type Flags struct {
	User   string
	Host   string
	Remote string
}

// Resolved is the fully merged, validated configuration every engine
// operation is given.
type Resolved struct {
	User   nomadref.User
	Host   nomadref.Host
	Remote string
}

// Resolve merges Flags, environment variables, and git config (via inv) into
// a Resolved triple, falling back to OS defaults (current username,
// hostname, and "origin") when nothing else supplies a value. It validates
// that User and Host are non-empty and contain no "/" before returning.
func Resolve(ctx context.Context, inv gitinvoke.Invoker, flags Flags) (Resolved, error) {
	userTok, err := resolveOne(ctx, inv, flags.User, UserEnv, UserKey, osUser)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: resolving user: %w", ErrInvalid, err)
	}
	hostTok, err := resolveOne(ctx, inv, flags.Host, HostEnv, HostKey, os.Hostname)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: resolving host: %w", ErrInvalid, err)
	}
	remote, err := resolveOne(ctx, inv, flags.Remote, RemoteEnv, RemoteKey, func() (string, error) { return defaultRemote, nil })
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: resolving remote: %w", ErrInvalid, err)
	}

	r := Resolved{User: nomadref.User(userTok), Host: nomadref.Host(hostTok), Remote: remote}
	if err := nomadref.ValidateUser(r.User); err != nil {
		return Resolved{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := nomadref.ValidateHost(r.Host); err != nil {
		return Resolved{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if r.Remote == "" {
		return Resolved{}, fmt.Errorf("%w: remote must not be empty", ErrInvalid)
	}
	return r, nil
}

// resolveOne applies the flag -> env -> git config -> default priority for
// a single value.
func resolveOne(ctx context.Context, inv gitinvoke.Invoker, flagValue, envVar, configKey string, osDefault func() (string, error)) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}
	if v, ok, err := inv.ReadConfig(ctx, configKey); err != nil {
		return "", err
	} else if ok && v != "" {
		return v, nil
	}
	return osDefault()
}

// Persist writes the Resolved user/host/remote into git config, so a
// subsequent invocation without flags or environment variables reuses the
// same values. Not called automatically by Resolve; the command surface
// calls it on every invocation, right after a successful Resolve and before
// the operation runs.
func Persist(ctx context.Context, inv gitinvoke.Invoker, r Resolved) error {
	if err := inv.WriteConfig(ctx, UserKey, string(r.User)); err != nil {
		return err
	}
	if err := inv.WriteConfig(ctx, HostKey, string(r.Host)); err != nil {
		return err
	}
	return inv.WriteConfig(ctx, RemoteKey, r.Remote)
}

func osUser() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
