package cmd

import (
	"context"
	"fmt"

	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke"
	"github.com/nomadic-vcs/git-nomad/internal/nomadconfig"
)

// setup builds the production Invoker for the current directory and
// resolves (user, host, remote) per §4.4, merging the global flags this
// package owns. The resolved values are persisted back to local git config
// so a later invocation with no flags or environment variables reuses them.
func setup(ctx context.Context) (gitinvoke.Invoker, nomadconfig.Resolved, error) {
	inv := gitinvoke.New(".")
	cfg, err := nomadconfig.Resolve(ctx, inv, nomadconfig.Flags{
		User:   userFlag,
		Host:   hostFlag,
		Remote: remoteFlag,
	})
	if err != nil {
		return inv, cfg, err
	}
	if err := nomadconfig.Persist(ctx, inv, cfg); err != nil {
		return inv, cfg, fmt.Errorf("persisting resolved configuration: %w", err)
	}
	return inv, cfg, nil
}

// reportWarnings logs every warning from an engine operation at Warn level,
// gated by the configured logger so --quiet suppresses them (§7:
// "aggregated into the operation report").
func reportWarnings(ctx context.Context, warnings []error) {
	log := loggerFrom(ctx)
	for _, w := range warnings {
		log.Warn(w.Error())
	}
}
