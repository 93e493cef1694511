package engine

import (
	"context"
	"testing"

	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke/invoketest"
	"github.com/nomadic-vcs/git-nomad/internal/nomadconfig"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

func purgeFixture(t *testing.T) (desktop, laptop *invoketest.Fake) {
	t.Helper()
	desktop = &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{"main": "c1", "idea": "c2"},
	}
	if _, err := Sync(context.Background(), desktop, nomadconfig.Resolved{User: "user", Host: "desktop", Remote: "origin"}); err != nil {
		t.Fatalf("desktop sync: %v", err)
	}
	laptop = &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{"main": "c3"},
		RemoteRefs:    desktop.RemoteRefs,
	}
	if _, err := Sync(context.Background(), laptop, nomadconfig.Resolved{User: "user", Host: "laptop", Remote: "origin"}); err != nil {
		t.Fatalf("laptop sync: %v", err)
	}
	return desktop, laptop
}

func TestPurge_ByHost(t *testing.T) {
	desktop, _ := purgeFixture(t)
	cfg := nomadconfig.Resolved{User: "user", Host: "desktop", Remote: "origin"}

	res, err := Purge(context.Background(), desktop, cfg, PurgeOptions{Hosts: []nomadref.Host{"desktop"}})
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if len(res.Deleted) != 2 {
		t.Fatalf("Deleted = %v, want 2 refs", res.Deleted)
	}

	for name := range desktop.RemoteRefs["origin"] {
		if got, _, ok := nomadref.ParseRemoteFor(name, "user"); ok && got == "desktop" {
			t.Errorf("remote ref %q for purged host still present", name)
		}
	}
	for name := range desktop.LocalNomadRefs {
		if host, _, ok := nomadref.ParseLocal(name); ok && host == "desktop" {
			t.Errorf("local mirror ref %q for purged host still present", name)
		}
	}
	// laptop's refs must be untouched.
	if _, ok := desktop.RemoteRefs["origin"]["refs/nomad/user/laptop/main"]; !ok {
		t.Errorf("purge --host desktop removed laptop's remote ref")
	}
}

func TestPurge_All(t *testing.T) {
	desktop, _ := purgeFixture(t)
	cfg := nomadconfig.Resolved{User: "user", Host: "desktop", Remote: "origin"}

	if _, err := Purge(context.Background(), desktop, cfg, PurgeOptions{All: true}); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if len(desktop.RemoteRefs["origin"]) != 0 {
		t.Errorf("remote refs remain after purge --all: %v", desktop.RemoteRefs["origin"])
	}
	if len(desktop.LocalNomadRefs) != 0 {
		t.Errorf("local mirror refs remain after purge --all: %v", desktop.LocalNomadRefs)
	}
}
