package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke"
	"github.com/nomadic-vcs/git-nomad/internal/gitinvoke/invoketest"
	"github.com/nomadic-vcs/git-nomad/internal/nomadconfig"
	"github.com/nomadic-vcs/git-nomad/internal/nomadref"
)

func desktopConfig() nomadconfig.Resolved {
	return nomadconfig.Resolved{User: "user", Host: "desktop", Remote: "origin"}
}

func TestSync_SelfClosure(t *testing.T) {
	fake := &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{
			"main": "c1",
			"idea": "c2",
		},
	}
	cfg := desktopConfig()

	res, err := Sync(context.Background(), fake, cfg)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(res.Deleted) != 0 {
		t.Errorf("Deleted = %v, want none", res.Deleted)
	}
	for _, b := range []nomadref.Branch{"main", "idea"} {
		remoteRef := "refs/nomad/user/desktop/" + string(b)
		if got, ok := fake.RemoteRefs["origin"][remoteRef]; !ok || got != fake.LocalBranches[b] {
			t.Errorf("remote ref %q = (%v, %v), want (%v, true)", remoteRef, got, ok, fake.LocalBranches[b])
		}
		localRef := "refs/nomad/desktop/" + string(b)
		if got, ok := fake.LocalNomadRefs[localRef]; !ok || got != fake.LocalBranches[b] {
			t.Errorf("local mirror ref %q = (%v, %v), want (%v, true)", localRef, got, ok, fake.LocalBranches[b])
		}
	}
}

func TestSync_Idempotent(t *testing.T) {
	fake := &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{"main": "c1"},
	}
	cfg := desktopConfig()

	if _, err := Sync(context.Background(), fake, cfg); err != nil {
		t.Fatalf("first Sync() error = %v", err)
	}
	res, err := Sync(context.Background(), fake, cfg)
	if err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}
	if len(res.Deleted) != 0 {
		t.Errorf("second sync Deleted = %v, want none", res.Deleted)
	}
	last := fake.PushCalls[len(fake.PushCalls)-1]
	if len(last.Deletions) != 0 {
		t.Errorf("second sync push deletions = %v, want none", last.Deletions)
	}
}

func TestSync_DeletionPropagation(t *testing.T) {
	desktop := &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{"main": "c1", "idea": "c2"},
	}
	if _, err := Sync(context.Background(), desktop, desktopConfig()); err != nil {
		t.Fatalf("desktop sync 1: %v", err)
	}

	laptop := &invoketest.Fake{RemoteRefs: desktop.RemoteRefs}
	laptopCfg := nomadconfig.Resolved{User: "user", Host: "laptop", Remote: "origin"}
	if _, err := Sync(context.Background(), laptop, laptopCfg); err != nil {
		t.Fatalf("laptop sync 1: %v", err)
	}
	if _, ok := laptop.LocalNomadRefs["refs/nomad/desktop/idea"]; !ok {
		t.Fatalf("laptop did not mirror desktop's idea branch")
	}

	// desktop deletes "idea" locally and re-syncs.
	delete(desktop.LocalBranches, "idea")
	res, err := Sync(context.Background(), desktop, desktopConfig())
	if err != nil {
		t.Fatalf("desktop sync 2: %v", err)
	}
	if len(res.Deleted) != 1 || res.Deleted[0].Branch != "idea" {
		t.Errorf("desktop sync 2 Deleted = %v, want [idea]", res.Deleted)
	}

	if _, err := Sync(context.Background(), laptop, laptopCfg); err != nil {
		t.Fatalf("laptop sync 2: %v", err)
	}
	if _, ok := laptop.LocalNomadRefs["refs/nomad/desktop/idea"]; ok {
		t.Errorf("laptop still has refs/nomad/desktop/idea after upstream deletion")
	}
	if _, ok := laptop.LocalNomadRefs["refs/nomad/desktop/main"]; !ok {
		t.Errorf("laptop lost refs/nomad/desktop/main, which should be untouched")
	}
}

func TestSync_ForeignPreservation(t *testing.T) {
	shared := make(map[string]map[string]nomadref.CommitId)
	desktop := &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{"main": "c1"},
		RemoteRefs:    shared,
	}
	laptop := &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{"main": "c9"},
		RemoteRefs:    shared,
	}
	laptopCfg := nomadconfig.Resolved{User: "user", Host: "laptop", Remote: "origin"}

	if _, err := Sync(context.Background(), laptop, laptopCfg); err != nil {
		t.Fatalf("laptop sync: %v", err)
	}
	if _, err := Sync(context.Background(), desktop, desktopConfig()); err != nil {
		t.Fatalf("desktop sync: %v", err)
	}

	if got := shared["origin"]["refs/nomad/user/laptop/main"]; got != "c9" {
		t.Errorf("laptop's remote ref was mutated by desktop's sync: got %q", got)
	}
}

func TestSync_ForceUpdatePermissiveness(t *testing.T) {
	fake := &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{"idea": "c1"},
	}
	cfg := desktopConfig()
	if _, err := Sync(context.Background(), fake, cfg); err != nil {
		t.Fatalf("sync 1: %v", err)
	}

	// simulate an amend: new tip that is not a descendant of the old one.
	fake.LocalBranches["idea"] = "c2-not-a-descendant"
	res, err := Sync(context.Background(), fake, cfg)
	if err != nil {
		t.Fatalf("sync after amend: %v", err)
	}
	for _, r := range res.All {
		if r.Branch == "idea" && r.Host == "desktop" && r.Commit != "c2-not-a-descendant" {
			t.Errorf("remote idea ref not updated to amended commit: %v", r)
		}
	}
}

func TestSync_BranchNameTransparency(t *testing.T) {
	fake := &invoketest.Fake{
		LocalBranches: map[nomadref.Branch]nomadref.CommitId{"feature/x/y": "c1"},
	}
	cfg := desktopConfig()
	res, err := Sync(context.Background(), fake, cfg)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(res.Pushed) != 1 || res.Pushed[0].Branch != "feature/x/y" {
		t.Fatalf("Pushed = %v, want [feature/x/y]", res.Pushed)
	}
	if _, ok := fake.RemoteRefs["origin"]["refs/nomad/user/desktop/feature/x/y"]; !ok {
		t.Errorf("remote ref for slash-containing branch not found")
	}
	if _, ok := fake.LocalNomadRefs["refs/nomad/desktop/feature/x/y"]; !ok {
		t.Errorf("local mirror ref for slash-containing branch not found")
	}
}

func TestSync_RemoteUnavailable(t *testing.T) {
	fake := &invoketest.Fake{
		LocalBranches:      map[nomadref.Branch]nomadref.CommitId{"main": "c1"},
		UnavailableRemotes: map[string]bool{"origin": true},
	}
	_, err := Sync(context.Background(), fake, desktopConfig())
	if !errors.Is(err, gitinvoke.ErrRemoteUnavailable) {
		t.Fatalf("Sync() error = %v, want wrapping ErrRemoteUnavailable", err)
	}
}
