package nomadref

import "testing"

func TestNomadRef_RemoteName(t *testing.T) {
	r := NomadRef{User: "alice", Host: "desktop", Branch: "idea", Commit: "deadbeef"}
	want := "refs/nomad/alice/desktop/idea"
	if got := r.RemoteName().String(); got != want {
		t.Errorf("RemoteName() = %q, want %q", got, want)
	}
}

func TestNomadRef_LocalName(t *testing.T) {
	r := NomadRef{User: "alice", Host: "desktop", Branch: "idea", Commit: "deadbeef"}
	want := "refs/nomad/desktop/idea"
	if got := r.LocalName().String(); got != want {
		t.Errorf("LocalName() = %q, want %q", got, want)
	}
}

func TestNomadRef_SlashInBranch(t *testing.T) {
	r := NomadRef{User: "alice", Host: "desktop", Branch: "feature/x/y", Commit: "deadbeef"}
	if got, want := r.RemoteName().String(), "refs/nomad/alice/desktop/feature/x/y"; got != want {
		t.Errorf("RemoteName() = %q, want %q", got, want)
	}
	if got, want := r.LocalName().String(), "refs/nomad/desktop/feature/x/y"; got != want {
		t.Errorf("LocalName() = %q, want %q", got, want)
	}
}

func TestParseRemoteFor(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		user       User
		wantHost   Host
		wantBranch Branch
		wantOk     bool
	}{
		{"simple", "refs/nomad/alice/desktop/main", "alice", "desktop", "main", true},
		{"slash in branch", "refs/nomad/alice/desktop/feature/x/y", "alice", "desktop", "feature/x/y", true},
		{"wrong user", "refs/nomad/bob/desktop/main", "alice", "", "", false},
		{"not nomad ref", "refs/heads/main", "alice", "", "", false},
		{"missing branch", "refs/nomad/alice/desktop", "alice", "", "", false},
		{"missing branch trailing slash", "refs/nomad/alice/desktop/", "alice", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, branch, ok := ParseRemoteFor(tt.ref, tt.user)
			if ok != tt.wantOk || host != tt.wantHost || branch != tt.wantBranch {
				t.Errorf("ParseRemoteFor(%q, %q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.ref, tt.user, host, branch, ok, tt.wantHost, tt.wantBranch, tt.wantOk)
			}
		})
	}
}

func TestParseLocal(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		wantHost   Host
		wantBranch Branch
		wantOk     bool
	}{
		{"simple", "refs/nomad/desktop/main", "desktop", "main", true},
		{"slash in branch", "refs/nomad/desktop/feature/x/y", "desktop", "feature/x/y", true},
		{"not nomad ref", "refs/heads/main", "", "", false},
		{"missing branch", "refs/nomad/desktop", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, branch, ok := ParseLocal(tt.ref)
			if ok != tt.wantOk || host != tt.wantHost || branch != tt.wantBranch {
				t.Errorf("ParseLocal(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.ref, host, branch, ok, tt.wantHost, tt.wantBranch, tt.wantOk)
			}
		})
	}
}

func TestValidateUser(t *testing.T) {
	for _, u := range []User{"alice", "a-b_c.d"} {
		if err := ValidateUser(u); err != nil {
			t.Errorf("ValidateUser(%q) = %v, want nil", u, err)
		}
	}
	for _, u := range []User{"", "a/b"} {
		if err := ValidateUser(u); err == nil {
			t.Errorf("ValidateUser(%q) = nil, want error", u)
		}
	}
}

func TestValidateHost(t *testing.T) {
	for _, h := range []Host{"desktop", "laptop-2"} {
		if err := ValidateHost(h); err != nil {
			t.Errorf("ValidateHost(%q) = %v, want nil", h, err)
		}
	}
	for _, h := range []Host{"", "a/b"} {
		if err := ValidateHost(h); err == nil {
			t.Errorf("ValidateHost(%q) = nil, want error", h)
		}
	}
}
