package usecase

import (
	"context"
	"testing"

	"github.com/uclaacm/bruinbot/internal/domain"
)

func newRoleFixture() (*RoleUsecase, *mockMemberRepo, *mockDirectory) {
	members := newMockMemberRepo()
	directory := newMockDirectory()
	uc := NewRoleUsecase(members, directory, testSettings())
	return uc, members, directory
}

func TestToggleOfficerTruthTable(t *testing.T) {
	tests := []struct {
		name        string
		targetRoles []string
		wantMsg     string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name:        "no roles assigns base and committee",
			targetRoles: nil,
			wantMsg:     "Assigned roles ACM Officer and Hack Officer to user 4242.",
			wantAdded:   []string{"ACM Officer", "Hack Officer"},
		},
		{
			name:        "base only assigns committee",
			targetRoles: []string{"ACM Officer"},
			wantMsg:     "Assigned role Hack Officer to user 4242.",
			wantAdded:   []string{"Hack Officer"},
		},
		{
			name:        "committee only repairs base",
			targetRoles: []string{"Hack Officer"},
			wantMsg:     "Assigned role ACM Officer to user 4242.",
			wantAdded:   []string{"ACM Officer"},
		},
		{
			name:        "base and committee removes both",
			targetRoles: []string{"ACM Officer", "Hack Officer"},
			wantMsg:     "Removed roles ACM Officer and Hack Officer from user 4242.",
			wantRemoved: []string{"Hack Officer", "ACM Officer"},
		},
		{
			name:        "other committee keeps base",
			targetRoles: []string{"ACM Officer", "Hack Officer", "AI Officer"},
			wantMsg:     "Removed role Hack Officer from user 4242.",
			wantRemoved: []string{"Hack Officer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, directory := newRoleFixture()
			directory.roles["1"] = []string{"Hack Officer"}
			directory.roles["4242"] = tt.targetRoles

			msg, err := uc.ToggleOfficer(context.Background(), "1", "4242")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg != tt.wantMsg {
				t.Errorf("message:\n got %q\nwant %q", msg, tt.wantMsg)
			}
			if got := directory.added["4242"]; !equalRoles(got, tt.wantAdded) {
				t.Errorf("added roles: got %v, want %v", got, tt.wantAdded)
			}
			if got := directory.removed["4242"]; !equalRoles(got, tt.wantRemoved) {
				t.Errorf("removed roles: got %v, want %v", got, tt.wantRemoved)
			}
		})
	}
}

func TestToggleInternUsesInternTier(t *testing.T) {
	uc, _, directory := newRoleFixture()
	directory.roles["1"] = []string{"Hack Officer"}

	msg, err := uc.ToggleIntern(context.Background(), "1", "4242")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Assigned roles ACM Intern and Hack Intern to user 4242."
	if msg != want {
		t.Errorf("message:\n got %q\nwant %q", msg, want)
	}
}

func TestToggleOfficerIgnoresInternRoles(t *testing.T) {
	uc, _, directory := newRoleFixture()
	directory.roles["1"] = []string{"Hack Officer"}
	directory.roles["4242"] = []string{"ACM Intern", "Hack Intern"}

	msg, err := uc.ToggleOfficer(context.Background(), "1", "4242")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Assigned roles ACM Officer and Hack Officer to user 4242."
	if msg != want {
		t.Errorf("intern roles must not count toward officer state, got %q", msg)
	}
}

func TestTogglePVPActsOnBoard(t *testing.T) {
	uc, _, directory := newRoleFixture()
	directory.roles["1"] = []string{"PVP"}

	msg, err := uc.ToggleOfficer(context.Background(), "1", "4242")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Assigned roles ACM Officer and Board Officer to user 4242."
	if msg != want {
		t.Errorf("message:\n got %q\nwant %q", msg, want)
	}
}

func TestToggleRequiresCommitteeAuthority(t *testing.T) {
	tests := []struct {
		name       string
		actorRoles []string
	}{
		{"no roles", nil},
		{"member roles only", []string{"Verified", "Student"}},
		{"intern is not enough", []string{"ACM Intern", "Hack Intern"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, directory := newRoleFixture()
			directory.roles["1"] = tt.actorRoles

			_, err := uc.ToggleOfficer(context.Background(), "1", "4242")
			assertUserError(t, err, domain.KindUnauthorized)
			if len(directory.added["4242"]) != 0 {
				t.Error("roles mutated despite missing authority")
			}
		})
	}
}

func TestToggleResolvesHandle(t *testing.T) {
	uc, members, directory := newRoleFixture()
	directory.roles["1"] = []string{"Hack Officer"}
	members.members["4242"] = domain.Member{UserID: "4242", Username: "joebruin", Discriminator: "1234"}

	msg, err := uc.ToggleOfficer(context.Background(), "1", "joebruin#1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Assigned roles ACM Officer and Hack Officer to user joebruin#1234."
	if msg != want {
		t.Errorf("message:\n got %q\nwant %q", msg, want)
	}
	if len(directory.added["4242"]) != 2 {
		t.Errorf("roles should land on the resolved id: %v", directory.added)
	}
}

func TestToggleUnknownHandle(t *testing.T) {
	uc, _, directory := newRoleFixture()
	directory.roles["1"] = []string{"Hack Officer"}

	_, err := uc.ToggleOfficer(context.Background(), "1", "stranger#9999")
	ue := assertUserError(t, err, domain.KindNotFound)
	if ue.Message != "Invalid/unverified user." {
		t.Errorf("unexpected message: %s", ue.Message)
	}
}

func TestToggleRejectsMalformedTarget(t *testing.T) {
	uc, _, directory := newRoleFixture()
	directory.roles["1"] = []string{"Hack Officer"}

	_, err := uc.ToggleOfficer(context.Background(), "1", "joebruin")
	assertUserError(t, err, domain.KindValidation)
}

func equalRoles(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
