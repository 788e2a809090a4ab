package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/uclaacm/bruinbot"
	"github.com/uclaacm/bruinbot/internal/domain"
)

type mockMemberRepo struct {
	members map[string]domain.Member
	err     error
}

func newMockMemberRepo(members ...domain.Member) *mockMemberRepo {
	repo := &mockMemberRepo{members: map[string]domain.Member{}}
	for _, m := range members {
		repo.members[m.UserID] = m
	}
	return repo
}

func (r *mockMemberRepo) Get(ctx context.Context, userID string) (domain.Member, error) {
	if r.err != nil {
		return domain.Member{}, r.err
	}
	m, ok := r.members[userID]
	if !ok {
		return domain.Member{}, domain.NotFoundError{Resource: "member"}
	}
	return m, nil
}

func (r *mockMemberRepo) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	if r.err != nil {
		return domain.Member{}, r.err
	}
	for _, m := range r.members {
		if m.Email == email {
			return m, nil
		}
	}
	return domain.Member{}, domain.NotFoundError{Resource: "member"}
}

func (r *mockMemberRepo) GetByHandle(ctx context.Context, username, discriminator string) (domain.Member, error) {
	for _, m := range r.members {
		if m.Username == username && m.Discriminator == discriminator {
			return m, nil
		}
	}
	return domain.Member{}, domain.NotFoundError{Resource: "member"}
}

func (r *mockMemberRepo) mutate(userID string, fn func(*domain.Member)) error {
	m, ok := r.members[userID]
	if !ok {
		return domain.NotFoundError{Resource: "member"}
	}
	fn(&m)
	r.members[userID] = m
	return nil
}

func (r *mockMemberRepo) SetPronouns(ctx context.Context, userID, pronouns string) error {
	return r.mutate(userID, func(m *domain.Member) { m.Pronouns = pronouns })
}

func (r *mockMemberRepo) SetMajor(ctx context.Context, userID, major string) error {
	return r.mutate(userID, func(m *domain.Member) { m.Major = major })
}

func (r *mockMemberRepo) SetGradYear(ctx context.Context, userID, year string) error {
	return r.mutate(userID, func(m *domain.Member) { m.GradYear = year })
}

func (r *mockMemberRepo) SetTransfer(ctx context.Context, userID string, transfer bool) error {
	return r.mutate(userID, func(m *domain.Member) { m.Transfer = transfer })
}

func (r *mockMemberRepo) SetNickname(ctx context.Context, userID, nickname string) error {
	return r.mutate(userID, func(m *domain.Member) { m.Nickname = nickname })
}

func (r *mockMemberRepo) SetAffiliation(ctx context.Context, userID string, affiliation domain.Affiliation) error {
	return r.mutate(userID, func(m *domain.Member) { m.Affiliation = affiliation })
}

func (r *mockMemberRepo) ListStudents(ctx context.Context) ([]domain.Member, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Member
	for _, m := range r.members {
		if m.Affiliation == domain.AffiliationStudent && m.GradYear != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

type mockVerificationRepo struct {
	pending   map[string]domain.PendingVerification
	members   *mockMemberRepo
	upserted  []domain.PendingVerification
	committed []domain.Member
	commitErr error
}

func newMockVerificationRepo(members *mockMemberRepo) *mockVerificationRepo {
	return &mockVerificationRepo{
		pending: map[string]domain.PendingVerification{},
		members: members,
	}
}

func (r *mockVerificationRepo) Upsert(ctx context.Context, pending domain.PendingVerification) error {
	r.upserted = append(r.upserted, pending)
	r.pending[pending.UserID] = pending
	return nil
}

func (r *mockVerificationRepo) Find(ctx context.Context, userID, code string, now time.Time) (domain.PendingVerification, error) {
	p, ok := r.pending[userID]
	if !ok || !p.Redeemable(code, now) {
		return domain.PendingVerification{}, domain.NotFoundError{Resource: "verification code"}
	}
	return p, nil
}

func (r *mockVerificationRepo) Commit(ctx context.Context, member domain.Member) error {
	if r.commitErr != nil {
		return r.commitErr
	}
	delete(r.pending, member.UserID)
	for _, m := range r.members.members {
		if m.UserID != member.UserID && m.Email == member.Email {
			return domain.ErrEmailTaken
		}
	}
	r.committed = append(r.committed, member)
	r.members.members[member.UserID] = member
	return nil
}

type mockMessageRepo struct {
	messages map[string]string
}

func (r *mockMessageRepo) Get(ctx context.Context, id string) (string, error) {
	msg, ok := r.messages[id]
	if !ok {
		return "", domain.NotFoundError{Resource: "message"}
	}
	return msg, nil
}

func (r *mockMessageRepo) Set(ctx context.Context, id, message string) error {
	if r.messages == nil {
		r.messages = map[string]string{}
	}
	r.messages[id] = message
	return nil
}

type mockDirectory struct {
	roles     map[string][]string
	added     map[string][]string
	removed   map[string][]string
	nicknames map[string]string
	admins    map[string]bool
	rolesErr  error
	addErr    error
	nickErr   error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		roles:     map[string][]string{},
		added:     map[string][]string{},
		removed:   map[string][]string{},
		nicknames: map[string]string{},
		admins:    map[string]bool{},
	}
}

func (d *mockDirectory) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	if d.rolesErr != nil {
		return nil, d.rolesErr
	}
	return append([]string{}, d.roles[userID]...), nil
}

func (d *mockDirectory) AddRoles(ctx context.Context, userID string, roles ...string) error {
	if d.addErr != nil {
		return d.addErr
	}
	d.added[userID] = append(d.added[userID], roles...)
	d.roles[userID] = append(d.roles[userID], roles...)
	return nil
}

func (d *mockDirectory) RemoveRoles(ctx context.Context, userID string, roles ...string) error {
	d.removed[userID] = append(d.removed[userID], roles...)
	var kept []string
	for _, have := range d.roles[userID] {
		drop := false
		for _, role := range roles {
			if have == role {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, have)
		}
	}
	d.roles[userID] = kept
	return nil
}

func (d *mockDirectory) SetNickname(ctx context.Context, userID, nickname string) error {
	if d.nickErr != nil {
		return d.nickErr
	}
	d.nicknames[userID] = nickname
	return nil
}

func (d *mockDirectory) IsModOrAdmin(ctx context.Context, userID string) (bool, error) {
	return d.admins[userID], nil
}

type sentMail struct {
	email string
	name  string
	code  string
}

type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) SendVerification(ctx context.Context, email, name, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{email: email, name: name, code: code})
	return nil
}

type mockSignal struct {
	events []bruinbot.Event
}

func (s *mockSignal) Publish(ctx context.Context, event bruinbot.Event) error {
	s.events = append(s.events, event)
	return nil
}

func testSettings() domain.Settings {
	return domain.Settings{
		AllowedDomains: []string{"ucla"},
		Committees:     []string{"Board", "AI", "Cyber", "Design", "Hack", "ICPC", "Studio", "W", "Teach LA"},
		Majors:         []string{"computer science", "mathematics", "linguistics"},
		Roles: domain.RoleNames{
			Verified:      "Verified",
			Guest:         "Guest",
			Moderator:     "Moderator",
			Alumni:        "Alumni",
			Student:       "Student",
			Faculty:       "UCLA Faculty and Staff",
			PVP:           "PVP",
			Officer:       "ACM Officer",
			AlumniOfficer: "Alumni Officer",
		},
	}
}

func assertUserError(t *testing.T, err error, kind domain.ErrorKind) domain.UserError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	ue, ok := domain.AsUserError(err)
	if !ok {
		t.Fatalf("expected UserError, got %T: %v", err, err)
	}
	if ue.Kind != kind {
		t.Fatalf("expected error kind %d, got %d (%s)", kind, ue.Kind, ue.Message)
	}
	return ue
}

func hasRole(roles []string, name string) bool {
	for _, role := range roles {
		if role == name {
			return true
		}
	}
	return false
}
