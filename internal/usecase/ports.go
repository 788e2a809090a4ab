package usecase

import (
	"context"
	"time"

	"github.com/uclaacm/bruinbot"
	"github.com/uclaacm/bruinbot/internal/domain"
)

// MemberRepository defines persistence/lookup for verified members.
// Rows are never deleted by any operation.
type MemberRepository interface {
	Get(ctx context.Context, userID string) (domain.Member, error)
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
	GetByHandle(ctx context.Context, username, discriminator string) (domain.Member, error)
	SetPronouns(ctx context.Context, userID, pronouns string) error
	SetMajor(ctx context.Context, userID, major string) error
	SetGradYear(ctx context.Context, userID, year string) error
	SetTransfer(ctx context.Context, userID string, transfer bool) error
	SetNickname(ctx context.Context, userID, nickname string) error
	SetAffiliation(ctx context.Context, userID string, affiliation domain.Affiliation) error
	// ListStudents returns members with student affiliation and a
	// graduation year on file.
	ListStudents(ctx context.Context) ([]domain.Member, error)
}

// StatsRepository aggregates over the identity store.
type StatsRepository interface {
	CountMembers(ctx context.Context) (int64, error)
	CountTransfers(ctx context.Context) (int64, error)
	CountByMajor(ctx context.Context) ([]domain.StatRow, error)
	CountByGradYear(ctx context.Context) ([]domain.StatRow, error)
	CountByAffiliation(ctx context.Context) ([]domain.StatRow, error)
}

// VerificationRepository defines the pending one-time code store.
type VerificationRepository interface {
	// Upsert overwrites any prior pending request for the same user.
	Upsert(ctx context.Context, pending domain.PendingVerification) error
	// Find returns the pending record only if the code matches
	// exactly and the record has not expired at now.
	Find(ctx context.Context, userID, code string, now time.Time) (domain.PendingVerification, error)
	// Commit atomically deletes the pending row, re-checks email
	// uniqueness and upserts the member. Returns ErrEmailTaken when
	// another member already claimed the email.
	Commit(ctx context.Context, member domain.Member) error
}

// MessageRepository stores named reusable message templates.
type MessageRepository interface {
	Get(ctx context.Context, id string) (string, error)
	Set(ctx context.Context, id, message string) error
}

// Directory is the messaging-platform surface the bot mutates.
// Role arguments are display names; implementations translate them
// to platform identifiers.
type Directory interface {
	MemberRoles(ctx context.Context, userID string) ([]string, error)
	AddRoles(ctx context.Context, userID string, roles ...string) error
	RemoveRoles(ctx context.Context, userID string, roles ...string) error
	SetNickname(ctx context.Context, userID, nickname string) error
	IsModOrAdmin(ctx context.Context, userID string) (bool, error)
}

// Mailer delivers one-time codes.
type Mailer interface {
	SendVerification(ctx context.Context, email, name, code string) error
}

// EventPublisher broadcasts membership events.
type EventPublisher interface {
	Publish(ctx context.Context, event bruinbot.Event) error
}
