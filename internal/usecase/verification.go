package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/uclaacm/bruinbot"
	"github.com/uclaacm/bruinbot/internal/domain"
)

var tracer = otel.Tracer("usecase")

const alreadyVerifiedMsg = "This email has already been verified. " +
	"If you own this email address, please contact any of the Moderators."

type VerificationUsecase struct {
	members   MemberRepository
	pending   VerificationRepository
	directory Directory
	mailer    Mailer
	signal    EventPublisher
	settings  domain.Settings
}

func NewVerificationUsecase(
	members MemberRepository,
	pending VerificationRepository,
	directory Directory,
	mailer Mailer,
	signal EventPublisher,
	settings domain.Settings,
) *VerificationUsecase {
	return &VerificationUsecase{
		members:   members,
		pending:   pending,
		directory: directory,
		mailer:    mailer,
		signal:    signal,
		settings:  settings,
	}
}

// Issue validates the request, stores a fresh one-time code with a
// 24-hour expiry and emails it. The pending row is written before
// delivery and is intentionally not rolled back when delivery fails;
// re-running the command overwrites it.
func (uc *VerificationUsecase) Issue(ctx context.Context, userID, email, nickname, affiliation string) (string, error) {
	ctx, span := tracer.Start(ctx, "Verification.Issue")
	defer span.End()

	aff, ok := domain.ParseAffiliation(strings.ToLower(strings.TrimSpace(affiliation)))
	if !ok {
		return "", domain.Validation("Please provide a valid affiliation (student/alumni/faculty/other).")
	}

	if len(nickname) > domain.MaxNicknameLen {
		return "", domain.Validation(fmt.Sprintf("Please enter a shorter name (max %d characters).", domain.MaxNicknameLen))
	}

	addr, err := bruinbot.ParseEmailAddress(email)
	if err != nil || !uc.emailAllowed(addr, aff) {
		if aff == domain.AffiliationOther {
			return "", domain.Validation("Please enter a valid university (.edu) email address.")
		}
		return "", domain.Validation("Please enter a valid UCLA email address (example@g.ucla.edu).")
	}

	_, err = uc.members.GetByEmail(ctx, addr.Address)
	if err == nil {
		return "", domain.Validation(alreadyVerifiedMsg)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "email lookup failed"))
	}

	pending := domain.PendingVerification{
		UserID:      userID,
		Email:       addr.Address,
		Nickname:    nickname,
		Affiliation: aff,
		Code:        bruinbot.GenerateCode(domain.CodeLength),
		ExpiresAt:   time.Now().Add(domain.PendingTTL),
	}
	if err := uc.pending.Upsert(ctx, pending); err != nil {
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to store verification code"))
	}

	if err := uc.mailer.SendVerification(ctx, pending.Email, pending.Nickname, pending.Code); err != nil {
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to send verification email"))
	}

	return fmt.Sprintf(
		"Please check your email `%s` for a %d-digit verification code. Verify using `!verify <code>`",
		pending.Email, domain.CodeLength,
	), nil
}

// Redeem exchanges a valid code for membership: grants roles, sets
// the nickname, and commits the pending record into the identity
// store.
func (uc *VerificationUsecase) Redeem(ctx context.Context, userID, username, discriminator, code string) (string, error) {
	ctx, span := tracer.Start(ctx, "Verification.Redeem")
	defer span.End()

	pending, err := uc.pending.Find(ctx, userID, code, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Validation("Sorry, this code is either invalid/expired.")
		}
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "code lookup failed"))
	}

	// Pronouns survive re-verification; fetch them before the upsert.
	pronouns := ""
	if existing, err := uc.members.Get(ctx, userID); err == nil {
		pronouns = existing.Pronouns
	}

	// Re-validate the stored email against policy. A non-allow-listed
	// domain under the "other" affiliation gets guest access layered
	// on top of verified.
	grants := []string{uc.settings.Roles.Verified}
	addr, perr := bruinbot.ParseEmailAddress(pending.Email)
	guest := pending.Affiliation == domain.AffiliationOther &&
		(perr != nil || !uc.settings.DomainAllowed(addr.Domain))
	if guest {
		grants = append(grants, uc.settings.Roles.Guest)
	} else if pending.Affiliation == domain.AffiliationAlumni {
		grants = append(grants, uc.settings.Roles.Alumni)
	}

	if err := uc.directory.AddRoles(ctx, userID, grants...); err != nil {
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to grant roles"))
	}

	member := domain.Member{
		UserID:        userID,
		Username:      username,
		Discriminator: discriminator,
		Nickname:      pending.Nickname,
		Pronouns:      pronouns,
		Email:         pending.Email,
		Affiliation:   pending.Affiliation,
		VerifiedAt:    time.Now(),
	}

	if err := uc.directory.SetNickname(ctx, userID, member.DisplayNickname()); err != nil {
		// The bot cannot rename members ranked above it.
		slog.WarnContext(ctx, "failed to set nickname",
			slog.String("userid", userID),
			slog.String("error", err.Error()),
			slog.String("module", "verification"),
		)
	}

	if err := uc.pending.Commit(ctx, member); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return "", domain.Validation(alreadyVerifiedMsg)
		}
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to store member"))
	}

	if uc.signal != nil {
		event := bruinbot.Event{
			Type:        bruinbot.EventMemberVerified,
			UserID:      member.UserID,
			Nickname:    member.Nickname,
			Affiliation: string(member.Affiliation),
			Timestamp:   member.VerifiedAt,
		}
		if err := uc.signal.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish event",
				slog.String("error", err.Error()),
				slog.String("module", "verification"),
			)
		}
	}

	welcome := fmt.Sprintf(
		"Thanks %s! You have been verified and can now access the server! "+
			"Please use the following commands to tell us a bit more about yourself!\n"+
			"```\n"+
			"!major <valid_major>    | Your major\n"+
			"!transfer               | Transfer student\n"+
			"!year <grad_year>       | Your grad year\n"+
			"!pronouns <pronouns>    | Max 10 characters\n"+
			"!whoami                 | View your information\n"+
			"```",
		member.Nickname,
	)

	if isMod, err := uc.directory.IsModOrAdmin(ctx, userID); err == nil && isMod {
		welcome += "\nSince you're a Moderator, you can also use the following commands:\n" +
			"```\n" +
			"!name <userid> <new_name>                          | Change a member's nickname\n" +
			"!lookup <userid>                                   | Lookup verified user\n" +
			"!stats <verified|major|year|transfer|affiliation>  | Useful for analytics\n" +
			"```"
	}

	return welcome, nil
}

func (uc *VerificationUsecase) emailAllowed(addr bruinbot.EmailAddress, aff domain.Affiliation) bool {
	if addr.TLD != "edu" {
		return false
	}
	if aff == domain.AffiliationOther {
		// Any accredited institution.
		return true
	}
	return uc.settings.DomainAllowed(addr.Domain)
}
