package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/uclaacm/bruinbot/internal/domain"
)

const unverifiedHint = "Sorry, I don't think you're verified! " +
	"Use `!iam <affiliation> <name> <ucla_email>` to verify your email address."

// ProfileUsecase covers the self-service profile commands and the
// privileged lookup/rename variants.
type ProfileUsecase struct {
	members   MemberRepository
	directory Directory
	settings  domain.Settings
}

func NewProfileUsecase(members MemberRepository, directory Directory, settings domain.Settings) *ProfileUsecase {
	return &ProfileUsecase{members: members, directory: directory, settings: settings}
}

func (uc *ProfileUsecase) SetPronouns(ctx context.Context, userID, pronouns string) (string, error) {
	if len(pronouns) > domain.MaxPronounsLen {
		return "", domain.Validation(fmt.Sprintf("Please enter something shorter (max %d characters).", domain.MaxPronounsLen))
	}

	member, err := uc.requireMember(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := uc.members.SetPronouns(ctx, userID, pronouns); err != nil {
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to store pronouns"))
	}

	member.Pronouns = pronouns
	uc.applyNickname(ctx, userID, member.DisplayNickname())

	return fmt.Sprintf(
		"Successfully added your pronouns (%s) to your name in the server. "+
			"Thank you for making the server more inclusive!", pronouns), nil
}

func (uc *ProfileUsecase) SetMajor(ctx context.Context, userID, major string) (string, error) {
	major = strings.ToLower(strings.TrimSpace(major))
	if !uc.settings.MajorAllowed(major) {
		return "", domain.Validation(
			"Sorry, I don't recognize your major! Please refer to " +
				"https://catalog.registrar.ucla.edu/ for valid major names (e.g. Computer Science).")
	}

	if _, err := uc.requireMember(ctx, userID); err != nil {
		return "", err
	}

	if err := uc.members.SetMajor(ctx, userID, major); err != nil {
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to store major"))
	}

	return fmt.Sprintf("Successfully added your major (%s). Thank you!", major), nil
}

func (uc *ProfileUsecase) SetGradYear(ctx context.Context, userID, year string) (string, error) {
	if !domain.ValidGradYear(year) {
		return "", domain.Validation("Please enter a valid graduation year.")
	}

	if _, err := uc.requireMember(ctx, userID); err != nil {
		return "", err
	}

	if err := uc.members.SetGradYear(ctx, userID, year); err != nil {
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to store graduation year"))
	}

	return fmt.Sprintf("Successfully added your graduation year (%s). Thank you!", year), nil
}

func (uc *ProfileUsecase) ToggleTransfer(ctx context.Context, userID string) (string, error) {
	member, err := uc.requireMember(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := uc.members.SetTransfer(ctx, userID, !member.Transfer); err != nil {
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to store transfer flag"))
	}

	if member.Transfer {
		return "Successfully unmarked you as a transfer student. Thank you!", nil
	}
	return "Successfully marked you as a transfer student. Thank you!", nil
}

// Whoami returns the caller's own profile.
func (uc *ProfileUsecase) Whoami(ctx context.Context, userID string) (domain.Member, error) {
	member, err := uc.members.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Member{}, domain.NotFoundMsg(
				"Hmmm I'm really not sure myself but I'd love to get to know you! " +
					"Use `!iam <affiliation> <name> <ucla_email>` to verify your email address.")
		}
		return domain.Member{}, domain.Fault(pkgerrors.Wrap(err, "member lookup failed"))
	}
	return member, nil
}

// Lookup resolves a member by platform id or username#discriminator
// handle. Privileged.
func (uc *ProfileUsecase) Lookup(ctx context.Context, query string) (domain.Member, error) {
	var member domain.Member
	var err error
	switch {
	case handlePattern.MatchString(query):
		i := strings.LastIndex(query, "#")
		member, err = uc.members.GetByHandle(ctx, query[:i], query[i+1:])
	case idPattern.MatchString(query):
		member, err = uc.members.Get(ctx, query)
	default:
		return domain.Member{}, domain.Validation(
			"Invalid user format. Please supply either a user in <username>#<discriminator> format or a user ID")
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Member{}, domain.NotFoundMsg("User not found/verified.")
		}
		return domain.Member{}, domain.Fault(pkgerrors.Wrap(err, "member lookup failed"))
	}
	return member, nil
}

// Rename changes another member's nickname. Privileged.
func (uc *ProfileUsecase) Rename(ctx context.Context, targetID, nickname string) (string, error) {
	if len(nickname) > domain.MaxNicknameLen {
		return "", domain.Validation(fmt.Sprintf("Please enter a shorter name (max %d characters).", domain.MaxNicknameLen))
	}

	member, err := uc.members.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.NotFoundMsg("Invalid/unverified user.")
		}
		return "", domain.Fault(pkgerrors.Wrap(err, "member lookup failed"))
	}

	if err := uc.members.SetNickname(ctx, targetID, nickname); err != nil {
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to store nickname"))
	}

	old := member.Nickname
	member.Nickname = nickname
	if err := uc.directory.SetNickname(ctx, targetID, member.DisplayNickname()); err != nil {
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to set nickname"))
	}

	return fmt.Sprintf("Successfully changed: %s -> %s.", old, nickname), nil
}

func (uc *ProfileUsecase) requireMember(ctx context.Context, userID string) (domain.Member, error) {
	member, err := uc.members.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Member{}, domain.NotFoundMsg(unverifiedHint)
		}
		return domain.Member{}, domain.Fault(pkgerrors.Wrap(err, "member lookup failed"))
	}
	return member, nil
}

// applyNickname is best-effort: the platform rejects renames of
// members ranked above the bot.
func (uc *ProfileUsecase) applyNickname(ctx context.Context, userID, nickname string) {
	if err := uc.directory.SetNickname(ctx, userID, nickname); err != nil {
		slog.WarnContext(ctx, "failed to set nickname",
			slog.String("userid", userID),
			slog.String("error", err.Error()),
			slog.String("module", "profile"),
		)
	}
}
