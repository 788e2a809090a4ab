package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/uclaacm/bruinbot/internal/domain"
)

var (
	handlePattern = regexp.MustCompile(`^.+#[0-9]{4}$`)
	idPattern     = regexp.MustCompile(`^[0-9]+$`)
)

// RoleUsecase toggles committee officer/intern roles. A member holds
// the base role ("ACM Officer"/"ACM Intern") if and only if it holds
// at least one committee-specific role of that tier; every toggle
// preserves this invariant, and one branch repairs it.
type RoleUsecase struct {
	members   MemberRepository
	directory Directory
	settings  domain.Settings
}

func NewRoleUsecase(members MemberRepository, directory Directory, settings domain.Settings) *RoleUsecase {
	return &RoleUsecase{members: members, directory: directory, settings: settings}
}

func (uc *RoleUsecase) ToggleOfficer(ctx context.Context, actorID, target string) (string, error) {
	return uc.toggle(ctx, actorID, target, domain.TierOfficer)
}

func (uc *RoleUsecase) ToggleIntern(ctx context.Context, actorID, target string) (string, error) {
	return uc.toggle(ctx, actorID, target, domain.TierIntern)
}

func (uc *RoleUsecase) toggle(ctx context.Context, actorID, target string, tier domain.Tier) (string, error) {
	ctx, span := tracer.Start(ctx, "Role.Toggle")
	defer span.End()

	actorRoles, err := uc.directory.MemberRoles(ctx, actorID)
	if err != nil {
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to fetch actor roles"))
	}

	// Authority is derived from the actor's own roles: PVP scopes
	// the Board committee, otherwise the actor's officer role names
	// the committee.
	committee, ok := uc.actorCommittee(actorRoles)
	if !ok {
		return "", domain.Unauthorized(
			"Action not permitted. If you are a committee president, make sure that you " +
				"also have a committee officer role before running this command.")
	}

	committeeRole := domain.CommitteeRole(committee, tier)
	baseRole := domain.BaseRole(tier)

	targetID, err := uc.resolveTarget(ctx, target)
	if err != nil {
		return "", err
	}

	targetRoles, err := uc.directory.MemberRoles(ctx, targetID)
	if err != nil {
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to fetch member"))
	}

	hasBase := false
	hasCommittee := false
	hasOther := false
	for _, role := range targetRoles {
		switch {
		case role == baseRole:
			hasBase = true
		case role == committeeRole:
			hasCommittee = true
		case !hasOther && uc.isCommitteeRole(role, tier):
			hasOther = true
		}
	}

	switch {
	case hasBase && hasCommittee && hasOther:
		if err := uc.directory.RemoveRoles(ctx, targetID, committeeRole); err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "failed to remove role"))
		}
		return fmt.Sprintf("Removed role %s from user %s.", committeeRole, target), nil

	case hasBase && hasCommittee:
		if err := uc.directory.RemoveRoles(ctx, targetID, committeeRole, baseRole); err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "failed to remove roles"))
		}
		return fmt.Sprintf("Removed roles %s and %s from user %s.", baseRole, committeeRole, target), nil

	case hasBase:
		if err := uc.directory.AddRoles(ctx, targetID, committeeRole); err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "failed to add role"))
		}
		return fmt.Sprintf("Assigned role %s to user %s.", committeeRole, target), nil

	case hasCommittee:
		// Base role missing while a committee role is present:
		// restore the invariant.
		if err := uc.directory.AddRoles(ctx, targetID, baseRole); err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "failed to add role"))
		}
		return fmt.Sprintf("Assigned role %s to user %s.", baseRole, target), nil

	default:
		if err := uc.directory.AddRoles(ctx, targetID, baseRole, committeeRole); err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "failed to add roles"))
		}
		return fmt.Sprintf("Assigned roles %s and %s to user %s.", baseRole, committeeRole, target), nil
	}
}

func (uc *RoleUsecase) actorCommittee(roles []string) (string, bool) {
	for _, role := range roles {
		if role == uc.settings.Roles.PVP {
			return domain.BoardCommittee, true
		}
	}
	for _, role := range roles {
		for _, committee := range uc.settings.Committees {
			if role == domain.CommitteeRole(committee, domain.TierOfficer) {
				return committee, true
			}
		}
	}
	return "", false
}

func (uc *RoleUsecase) isCommitteeRole(role string, tier domain.Tier) bool {
	for _, committee := range uc.settings.Committees {
		if role == domain.CommitteeRole(committee, tier) {
			return true
		}
	}
	return false
}

// resolveTarget translates a platform id or a username#discriminator
// handle into a stable member id.
func (uc *RoleUsecase) resolveTarget(ctx context.Context, target string) (string, error) {
	if handlePattern.MatchString(target) {
		i := strings.LastIndex(target, "#")
		member, err := uc.members.GetByHandle(ctx, target[:i], target[i+1:])
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", domain.NotFoundMsg("Invalid/unverified user.")
			}
			return "", domain.Fault(pkgerrors.Wrap(err, "member lookup failed"))
		}
		return member.UserID, nil
	}
	if idPattern.MatchString(target) {
		return target, nil
	}
	return "", domain.Validation(
		"Invalid user format. Please supply either a user in <username>#<discriminator> format or a user ID")
}
