package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/uclaacm/bruinbot"
	"github.com/uclaacm/bruinbot/internal/domain"
)

// AuditUsecase promotes students past their graduation year to
// alumni. Triggered manually, never scheduled.
type AuditUsecase struct {
	members   MemberRepository
	directory Directory
	signal    EventPublisher
	settings  domain.Settings
}

func NewAuditUsecase(members MemberRepository, directory Directory, signal EventPublisher, settings domain.Settings) *AuditUsecase {
	return &AuditUsecase{members: members, directory: directory, signal: signal, settings: settings}
}

// Run sweeps all students whose graduation year is at or before the
// cutoff. The class graduating this calendar year is swept from June
// onward; before June the previous year's class is the cutoff.
func (uc *AuditUsecase) Run(ctx context.Context, auditDate time.Time) (string, error) {
	ctx, span := tracer.Start(ctx, "Audit.Run")
	defer span.End()

	cutoff := auditDate.Year()
	if auditDate.Month() < time.June {
		cutoff--
	}

	students, err := uc.members.ListStudents(ctx)
	if err != nil {
		span.RecordError(err)
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to list students"))
	}

	updated := 0
	for _, member := range students {
		year, err := strconv.Atoi(member.GradYear)
		if err != nil || year > cutoff {
			continue
		}

		roles, err := uc.directory.MemberRoles(ctx, member.UserID)
		if err != nil {
			span.RecordError(err)
			return "", domain.Fault(pkgerrors.Wrapf(err, "failed to fetch roles for %s", member.UserID))
		}

		if err := uc.directory.AddRoles(ctx, member.UserID, uc.settings.Roles.Alumni); err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "failed to add alumni role"))
		}
		if containsRole(roles, uc.settings.Roles.Student) {
			if err := uc.directory.RemoveRoles(ctx, member.UserID, uc.settings.Roles.Student); err != nil {
				return "", domain.Fault(pkgerrors.Wrap(err, "failed to remove student role"))
			}
		}
		if containsRole(roles, uc.settings.Roles.Officer) {
			if err := uc.directory.RemoveRoles(ctx, member.UserID, uc.settings.Roles.Officer); err != nil {
				return "", domain.Fault(pkgerrors.Wrap(err, "failed to remove officer role"))
			}
			if err := uc.directory.AddRoles(ctx, member.UserID, uc.settings.Roles.AlumniOfficer); err != nil {
				return "", domain.Fault(pkgerrors.Wrap(err, "failed to add alumni officer role"))
			}
		}

		if err := uc.members.SetAffiliation(ctx, member.UserID, domain.AffiliationAlumni); err != nil {
			span.RecordError(err)
			return "", domain.Fault(pkgerrors.Wrapf(err, "failed to update affiliation for %s", member.UserID))
		}

		if uc.signal != nil {
			event := bruinbot.Event{
				Type:        bruinbot.EventMemberAudited,
				UserID:      member.UserID,
				Nickname:    member.Nickname,
				Affiliation: string(domain.AffiliationAlumni),
				Timestamp:   auditDate,
			}
			if err := uc.signal.Publish(ctx, event); err != nil {
				slog.WarnContext(ctx, "failed to publish event",
					slog.String("error", err.Error()),
					slog.String("module", "audit"),
				)
			}
		}

		updated++
	}

	if updated == 0 {
		return "Audit successful. No users to update. Thank you!", nil
	}
	plural := "s"
	if updated == 1 {
		plural = ""
	}
	return fmt.Sprintf("Audit successful. Updated %d user%s. Thank you!", updated, plural), nil
}

func containsRole(roles []string, name string) bool {
	for _, role := range roles {
		if role == name {
			return true
		}
	}
	return false
}
