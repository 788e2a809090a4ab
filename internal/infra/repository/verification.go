package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uclaacm/bruinbot/internal/domain"
	"github.com/uclaacm/bruinbot/internal/infra/database/models"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Upsert(ctx context.Context, pending domain.PendingVerification) error {
	row := models.PendingVerification{
		UserID:      pending.UserID,
		Email:       pending.Email,
		Nickname:    pending.Nickname,
		Affiliation: string(pending.Affiliation),
		Code:        pending.Code,
		ExpiresAt:   pending.ExpiresAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "nickname", "affiliation", "code", "expires_at"}),
	}).Create(&row).Error
}

func (r *VerificationRepository) Find(ctx context.Context, userID, code string, now time.Time) (domain.PendingVerification, error) {
	var row models.PendingVerification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND expires_at > ?", userID, code, now).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PendingVerification{}, domain.NotFoundError{Resource: "verification code"}
		}
		return domain.PendingVerification{}, err
	}
	return domain.PendingVerification{
		UserID:      row.UserID,
		Email:       row.Email,
		Nickname:    row.Nickname,
		Affiliation: domain.Affiliation(row.Affiliation),
		Code:        row.Code,
		ExpiresAt:   row.ExpiresAt,
	}, nil
}

// Commit consumes the pending row and lands the member in one
// transaction. The email check runs inside the transaction so two
// concurrent redemptions of the same address cannot both succeed.
func (r *VerificationRepository) Commit(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PendingVerification{}, "user_id = ?", member.UserID).Error; err != nil {
			return err
		}

		var taken int64
		err := tx.Model(&models.Member{}).
			Where("email = ? AND user_id <> ?", member.Email, member.UserID).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrEmailTaken
		}

		row := memberToModel(member)
		// Pronouns and profile fields survive re-verification; only
		// identity columns are refreshed on conflict.
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "discriminator", "nickname", "email", "affiliation"}),
		}).Create(&row).Error
	})
}
