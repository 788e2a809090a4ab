package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/uclaacm/bruinbot/internal/domain"
	"github.com/uclaacm/bruinbot/internal/infra/database/models"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func memberToDomain(m models.Member) domain.Member {
	return domain.Member{
		UserID:        m.UserID,
		Username:      m.Username,
		Discriminator: m.Discriminator,
		Nickname:      m.Nickname,
		Pronouns:      m.Pronouns,
		Email:         m.Email,
		Affiliation:   domain.Affiliation(m.Affiliation),
		Major:         m.Major,
		GradYear:      m.GradYear,
		Transfer:      m.Transfer,
		VerifiedAt:    m.VerifiedAt,
	}
}

func memberToModel(m domain.Member) models.Member {
	return models.Member{
		UserID:        m.UserID,
		Username:      m.Username,
		Discriminator: m.Discriminator,
		Nickname:      m.Nickname,
		Pronouns:      m.Pronouns,
		Email:         m.Email,
		Affiliation:   string(m.Affiliation),
		Major:         m.Major,
		GradYear:      m.GradYear,
		Transfer:      m.Transfer,
		VerifiedAt:    m.VerifiedAt,
	}
}

func (r *MemberRepository) Get(ctx context.Context, userID string) (domain.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Member{}, domain.NotFoundError{Resource: "member"}
		}
		return domain.Member{}, err
	}
	return memberToDomain(member), nil
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Member{}, domain.NotFoundError{Resource: "member"}
		}
		return domain.Member{}, err
	}
	return memberToDomain(member), nil
}

func (r *MemberRepository) GetByHandle(ctx context.Context, username, discriminator string) (domain.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("username = ? AND discriminator = ?", username, discriminator).
		Take(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Member{}, domain.NotFoundError{Resource: "member"}
		}
		return domain.Member{}, err
	}
	return memberToDomain(member), nil
}

func (r *MemberRepository) setColumn(ctx context.Context, userID, column string, value any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("user_id = ?", userID).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "member"}
	}
	return nil
}

func (r *MemberRepository) SetPronouns(ctx context.Context, userID, pronouns string) error {
	return r.setColumn(ctx, userID, "pronouns", pronouns)
}

func (r *MemberRepository) SetMajor(ctx context.Context, userID, major string) error {
	return r.setColumn(ctx, userID, "major", major)
}

func (r *MemberRepository) SetGradYear(ctx context.Context, userID, year string) error {
	return r.setColumn(ctx, userID, "grad_year", year)
}

func (r *MemberRepository) SetTransfer(ctx context.Context, userID string, transfer bool) error {
	return r.setColumn(ctx, userID, "transfer", transfer)
}

func (r *MemberRepository) SetNickname(ctx context.Context, userID, nickname string) error {
	return r.setColumn(ctx, userID, "nickname", nickname)
}

func (r *MemberRepository) SetAffiliation(ctx context.Context, userID string, affiliation domain.Affiliation) error {
	return r.setColumn(ctx, userID, "affiliation", string(affiliation))
}

func (r *MemberRepository) ListStudents(ctx context.Context) ([]domain.Member, error) {
	var rows []models.Member
	err := r.db.WithContext(ctx).
		Where("affiliation = ? AND grad_year <> ''", string(domain.AffiliationStudent)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, memberToDomain(row))
	}
	return members, nil
}
