package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/uclaacm/bruinbot/internal/domain"
	"github.com/uclaacm/bruinbot/internal/infra/database/models"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountMembers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&count).Error
	return count, err
}

func (r *StatsRepository) CountTransfers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("transfer = ?", true).
		Count(&count).Error
	return count, err
}

func (r *StatsRepository) groupBy(ctx context.Context, column string) ([]domain.StatRow, error) {
	var rows []domain.StatRow
	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Select(column+" as label, count(*) as count").
		Where(column+" <> ''").
		Group(column).
		Order("count desc, label asc").
		Scan(&rows).Error
	return rows, err
}

func (r *StatsRepository) CountByMajor(ctx context.Context) ([]domain.StatRow, error) {
	return r.groupBy(ctx, "major")
}

func (r *StatsRepository) CountByGradYear(ctx context.Context) ([]domain.StatRow, error) {
	return r.groupBy(ctx, "grad_year")
}

func (r *StatsRepository) CountByAffiliation(ctx context.Context) ([]domain.StatRow, error) {
	return r.groupBy(ctx, "affiliation")
}
