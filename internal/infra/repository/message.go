package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uclaacm/bruinbot/internal/domain"
	"github.com/uclaacm/bruinbot/internal/infra/database/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Get(ctx context.Context, id string) (string, error) {
	var row models.Message
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.NotFoundError{Resource: "message"}
		}
		return "", err
	}
	return row.Message, nil
}

func (r *MessageRepository) Set(ctx context.Context, id, message string) error {
	row := models.Message{ID: id, Message: message}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"message"}),
	}).Create(&row).Error
}
