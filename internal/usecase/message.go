package usecase

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/uclaacm/bruinbot/internal/domain"
)

// MessageUsecase serves the named message templates (welcome text
// and friends) that moderators can edit at runtime.
type MessageUsecase struct {
	repo MessageRepository
}

func NewMessageUsecase(repo MessageRepository) *MessageUsecase {
	return &MessageUsecase{repo: repo}
}

func (uc *MessageUsecase) Get(ctx context.Context, id string) (string, error) {
	message, err := uc.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.NotFoundMsg(fmt.Sprintf("Message type: %s not found", id))
		}
		return "", domain.Fault(pkgerrors.Wrap(err, "message lookup failed"))
	}
	return message, nil
}

func (uc *MessageUsecase) Set(ctx context.Context, id, message string) (string, error) {
	if err := uc.repo.Set(ctx, id, message); err != nil {
		return "", domain.Fault(pkgerrors.Wrap(err, "failed to store message"))
	}
	return fmt.Sprintf("Successfully changed the %s message!", id), nil
}
