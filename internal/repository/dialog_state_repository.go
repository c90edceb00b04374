package repository

import (
	"context"
	"errors"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DialogStateRepository interface {
	// Get returns the persisted dialog state for the user, or a zero-value
	// StepNone state when the user has no pending flow.
	Get(ctx context.Context, userID uuid.UUID) (*domain.DialogState, error)
	Put(ctx context.Context, userID uuid.UUID, step domain.DialogStep, payload string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type dialogStateRepository struct {
	db *gorm.DB
}

func NewDialogStateRepository(db *gorm.DB) DialogStateRepository {
	return &dialogStateRepository{db: db}
}

func (r *dialogStateRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.DialogState, error) {
	var state domain.DialogState
	err := r.db.WithContext(ctx).First(&state, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.DialogState{UserID: userID, Step: domain.StepNone}, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *dialogStateRepository) Put(ctx context.Context, userID uuid.UUID, step domain.DialogStep, payload string) error {
	state := domain.DialogState{UserID: userID, Step: step, Payload: payload}
	return r.db.WithContext(ctx).Save(&state).Error
}

func (r *dialogStateRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.DialogState{}, "user_id = ?", userID).Error
}
