package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/blaisecz/sleep-bot/internal/repository"
	"github.com/google/uuid"
)

type UserService interface {
	// GetOrCreate looks a user up by chat id, creating one with defaults on
	// first contact. Returns (user, created, error).
	GetOrCreate(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, bool, error)
	// GetByChatID returns ErrNotFound for unknown chat ids.
	GetByChatID(ctx context.Context, chatID int64) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateLanguage(ctx context.Context, user *domain.User, languageCode string) (*domain.User, error)
	UpdateTimezone(ctx context.Context, user *domain.User, timezone string) (*domain.User, error)
	// CompleteOnboarding stores sleep goals and flips is_onboarded.
	CompleteOnboarding(ctx context.Context, user *domain.User, goals *domain.SleepGoalsRequest) (*domain.User, error)
	UpdateSleepGoals(ctx context.Context, user *domain.User, goals *domain.SleepGoalsRequest) (*domain.User, error)
}

type userService struct {
	repo repository.UserRepository
	log  *logging.Logger

	defaultLanguage string
	defaultTimezone string
}

func NewUserService(repo repository.UserRepository, defaultLanguage, defaultTimezone string, log *logging.Logger) UserService {
	if !domain.IsSupportedLanguage(defaultLanguage) {
		defaultLanguage = domain.DefaultLanguage
	}
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}
	return &userService{repo: repo, log: log, defaultLanguage: defaultLanguage, defaultTimezone: defaultTimezone}
}

func (s *userService) GetOrCreate(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, bool, error) {
	existing, err := s.repo.GetByChatID(ctx, req.ChatID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	lang := req.LanguageCode
	if !domain.IsSupportedLanguage(lang) {
		lang = s.defaultLanguage
	}
	tz := req.Timezone
	if tz == "" {
		tz = s.defaultTimezone
	}

	user := &domain.User{
		ID:           uuid.New(),
		ChatID:       req.ChatID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LanguageCode: lang,
		Timezone:     tz,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, false, err
	}

	s.log.Info("user_created", "chat_id", user.ChatID, "language", user.LanguageCode)
	return user, true, nil
}

func (s *userService) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	user, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) UpdateLanguage(ctx context.Context, user *domain.User, languageCode string) (*domain.User, error) {
	if !domain.IsSupportedLanguage(languageCode) {
		return nil, fmt.Errorf("%w: unsupported language %q", domain.ErrInvalidInput, languageCode)
	}
	user.LanguageCode = languageCode
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateTimezone(ctx context.Context, user *domain.User, timezone string) (*domain.User, error) {
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("%w: invalid timezone %q", domain.ErrInvalidInput, timezone)
	}
	user.Timezone = timezone
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) CompleteOnboarding(ctx context.Context, user *domain.User, goals *domain.SleepGoalsRequest) (*domain.User, error) {
	if err := s.applyGoals(user, goals); err != nil {
		return nil, err
	}
	user.IsOnboarded = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("onboarding_completed", "chat_id", user.ChatID, "has_goals", user.HasSleepGoals())
	return user, nil
}

func (s *userService) UpdateSleepGoals(ctx context.Context, user *domain.User, goals *domain.SleepGoalsRequest) (*domain.User, error) {
	if err := s.applyGoals(user, goals); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) applyGoals(user *domain.User, goals *domain.SleepGoalsRequest) error {
	if goals == nil {
		return nil
	}
	if goals.TargetSleepHours != nil && (*goals.TargetSleepHours < 1 || *goals.TargetSleepHours > 24) {
		return fmt.Errorf("%w: target sleep hours must be between 1 and 24", domain.ErrInvalidInput)
	}
	if goals.TargetBedtime != nil {
		user.TargetBedtime = goals.TargetBedtime
	}
	if goals.TargetWakeTime != nil {
		user.TargetWakeTime = goals.TargetWakeTime
	}
	if goals.TargetSleepHours != nil {
		user.TargetSleepHours = goals.TargetSleepHours
	}
	return nil
}
