package handler

import (
	"context"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/service"
	"github.com/google/uuid"
)

var (
	_ service.UserService       = (*MockUserService)(nil)
	_ service.SleepService      = (*MockSleepService)(nil)
	_ service.StatisticsService = (*MockStatisticsService)(nil)
)

// MockUserService is a mock implementation of service.UserService
type MockUserService struct {
	getOrCreateFunc        func(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, bool, error)
	getByChatIDFunc        func(ctx context.Context, chatID int64) (*domain.User, error)
	updateLanguageFunc     func(ctx context.Context, user *domain.User, languageCode string) (*domain.User, error)
	updateTimezoneFunc     func(ctx context.Context, user *domain.User, timezone string) (*domain.User, error)
	completeOnboardingFunc func(ctx context.Context, user *domain.User, goals *domain.SleepGoalsRequest) (*domain.User, error)
	updateSleepGoalsFunc   func(ctx context.Context, user *domain.User, goals *domain.SleepGoalsRequest) (*domain.User, error)
}

func (m *MockUserService) GetOrCreate(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, bool, error) {
	if m.getOrCreateFunc != nil {
		return m.getOrCreateFunc(ctx, req)
	}
	return &domain.User{ID: uuid.New(), ChatID: req.ChatID, LanguageCode: "en", Timezone: "UTC"}, true, nil
}

func (m *MockUserService) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	if m.getByChatIDFunc != nil {
		return m.getByChatIDFunc(ctx, chatID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (m *MockUserService) UpdateLanguage(ctx context.Context, user *domain.User, languageCode string) (*domain.User, error) {
	if m.updateLanguageFunc != nil {
		return m.updateLanguageFunc(ctx, user, languageCode)
	}
	user.LanguageCode = languageCode
	return user, nil
}

func (m *MockUserService) UpdateTimezone(ctx context.Context, user *domain.User, timezone string) (*domain.User, error) {
	if m.updateTimezoneFunc != nil {
		return m.updateTimezoneFunc(ctx, user, timezone)
	}
	user.Timezone = timezone
	return user, nil
}

func (m *MockUserService) CompleteOnboarding(ctx context.Context, user *domain.User, goals *domain.SleepGoalsRequest) (*domain.User, error) {
	if m.completeOnboardingFunc != nil {
		return m.completeOnboardingFunc(ctx, user, goals)
	}
	user.IsOnboarded = true
	return user, nil
}

func (m *MockUserService) UpdateSleepGoals(ctx context.Context, user *domain.User, goals *domain.SleepGoalsRequest) (*domain.User, error) {
	if m.updateSleepGoalsFunc != nil {
		return m.updateSleepGoalsFunc(ctx, user, goals)
	}
	return user, nil
}

// MockSleepService is a mock implementation of service.SleepService
type MockSleepService struct {
	getActiveFunc        func(ctx context.Context, user *domain.User) (*domain.SleepSession, error)
	getLastCompletedFunc func(ctx context.Context, user *domain.User) (*domain.SleepSession, error)
	startFunc            func(ctx context.Context, user *domain.User) (*domain.SleepSession, error)
	endFunc              func(ctx context.Context, user *domain.User) (*domain.SleepSession, error)
	cancelActiveFunc     func(ctx context.Context, user *domain.User) error
	resolveConflictFunc  func(ctx context.Context, user *domain.User, resolution service.ConflictResolution) (*domain.SleepSession, *domain.SleepSession, error)
	validateUpdateFunc   func(session *domain.SleepSession, field service.UpdateField, hasExisting bool) (service.UpdateDecision, float64)
	addQualityFunc       func(ctx context.Context, session *domain.SleepSession, rating float64) (*domain.SleepSession, error)
	addNoteFunc          func(ctx context.Context, session *domain.SleepSession, note string) (*domain.SleepSession, error)
	goalPercentageFunc   func(user *domain.User, session *domain.SleepSession) *int
	formatClockFunc      func(utc time.Time, user *domain.User) string
}

func (m *MockSleepService) GetActive(ctx context.Context, user *domain.User) (*domain.SleepSession, error) {
	if m.getActiveFunc != nil {
		return m.getActiveFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockSleepService) GetLastCompleted(ctx context.Context, user *domain.User) (*domain.SleepSession, error) {
	if m.getLastCompletedFunc != nil {
		return m.getLastCompletedFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockSleepService) Start(ctx context.Context, user *domain.User) (*domain.SleepSession, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx, user)
	}
	return activeSession(user), nil
}

func (m *MockSleepService) End(ctx context.Context, user *domain.User) (*domain.SleepSession, error) {
	if m.endFunc != nil {
		return m.endFunc(ctx, user)
	}
	return completedSession(user, 8), nil
}

func (m *MockSleepService) CancelActive(ctx context.Context, user *domain.User) error {
	if m.cancelActiveFunc != nil {
		return m.cancelActiveFunc(ctx, user)
	}
	return nil
}

func (m *MockSleepService) ResolveConflict(ctx context.Context, user *domain.User, resolution service.ConflictResolution) (*domain.SleepSession, *domain.SleepSession, error) {
	if m.resolveConflictFunc != nil {
		return m.resolveConflictFunc(ctx, user, resolution)
	}
	return completedSession(user, 8), activeSession(user), nil
}

func (m *MockSleepService) ValidateUpdate(session *domain.SleepSession, field service.UpdateField, hasExisting bool) (service.UpdateDecision, float64) {
	if m.validateUpdateFunc != nil {
		return m.validateUpdateFunc(session, field, hasExisting)
	}
	return service.DecisionAllow, 0
}

func (m *MockSleepService) AddQualityRating(ctx context.Context, session *domain.SleepSession, rating float64) (*domain.SleepSession, error) {
	if m.addQualityFunc != nil {
		return m.addQualityFunc(ctx, session, rating)
	}
	session.QualityRating = &rating
	return session, nil
}

func (m *MockSleepService) AddNote(ctx context.Context, session *domain.SleepSession, note string) (*domain.SleepSession, error) {
	if m.addNoteFunc != nil {
		return m.addNoteFunc(ctx, session, note)
	}
	session.Note = &note
	return session, nil
}

func (m *MockSleepService) GoalPercentage(user *domain.User, session *domain.SleepSession) *int {
	if m.goalPercentageFunc != nil {
		return m.goalPercentageFunc(user, session)
	}
	return nil
}

func (m *MockSleepService) FormatClock(utc time.Time, user *domain.User) string {
	if m.formatClockFunc != nil {
		return m.formatClockFunc(utc, user)
	}
	return utc.Format("15:04")
}

// MockStatisticsService is a mock implementation of service.StatisticsService
type MockStatisticsService struct {
	getStatisticsFunc func(ctx context.Context, user *domain.User, start, end *time.Time) (*domain.Statistics, error)
	prepareExportFunc func(ctx context.Context, user *domain.User, start, end *time.Time) ([]domain.ExportRow, error)
	hasAnyDataFunc    func(ctx context.Context, user *domain.User) (bool, error)
}

func (m *MockStatisticsService) GetStatistics(ctx context.Context, user *domain.User, start, end *time.Time) (*domain.Statistics, error) {
	if m.getStatisticsFunc != nil {
		return m.getStatisticsFunc(ctx, user, start, end)
	}
	return &domain.Statistics{}, nil
}

func (m *MockStatisticsService) PrepareExportRows(ctx context.Context, user *domain.User, start, end *time.Time) ([]domain.ExportRow, error) {
	if m.prepareExportFunc != nil {
		return m.prepareExportFunc(ctx, user, start, end)
	}
	return nil, nil
}

func (m *MockStatisticsService) HasAnyData(ctx context.Context, user *domain.User) (bool, error) {
	if m.hasAnyDataFunc != nil {
		return m.hasAnyDataFunc(ctx, user)
	}
	return false, nil
}

func activeSession(user *domain.User) *domain.SleepSession {
	return &domain.SleepSession{
		ID:         uuid.New(),
		UserID:     user.ID,
		SleepStart: time.Now().UTC(),
	}
}

func completedSession(user *domain.User, hours float64) *domain.SleepSession {
	end := time.Now().UTC()
	start := end.Add(-time.Duration(hours * float64(time.Hour)))
	session := &domain.SleepSession{
		ID:         uuid.New(),
		UserID:     user.ID,
		SleepStart: start,
		SleepEnd:   &end,
	}
	session.DurationHours = session.CalculateDuration()
	return session
}
