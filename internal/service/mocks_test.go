package service

import (
	"context"
	"sort"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/repository"
	"github.com/google/uuid"
)

// MockSleepSessionRepository is an in-memory SleepSessionRepository
type MockSleepSessionRepository struct {
	sessions map[uuid.UUID]*domain.SleepSession
	err      error
}

func NewMockSleepSessionRepository() *MockSleepSessionRepository {
	return &MockSleepSessionRepository{
		sessions: make(map[uuid.UUID]*domain.SleepSession),
	}
}

func (m *MockSleepSessionRepository) GetActive(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	var latest *domain.SleepSession
	for _, s := range m.sessions {
		if s.UserID != userID || s.SleepEnd != nil {
			continue
		}
		if latest == nil || s.SleepStart.After(latest.SleepStart) {
			latest = s
		}
	}
	return latest, nil
}

func (m *MockSleepSessionRepository) GetLastCompleted(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	var latest *domain.SleepSession
	for _, s := range m.sessions {
		if s.UserID != userID || s.SleepEnd == nil {
			continue
		}
		if latest == nil || s.SleepEnd.After(*latest.SleepEnd) {
			latest = s
		}
	}
	return latest, nil
}

func (m *MockSleepSessionRepository) Create(ctx context.Context, userID uuid.UUID, sleepStart time.Time) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	session := &domain.SleepSession{
		ID:         uuid.New(),
		UserID:     userID,
		SleepStart: sleepStart.UTC(),
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MockSleepSessionRepository) Complete(ctx context.Context, session *domain.SleepSession, sleepEnd time.Time) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	end := sleepEnd.UTC()
	session.SleepEnd = &end
	session.DurationHours = session.CalculateDuration()
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MockSleepSessionRepository) Delete(ctx context.Context, session *domain.SleepSession) error {
	if m.err != nil {
		return m.err
	}
	delete(m.sessions, session.ID)
	return nil
}

func (m *MockSleepSessionRepository) SetQualityRating(ctx context.Context, session *domain.SleepSession, rating float64) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	session.QualityRating = &rating
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MockSleepSessionRepository) SetNote(ctx context.Context, session *domain.SleepSession, note string) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	session.Note = &note
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MockSleepSessionRepository) ListRange(ctx context.Context, userID uuid.UUID, start, end time.Time, completedOnly bool) ([]domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.SleepSession
	for _, s := range m.sessions {
		if s.UserID != userID {
			continue
		}
		if completedOnly && s.SleepEnd == nil {
			continue
		}
		if s.SleepStart.Before(start) || s.SleepStart.After(end) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SleepStart.Before(result[j].SleepStart)
	})
	return result, nil
}

func (m *MockSleepSessionRepository) ListAll(ctx context.Context, userID uuid.UUID, completedOnly bool) ([]domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.SleepSession
	for _, s := range m.sessions {
		if s.UserID != userID {
			continue
		}
		if completedOnly && s.SleepEnd == nil {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SleepStart.After(result[j].SleepStart)
	})
	return result, nil
}

func (m *MockSleepSessionRepository) FirstSessionStart(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	var first *time.Time
	for _, s := range m.sessions {
		if s.UserID != userID {
			continue
		}
		if first == nil || s.SleepStart.Before(*first) {
			t := s.SleepStart
			first = &t
		}
	}
	return first, nil
}

func (m *MockSleepSessionRepository) Aggregate(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*domain.Statistics, error) {
	if m.err != nil {
		return nil, m.err
	}
	var sessions []domain.SleepSession
	var err error
	if start != nil && end != nil {
		sessions, err = m.ListRange(ctx, userID, *start, *end, true)
	} else {
		sessions, err = m.ListAll(ctx, userID, true)
	}
	if err != nil {
		return nil, err
	}
	return repository.AggregateSessions(sessions), nil
}

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	users map[uuid.UUID]*domain.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, user := range m.users {
		if user.ChatID == chatID {
			return user, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	m.users[user.ID] = user
	return nil
}
