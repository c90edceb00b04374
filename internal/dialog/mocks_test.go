package dialog

import (
	"context"
	"sort"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/repository"
	"github.com/google/uuid"
)

// memSleepSessionRepository backs the real services with an in-memory store
// so engine tests exercise the full command-to-reply path.
type memSleepSessionRepository struct {
	sessions map[uuid.UUID]*domain.SleepSession
}

func newMemSleepSessionRepository() *memSleepSessionRepository {
	return &memSleepSessionRepository{sessions: make(map[uuid.UUID]*domain.SleepSession)}
}

func (m *memSleepSessionRepository) GetActive(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
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

func (m *memSleepSessionRepository) GetLastCompleted(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
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

func (m *memSleepSessionRepository) Create(ctx context.Context, userID uuid.UUID, sleepStart time.Time) (*domain.SleepSession, error) {
	session := &domain.SleepSession{ID: uuid.New(), UserID: userID, SleepStart: sleepStart.UTC()}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *memSleepSessionRepository) Complete(ctx context.Context, session *domain.SleepSession, sleepEnd time.Time) (*domain.SleepSession, error) {
	end := sleepEnd.UTC()
	session.SleepEnd = &end
	session.DurationHours = session.CalculateDuration()
	m.sessions[session.ID] = session
	return session, nil
}

func (m *memSleepSessionRepository) Delete(ctx context.Context, session *domain.SleepSession) error {
	delete(m.sessions, session.ID)
	return nil
}

func (m *memSleepSessionRepository) SetQualityRating(ctx context.Context, session *domain.SleepSession, rating float64) (*domain.SleepSession, error) {
	session.QualityRating = &rating
	m.sessions[session.ID] = session
	return session, nil
}

func (m *memSleepSessionRepository) SetNote(ctx context.Context, session *domain.SleepSession, note string) (*domain.SleepSession, error) {
	session.Note = &note
	m.sessions[session.ID] = session
	return session, nil
}

func (m *memSleepSessionRepository) ListRange(ctx context.Context, userID uuid.UUID, start, end time.Time, completedOnly bool) ([]domain.SleepSession, error) {
	var result []domain.SleepSession
	for _, s := range m.sessions {
		if s.UserID != userID || (completedOnly && s.SleepEnd == nil) {
			continue
		}
		if s.SleepStart.Before(start) || s.SleepStart.After(end) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SleepStart.Before(result[j].SleepStart) })
	return result, nil
}

func (m *memSleepSessionRepository) ListAll(ctx context.Context, userID uuid.UUID, completedOnly bool) ([]domain.SleepSession, error) {
	var result []domain.SleepSession
	for _, s := range m.sessions {
		if s.UserID != userID || (completedOnly && s.SleepEnd == nil) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SleepStart.After(result[j].SleepStart) })
	return result, nil
}

func (m *memSleepSessionRepository) FirstSessionStart(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
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

func (m *memSleepSessionRepository) Aggregate(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*domain.Statistics, error) {
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

type memUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepository) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	for _, user := range m.users {
		if user.ChatID == chatID {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

type memDialogStateRepository struct {
	states map[uuid.UUID]*domain.DialogState
}

func newMemDialogStateRepository() *memDialogStateRepository {
	return &memDialogStateRepository{states: make(map[uuid.UUID]*domain.DialogState)}
}

func (m *memDialogStateRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.DialogState, error) {
	state, ok := m.states[userID]
	if !ok {
		return &domain.DialogState{UserID: userID, Step: domain.StepNone}, nil
	}
	return state, nil
}

func (m *memDialogStateRepository) Put(ctx context.Context, userID uuid.UUID, step domain.DialogStep, payload string) error {
	m.states[userID] = &domain.DialogState{UserID: userID, Step: step, Payload: payload}
	return nil
}

func (m *memDialogStateRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	delete(m.states, userID)
	return nil
}
