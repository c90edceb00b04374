package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SleepSessionRepository interface {
	// GetActive returns the most recently started session without an end
	// time, or (nil, nil) when the user is not sleeping. There should be at
	// most one, but the query orders defensively by sleep_start.
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error)
	// GetLastCompleted returns the completed session with the latest
	// sleep_end, or (nil, nil) when none exists.
	GetLastCompleted(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error)
	Create(ctx context.Context, userID uuid.UUID, sleepStart time.Time) (*domain.SleepSession, error)
	// Complete sets sleep_end and the derived duration_hours.
	Complete(ctx context.Context, session *domain.SleepSession, sleepEnd time.Time) (*domain.SleepSession, error)
	// Delete removes a session entirely; used only for cancellation.
	Delete(ctx context.Context, session *domain.SleepSession) error
	SetQualityRating(ctx context.Context, session *domain.SleepSession, rating float64) (*domain.SleepSession, error)
	SetNote(ctx context.Context, session *domain.SleepSession, note string) (*domain.SleepSession, error)
	// ListRange returns sessions with sleep_start inside [start, end],
	// ascending by sleep_start.
	ListRange(ctx context.Context, userID uuid.UUID, start, end time.Time, completedOnly bool) ([]domain.SleepSession, error)
	// ListAll returns every session for the user, descending by sleep_start.
	ListAll(ctx context.Context, userID uuid.UUID, completedOnly bool) ([]domain.SleepSession, error)
	FirstSessionStart(ctx context.Context, userID uuid.UUID) (*time.Time, error)
	Aggregate(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*domain.Statistics, error)
}

type sleepSessionRepository struct {
	db *gorm.DB
}

func NewSleepSessionRepository(db *gorm.DB) SleepSessionRepository {
	return &sleepSessionRepository{db: db}
}

func (r *sleepSessionRepository) GetActive(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
	var session domain.SleepSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sleep_end IS NULL", userID).
		Order("sleep_start DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sleepSessionRepository) GetLastCompleted(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
	var session domain.SleepSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sleep_end IS NOT NULL", userID).
		Order("sleep_end DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sleepSessionRepository) Create(ctx context.Context, userID uuid.UUID, sleepStart time.Time) (*domain.SleepSession, error) {
	session := &domain.SleepSession{
		UserID:     userID,
		SleepStart: sleepStart.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sleepSessionRepository) Complete(ctx context.Context, session *domain.SleepSession, sleepEnd time.Time) (*domain.SleepSession, error) {
	end := sleepEnd.UTC()
	session.SleepEnd = &end
	session.DurationHours = session.CalculateDuration()
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sleepSessionRepository) Delete(ctx context.Context, session *domain.SleepSession) error {
	return r.db.WithContext(ctx).Delete(session).Error
}

func (r *sleepSessionRepository) SetQualityRating(ctx context.Context, session *domain.SleepSession, rating float64) (*domain.SleepSession, error) {
	session.QualityRating = &rating
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sleepSessionRepository) SetNote(ctx context.Context, session *domain.SleepSession, note string) (*domain.SleepSession, error) {
	session.Note = &note
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sleepSessionRepository) ListRange(ctx context.Context, userID uuid.UUID, start, end time.Time, completedOnly bool) ([]domain.SleepSession, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("sleep_start >= ? AND sleep_start <= ?", start, end)

	if completedOnly {
		query = query.Where("sleep_end IS NOT NULL")
	}

	var sessions []domain.SleepSession
	if err := query.Order("sleep_start ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sleepSessionRepository) ListAll(ctx context.Context, userID uuid.UUID, completedOnly bool) ([]domain.SleepSession, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if completedOnly {
		query = query.Where("sleep_end IS NOT NULL")
	}

	var sessions []domain.SleepSession
	if err := query.Order("sleep_start DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sleepSessionRepository) FirstSessionStart(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var session domain.SleepSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sleep_start ASC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session.SleepStart, nil
}

func (r *sleepSessionRepository) Aggregate(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*domain.Statistics, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND sleep_end IS NOT NULL", userID)

	if start != nil {
		query = query.Where("sleep_start >= ?", *start)
	}
	if end != nil {
		query = query.Where("sleep_start <= ?", *end)
	}

	var sessions []domain.SleepSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}

	return AggregateSessions(sessions), nil
}

// AggregateSessions computes summary statistics over completed sessions.
// Quality averages skip unrated sessions; an empty input yields all zeroes.
func AggregateSessions(sessions []domain.SleepSession) *domain.Statistics {
	stats := &domain.Statistics{}
	if len(sessions) == 0 {
		return stats
	}

	var totalDuration float64
	var qualitySum float64
	var qualityCount int

	for _, s := range sessions {
		if s.DurationHours != nil {
			totalDuration += *s.DurationHours
		}
		if s.QualityRating != nil {
			qualitySum += *s.QualityRating
			qualityCount++
		}
	}

	stats.TotalSessions = len(sessions)
	stats.AvgDuration = round2(totalDuration / float64(len(sessions)))
	stats.TotalSleepHours = round2(totalDuration)
	if qualityCount > 0 {
		stats.AvgQuality = round2(qualitySum / float64(qualityCount))
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
