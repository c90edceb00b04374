package service

import (
	"context"
	"strconv"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/blaisecz/sleep-bot/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	exportTimestampLayout = "2006-01-02 15:04:05"
	exportDateLayout      = "2006-01-02"

	// notAvailable marks missing ratings/notes in export rows.
	notAvailable = "N/A"
)

type StatisticsService interface {
	// GetStatistics aggregates completed sessions. start/end, when present,
	// are UTC instants already converted from the user's local range.
	// An empty range yields zeroed statistics, not an error.
	GetStatistics(ctx context.Context, user *domain.User, start, end *time.Time) (*domain.Statistics, error)
	// PrepareExportRows produces one row per completed session: ascending
	// by sleep_start when ranged, descending when exporting everything.
	PrepareExportRows(ctx context.Context, user *domain.User, start, end *time.Time) ([]domain.ExportRow, error)
	HasAnyData(ctx context.Context, user *domain.User) (bool, error)
}

type statisticsService struct {
	repo repository.SleepSessionRepository
	log  *logging.Logger
}

func NewStatisticsService(repo repository.SleepSessionRepository, log *logging.Logger) StatisticsService {
	return &statisticsService{repo: repo, log: log}
}

func (s *statisticsService) GetStatistics(ctx context.Context, user *domain.User, start, end *time.Time) (*domain.Statistics, error) {
	tracer := otel.Tracer("sleep-bot/statistics")
	ctx, span := tracer.Start(ctx, "StatisticsService.GetStatistics",
		trace.WithAttributes(attribute.String("user.id", user.ID.String())),
	)
	defer span.End()

	stats, err := s.repo.Aggregate(ctx, user.ID, start, end)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("stats.total_sessions", stats.TotalSessions),
		attribute.Float64("stats.total_sleep_hours", stats.TotalSleepHours),
	)
	s.log.Info("statistics_generated",
		"chat_id", user.ChatID,
		"total_sessions", stats.TotalSessions,
		"avg_duration", stats.AvgDuration,
	)
	return stats, nil
}

func (s *statisticsService) PrepareExportRows(ctx context.Context, user *domain.User, start, end *time.Time) ([]domain.ExportRow, error) {
	var sessions []domain.SleepSession
	var err error

	if start != nil && end != nil {
		sessions, err = s.repo.ListRange(ctx, user.ID, *start, *end, true)
	} else {
		sessions, err = s.repo.ListAll(ctx, user.ID, true)
	}
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ExportRow, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, exportRow(session))
	}

	s.log.Info("export_rows_prepared", "chat_id", user.ChatID, "records", len(rows))
	return rows, nil
}

func (s *statisticsService) HasAnyData(ctx context.Context, user *domain.User) (bool, error) {
	first, err := s.repo.FirstSessionStart(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return first != nil, nil
}

func exportRow(session domain.SleepSession) domain.ExportRow {
	row := domain.ExportRow{
		Date:          session.SleepStart.Format(exportDateLayout),
		SleepStart:    session.SleepStart.Format(exportTimestampLayout),
		SleepEnd:      notAvailable,
		QualityRating: notAvailable,
		Note:          notAvailable,
	}
	if session.SleepEnd != nil {
		row.SleepEnd = session.SleepEnd.Format(exportTimestampLayout)
	}
	if session.DurationHours != nil {
		row.DurationHours = *session.DurationHours
	}
	if session.QualityRating != nil {
		row.QualityRating = formatRating(*session.QualityRating)
	}
	if session.Note != nil {
		row.Note = *session.Note
	}
	return row
}

func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}
