package service

import (
	"context"
	"testing"
	"time"

	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/google/uuid"
)

func seedCompleted(t *testing.T, repo *MockSleepSessionRepository, userID uuid.UUID, start time.Time, hours float64, rating *float64, note *string) {
	t.Helper()
	session, err := repo.Create(context.Background(), userID, start)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	if _, err := repo.Complete(context.Background(), session, end); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	session.QualityRating = rating
	session.Note = note
}

func TestGetStatistics(t *testing.T) {
	repo := NewMockSleepSessionRepository()
	svc := NewStatisticsService(repo, logging.NewNop())
	user := testUser()

	t.Run("no data yields zeroed statistics", func(t *testing.T) {
		stats, err := svc.GetStatistics(context.Background(), user, nil, nil)
		if err != nil {
			t.Fatalf("GetStatistics() error = %v", err)
		}
		if stats.TotalSessions != 0 || stats.TotalSleepHours != 0 {
			t.Errorf("stats = %+v, want zeroes", stats)
		}
	})

	rating := func(v float64) *float64 { return &v }
	base := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	seedCompleted(t, repo, user.ID, base, 8.0, rating(7), nil)
	seedCompleted(t, repo, user.ID, base.AddDate(0, 0, 1), 6.0, nil, nil)
	seedCompleted(t, repo, user.ID, base.AddDate(0, 0, 2), 7.0, rating(9), nil)

	t.Run("aggregates all completed sessions", func(t *testing.T) {
		stats, err := svc.GetStatistics(context.Background(), user, nil, nil)
		if err != nil {
			t.Fatalf("GetStatistics() error = %v", err)
		}
		if stats.TotalSessions != 3 {
			t.Errorf("TotalSessions = %d, want 3", stats.TotalSessions)
		}
		if stats.TotalSleepHours != 21.0 {
			t.Errorf("TotalSleepHours = %v, want 21.0", stats.TotalSleepHours)
		}
		if stats.AvgDuration != 7.0 {
			t.Errorf("AvgDuration = %v, want 7.0", stats.AvgDuration)
		}
		// Quality averages only the rated sessions.
		if stats.AvgQuality != 8.0 {
			t.Errorf("AvgQuality = %v, want 8.0", stats.AvgQuality)
		}
	})

	t.Run("range bounds the aggregation", func(t *testing.T) {
		start := base.AddDate(0, 0, 1).Add(-time.Hour)
		end := base.AddDate(0, 0, 1).Add(time.Hour)
		stats, err := svc.GetStatistics(context.Background(), user, &start, &end)
		if err != nil {
			t.Fatalf("GetStatistics() error = %v", err)
		}
		if stats.TotalSessions != 1 {
			t.Errorf("TotalSessions = %d, want 1", stats.TotalSessions)
		}
		if stats.AvgDuration != 6.0 {
			t.Errorf("AvgDuration = %v, want 6.0", stats.AvgDuration)
		}
	})
}

func TestPrepareExportRows(t *testing.T) {
	repo := NewMockSleepSessionRepository()
	svc := NewStatisticsService(repo, logging.NewNop())
	user := testUser()

	rating := 7.5
	note := "slept well"
	base := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	seedCompleted(t, repo, user.ID, base, 8.0, &rating, &note)
	seedCompleted(t, repo, user.ID, base.AddDate(0, 0, 1), 6.5, nil, nil)

	t.Run("unranged export is newest first", func(t *testing.T) {
		rows, err := svc.PrepareExportRows(context.Background(), user, nil, nil)
		if err != nil {
			t.Fatalf("PrepareExportRows() error = %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("rows = %d, want 2", len(rows))
		}
		if rows[0].Date != "2025-06-02" || rows[1].Date != "2025-06-01" {
			t.Errorf("order = [%s, %s], want newest first", rows[0].Date, rows[1].Date)
		}
	})

	t.Run("ranged export is oldest first", func(t *testing.T) {
		start := base.Add(-time.Hour)
		end := base.AddDate(0, 0, 2)
		rows, err := svc.PrepareExportRows(context.Background(), user, &start, &end)
		if err != nil {
			t.Fatalf("PrepareExportRows() error = %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("rows = %d, want 2", len(rows))
		}
		if rows[0].Date != "2025-06-01" || rows[1].Date != "2025-06-02" {
			t.Errorf("order = [%s, %s], want oldest first", rows[0].Date, rows[1].Date)
		}
	})

	t.Run("row formatting and missing value sentinels", func(t *testing.T) {
		rows, err := svc.PrepareExportRows(context.Background(), user, nil, nil)
		if err != nil {
			t.Fatalf("PrepareExportRows() error = %v", err)
		}

		rated := rows[1]
		if rated.SleepStart != "2025-06-01 23:30:00" {
			t.Errorf("SleepStart = %q, want %q", rated.SleepStart, "2025-06-01 23:30:00")
		}
		if rated.SleepEnd != "2025-06-02 07:30:00" {
			t.Errorf("SleepEnd = %q, want %q", rated.SleepEnd, "2025-06-02 07:30:00")
		}
		if rated.DurationHours != 8.0 {
			t.Errorf("DurationHours = %v, want 8.0", rated.DurationHours)
		}
		if rated.QualityRating != "7.5" {
			t.Errorf("QualityRating = %q, want %q", rated.QualityRating, "7.5")
		}
		if rated.Note != "slept well" {
			t.Errorf("Note = %q, want %q", rated.Note, "slept well")
		}

		unrated := rows[0]
		if unrated.QualityRating != "N/A" {
			t.Errorf("QualityRating = %q, want N/A", unrated.QualityRating)
		}
		if unrated.Note != "N/A" {
			t.Errorf("Note = %q, want N/A", unrated.Note)
		}
	})
}

func TestHasAnyData(t *testing.T) {
	repo := NewMockSleepSessionRepository()
	svc := NewStatisticsService(repo, logging.NewNop())
	user := testUser()

	ok, err := svc.HasAnyData(context.Background(), user)
	if err != nil {
		t.Fatalf("HasAnyData() error = %v", err)
	}
	if ok {
		t.Error("HasAnyData() = true for empty history")
	}

	seedCompleted(t, repo, user.ID, time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC), 8, nil, nil)
	ok, err = svc.HasAnyData(context.Background(), user)
	if err != nil {
		t.Fatalf("HasAnyData() error = %v", err)
	}
	if !ok {
		t.Error("HasAnyData() = false with a completed session")
	}
}
