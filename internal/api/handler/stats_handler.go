package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/export"
	"github.com/blaisecz/sleep-bot/internal/service"
	"github.com/blaisecz/sleep-bot/pkg/problem"
	"github.com/blaisecz/sleep-bot/pkg/timeutil"
)

const dateParamLayout = "2006-01-02"

type StatsHandler struct {
	users service.UserService
	stats service.StatisticsService
	tz    *timeutil.Converter
}

func NewStatsHandler(users service.UserService, stats service.StatisticsService, tz *timeutil.Converter) *StatsHandler {
	return &StatsHandler{users: users, stats: stats, tz: tz}
}

func (h *StatsHandler) resolveUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	chatID, ok := chatIDParam(r)
	if !ok {
		problem.BadRequest("Invalid chat id format").Write(w)
		return nil, false
	}
	user, err := h.users.GetByChatID(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return nil, false
		}
		problem.InternalError("Failed to get user").Write(w)
		return nil, false
	}
	return user, true
}

// dateRange parses optional start_date/end_date query parameters as local
// dates in the user's timezone and widens them to UTC instants covering
// the whole days.
func (h *StatsHandler) dateRange(r *http.Request, user *domain.User) (*time.Time, *time.Time, error) {
	startParam := r.URL.Query().Get("start_date")
	endParam := r.URL.Query().Get("end_date")
	if startParam == "" && endParam == "" {
		return nil, nil, nil
	}
	if startParam == "" || endParam == "" {
		return nil, nil, errors.New("start_date and end_date must be supplied together")
	}

	startDay, err := time.Parse(dateParamLayout, startParam)
	if err != nil {
		return nil, nil, errors.New("start_date must be formatted YYYY-MM-DD")
	}
	endDay, err := time.Parse(dateParamLayout, endParam)
	if err != nil {
		return nil, nil, errors.New("end_date must be formatted YYYY-MM-DD")
	}
	if endDay.Before(startDay) {
		return nil, nil, errors.New("end_date must not be before start_date")
	}

	start := h.tz.ToUTC(startDay, user.Timezone)
	end := h.tz.ToUTC(endDay.Add(24*time.Hour-time.Second), user.Timezone)
	return &start, &end, nil
}

// Statistics handles GET /v1/users/{chatId}/statistics
// @Summary Sleep statistics
// @Description Aggregates completed sessions. Without a date range, all history counts. Dates are interpreted in the user's timezone.
// @Tags statistics
// @Produce json
// @Param chatId path int true "Chat id"
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.Statistics
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/statistics [get]
func (h *StatsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	start, end, err := h.dateRange(r, user)
	if err != nil {
		problem.BadRequest(err.Error()).Write(w)
		return
	}

	stats, err := h.stats.GetStatistics(r.Context(), user, start, end)
	if err != nil {
		problem.InternalError("Failed to compute statistics").Write(w)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Export handles GET /v1/users/{chatId}/export
// @Summary Export sleep history
// @Description Streams completed sessions as a CSV or JSON download. Missing ratings and notes export as "N/A".
// @Tags statistics
// @Produce text/csv
// @Produce json
// @Param chatId path int true "Chat id"
// @Param format query string false "csv or json" default(csv)
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {string} string "Export document"
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/export [get]
func (h *StatsHandler) Export(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(formatParam)
	if err != nil {
		problem.BadRequest("format must be csv or json").Write(w)
		return
	}

	start, end, err := h.dateRange(r, user)
	if err != nil {
		problem.BadRequest(err.Error()).Write(w)
		return
	}

	rows, err := h.stats.PrepareExportRows(r.Context(), user, start, end)
	if err != nil {
		problem.InternalError("Failed to prepare export").Write(w)
		return
	}
	doc, err := export.Render(format, rows)
	if err != nil {
		problem.InternalError("Failed to render export").Write(w)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(user.ChatID)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
