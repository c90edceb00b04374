package dialog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/export"
	"github.com/blaisecz/sleep-bot/internal/i18n"
	"github.com/blaisecz/sleep-bot/internal/service"
)

func (e *Engine) handleStart(ctx context.Context, user *domain.User, _ string) (string, error) {
	if !user.IsOnboarded {
		return e.beginOnboarding(ctx, user)
	}
	return e.t(user, "commands.start.welcome", nil) + "\n\n" + e.t(user, "commands.help.commands_list", nil), nil
}

func (e *Engine) handleHelp(_ context.Context, user *domain.User, _ string) (string, error) {
	return e.helpText(user), nil
}

func (e *Engine) handleSleep(ctx context.Context, user *domain.User, _ string) (string, error) {
	session, err := e.sleep.Start(ctx, user)
	if errors.Is(err, domain.ErrActiveSessionExists) {
		return e.promptConflict(ctx, user)
	}
	if err != nil {
		return "", err
	}
	return e.t(user, "commands.sleep.started", i18n.Vars{
		"time": e.sleep.FormatClock(session.SleepStart, user),
	}), nil
}

// promptConflict shows the running session and the three ways out, and
// parks the dialog until the user picks one.
func (e *Engine) promptConflict(ctx context.Context, user *domain.User) (string, error) {
	active, err := e.sleep.GetActive(ctx, user)
	if err != nil {
		return "", err
	}
	if active == nil {
		// The conflicting session ended between the check and now.
		return e.handleSleep(ctx, user, "")
	}
	if err := e.states.Put(ctx, user.ID, domain.StepResolveConflict, ""); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(e.t(user, "commands.sleep.already_active", i18n.Vars{
		"time": e.sleep.FormatClock(active.SleepStart, user),
	}))
	b.WriteString("\n1. " + e.t(user, "buttons.save_and_start", nil))
	b.WriteString("\n2. " + e.t(user, "buttons.continue_sleeping", nil))
	b.WriteString("\n3. " + e.t(user, "buttons.cancel_and_start", nil))
	return b.String(), nil
}

func (e *Engine) handleWake(ctx context.Context, user *domain.User, _ string) (string, error) {
	session, err := e.sleep.End(ctx, user)
	if errors.Is(err, domain.ErrNoActiveSession) {
		return e.t(user, "commands.wake.no_active_session", nil), nil
	}
	if err != nil {
		return "", err
	}

	hours, minutes := service.FormatDuration(*session.DurationHours)
	return e.t(user, "commands.wake.completed", i18n.Vars{
		"sleep_time":      e.sleep.FormatClock(session.SleepStart, user),
		"wake_time":       e.sleep.FormatClock(*session.SleepEnd, user),
		"duration":        strconv.Itoa(hours),
		"minutes":         strconv.Itoa(minutes),
		"goal_comparison": e.goalComparison(user, session),
	}), nil
}

// goalComparison renders the goal line of the wake message.
func (e *Engine) goalComparison(user *domain.User, session *domain.SleepSession) string {
	percentage := e.sleep.GoalPercentage(user, session)
	if percentage == nil {
		return e.t(user, "commands.wake.no_goal", nil)
	}

	key := "commands.wake.goal_not_met"
	if *percentage >= 90 {
		key = "commands.wake.goal_met"
	}
	hours, minutes := service.FormatDuration(*session.DurationHours)
	return e.t(user, key, i18n.Vars{
		"duration":     strconv.Itoa(hours),
		"minutes":      strconv.Itoa(minutes),
		"percentage":   strconv.Itoa(*percentage),
		"target_hours": strconv.Itoa(*user.TargetSleepHours),
	})
}

func (e *Engine) handleCancel(ctx context.Context, user *domain.User, _ string) (string, error) {
	active, err := e.sleep.GetActive(ctx, user)
	if err != nil {
		return "", err
	}
	if active == nil {
		return e.t(user, "commands.wake.no_active_session", nil), nil
	}
	if err := e.sleep.CancelActive(ctx, user); err != nil {
		return "", err
	}
	return e.t(user, "commands.sleep.session_cancelled", i18n.Vars{
		"time": e.sleep.FormatClock(active.SleepStart, user),
	}), nil
}

func (e *Engine) handleQuality(ctx context.Context, user *domain.User, args string) (string, error) {
	if args == "" {
		return e.t(user, "commands.quality.invalid_format", nil), nil
	}
	rating, err := strconv.ParseFloat(args, 64)
	if err != nil {
		return e.t(user, "commands.quality.invalid_format", nil), nil
	}
	if rating < 1 || rating > 10 {
		return e.t(user, "commands.quality.invalid_range", nil), nil
	}

	session, err := e.sleep.GetLastCompleted(ctx, user)
	if err != nil {
		return "", err
	}
	if session == nil {
		return e.t(user, "commands.quality.no_last_session", nil), nil
	}

	decision, hoursSinceWake := e.sleep.ValidateUpdate(session, service.FieldQuality, session.QualityRating != nil)
	switch decision {
	case service.DecisionAskConfirmation:
		if err := e.states.Put(ctx, user.ID, domain.StepConfirmQuality, args); err != nil {
			return "", err
		}
		return e.t(user, "commands.quality.confirm_overwrite", i18n.Vars{
			"rating":     formatFloat(*session.QualityRating),
			"new_rating": formatFloat(rating),
		}), nil
	case service.DecisionShowWarning:
		if err := e.states.Put(ctx, user.ID, domain.StepConfirmQuality, args); err != nil {
			return "", err
		}
		return e.t(user, "commands.quality.confirm_stale", i18n.Vars{
			"time_ago": service.FormatTimeAgo(hoursSinceWake),
		}), nil
	}

	return e.applyQuality(ctx, user, session, rating)
}

func (e *Engine) applyQuality(ctx context.Context, user *domain.User, session *domain.SleepSession, rating float64) (string, error) {
	if _, err := e.sleep.AddQualityRating(ctx, session, rating); err != nil {
		return "", err
	}
	return e.t(user, "commands.quality.saved", i18n.Vars{"rating": formatFloat(rating)}), nil
}

func (e *Engine) handleNote(ctx context.Context, user *domain.User, args string) (string, error) {
	if strings.TrimSpace(args) == "" {
		return e.t(user, "commands.note.empty", nil), nil
	}

	session, err := e.sleep.GetLastCompleted(ctx, user)
	if err != nil {
		return "", err
	}
	if session == nil {
		return e.t(user, "commands.note.no_last_session", nil), nil
	}

	decision, hoursSinceWake := e.sleep.ValidateUpdate(session, service.FieldNote, session.Note != nil)
	switch decision {
	case service.DecisionAskConfirmation:
		if err := e.states.Put(ctx, user.ID, domain.StepConfirmNote, args); err != nil {
			return "", err
		}
		return e.t(user, "commands.note.confirm_overwrite", i18n.Vars{"existing": *session.Note}), nil
	case service.DecisionShowWarning:
		if err := e.states.Put(ctx, user.ID, domain.StepConfirmNote, args); err != nil {
			return "", err
		}
		return e.t(user, "commands.note.confirm_stale", i18n.Vars{
			"time_ago": service.FormatTimeAgo(hoursSinceWake),
		}), nil
	}

	return e.applyNote(ctx, user, session, args)
}

func (e *Engine) applyNote(ctx context.Context, user *domain.User, session *domain.SleepSession, text string) (string, error) {
	hadNote := session.Note != nil
	updated, err := e.sleep.AddNote(ctx, session, text)
	if err != nil {
		return "", err
	}

	key := "commands.note.saved"
	switch {
	case hadNote:
		key = "commands.note.updated"
	case updated.QualityRating == nil:
		key = "commands.note.saved_suggest_quality"
	}
	return e.t(user, key, i18n.Vars{"note": *updated.Note}), nil
}

// handleStats opens the statistics flow: period first, then format, then
// the summary with the export document.
func (e *Engine) handleStats(ctx context.Context, user *domain.User, _ string) (string, error) {
	hasData, err := e.stats.HasAnyData(ctx, user)
	if err != nil {
		return "", err
	}
	if !hasData {
		return e.t(user, "commands.stats.no_data", nil), nil
	}
	if err := e.states.Put(ctx, user.ID, domain.StepStatsPeriod, ""); err != nil {
		return "", err
	}
	return e.t(user, "commands.stats.title", nil) + "\n\n" + e.promptPeriod(user), nil
}

func (e *Engine) promptPeriod(user *domain.User) string {
	var b strings.Builder
	b.WriteString(e.t(user, "commands.stats.select_period", nil))
	b.WriteString("\n1. " + e.t(user, "commands.stats.period_week", nil))
	b.WriteString("\n2. " + e.t(user, "commands.stats.period_month", nil))
	b.WriteString("\n3. " + e.t(user, "commands.stats.period_all", nil))
	b.WriteString("\n4. " + e.t(user, "commands.stats.period_custom", nil))
	return b.String()
}

func (e *Engine) statsSummary(user *domain.User, stats *domain.Statistics) string {
	avgQuality := "N/A"
	if stats.AvgQuality > 0 {
		avgQuality = formatFloat(stats.AvgQuality)
	}
	return e.t(user, "commands.stats.exported", i18n.Vars{
		"total_sessions": strconv.Itoa(stats.TotalSessions),
		"avg_duration":   formatFloat(stats.AvgDuration),
		"avg_quality":    avgQuality,
	})
}

// handleExport is the one-shot shortcut: all-time data, format from the
// command argument, no questions asked.
func (e *Engine) handleExport(ctx context.Context, user *domain.User, args string) (string, error) {
	format := export.FormatCSV
	if args != "" {
		parsed, err := export.ParseFormat(strings.ToLower(args))
		if err != nil {
			return e.t(user, "commands.stats.select_format", nil), nil
		}
		format = parsed
	}
	return e.exportReply(ctx, user, format, nil, nil)
}

// exportReply replies with the statistics summary followed by the export
// document itself, since this transport carries text only.
func (e *Engine) exportReply(ctx context.Context, user *domain.User, format export.Format, start, end *time.Time) (string, error) {
	rows, err := e.stats.PrepareExportRows(ctx, user, start, end)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return e.t(user, "commands.stats.no_data", nil), nil
	}

	stats, err := e.stats.GetStatistics(ctx, user, start, end)
	if err != nil {
		return "", err
	}
	doc, err := export.Render(format, rows)
	if err != nil {
		return "", err
	}
	return e.statsSummary(user, stats) + "\n\n" + string(doc), nil
}

func (e *Engine) handleLanguage(ctx context.Context, user *domain.User, args string) (string, error) {
	if args == "" {
		return e.languagePrompt(user), nil
	}

	updated, err := e.users.UpdateLanguage(ctx, user, strings.ToLower(args))
	if errors.Is(err, domain.ErrInvalidInput) {
		return e.languagePrompt(user), nil
	}
	if err != nil {
		return "", err
	}
	return e.t(updated, "commands.language.changed", nil), nil
}

func (e *Engine) languagePrompt(user *domain.User) string {
	var b strings.Builder
	b.WriteString(e.t(user, "commands.language.select", nil))
	for _, code := range domain.SupportedLanguages {
		b.WriteString("\n/language " + code + " - " + e.loc.LanguageName(code))
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
