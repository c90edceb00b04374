package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/export"
	"github.com/blaisecz/sleep-bot/internal/i18n"
	"github.com/blaisecz/sleep-bot/internal/service"
)

// onboardingPayload accumulates answers across the onboarding steps and
// rides along in the dialog state row.
type onboardingPayload struct {
	Bedtime     string `json:"bedtime,omitempty"`
	WakeTime    string `json:"wake_time,omitempty"`
	TargetHours int    `json:"target_hours,omitempty"`
}

func (e *Engine) beginOnboarding(ctx context.Context, user *domain.User) (string, error) {
	if err := e.states.Put(ctx, user.ID, domain.StepOnboardingBedtime, "{}"); err != nil {
		return "", err
	}
	return e.t(user, "commands.start.welcome", nil) + "\n\n" +
		e.t(user, "commands.start.description", nil) + "\n\n" +
		e.t(user, "commands.start.onboarding.question_bedtime", nil), nil
}

func (e *Engine) stepOnboardingBedtime(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error) {
	clock, ok := parseClock(text)
	if !ok {
		return e.t(user, "commands.start.onboarding.invalid_time", nil), nil
	}

	payload, err := decodePayload(state.Payload)
	if err != nil {
		return "", err
	}
	payload.Bedtime = clock
	if err := e.advanceOnboarding(ctx, user, domain.StepOnboardingWakeTime, payload); err != nil {
		return "", err
	}
	return e.t(user, "commands.start.onboarding.question_waketime", nil), nil
}

func (e *Engine) stepOnboardingWakeTime(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error) {
	clock, ok := parseClock(text)
	if !ok {
		return e.t(user, "commands.start.onboarding.invalid_time", nil), nil
	}

	payload, err := decodePayload(state.Payload)
	if err != nil {
		return "", err
	}
	payload.WakeTime = clock
	if err := e.advanceOnboarding(ctx, user, domain.StepOnboardingTargetHours, payload); err != nil {
		return "", err
	}
	return e.t(user, "commands.start.onboarding.question_target_hours", nil), nil
}

func (e *Engine) stepOnboardingTargetHours(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || hours < 1 || hours > 24 {
		return e.t(user, "commands.start.onboarding.invalid_hours", nil), nil
	}

	payload, err := decodePayload(state.Payload)
	if err != nil {
		return "", err
	}
	payload.TargetHours = hours
	if err := e.advanceOnboarding(ctx, user, domain.StepOnboardingTimezone, payload); err != nil {
		return "", err
	}
	return e.t(user, "commands.start.onboarding.question_timezone", nil), nil
}

func (e *Engine) stepOnboardingTimezone(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error) {
	tz := strings.TrimSpace(text)
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		return e.t(user, "commands.start.onboarding.invalid_timezone", nil), nil
	}

	payload, err := decodePayload(state.Payload)
	if err != nil {
		return "", err
	}

	if _, err := e.users.UpdateTimezone(ctx, user, tz); err != nil {
		return "", err
	}
	goals := &domain.SleepGoalsRequest{}
	if payload.Bedtime != "" {
		goals.TargetBedtime = &payload.Bedtime
	}
	if payload.WakeTime != "" {
		goals.TargetWakeTime = &payload.WakeTime
	}
	if payload.TargetHours != 0 {
		goals.TargetSleepHours = &payload.TargetHours
	}
	if _, err := e.users.CompleteOnboarding(ctx, user, goals); err != nil {
		return "", err
	}
	if err := e.states.Clear(ctx, user.ID); err != nil {
		return "", err
	}

	e.log.Info("onboarding_completed", "chat_id", user.ChatID, "timezone", tz)
	return e.t(user, "commands.start.onboarding.completed", nil), nil
}

func (e *Engine) stepResolveConflict(ctx context.Context, user *domain.User, _ *domain.DialogState, text string) (string, error) {
	resolution, ok := parseResolution(text)
	if !ok {
		// Re-show the options; the state row stays put.
		return e.promptConflict(ctx, user)
	}

	if err := e.states.Clear(ctx, user.ID); err != nil {
		return "", err
	}

	switch resolution {
	case service.ResolutionSaveAndStart:
		completed, started, err := e.sleep.ResolveConflict(ctx, user, resolution)
		if err != nil {
			return "", err
		}
		hours, minutes := service.FormatDuration(*completed.DurationHours)
		return e.t(user, "commands.sleep.session_saved", i18n.Vars{
			"duration": strconv.Itoa(hours),
			"minutes":  strconv.Itoa(minutes),
			"time":     e.sleep.FormatClock(started.SleepStart, user),
		}), nil

	case service.ResolutionContinue:
		if _, _, err := e.sleep.ResolveConflict(ctx, user, resolution); err != nil {
			return "", err
		}
		return e.t(user, "commands.sleep.already_active_continue", nil), nil

	default: // cancel_and_start
		active, err := e.sleep.GetActive(ctx, user)
		if err != nil {
			return "", err
		}
		_, started, err := e.sleep.ResolveConflict(ctx, user, resolution)
		if err != nil {
			return "", err
		}
		reply := e.t(user, "commands.sleep.started", i18n.Vars{
			"time": e.sleep.FormatClock(started.SleepStart, user),
		})
		if active != nil {
			reply = e.t(user, "commands.sleep.session_cancelled", i18n.Vars{
				"time": e.sleep.FormatClock(active.SleepStart, user),
			}) + "\n" + reply
		}
		return reply, nil
	}
}

func (e *Engine) stepConfirmQuality(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error) {
	if err := e.states.Clear(ctx, user.ID); err != nil {
		return "", err
	}
	if !isAffirmative(text) {
		return e.t(user, "commands.quality.discarded", nil), nil
	}

	rating, err := strconv.ParseFloat(state.Payload, 64)
	if err != nil {
		return "", fmt.Errorf("corrupt quality confirmation payload %q: %w", state.Payload, err)
	}
	session, err := e.sleep.GetLastCompleted(ctx, user)
	if err != nil {
		return "", err
	}
	if session == nil {
		return e.t(user, "commands.quality.no_last_session", nil), nil
	}
	return e.applyQuality(ctx, user, session, rating)
}

func (e *Engine) stepConfirmNote(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error) {
	if err := e.states.Clear(ctx, user.ID); err != nil {
		return "", err
	}
	if !isAffirmative(text) {
		return e.t(user, "commands.note.discarded", nil), nil
	}

	session, err := e.sleep.GetLastCompleted(ctx, user)
	if err != nil {
		return "", err
	}
	if session == nil {
		return e.t(user, "commands.note.no_last_session", nil), nil
	}
	return e.applyNote(ctx, user, session, state.Payload)
}

// statsPayload carries the chosen date range between the statistics steps,
// as RFC 3339 timestamps. Both empty means all time.
type statsPayload struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func (e *Engine) stepStatsPeriod(ctx context.Context, user *domain.User, _ *domain.DialogState, text string) (string, error) {
	payload := &statsPayload{}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "week":
		now := e.now()
		payload.From = now.AddDate(0, 0, -7).Format(time.RFC3339)
		payload.To = now.Format(time.RFC3339)
	case "2", "month":
		now := e.now()
		payload.From = now.AddDate(0, 0, -30).Format(time.RFC3339)
		payload.To = now.Format(time.RFC3339)
	case "3", "all":
	case "4", "custom":
		if err := e.states.Put(ctx, user.ID, domain.StepStatsDateFrom, ""); err != nil {
			return "", err
		}
		return e.t(user, "commands.stats.custom_date_from", nil), nil
	default:
		// Re-show the options; the state row stays put.
		return e.promptPeriod(user), nil
	}

	if err := e.advanceStats(ctx, user, domain.StepStatsFormat, payload); err != nil {
		return "", err
	}
	return e.t(user, "commands.stats.select_format", nil), nil
}

func (e *Engine) stepStatsDateFrom(ctx context.Context, user *domain.User, _ *domain.DialogState, text string) (string, error) {
	day, ok := parseDate(text)
	if !ok {
		return e.t(user, "commands.stats.invalid_date", nil), nil
	}

	payload := &statsPayload{From: day.Format(time.RFC3339)}
	if err := e.advanceStats(ctx, user, domain.StepStatsDateTo, payload); err != nil {
		return "", err
	}
	return e.t(user, "commands.stats.custom_date_to", nil), nil
}

func (e *Engine) stepStatsDateTo(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error) {
	day, ok := parseDate(text)
	if !ok {
		return e.t(user, "commands.stats.invalid_date", nil), nil
	}

	payload, err := decodeStatsPayload(state.Payload)
	if err != nil {
		return "", err
	}
	// Widen to the end of the chosen day so it is inclusive.
	end := day.AddDate(0, 0, 1).Add(-time.Second)
	if from, ferr := time.Parse(time.RFC3339, payload.From); ferr == nil && end.Before(from) {
		return e.t(user, "commands.stats.invalid_date", nil), nil
	}
	payload.To = end.Format(time.RFC3339)

	if err := e.advanceStats(ctx, user, domain.StepStatsFormat, payload); err != nil {
		return "", err
	}
	return e.t(user, "commands.stats.select_format", nil), nil
}

func (e *Engine) stepStatsFormat(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error) {
	format, err := export.ParseFormat(strings.ToLower(strings.TrimSpace(text)))
	if err != nil {
		return e.t(user, "commands.stats.select_format", nil), nil
	}

	payload, err := decodeStatsPayload(state.Payload)
	if err != nil {
		return "", err
	}
	if err := e.states.Clear(ctx, user.ID); err != nil {
		return "", err
	}

	start, end, err := payload.Range()
	if err != nil {
		return "", err
	}
	return e.exportReply(ctx, user, format, start, end)
}

func (e *Engine) advanceStats(ctx context.Context, user *domain.User, next domain.DialogStep, payload *statsPayload) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return e.states.Put(ctx, user.ID, next, string(encoded))
}

func decodeStatsPayload(raw string) (*statsPayload, error) {
	payload := &statsPayload{}
	if raw == "" {
		return payload, nil
	}
	if err := json.Unmarshal([]byte(raw), payload); err != nil {
		return nil, fmt.Errorf("corrupt statistics payload %q: %w", raw, err)
	}
	return payload, nil
}

// Range decodes the payload timestamps back into the optional bounds the
// statistics queries take.
func (p *statsPayload) Range() (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if p.From != "" {
		t, err := time.Parse(time.RFC3339, p.From)
		if err != nil {
			return nil, nil, fmt.Errorf("corrupt statistics payload from %q: %w", p.From, err)
		}
		start = &t
	}
	if p.To != "" {
		t, err := time.Parse(time.RFC3339, p.To)
		if err != nil {
			return nil, nil, fmt.Errorf("corrupt statistics payload to %q: %w", p.To, err)
		}
		end = &t
	}
	return start, end, nil
}

// parseDate validates a YYYY-MM-DD answer as a UTC day.
func parseDate(text string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func (e *Engine) advanceOnboarding(ctx context.Context, user *domain.User, next domain.DialogStep, payload *onboardingPayload) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return e.states.Put(ctx, user.ID, next, string(encoded))
}

func decodePayload(raw string) (*onboardingPayload, error) {
	payload := &onboardingPayload{}
	if raw == "" {
		return payload, nil
	}
	if err := json.Unmarshal([]byte(raw), payload); err != nil {
		return nil, fmt.Errorf("corrupt onboarding payload %q: %w", raw, err)
	}
	return payload, nil
}

// parseClock validates an HH:MM answer and normalizes it to two-digit form.
func parseClock(text string) (string, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(text))
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}

// parseResolution maps an option number or resolution name to a conflict
// resolution.
func parseResolution(text string) (service.ConflictResolution, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "save", string(service.ResolutionSaveAndStart):
		return service.ResolutionSaveAndStart, true
	case "2", string(service.ResolutionContinue):
		return service.ResolutionContinue, true
	case "3", "cancel", string(service.ResolutionCancelAndStart):
		return service.ResolutionCancelAndStart, true
	}
	return "", false
}
