// Package dialog turns chat messages into sleep-tracking actions and
// localized replies. It is transport agnostic: anything that can deliver
// (chat id, text) pairs and show a string back can drive it.
package dialog

import (
	"context"
	"strings"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/i18n"
	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/blaisecz/sleep-bot/internal/repository"
	"github.com/blaisecz/sleep-bot/internal/service"
)

// commandHandler processes one parsed command. args is the text after the
// command word, already trimmed.
type commandHandler func(ctx context.Context, user *domain.User, args string) (string, error)

// stepHandler processes one message while a multi-turn flow is pending.
type stepHandler func(ctx context.Context, user *domain.User, state *domain.DialogState, text string) (string, error)

type Engine struct {
	users  service.UserService
	sleep  service.SleepService
	stats  service.StatisticsService
	states repository.DialogStateRepository
	loc    *i18n.Service
	log    *logging.Logger
	now    func() time.Time

	commands map[string]commandHandler
	steps    map[domain.DialogStep]stepHandler
}

func NewEngine(
	users service.UserService,
	sleep service.SleepService,
	stats service.StatisticsService,
	states repository.DialogStateRepository,
	loc *i18n.Service,
	log *logging.Logger,
) *Engine {
	e := &Engine{
		users:  users,
		sleep:  sleep,
		stats:  stats,
		states: states,
		loc:    loc,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
	e.commands = map[string]commandHandler{
		"start":    e.handleStart,
		"help":     e.handleHelp,
		"sleep":    e.handleSleep,
		"wake":     e.handleWake,
		"cancel":   e.handleCancel,
		"quality":  e.handleQuality,
		"note":     e.handleNote,
		"stats":    e.handleStats,
		"export":   e.handleExport,
		"language": e.handleLanguage,
	}
	e.steps = map[domain.DialogStep]stepHandler{
		domain.StepOnboardingBedtime:     e.stepOnboardingBedtime,
		domain.StepOnboardingWakeTime:    e.stepOnboardingWakeTime,
		domain.StepOnboardingTargetHours: e.stepOnboardingTargetHours,
		domain.StepOnboardingTimezone:    e.stepOnboardingTimezone,
		domain.StepResolveConflict:       e.stepResolveConflict,
		domain.StepConfirmQuality:        e.stepConfirmQuality,
		domain.StepConfirmNote:           e.stepConfirmNote,
		domain.StepStatsPeriod:           e.stepStatsPeriod,
		domain.StepStatsDateFrom:         e.stepStatsDateFrom,
		domain.StepStatsDateTo:           e.stepStatsDateTo,
		domain.StepStatsFormat:           e.stepStatsFormat,
	}
	return e
}

// Handle processes one conversational turn. Internal failures are logged
// and surfaced to the user as a localized generic error, never as a
// transport-level failure.
func (e *Engine) Handle(ctx context.Context, req *domain.ChatRequest) *domain.ChatResponse {
	user, created, err := e.users.GetOrCreate(ctx, &domain.CreateUserRequest{ChatID: req.ChatID})
	if err != nil {
		e.log.Error("chat_user_lookup_failed", "chat_id", req.ChatID, "error", err)
		return &domain.ChatResponse{Reply: e.loc.Get("errors.generic", domain.DefaultLanguage, nil)}
	}

	if created {
		reply, err := e.beginOnboarding(ctx, user)
		return e.finish(user, reply, err)
	}

	text := strings.TrimSpace(req.Text)

	state, err := e.states.Get(ctx, user.ID)
	if err != nil {
		return e.finish(user, "", err)
	}
	if state.Step != domain.StepNone {
		if handler, ok := e.steps[state.Step]; ok {
			reply, err := handler(ctx, user, state, text)
			return e.finish(user, reply, err)
		}
		// Unknown persisted step, e.g. left over from an older version.
		e.log.Warn("unknown_dialog_step", "chat_id", user.ChatID, "step", state.Step)
		if err := e.states.Clear(ctx, user.ID); err != nil {
			return e.finish(user, "", err)
		}
	}

	command, args := parseCommand(text)
	handler, ok := e.commands[command]
	if !ok {
		return e.finish(user, e.helpText(user), nil)
	}
	reply, err := handler(ctx, user, args)
	return e.finish(user, reply, err)
}

// finish converts a handler result into the final reply, mapping internal
// errors to the generic error message.
func (e *Engine) finish(user *domain.User, reply string, err error) *domain.ChatResponse {
	if err != nil {
		e.log.Error("chat_turn_failed", "chat_id", user.ChatID, "error", err)
		return &domain.ChatResponse{Reply: e.t(user, "errors.generic", nil)}
	}
	return &domain.ChatResponse{Reply: reply}
}

// t resolves a translation in the user's language.
func (e *Engine) t(user *domain.User, key string, vars i18n.Vars) string {
	return e.loc.Get(key, user.LanguageCode, vars)
}

func (e *Engine) helpText(user *domain.User) string {
	return e.t(user, "commands.help.title", nil) + "\n\n" + e.t(user, "commands.help.commands_list", nil)
}

// parseCommand splits "/quality 7.5" into ("quality", "7.5"). Text that
// is not a slash command yields an empty command name.
func parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	rest := strings.TrimPrefix(text, "/")
	command, args, _ := strings.Cut(rest, " ")
	return strings.ToLower(command), strings.TrimSpace(args)
}

// isAffirmative matches yes answers across the supported languages.
func isAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "да", "jah":
		return true
	}
	return false
}
