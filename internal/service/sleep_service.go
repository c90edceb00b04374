package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/blaisecz/sleep-bot/internal/repository"
	"github.com/blaisecz/sleep-bot/pkg/timeutil"
)

// UpdateDecision is the advisory outcome of validating a late update
// against the time-since-wake policy. It never mutates anything; applying
// the value is a separate call the caller makes after any confirmation.
type UpdateDecision string

const (
	// DecisionAllow applies the update immediately, no confirmation needed.
	DecisionAllow UpdateDecision = "ALLOW"
	// DecisionAskConfirmation means a value already exists; show existing vs
	// proposed and confirm before overwriting.
	DecisionAskConfirmation UpdateDecision = "ASK_CONFIRMATION"
	// DecisionShowWarning means the session ended 24h+ ago; warn with how
	// long ago and confirm, regardless of existing data.
	DecisionShowWarning UpdateDecision = "SHOW_WARNING"
)

// UpdateField selects which late-updatable field is being validated.
type UpdateField string

const (
	FieldQuality UpdateField = "quality"
	FieldNote    UpdateField = "note"
)

// ConflictResolution is the explicit choice a user makes when starting
// sleep while a session is already active. Never inferred automatically.
type ConflictResolution string

const (
	ResolutionSaveAndStart   ConflictResolution = "save_and_start"
	ResolutionContinue       ConflictResolution = "continue"
	ResolutionCancelAndStart ConflictResolution = "cancel_and_start"
)

// ConflictResolutions lists the valid choices in presentation order.
var ConflictResolutions = []string{
	string(ResolutionSaveAndStart),
	string(ResolutionContinue),
	string(ResolutionCancelAndStart),
}

// staleUpdateThresholdHours is the wake-to-update window after which a
// rating/note change is flagged as risky.
const staleUpdateThresholdHours = 24.0

type SleepService interface {
	GetActive(ctx context.Context, user *domain.User) (*domain.SleepSession, error)
	GetLastCompleted(ctx context.Context, user *domain.User) (*domain.SleepSession, error)
	// Start begins a new session at now. Returns ErrActiveSessionExists
	// without mutating anything when a session is already active.
	Start(ctx context.Context, user *domain.User) (*domain.SleepSession, error)
	// End completes the active session at now. Returns ErrNoActiveSession
	// when the user is not sleeping.
	End(ctx context.Context, user *domain.User) (*domain.SleepSession, error)
	// CancelActive discards the active session without producing a
	// completed record. No-op when there is none.
	CancelActive(ctx context.Context, user *domain.User) error
	// ResolveConflict applies one of the three explicit resolutions and
	// returns the completed and/or started session it produced.
	ResolveConflict(ctx context.Context, user *domain.User, resolution ConflictResolution) (*domain.SleepSession, *domain.SleepSession, error)

	// ValidateUpdate evaluates the late-update policy for a completed
	// session. Pure: no mutation, just the decision and hours since wake.
	ValidateUpdate(session *domain.SleepSession, field UpdateField, hasExisting bool) (UpdateDecision, float64)
	AddQualityRating(ctx context.Context, session *domain.SleepSession, rating float64) (*domain.SleepSession, error)
	AddNote(ctx context.Context, session *domain.SleepSession, note string) (*domain.SleepSession, error)

	GoalPercentage(user *domain.User, session *domain.SleepSession) *int
	FormatClock(utc time.Time, user *domain.User) string
}

type sleepService struct {
	repo repository.SleepSessionRepository
	tz   *timeutil.Converter
	log  *logging.Logger
	now  func() time.Time
}

func NewSleepService(repo repository.SleepSessionRepository, tz *timeutil.Converter, log *logging.Logger) SleepService {
	return &sleepService{
		repo: repo,
		tz:   tz,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *sleepService) GetActive(ctx context.Context, user *domain.User) (*domain.SleepSession, error) {
	return s.repo.GetActive(ctx, user.ID)
}

func (s *sleepService) GetLastCompleted(ctx context.Context, user *domain.User) (*domain.SleepSession, error) {
	return s.repo.GetLastCompleted(ctx, user.ID)
}

// Start checks for an active session immediately before creating the new
// row. Two concurrent starts for the same user can still both pass the
// check; the command stream per user is sequential in practice and the gap
// is accepted rather than closed with a lock.
func (s *sleepService) Start(ctx context.Context, user *domain.User) (*domain.SleepSession, error) {
	active, err := s.repo.GetActive(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrActiveSessionExists
	}

	session, err := s.repo.Create(ctx, user.ID, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info("sleep_session_started", "chat_id", user.ChatID, "session_id", session.ID)
	return session, nil
}

func (s *sleepService) End(ctx context.Context, user *domain.User) (*domain.SleepSession, error) {
	active, err := s.repo.GetActive(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, domain.ErrNoActiveSession
	}

	session, err := s.repo.Complete(ctx, active, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info("sleep_session_ended",
		"chat_id", user.ChatID,
		"session_id", session.ID,
		"duration_hours", session.DurationHours,
	)
	return session, nil
}

func (s *sleepService) CancelActive(ctx context.Context, user *domain.User) error {
	active, err := s.repo.GetActive(ctx, user.ID)
	if err != nil {
		return err
	}
	if active == nil {
		return nil
	}

	if err := s.repo.Delete(ctx, active); err != nil {
		return err
	}

	s.log.Info("sleep_session_cancelled", "chat_id", user.ChatID, "session_id", active.ID)
	return nil
}

func (s *sleepService) ResolveConflict(ctx context.Context, user *domain.User, resolution ConflictResolution) (*domain.SleepSession, *domain.SleepSession, error) {
	switch resolution {
	case ResolutionSaveAndStart:
		completed, err := s.End(ctx, user)
		if err != nil {
			return nil, nil, err
		}
		started, err := s.Start(ctx, user)
		if err != nil {
			return completed, nil, err
		}
		return completed, started, nil

	case ResolutionContinue:
		// Keep using the existing active session; nothing changes.
		return nil, nil, nil

	case ResolutionCancelAndStart:
		if err := s.CancelActive(ctx, user); err != nil {
			return nil, nil, err
		}
		started, err := s.Start(ctx, user)
		if err != nil {
			return nil, nil, err
		}
		return nil, started, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown resolution %q", domain.ErrInvalidInput, resolution)
	}
}

func (s *sleepService) ValidateUpdate(session *domain.SleepSession, field UpdateField, hasExisting bool) (UpdateDecision, float64) {
	if session.SleepEnd == nil {
		// Mutators reject active sessions; report zero staleness here.
		return DecisionAllow, 0
	}

	hoursSinceWake := s.now().Sub(*session.SleepEnd).Hours()

	switch {
	case hoursSinceWake >= staleUpdateThresholdHours:
		return DecisionShowWarning, hoursSinceWake
	case hasExisting:
		return DecisionAskConfirmation, hoursSinceWake
	default:
		return DecisionAllow, hoursSinceWake
	}
}

func (s *sleepService) AddQualityRating(ctx context.Context, session *domain.SleepSession, rating float64) (*domain.SleepSession, error) {
	if rating < 1.0 || rating > 10.0 {
		return nil, fmt.Errorf("%w: quality rating must be between 1.0 and 10.0", domain.ErrInvalidInput)
	}
	if session.SleepEnd == nil {
		return nil, fmt.Errorf("%w: cannot rate an active sleep session", domain.ErrInvalidInput)
	}
	return s.repo.SetQualityRating(ctx, session, rating)
}

func (s *sleepService) AddNote(ctx context.Context, session *domain.SleepSession, note string) (*domain.SleepSession, error) {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: note cannot be empty", domain.ErrInvalidInput)
	}
	if session.SleepEnd == nil {
		return nil, fmt.Errorf("%w: cannot add note to an active sleep session", domain.ErrInvalidInput)
	}
	return s.repo.SetNote(ctx, session, trimmed)
}

// GoalPercentage returns how much of the user's target duration the
// session covered, or nil when either side of the comparison is missing.
// Values above 100 are possible for oversleeping.
func (s *sleepService) GoalPercentage(user *domain.User, session *domain.SleepSession) *int {
	if user.TargetSleepHours == nil || session.DurationHours == nil {
		return nil
	}
	percentage := int((*session.DurationHours / float64(*user.TargetSleepHours)) * 100)
	return &percentage
}

func (s *sleepService) FormatClock(utc time.Time, user *domain.User) string {
	return s.tz.FormatClock(utc, user.Timezone)
}

// FormatTimeAgo renders a fractional hour count as a human interval.
// Exactly 24.0 hours is "1 days ago", not "24 hours ago".
func FormatTimeAgo(hours float64) string {
	switch {
	case hours < 1:
		return fmt.Sprintf("%d minutes ago", int(hours*60))
	case hours < staleUpdateThresholdHours:
		return fmt.Sprintf("%d hours ago", int(hours))
	default:
		return fmt.Sprintf("%d days ago", int(hours/24))
	}
}

// FormatDuration splits fractional hours into whole hours and minutes.
func FormatDuration(hours float64) (int, int) {
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	return h, m
}
