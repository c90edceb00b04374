package domain

import (
	"time"

	"github.com/google/uuid"
)

// DialogStep identifies where a user is inside a multi-turn flow.
// StepNone means no flow is pending and plain commands are dispatched.
type DialogStep string

const (
	StepNone DialogStep = ""

	// Onboarding flow
	StepOnboardingTimezone    DialogStep = "onboarding_timezone"
	StepOnboardingBedtime     DialogStep = "onboarding_bedtime"
	StepOnboardingWakeTime    DialogStep = "onboarding_wake_time"
	StepOnboardingTargetHours DialogStep = "onboarding_target_hours"

	// Pending confirmations
	StepResolveConflict DialogStep = "resolve_conflict"
	StepConfirmQuality  DialogStep = "confirm_quality"
	StepConfirmNote     DialogStep = "confirm_note"

	// Statistics flow
	StepStatsPeriod   DialogStep = "stats_period"
	StepStatsDateFrom DialogStep = "stats_date_from"
	StepStatsDateTo   DialogStep = "stats_date_to"
	StepStatsFormat   DialogStep = "stats_format"
)

// DialogState is the persisted FSM value for one user: the step plus the
// payload the pending step is waiting to apply (e.g. a rating awaiting
// confirmation). One row per user, overwritten on every transition.
type DialogState struct {
	UserID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Step      DialogStep `gorm:"type:varchar(32);not null;default:''" json:"step"`
	Payload   string     `gorm:"type:text" json:"payload,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DialogState) TableName() string {
	return "dialog_states"
}

// ChatRequest is one conversational turn.
type ChatRequest struct {
	ChatID int64  `json:"chat_id" validate:"required" example:"123456789"`
	Text   string `json:"text" validate:"required" example:"/sleep"`
}

// ChatResponse is the localized reply for one turn.
type ChatResponse struct {
	Reply string `json:"reply"`
}
