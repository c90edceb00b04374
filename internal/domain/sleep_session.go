package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type SleepSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_sleep_sessions_user_start" json:"user_id"`

	// SleepStart is set at creation and immutable afterwards (UTC).
	SleepStart time.Time `gorm:"not null;index:idx_sleep_sessions_user_start,sort:desc" json:"sleep_start"`
	// SleepEnd is null while the session is active. Setting it is a one-way
	// transition; once completed a session never becomes active again.
	SleepEnd *time.Time `gorm:"index" json:"sleep_end,omitempty"`

	// DurationHours is derived from SleepStart/SleepEnd when the session
	// completes, rounded to 2 decimal places. Never supplied by callers.
	DurationHours *float64 `json:"duration_hours,omitempty"`

	// QualityRating is 1.0-10.0, settable only on completed sessions.
	QualityRating *float64 `json:"quality_rating,omitempty"`
	// Note is a trimmed non-empty string, settable only on completed sessions.
	Note *string `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SleepSession) TableName() string {
	return "sleep_sessions"
}

// IsActive reports whether the session has not been ended yet.
func (s *SleepSession) IsActive() bool {
	return s.SleepEnd == nil
}

// CalculateDuration returns the session duration in hours rounded to 2
// decimal places, or nil while the session is active.
func (s *SleepSession) CalculateDuration() *float64 {
	if s.SleepEnd == nil {
		return nil
	}
	hours := s.SleepEnd.Sub(s.SleepStart).Seconds() / 3600
	rounded := math.Round(hours*100) / 100
	return &rounded
}

// SessionResponse is the response body for sleep session endpoints.
type SessionResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	SleepStart    time.Time  `json:"sleep_start"`
	SleepEnd      *time.Time `json:"sleep_end,omitempty"`
	DurationHours *float64   `json:"duration_hours,omitempty"`
	QualityRating *float64   `json:"quality_rating,omitempty"`
	Note          *string    `json:"note,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (s *SleepSession) ToResponse() SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		SleepStart:    s.SleepStart,
		SleepEnd:      s.SleepEnd,
		DurationHours: s.DurationHours,
		QualityRating: s.QualityRating,
		Note:          s.Note,
		Active:        s.IsActive(),
		CreatedAt:     s.CreatedAt,
	}
}

// Statistics aggregates completed sessions for a date range.
// All-zero values mean no completed sessions matched.
type Statistics struct {
	TotalSessions   int     `json:"total_sessions"`
	AvgDuration     float64 `json:"avg_duration"`
	AvgQuality      float64 `json:"avg_quality"`
	TotalSleepHours float64 `json:"total_sleep_hours"`
}

// ExportRow is one completed session prepared for CSV/JSON export.
type ExportRow struct {
	Date          string  `json:"date"`
	SleepStart    string  `json:"sleep_start"`
	SleepEnd      string  `json:"sleep_end"`
	DurationHours float64 `json:"duration_hours"`
	QualityRating string  `json:"quality_rating"`
	Note          string  `json:"note"`
}

// QualityRequest is the request body for rating the last completed session.
type QualityRequest struct {
	// Quality rating from 1.0 (poor) to 10.0 (excellent)
	Rating float64 `json:"rating" validate:"required,min=1,max=10" example:"7.5"`
	// Confirmed skips the overwrite/staleness confirmation step
	Confirmed bool `json:"confirmed,omitempty"`
}

// NoteRequest is the request body for attaching a note to the last completed session.
type NoteRequest struct {
	Text      string `json:"text" validate:"required" example:"Woke up twice during the night"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// ResolveConflictRequest picks one of the three active-session resolutions.
type ResolveConflictRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=save_and_start continue cancel_and_start" example:"save_and_start"`
}

// ConflictResolutionResponse returns the sessions touched by a resolution.
type ConflictResolutionResponse struct {
	Completed *SessionResponse `json:"completed,omitempty"`
	Started   *SessionResponse `json:"started,omitempty"`
}

// UpdateOutcomeResponse reports the result of a quality/note update attempt.
// When Applied is false the caller must re-submit with confirmed=true after
// showing the user the decision context.
type UpdateOutcomeResponse struct {
	Applied        bool             `json:"applied"`
	Decision       string           `json:"decision"`
	HoursSinceWake float64          `json:"hours_since_wake"`
	TimeAgo        string           `json:"time_ago,omitempty"`
	ExistingValue  *string          `json:"existing_value,omitempty"`
	Session        *SessionResponse `json:"session,omitempty"`
}
