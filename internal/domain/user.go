package domain

import (
	"time"

	"github.com/google/uuid"
)

// SupportedLanguages is the closed set of translation languages.
var SupportedLanguages = []string{"en", "ru", "et"}

// DefaultLanguage is used when a user's language is missing or unsupported.
const DefaultLanguage = "en"

// IsSupportedLanguage reports whether code is one of the translation languages.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

type User struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ChatID int64     `gorm:"uniqueIndex;not null" json:"chat_id"`

	Username  *string `gorm:"type:varchar(255)" json:"username,omitempty"`
	FirstName *string `gorm:"type:varchar(255)" json:"first_name,omitempty"`

	LanguageCode string `gorm:"type:varchar(10);not null;default:'en'" json:"language_code"`
	Timezone     string `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`

	IsOnboarded bool `gorm:"not null;default:false" json:"is_onboarded"`

	// Sleep goals, set during onboarding. Times of day are "HH:MM".
	TargetBedtime    *string `gorm:"type:varchar(5)" json:"target_bedtime,omitempty"`
	TargetWakeTime   *string `gorm:"type:varchar(5)" json:"target_wake_time,omitempty"`
	TargetSleepHours *int    `gorm:"type:smallint" json:"target_sleep_hours,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasSleepGoals reports whether the user set a target duration during onboarding.
func (u *User) HasSleepGoals() bool {
	return u.TargetSleepHours != nil
}

// CreateUserRequest is the request body for registering a user.
// @Description Register a chat-platform user by its stable chat id.
type CreateUserRequest struct {
	// Stable chat-platform user id
	ChatID int64 `json:"chat_id" validate:"required" example:"123456789"`
	// Preferred language (falls back to "en" when unsupported)
	LanguageCode string `json:"language_code,omitempty" validate:"omitempty,max=10" example:"en"`
	// IANA timezone (defaults to UTC)
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone" example:"Europe/Tallinn"`
	Username  *string `json:"username,omitempty" validate:"omitempty,max=255"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=255"`
}

// UpdatePreferencesRequest updates language and/or timezone.
type UpdatePreferencesRequest struct {
	LanguageCode *string `json:"language_code,omitempty" validate:"omitempty,oneof=en ru et" example:"ru"`
	Timezone     *string `json:"timezone,omitempty" validate:"omitempty,timezone" example:"Europe/Tallinn"`
}

// SleepGoalsRequest sets or updates sleep goals.
// @Description Target bedtime and wake time are wall-clock "HH:MM" values.
type SleepGoalsRequest struct {
	TargetBedtime    *string `json:"target_bedtime,omitempty" validate:"omitempty,datetime=15:04" example:"22:30"`
	TargetWakeTime   *string `json:"target_wake_time,omitempty" validate:"omitempty,datetime=15:04" example:"06:30"`
	TargetSleepHours *int    `json:"target_sleep_hours,omitempty" validate:"omitempty,min=1,max=24" example:"8"`
}

// UserResponse is the response body for user endpoints.
type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	ChatID           int64     `json:"chat_id"`
	Username         *string   `json:"username,omitempty"`
	FirstName        *string   `json:"first_name,omitempty"`
	LanguageCode     string    `json:"language_code"`
	Timezone         string    `json:"timezone"`
	IsOnboarded      bool      `json:"is_onboarded"`
	TargetBedtime    *string   `json:"target_bedtime,omitempty"`
	TargetWakeTime   *string   `json:"target_wake_time,omitempty"`
	TargetSleepHours *int      `json:"target_sleep_hours,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:               u.ID,
		ChatID:           u.ChatID,
		Username:         u.Username,
		FirstName:        u.FirstName,
		LanguageCode:     u.LanguageCode,
		Timezone:         u.Timezone,
		IsOnboarded:      u.IsOnboarded,
		TargetBedtime:    u.TargetBedtime,
		TargetWakeTime:   u.TargetWakeTime,
		TargetSleepHours: u.TargetSleepHours,
		CreatedAt:        u.CreatedAt,
	}
}
