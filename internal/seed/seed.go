package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const seededNights = 30

// Run seeds the database with sample users and completed sleep sessions.
// Safe to call multiple times.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.SleepSession{}, &domain.DialogState{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	eightHours := 8
	sevenHours := 7
	bedtime := "22:30"
	wakeTime := "06:30"

	users := []domain.User{
		{
			ID:               uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			ChatID:           100001,
			LanguageCode:     "en",
			Timezone:         "Europe/Tallinn",
			IsOnboarded:      true,
			TargetBedtime:    &bedtime,
			TargetWakeTime:   &wakeTime,
			TargetSleepHours: &eightHours,
		},
		{
			ID:               uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			ChatID:           100002,
			LanguageCode:     "ru",
			Timezone:         "Europe/Moscow",
			IsOnboarded:      true,
			TargetSleepHours: &sevenHours,
		},
		{
			ID:           uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			ChatID:       100003,
			LanguageCode: "et",
			Timezone:     "Europe/Tallinn",
		},
	}

	for _, user := range users {
		if err := db.Where("chat_id = ?", user.ChatID).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %d: %w", user.ChatID, err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, user := range users {
		if !user.IsOnboarded {
			continue
		}
		if err := seedSessionsForUser(db, user, rng); err != nil {
			return err
		}
	}

	return nil
}

func seedSessionsForUser(db *gorm.DB, user domain.User, rng *rand.Rand) error {
	var count int64
	if err := db.Model(&domain.SleepSession{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count sessions for %d: %w", user.ChatID, err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := 1; i <= seededNights; i++ {
		date := now.AddDate(0, 0, -i)
		start := time.Date(date.Year(), date.Month(), date.Day(), 21+rng.Intn(3), rng.Intn(60), 0, 0, time.UTC)
		end := start.Add(time.Duration(6*60+rng.Intn(3*60)) * time.Minute)

		session := domain.SleepSession{
			UserID:     user.ID,
			SleepStart: start,
			SleepEnd:   &end,
		}
		session.DurationHours = session.CalculateDuration()

		// Leave roughly a quarter of the nights unrated.
		if rng.Float32() < 0.75 {
			rating := float64(5+rng.Intn(5)) + 0.5*float64(rng.Intn(2))
			session.QualityRating = &rating
		}

		if err := db.Create(&session).Error; err != nil {
			return fmt.Errorf("failed to create session for %d: %w", user.ChatID, err)
		}
	}

	return nil
}
