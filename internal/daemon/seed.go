package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

const (
	seedUsername = "admin"
	seedPassword = "changeme"
)

// seed creates a demo account and group when the user table is empty.
func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err //nolint:wrapcheck
	}

	if count > 0 {
		return nil
	}

	user, err := auth.NewService(db).Register(auth.Registration{
		Username:    seedUsername,
		DisplayName: "Admin",
		Password:    seedPassword,
	})
	if err != nil {
		return err
	}

	if _, err = group.Create(db, user.ID, group.Input{
		Name:        "Morning Runners",
		Description: "Easy 5k loops before work.",
		Category:    "running",
	}); err != nil {
		return err
	}

	log.Warn().Str("username", seedUsername).Msg("dev mode: seeded demo user, change the password")

	return nil
}
