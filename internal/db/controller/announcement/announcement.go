// Package announcement manages admin announcements of a group.
package announcement

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

var (
	// ErrAnnouncementNotFound is returned when an announcement does not exist in the group.
	ErrAnnouncementNotFound = fmt.Errorf("announcement %w", controller.ErrNotFound)
	// ErrTitleEmpty is returned for announcements without a title.
	ErrTitleEmpty = fmt.Errorf("%w: announcement title cannot be empty", controller.ErrInvalid)
)

// Input holds the fields of a new announcement.
type Input struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"max=5000"`
}

// Create publishes an announcement. Only admins may announce.
func Create(db *gorm.DB, groupID, actorID string, in Input) (*models.GroupAnnouncement, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	a := &models.GroupAnnouncement{
		GroupID:  groupID,
		AuthorID: actorID,
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
	}

	if a.Title == "" {
		return nil, ErrTitleEmpty
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("failed to create announcement: %w", err)
		}

		return controller.LogAction(tx, groupID, actorID, models.ActionCreateAnnouncement, "", a.ID, a.Title)
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// List returns the announcements of a group, newest first.
func List(db *gorm.DB, groupID string) ([]models.GroupAnnouncement, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var list []models.GroupAnnouncement

	if err := db.Where("group_id = ?", groupID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	return list, nil
}

// Delete removes an announcement. Only admins may delete.
func Delete(db *gorm.DB, groupID, announcementID, actorID string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		result := tx.Where("id = ? AND group_id = ?", announcementID, groupID).Delete(&models.GroupAnnouncement{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete announcement: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrAnnouncementNotFound
		}

		return controller.LogAction(tx, groupID, actorID, models.ActionDeleteAnnouncement, "", announcementID, "")
	})
}
