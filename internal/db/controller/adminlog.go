package controller

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/models"
)

// LogAction writes an admin log row. Call it with the transaction of the logged mutation.
func LogAction(tx *gorm.DB, groupID, adminID string, action models.AdminAction, targetUserID, targetID, details string) error {
	entry := &models.AdminLog{
		GroupID:      groupID,
		AdminID:      adminID,
		Action:       action,
		TargetUserID: targetUserID,
		TargetID:     targetID,
		Details:      details,
	}

	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write admin log: %w", err)
	}

	return nil
}
