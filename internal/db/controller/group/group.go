// Package group manages fitness groups and their memberships.
package group

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/uniuri"
)

const (
	groupQueryPattern  = "group_id = ?"
	memberQueryPattern = "group_id = ? AND user_id = ?"
)

// Input holds the fields of a new group.
type Input struct {
	Name          string     `json:"name"          validate:"required,max=100"`
	Description   string     `json:"description"   validate:"max=2000"`
	Category      string     `json:"category"      validate:"max=50"`
	Location      string     `json:"location"      validate:"max=255"`
	IsPrivate     bool       `json:"isPrivate"`
	NextEventDate *time.Time `json:"nextEventDate"`
}

// Patch holds the fields of a group update. Nil fields are left unchanged.
type Patch struct {
	Name          *string    `json:"name"          validate:"omitempty,max=100"`
	Description   *string    `json:"description"   validate:"omitempty,max=2000"`
	Category      *string    `json:"category"      validate:"omitempty,max=50"`
	Location      *string    `json:"location"      validate:"omitempty,max=255"`
	IsPrivate     *bool      `json:"isPrivate"`
	NextEventDate *time.Time `json:"nextEventDate"`
	// ClearNextEventDate removes the event date, it cannot be combined with NextEventDate.
	ClearNextEventDate bool `json:"clearNextEventDate"`
}

// Filter narrows the group list.
type Filter struct {
	Search   string
	Category string
	controller.Page
}

// Get retrieves a group by its id.
func Get(db *gorm.DB, groupID string) (*models.FitnessGroup, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var g models.FitnessGroup

	if err := db.First(&g, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}

		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return &g, nil
}

// List returns groups matching the filter, newest first.
func List(db *gorm.DB, f Filter) (controller.Result[models.FitnessGroup], error) {
	if db == nil {
		return controller.Result[models.FitnessGroup]{}, controller.ErrDBNil
	}

	tx := db.Model(&models.FitnessGroup{})

	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return controller.Result[models.FitnessGroup]{}, fmt.Errorf("failed to count groups: %w", err)
	}

	var groups []models.FitnessGroup
	if err := tx.Scopes(f.Page.Scope).Order("created_at DESC").Find(&groups).Error; err != nil {
		return controller.Result[models.FitnessGroup]{}, fmt.Errorf("failed to list groups: %w", err)
	}

	return controller.NewResult(groups, f.Page, total), nil
}

// Create inserts a group owned by ownerID. The owner becomes its first admin member.
func Create(db *gorm.DB, ownerID string, in Input) (*models.FitnessGroup, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	g := &models.FitnessGroup{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Location:      strings.TrimSpace(in.Location),
		IsPrivate:     in.IsPrivate,
		AdminID:       ownerID,
		NextEventDate: in.NextEventDate,
		MembersCount:  1,
	}

	if g.IsPrivate {
		code, err := uniuri.NewInviteCode()
		if err != nil {
			return nil, err
		}

		g.InviteCode = code
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}

		return tx.Create(&models.GroupMember{GroupID: g.ID, UserID: ownerID, Role: models.RoleAdmin}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return g, nil
}

// Update changes the group fields set in p. Only admins may update a group.
func Update(db *gorm.DB, groupID, actorID string, p Patch) (*models.FitnessGroup, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var g *models.FitnessGroup

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		updates := map[string]any{}

		if p.Name != nil {
			name := strings.TrimSpace(*p.Name)
			if name == "" {
				return ErrGroupNameEmpty
			}

			updates["name"] = name
		}

		if p.Description != nil {
			updates["description"] = strings.TrimSpace(*p.Description)
		}

		if p.Category != nil {
			updates["category"] = strings.TrimSpace(*p.Category)
		}

		if p.Location != nil {
			updates["location"] = strings.TrimSpace(*p.Location)
		}

		switch {
		case p.ClearNextEventDate && p.NextEventDate != nil:
			return ErrEventDateConflict
		case p.ClearNextEventDate:
			updates["next_event_date"] = nil
		case p.NextEventDate != nil:
			updates["next_event_date"] = p.NextEventDate
		}

		current, err := Get(tx, groupID)
		if err != nil {
			return err
		}

		if p.IsPrivate != nil && *p.IsPrivate != current.IsPrivate {
			updates["is_private"] = *p.IsPrivate

			if *p.IsPrivate && current.InviteCode == "" {
				code, errCode := uniuri.NewInviteCode()
				if errCode != nil {
					return errCode
				}

				updates["invite_code"] = code
			}
		}

		if len(updates) > 0 {
			if err = tx.Model(current).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update group: %w", err)
			}

			if err = controller.LogAction(tx, groupID, actorID, models.ActionUpdateGroup, "", groupID, ""); err != nil {
				return err
			}
		}

		g, err = Get(tx, groupID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}

// RotateInviteCode replaces the invite code of a group and returns the new one.
func RotateInviteCode(db *gorm.DB, groupID, actorID string) (string, error) {
	if db == nil {
		return "", controller.ErrDBNil
	}

	code, err := uniuri.NewInviteCode()
	if err != nil {
		return "", err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, errAdmin := RequireAdmin(tx, groupID, actorID); errAdmin != nil {
			return errAdmin
		}

		if errUpdate := tx.Model(&models.FitnessGroup{}).Where("id = ?", groupID).
			Update("invite_code", code).Error; errUpdate != nil {
			return fmt.Errorf("failed to rotate invite code: %w", errUpdate)
		}

		return controller.LogAction(tx, groupID, actorID, models.ActionRotateInviteCode, "", groupID, "")
	})
	if err != nil {
		return "", err
	}

	return code, nil
}

// InviteCode returns the current invite code. Only admins may see it.
func InviteCode(db *gorm.DB, groupID, actorID string) (string, error) {
	if _, err := RequireAdmin(db, groupID, actorID); err != nil {
		return "", err
	}

	g, err := Get(db, groupID)
	if err != nil {
		return "", err
	}

	return g.InviteCode, nil
}

// IsOwner reports whether userID owns the group.
func IsOwner(g *models.FitnessGroup, userID string) bool {
	return g != nil && g.AdminID == userID
}

// AdjustMembersCount changes members_count by delta in a single statement.
func AdjustMembersCount(tx *gorm.DB, groupID string, delta int) error {
	err := tx.Model(&models.FitnessGroup{}).Where("id = ?", groupID).
		Update("members_count", gorm.Expr("members_count + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to update members count: %w", err)
	}

	return nil
}
