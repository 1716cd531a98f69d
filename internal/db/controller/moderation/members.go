// Package moderation implements the admin actions of a group.
//
// Every action runs in a transaction that first re-reads the actor's membership,
// so a revoked admin cannot act on a stale role. Each successful action writes an admin log.
package moderation

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

const memberQueryPattern = "group_id = ? AND user_id = ?"

// target holds what an action on another member needs to know.
type target struct {
	group  *models.FitnessGroup
	actor  *models.GroupMember
	member *models.GroupMember
}

// loadTarget checks the actor is an admin and loads the target membership.
// The target is nil when the user is not a member; requireMember turns that into an error.
func loadTarget(tx *gorm.DB, groupID, actorID, targetID string, requireMember bool) (*target, error) {
	actor, err := group.RequireAdmin(tx, groupID, actorID)
	if err != nil {
		return nil, err
	}

	if actorID == targetID {
		return nil, ErrSelfAction
	}

	g, err := group.Get(tx, groupID)
	if err != nil {
		return nil, err
	}

	if group.IsOwner(g, targetID) {
		return nil, ErrOwnerProtected
	}

	m, err := group.Membership(tx, groupID, targetID)
	if err != nil {
		if !errors.Is(err, group.ErrMemberNotFound) || requireMember {
			return nil, err
		}

		m = nil
	}

	return &target{group: g, actor: actor, member: m}, nil
}

// Promote makes a member an admin.
func Promote(db *gorm.DB, groupID, actorID, targetID string) (*models.GroupMember, error) {
	return setRole(db, groupID, actorID, targetID, models.RoleAdmin)
}

// Demote makes an admin a plain member. Only the owner demotes, and the owner cannot be demoted.
func Demote(db *gorm.DB, groupID, actorID, targetID string) (*models.GroupMember, error) {
	return setRole(db, groupID, actorID, targetID, models.RoleMember)
}

func setRole(db *gorm.DB, groupID, actorID, targetID string, role models.Role) (*models.GroupMember, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var member *models.GroupMember

	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := loadTarget(tx, groupID, actorID, targetID, true)
		if err != nil {
			return err
		}

		action := models.ActionPromote

		switch {
		case role == models.RoleAdmin && t.member.IsAdmin():
			return ErrAlreadyAdmin
		case role == models.RoleMember && !t.member.IsAdmin():
			return ErrNotAdmin
		case role == models.RoleMember && !group.IsOwner(t.group, actorID):
			return ErrOwnerRequired
		case role == models.RoleMember:
			action = models.ActionDemote
		}

		if err = tx.Model(t.member).Update("role", role).Error; err != nil {
			return fmt.Errorf("failed to change role: %w", err)
		}

		member = t.member

		return controller.LogAction(tx, groupID, actorID, action, targetID, t.member.ID, "")
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// Remove deletes the membership of targetID. Removing an admin requires the owner.
func Remove(db *gorm.DB, groupID, actorID, targetID string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		t, err := loadTarget(tx, groupID, actorID, targetID, true)
		if err != nil {
			return err
		}

		if t.member.IsAdmin() && !group.IsOwner(t.group, actorID) {
			return ErrOwnerRequired
		}

		if _, err = group.RemoveMember(tx, groupID, targetID); err != nil {
			return err
		}

		return controller.LogAction(tx, groupID, actorID, models.ActionRemove, targetID, "", "")
	})
}

// Ban removes targetID from the group, if a member, and keeps them from joining again.
func Ban(db *gorm.DB, groupID, actorID, targetID, reason string) (*models.GroupBan, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	ban := &models.GroupBan{
		GroupID:  groupID,
		UserID:   targetID,
		BannedBy: actorID,
		Reason:   strings.TrimSpace(reason),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := loadTarget(tx, groupID, actorID, targetID, false)
		if err != nil {
			return err
		}

		if t.member.IsAdmin() && !group.IsOwner(t.group, actorID) {
			return ErrOwnerRequired
		}

		banned, err := group.IsBanned(tx, groupID, targetID)
		if err != nil {
			return err
		}

		if banned {
			return ErrAlreadyBanned
		}

		if t.member != nil {
			if _, err = group.RemoveMember(tx, groupID, targetID); err != nil {
				return err
			}
		}

		if err = tx.Create(ban).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyBanned
			}

			return fmt.Errorf("failed to ban user: %w", err)
		}

		return controller.LogAction(tx, groupID, actorID, models.ActionBan, targetID, ban.ID, ban.Reason)
	})
	if err != nil {
		return nil, err
	}

	return ban, nil
}

// Unban lifts the ban of targetID. It does not restore the membership.
func Unban(db *gorm.DB, groupID, actorID, targetID string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		result := tx.Where(memberQueryPattern, groupID, targetID).Delete(&models.GroupBan{})
		if result.Error != nil {
			return fmt.Errorf("failed to unban user: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrBanNotFound
		}

		return controller.LogAction(tx, groupID, actorID, models.ActionUnban, targetID, "", "")
	})
}

// ListBans returns the bans of a group, newest first.
func ListBans(db *gorm.DB, groupID, actorID string) ([]models.GroupBan, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if _, err := group.RequireAdmin(db, groupID, actorID); err != nil {
		return nil, err
	}

	var bans []models.GroupBan

	if err := db.Where("group_id = ?", groupID).Order("created_at DESC").Find(&bans).Error; err != nil {
		return nil, fmt.Errorf("failed to list bans: %w", err)
	}

	return bans, nil
}
