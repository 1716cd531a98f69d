package group

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

// MyGroup is a group together with the role of the requesting user.
type MyGroup struct {
	models.FitnessGroup
	Role     models.Role `json:"role"`
	IsOwner  bool        `json:"isOwner"`
	JoinedAt time.Time   `json:"joinedAt"`
}

// Membership returns the membership of userID in groupID.
func Membership(db *gorm.DB, groupID, userID string) (*models.GroupMember, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var m models.GroupMember

	if err := db.Where(memberQueryPattern, groupID, userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}

		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// RequireMember returns the membership of userID or ErrNotMember.
func RequireMember(db *gorm.DB, groupID, userID string) (*models.GroupMember, error) {
	m, err := Membership(db, groupID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		if _, errGroup := Get(db, groupID); errGroup != nil {
			return nil, errGroup
		}

		return nil, ErrNotMember
	}

	return m, err
}

// RequireAdmin returns the membership of userID when it holds the admin role.
func RequireAdmin(db *gorm.DB, groupID, userID string) (*models.GroupMember, error) {
	m, err := RequireMember(db, groupID, userID)
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			return nil, ErrNotGroupAdmin
		}

		return nil, err
	}

	if !m.IsAdmin() {
		return nil, ErrNotGroupAdmin
	}

	return m, nil
}

// CanRead checks that userID may read the content of g.
// Public groups are readable by everyone signed in, private groups only by members.
func CanRead(db *gorm.DB, g *models.FitnessGroup, userID string) (*models.GroupMember, error) {
	m, err := Membership(db, g.ID, userID)

	switch {
	case err == nil:
		return m, nil
	case !errors.Is(err, ErrMemberNotFound):
		return nil, err
	case g.IsPrivate:
		return nil, ErrNotMember
	}

	banned, err := IsBanned(db, g.ID, userID)
	if err != nil {
		return nil, err
	}

	if banned {
		return nil, ErrBanned
	}

	return nil, nil //nolint:nilnil
}

// IsBanned reports whether userID is banned from groupID.
func IsBanned(db *gorm.DB, groupID, userID string) (bool, error) {
	var count int64

	if err := db.Model(&models.GroupBan{}).Where(memberQueryPattern, groupID, userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ban: %w", err)
	}

	return count > 0, nil
}

// Join adds userID to the group as member. Private groups need the invite code.
func Join(db *gorm.DB, groupID, userID, inviteCode string) (*models.GroupMember, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	member := &models.GroupMember{GroupID: groupID, UserID: userID, Role: models.RoleMember}

	err := db.Transaction(func(tx *gorm.DB) error {
		g, err := Get(tx, groupID)
		if err != nil {
			return err
		}

		banned, err := IsBanned(tx, groupID, userID)
		if err != nil {
			return err
		}

		if banned {
			return ErrBanned
		}

		_, err = Membership(tx, groupID, userID)
		if err == nil {
			return ErrAlreadyMember
		}

		if !errors.Is(err, ErrMemberNotFound) {
			return err
		}

		if g.IsPrivate && (inviteCode == "" || inviteCode != g.InviteCode) {
			return ErrInvalidInviteCode
		}

		if err = tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}

			return fmt.Errorf("failed to join group: %w", err)
		}

		return AdjustMembersCount(tx, groupID, 1)
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// Leave removes userID from the group. The owner cannot leave.
func Leave(db *gorm.DB, groupID, userID string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		g, err := Get(tx, groupID)
		if err != nil {
			return err
		}

		if IsOwner(g, userID) {
			return ErrOwnerCannotLeave
		}

		removed, err := RemoveMember(tx, groupID, userID)
		if err != nil {
			return err
		}

		if !removed {
			return ErrNotMember
		}

		return nil
	})
}

// RemoveMember deletes a membership row and decrements the member count.
// It reports whether a row was deleted. Call it inside a transaction.
func RemoveMember(tx *gorm.DB, groupID, userID string) (bool, error) {
	result := tx.Where(memberQueryPattern, groupID, userID).Delete(&models.GroupMember{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove member: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	return true, AdjustMembersCount(tx, groupID, -1)
}

// Members lists the members of a group, admins first, then by join time.
func Members(db *gorm.DB, groupID string) ([]models.GroupMember, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var members []models.GroupMember

	err := db.Preload("User").Where(groupQueryPattern, groupID).
		Order(fmt.Sprintf("CASE WHEN role = '%s' THEN 0 ELSE 1 END", models.RoleAdmin)).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// MyGroups lists the groups userID is a member of, most recently joined first.
func MyGroups(db *gorm.DB, userID string) ([]MyGroup, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var memberships []models.GroupMember

	if err := db.Where("user_id = ?", userID).Order("joined_at DESC").Find(&memberships).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	if len(memberships) == 0 {
		return []MyGroup{}, nil
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.GroupID)
	}

	var groups []models.FitnessGroup
	if err := db.Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	byID := make(map[string]models.FitnessGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	out := make([]MyGroup, 0, len(memberships))

	for _, m := range memberships {
		g, ok := byID[m.GroupID]
		if !ok {
			continue
		}

		out = append(out, MyGroup{
			FitnessGroup: g,
			Role:         m.Role,
			IsOwner:      IsOwner(&g, userID),
			JoinedAt:     m.JoinedAt,
		})
	}

	return out, nil
}

// AuthorOrAdmin allows a current member actorID to change content written by authorID.
// It reports whether the actor acts as admin on someone else's content, which callers log.
func AuthorOrAdmin(tx *gorm.DB, groupID, actorID, authorID string) (bool, error) {
	m, err := RequireMember(tx, groupID, actorID)
	if err != nil {
		return false, err
	}

	if actorID == authorID {
		return false, nil
	}

	if !m.IsAdmin() {
		return false, ErrNotGroupAdmin
	}

	return true, nil
}
