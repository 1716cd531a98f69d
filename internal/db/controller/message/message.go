// Package message manages the chat messages of a group.
//
// Message ids are time ordered, so listing by id is listing by send time
// and the id of the last seen message is a cursor for catching up.
package message

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/policy"
	"github.com/fitcircle/fitcircle/internal/db/controller/post"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

const (
	// DefaultLimit is the page size when the cursor has none.
	DefaultLimit = 50
	// MaxLimit caps one page of messages.
	MaxLimit = 200
)

var (
	// ErrMessageNotFound is returned for missing, deleted or foreign messages.
	ErrMessageNotFound = fmt.Errorf("message %w", controller.ErrNotFound)
	// ErrMessageEmpty is returned when both content and link are empty.
	ErrMessageEmpty = fmt.Errorf("%w: message needs content or a link", controller.ErrInvalid)
)

// Input holds the editable fields of a message.
type Input struct {
	Content string `json:"content" validate:"max=5000"`
	LinkURL string `json:"linkUrl" validate:"omitempty,max=2048"`
}

func (in Input) normalize() (Input, error) {
	in.Content = strings.TrimSpace(in.Content)
	in.LinkURL = strings.TrimSpace(in.LinkURL)

	if in.Content == "" && in.LinkURL == "" {
		return in, ErrMessageEmpty
	}

	if in.LinkURL != "" {
		if err := post.ValidateLink(in.LinkURL); err != nil {
			return in, err
		}
	}

	return in, nil
}

// Cursor selects a window of messages. Since and Before are exclusive message ids.
// With Before set the window ends right before it, otherwise it starts right after Since.
type Cursor struct {
	Since  uint64
	Before uint64
	Limit  int
}

// ParseID parses a message id as sent by clients.
func ParseID(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid message id %q", controller.ErrInvalid, s)
	}

	return id, nil
}

// Send adds a message of userID. The group messaging policy may restrict sending to admins.
func Send(db *gorm.DB, groupID, userID string, in Input) (*models.GroupMessage, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	member, err := group.RequireMember(db, groupID, userID)
	if err != nil {
		return nil, err
	}

	p, err := policy.Load(db, groupID)
	if err != nil {
		return nil, err
	}

	if err = p.CanMessage(member); err != nil {
		return nil, err
	}

	m := &models.GroupMessage{GroupID: groupID, UserID: userID, Content: in.Content, LinkURL: in.LinkURL}
	if err = db.Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	return Get(db, groupID, m.ID)
}

// Get retrieves a non deleted message of a group with its author.
func Get(db *gorm.DB, groupID string, messageID uint64) (*models.GroupMessage, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var m models.GroupMessage

	err := db.Preload("User").
		Where("id = ? AND group_id = ? AND is_deleted = ?", messageID, groupID, false).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}

		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &m, nil
}

// List returns non deleted messages in the cursor window in ascending id order.
func List(db *gorm.DB, groupID string, c Cursor) ([]models.GroupMessage, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if c.Limit < 1 || c.Limit > MaxLimit {
		c.Limit = DefaultLimit
	}

	tx := db.Preload("User").Where("group_id = ? AND is_deleted = ?", groupID, false).Limit(c.Limit)

	var messages []models.GroupMessage

	if c.Before > 0 {
		if c.Since > 0 {
			tx = tx.Where("id > ?", c.Since)
		}

		if err := tx.Where("id < ?", c.Before).Order("id DESC").Find(&messages).Error; err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		slices.Reverse(messages)

		return messages, nil
	}

	if c.Since == 0 {
		// latest page
		if err := tx.Order("id DESC").Find(&messages).Error; err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		slices.Reverse(messages)

		return messages, nil
	}

	if err := tx.Where("id > ?", c.Since).Order("id ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// Pinned returns the pinned messages of a group, oldest first.
func Pinned(db *gorm.DB, groupID string) ([]models.GroupMessage, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var messages []models.GroupMessage

	err := db.Preload("User").
		Where("group_id = ? AND is_deleted = ? AND is_pinned = ?", groupID, false, true).
		Order("id ASC").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pinned messages: %w", err)
	}

	return messages, nil
}

// Edit changes a message of userID, who must still be a member.
// A message of someone else is ErrMessageNotFound.
func Edit(db *gorm.DB, groupID string, messageID uint64, userID string, in Input) (*models.GroupMessage, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var edited *models.GroupMessage

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireMember(tx, groupID, userID); err != nil {
			return err
		}

		result := tx.Model(&models.GroupMessage{}).
			Where("id = ? AND group_id = ? AND user_id = ? AND is_deleted = ?", messageID, groupID, userID, false).
			Updates(map[string]any{"content": in.Content, "link_url": in.LinkURL})
		if result.Error != nil {
			return fmt.Errorf("failed to edit message: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrMessageNotFound
		}

		edited, err = Get(tx, groupID, messageID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return edited, nil
}

// Delete soft deletes a message. Authors delete their own messages, admins any message of the group.
func Delete(db *gorm.DB, groupID string, messageID uint64, actorID string) (*models.GroupMessage, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var deleted *models.GroupMessage

	err := db.Transaction(func(tx *gorm.DB) error {
		m, err := Get(tx, groupID, messageID)
		if err != nil {
			return err
		}

		moderated, err := group.AuthorOrAdmin(tx, groupID, actorID, m.UserID)
		if err != nil {
			return err
		}

		result := tx.Model(&models.GroupMessage{}).
			Where("id = ? AND is_deleted = ?", messageID, false).
			Update("is_deleted", true)
		if result.Error != nil {
			return fmt.Errorf("failed to delete message: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrMessageNotFound
		}

		m.IsDeleted = true
		deleted = m

		if moderated {
			return controller.LogAction(tx, groupID, actorID, models.ActionDeleteMessage,
				m.UserID, strconv.FormatUint(messageID, 10), "")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}

// Pin toggles the pinned flag of a message. Only admins may pin.
func Pin(db *gorm.DB, groupID string, messageID uint64, actorID string) (*models.GroupMessage, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var pinned *models.GroupMessage

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		m, err := Get(tx, groupID, messageID)
		if err != nil {
			return err
		}

		action := models.ActionPinMessage
		if m.IsPinned {
			action = models.ActionUnpinMessage
		}

		if err = tx.Model(&models.GroupMessage{}).Where("id = ?", messageID).
			Update("is_pinned", !m.IsPinned).Error; err != nil {
			return fmt.Errorf("failed to pin message: %w", err)
		}

		if err = controller.LogAction(tx, groupID, actorID, action,
			m.UserID, strconv.FormatUint(messageID, 10), ""); err != nil {
			return err
		}

		pinned, err = Get(tx, groupID, messageID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return pinned, nil
}
