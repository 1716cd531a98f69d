// Package policy stores per group posting and messaging rules as JSON settings.
package policy

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/setting"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

// SettingKeyPrefix prefixes the setting name of a group policy.
const SettingKeyPrefix = "group_policy:"

// Mode tells who may write.
type Mode string

const (
	// ModeEveryone lets every member write.
	ModeEveryone Mode = "everyone"
	// ModeAdmins restricts writing to admins.
	ModeAdmins Mode = "admins"
)

var (
	// ErrPostingRestricted is returned when only admins may post.
	ErrPostingRestricted = fmt.Errorf("%w: only admins can post in this group", controller.ErrForbidden)
	// ErrMessagingRestricted is returned when only admins may send messages.
	ErrMessagingRestricted = fmt.Errorf("%w: only admins can send messages in this group", controller.ErrForbidden)
)

// Policy of one group.
type Policy struct {
	PostingMode   Mode `json:"postingMode"   validate:"required,oneof=everyone admins"`
	MessagingMode Mode `json:"messagingMode" validate:"required,oneof=everyone admins"`
}

// Default lets everyone post and chat.
func Default() Policy {
	return Policy{PostingMode: ModeEveryone, MessagingMode: ModeEveryone}
}

// Key returns the setting name for a group.
func Key(groupID string) string {
	return SettingKeyPrefix + groupID
}

// Load returns the stored policy of a group, or the default when none is stored.
func Load(db *gorm.DB, groupID string) (Policy, error) {
	p := Default()

	s, err := setting.Get(db, Key(groupID))
	if errors.Is(err, setting.ErrSettingNotFound) {
		return p, nil
	}

	if err != nil {
		return p, err
	}

	if err = json.Unmarshal(s.Value, &p); err != nil {
		return Default(), fmt.Errorf("failed to decode policy of group %s: %w", groupID, err)
	}

	return p.withDefaults(), nil
}

// Save stores the policy of a group.
func Save(db *gorm.DB, groupID string, p Policy) error {
	data, err := json.Marshal(p.withDefaults())
	if err != nil {
		return fmt.Errorf("failed to encode policy: %w", err)
	}

	_, err = setting.Set(db, Key(groupID), data)

	return err
}

// Reset drops the stored policy of a group so the default applies again.
func Reset(db *gorm.DB, groupID string) error {
	err := setting.Delete(db, Key(groupID))
	if errors.Is(err, setting.ErrSettingNotFound) {
		return nil
	}

	return err
}

// CanPost reports with ErrPostingRestricted when member may not post.
func (p Policy) CanPost(member *models.GroupMember) error {
	if p.PostingMode == ModeAdmins && !member.IsAdmin() {
		return ErrPostingRestricted
	}

	return nil
}

// CanMessage reports with ErrMessagingRestricted when member may not send messages.
func (p Policy) CanMessage(member *models.GroupMember) error {
	if p.MessagingMode == ModeAdmins && !member.IsAdmin() {
		return ErrMessagingRestricted
	}

	return nil
}

func (p Policy) withDefaults() Policy {
	if p.PostingMode == "" {
		p.PostingMode = ModeEveryone
	}

	if p.MessagingMode == "" {
		p.MessagingMode = ModeEveryone
	}

	return p
}
