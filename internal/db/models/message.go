package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/idgen"
)

// GroupMessage is a chat message of a group. IDs are time ordered, so they double
// as the replay cursor of the realtime stream.
type GroupMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	GroupID   string    `gorm:"size:36;not null;index:idx_message_group,priority:1" json:"groupId"`
	UserID    string    `gorm:"size:36;not null" json:"userId"`
	Content   string    `gorm:"size:5000" json:"content"`
	LinkURL   string    `gorm:"size:2048" json:"linkUrl"`
	IsPinned  bool      `gorm:"not null;default:false" json:"isPinned"`
	IsDeleted bool      `gorm:"not null;default:false;index:idx_message_group,priority:2" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the database table name for the GroupMessage model.
func (GroupMessage) TableName() string {
	return "fitness_group_messages"
}

// BeforeCreate assigns the next sonyflake id.
func (m *GroupMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID != 0 {
		return nil
	}

	id, err := idgen.Next()
	if err != nil {
		return err
	}

	m.ID = id

	return nil
}
