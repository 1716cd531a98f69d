package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills an empty string primary key before insert.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Setting{},
		&FitnessGroup{},
		&GroupMember{},
		&GroupBan{},
		&FeedPost{},
		&PostComment{},
		&PostReaction{},
		&GroupMessage{},
		&MemberReport{},
		&AdminLog{},
		&GroupAnnouncement{},
	}
}

// Migrate creates or updates the schema of all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
