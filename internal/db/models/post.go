package models

import (
	"time"

	"gorm.io/gorm"
)

// FeedPost is a post in a group feed. Deleting only sets IsDeleted.
type FeedPost struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GroupID   string    `gorm:"size:36;not null;index:idx_post_feed,priority:1" json:"groupId"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	Content   string    `gorm:"size:5000" json:"content"`
	LinkURL   string    `gorm:"size:2048" json:"linkUrl"`
	IsPinned  bool      `gorm:"not null;default:false;index:idx_post_feed,priority:3" json:"isPinned"`
	IsDeleted bool      `gorm:"not null;default:false;index:idx_post_feed,priority:2" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the database table name for the FeedPost model.
func (FeedPost) TableName() string {
	return "fitness_group_posts"
}

// BeforeCreate assigns a uuid.
func (p *FeedPost) BeforeCreate(_ *gorm.DB) error {
	newID(&p.ID)
	return nil
}

// PostComment is a comment below a feed post.
type PostComment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;index" json:"postId"`
	UserID    string    `gorm:"size:36;not null" json:"userId"`
	Content   string    `gorm:"size:2000;not null" json:"content"`
	IsDeleted bool      `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the database table name for the PostComment model.
func (PostComment) TableName() string {
	return "fitness_group_post_comments"
}

// BeforeCreate assigns a uuid.
func (c *PostComment) BeforeCreate(_ *gorm.DB) error {
	newID(&c.ID)
	return nil
}

// ReactionType is one of the fixed reactions a post accepts.
type ReactionType string

// The six reaction types.
const (
	ReactionLike   ReactionType = "like"
	ReactionLove   ReactionType = "love"
	ReactionFire   ReactionType = "fire"
	ReactionStrong ReactionType = "strong"
	ReactionClap   ReactionType = "clap"
	ReactionPray   ReactionType = "pray"
)

// ReactionTypes lists the reaction types in display order.
var ReactionTypes = []ReactionType{ //nolint:gochecknoglobals
	ReactionLike, ReactionLove, ReactionFire, ReactionStrong, ReactionClap, ReactionPray,
}

// Valid reports whether t is one of the fixed reaction types.
func (t ReactionType) Valid() bool {
	for _, known := range ReactionTypes {
		if t == known {
			return true
		}
	}

	return false
}

// PostReaction marks that a user reacted to a post with one type.
// Presence of the row is the reaction.
type PostReaction struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	PostID       string       `gorm:"size:36;not null;uniqueIndex:idx_post_reaction" json:"postId"`
	UserID       string       `gorm:"size:36;not null;uniqueIndex:idx_post_reaction" json:"userId"`
	ReactionType ReactionType `gorm:"type:varchar(20);not null;uniqueIndex:idx_post_reaction" json:"reactionType"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// TableName specifies the database table name for the PostReaction model.
func (PostReaction) TableName() string {
	return "fitness_group_post_reactions"
}

// BeforeCreate assigns a uuid.
func (r *PostReaction) BeforeCreate(_ *gorm.DB) error {
	newID(&r.ID)
	return nil
}
