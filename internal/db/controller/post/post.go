// Package post manages the posts of a group feed.
package post

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/policy"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

var (
	// ErrPostNotFound is returned for missing, deleted or foreign posts.
	ErrPostNotFound = fmt.Errorf("post %w", controller.ErrNotFound)
	// ErrPostEmpty is returned when both content and link are empty.
	ErrPostEmpty = fmt.Errorf("%w: post needs content or a link", controller.ErrInvalid)
	// ErrInvalidLink is returned for links that are not absolute http(s) URLs.
	ErrInvalidLink = fmt.Errorf("%w: link must be an http or https URL", controller.ErrInvalid)
)

// Input holds the editable fields of a post.
type Input struct {
	Content string `json:"content" validate:"max=5000"`
	LinkURL string `json:"linkUrl" validate:"omitempty,max=2048"`
}

// Normalize trims the input and rejects empty posts and broken links.
func (in Input) Normalize() (Input, error) {
	in.Content = strings.TrimSpace(in.Content)
	in.LinkURL = strings.TrimSpace(in.LinkURL)

	if in.Content == "" && in.LinkURL == "" {
		return in, ErrPostEmpty
	}

	if in.LinkURL != "" {
		if err := ValidateLink(in.LinkURL); err != nil {
			return in, err
		}
	}

	return in, nil
}

// ValidateLink accepts absolute http and https URLs.
func ValidateLink(link string) error {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidLink
	}

	return nil
}

// Create adds a post by userID. The group posting policy may restrict posting to admins.
func Create(db *gorm.DB, groupID, userID string, in Input) (*models.FeedPost, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in, err := in.Normalize()
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

	if err = p.CanPost(member); err != nil {
		return nil, err
	}

	post := &models.FeedPost{
		GroupID: groupID,
		UserID:  userID,
		Content: in.Content,
		LinkURL: in.LinkURL,
	}

	if err = db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return Get(db, groupID, post.ID)
}

// Get retrieves a non deleted post of a group with its author.
func Get(db *gorm.DB, groupID, postID string) (*models.FeedPost, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var post models.FeedPost

	err := db.Preload("User").
		Where("id = ? AND group_id = ? AND is_deleted = ?", postID, groupID, false).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

// List returns one page of non deleted posts, pinned first, then newest first.
func List(db *gorm.DB, groupID string, p controller.Page) (controller.Result[models.FeedPost], error) {
	if db == nil {
		return controller.Result[models.FeedPost]{}, controller.ErrDBNil
	}

	var total int64

	tx := db.Model(&models.FeedPost{}).Where("group_id = ? AND is_deleted = ?", groupID, false)
	if err := tx.Count(&total).Error; err != nil {
		return controller.Result[models.FeedPost]{}, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []models.FeedPost

	err := tx.Preload("User").Scopes(p.Scope).
		Order("is_pinned DESC").Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return controller.Result[models.FeedPost]{}, fmt.Errorf("failed to list posts: %w", err)
	}

	return controller.NewResult(posts, p, total), nil
}

// Update changes a post of userID, who must still be a member.
// A post of someone else, or a deleted one, is ErrPostNotFound.
func Update(db *gorm.DB, groupID, postID, userID string, in Input) (*models.FeedPost, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	var updated *models.FeedPost

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireMember(tx, groupID, userID); err != nil {
			return err
		}

		result := tx.Model(&models.FeedPost{}).
			Where("id = ? AND group_id = ? AND user_id = ? AND is_deleted = ?", postID, groupID, userID, false).
			Updates(map[string]any{"content": in.Content, "link_url": in.LinkURL})
		if result.Error != nil {
			return fmt.Errorf("failed to update post: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}

		updated, err = Get(tx, groupID, postID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete soft deletes a post. Authors delete their own posts, admins any post of the group.
func Delete(db *gorm.DB, groupID, postID, actorID string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		post, err := Get(tx, groupID, postID)
		if err != nil {
			return err
		}

		moderated, err := group.AuthorOrAdmin(tx, groupID, actorID, post.UserID)
		if err != nil {
			return err
		}

		result := tx.Model(&models.FeedPost{}).
			Where("id = ? AND is_deleted = ?", postID, false).
			Update("is_deleted", true)
		if result.Error != nil {
			return fmt.Errorf("failed to delete post: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}

		if moderated {
			return controller.LogAction(tx, groupID, actorID, models.ActionDeletePost, post.UserID, postID, "")
		}

		return nil
	})
}

// Pin toggles the pinned flag of a post. Only admins may pin.
func Pin(db *gorm.DB, groupID, postID, actorID string) (*models.FeedPost, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var post *models.FeedPost

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		current, err := Get(tx, groupID, postID)
		if err != nil {
			return err
		}

		action := models.ActionPinPost
		if current.IsPinned {
			action = models.ActionUnpinPost
		}

		if err = tx.Model(&models.FeedPost{}).Where("id = ?", postID).
			Update("is_pinned", !current.IsPinned).Error; err != nil {
			return fmt.Errorf("failed to pin post: %w", err)
		}

		if err = controller.LogAction(tx, groupID, actorID, action, current.UserID, postID, ""); err != nil {
			return err
		}

		post, err = Get(tx, groupID, postID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}
