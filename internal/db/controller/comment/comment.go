// Package comment manages the comments below feed posts.
package comment

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/post"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

var (
	// ErrCommentNotFound is returned for missing, deleted or foreign comments.
	ErrCommentNotFound = fmt.Errorf("comment %w", controller.ErrNotFound)
	// ErrCommentEmpty is returned for comments without content.
	ErrCommentEmpty = fmt.Errorf("%w: comment cannot be empty", controller.ErrInvalid)
)

// Create adds a comment of userID below a post. Only members may comment.
func Create(db *gorm.DB, groupID, postID, userID, content string) (*models.PostComment, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	if _, err := group.RequireMember(db, groupID, userID); err != nil {
		return nil, err
	}

	if _, err := post.Get(db, groupID, postID); err != nil {
		return nil, err
	}

	c := &models.PostComment{PostID: postID, UserID: userID, Content: content}
	if err := db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return get(db, postID, c.ID)
}

func get(db *gorm.DB, postID, commentID string) (*models.PostComment, error) {
	var c models.PostComment

	err := db.Preload("User").
		Where("id = ? AND post_id = ? AND is_deleted = ?", commentID, postID, false).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}

		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &c, nil
}

// List returns the non deleted comments of a post, oldest first.
func List(db *gorm.DB, postID string) ([]models.PostComment, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var comments []models.PostComment

	err := db.Preload("User").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// Counts returns the number of non deleted comments per post.
func Counts(db *gorm.DB, postIDs []string) (map[string]int64, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID string
		Total  int64
	}

	err := db.Model(&models.PostComment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ? AND is_deleted = ?", postIDs, false).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	for _, r := range rows {
		counts[r.PostID] = r.Total
	}

	return counts, nil
}

// Update changes a comment of userID, who must still be a member of the group.
// A comment of someone else is ErrCommentNotFound.
func Update(db *gorm.DB, groupID, postID, commentID, userID, content string) (*models.PostComment, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	var updated *models.PostComment

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireMember(tx, groupID, userID); err != nil {
			return err
		}

		if _, err := post.Get(tx, groupID, postID); err != nil {
			return err
		}

		result := tx.Model(&models.PostComment{}).
			Where("id = ? AND post_id = ? AND user_id = ? AND is_deleted = ?", commentID, postID, userID, false).
			Update("content", content)
		if result.Error != nil {
			return fmt.Errorf("failed to update comment: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrCommentNotFound
		}

		var err error
		updated, err = get(tx, postID, commentID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete soft deletes a comment. Authors delete their own comments, admins any comment of the group.
func Delete(db *gorm.DB, groupID, postID, commentID, actorID string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := post.Get(tx, groupID, postID); err != nil {
			return err
		}

		c, err := get(tx, postID, commentID)
		if err != nil {
			return err
		}

		moderated, err := group.AuthorOrAdmin(tx, groupID, actorID, c.UserID)
		if err != nil {
			return err
		}

		result := tx.Model(&models.PostComment{}).
			Where("id = ? AND is_deleted = ?", commentID, false).
			Update("is_deleted", true)
		if result.Error != nil {
			return fmt.Errorf("failed to delete comment: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrCommentNotFound
		}

		if moderated {
			return controller.LogAction(tx, groupID, actorID, models.ActionDeleteComment, c.UserID, commentID, "")
		}

		return nil
	})
}
