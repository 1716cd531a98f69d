// Package reaction toggles reactions on feed posts.
package reaction

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/post"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/feed"
)

// ErrInvalidReaction is returned for reaction types outside the fixed set.
var ErrInvalidReaction = fmt.Errorf("%w: unknown reaction type", controller.ErrInvalid)

// Toggle removes the reaction of userID when present and adds it otherwise.
// It returns the reaction types userID holds on the post afterwards.
func Toggle(db *gorm.DB, groupID, postID, userID string, t models.ReactionType) ([]models.ReactionType, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if !t.Valid() {
		return nil, ErrInvalidReaction
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireMember(tx, groupID, userID); err != nil {
			return err
		}

		if _, err := post.Get(tx, groupID, postID); err != nil {
			return err
		}

		result := tx.Where("post_id = ? AND user_id = ? AND reaction_type = ?", postID, userID, t).
			Delete(&models.PostReaction{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove reaction: %w", result.Error)
		}

		if result.RowsAffected > 0 {
			return nil
		}

		// a concurrent toggle may have inserted the row in between, the unique index keeps one
		r := &models.PostReaction{PostID: postID, UserID: userID, ReactionType: t}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(r).Error; err != nil {
			return fmt.Errorf("failed to add reaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ForUser(db, postID, userID)
}

// ForUser returns the reaction types userID holds on a post, in display order.
func ForUser(db *gorm.DB, postID, userID string) ([]models.ReactionType, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var types []models.ReactionType

	err := db.Model(&models.PostReaction{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Pluck("reaction_type", &types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}

	return feed.SortReactionTypes(types), nil
}

// ForPosts returns every reaction row of the given posts.
func ForPosts(db *gorm.DB, postIDs []string) ([]models.PostReaction, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if len(postIDs) == 0 {
		return nil, nil
	}

	var rows []models.PostReaction

	if err := db.Where("post_id IN ?", postIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}

	return rows, nil
}

// Summary returns the reaction counts of a post and the reactions of viewerID.
func Summary(db *gorm.DB, postID, viewerID string) (feed.ReactionSummary, error) {
	rows, err := ForPosts(db, []string{postID})
	if err != nil {
		return feed.ReactionSummary{}, err
	}

	s, ok := feed.Summarize(rows, viewerID)[postID]
	if !ok {
		return feed.NewReactionSummary(), nil
	}

	return s, nil
}
