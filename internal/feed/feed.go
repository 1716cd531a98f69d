// Package feed shapes stored posts, reactions and comments into the views the clients render.
package feed

import (
	"slices"

	"github.com/fitcircle/fitcircle/internal/db/models"
)

// ReactionSummary holds the reaction counts of one post and the reactions of the viewer.
type ReactionSummary struct {
	Counts map[models.ReactionType]int64 `json:"counts"`
	Mine   []models.ReactionType         `json:"mine"`
	Total  int64                         `json:"total"`
}

// PostView is a post decorated for one viewer.
type PostView struct {
	models.FeedPost
	Reactions    ReactionSummary `json:"reactions"`
	CommentCount int64           `json:"commentCount"`
	IsMine       bool            `json:"isMine"`
}

// NewReactionSummary returns a summary with a zero count for every reaction type.
func NewReactionSummary() ReactionSummary {
	counts := make(map[models.ReactionType]int64, len(models.ReactionTypes))
	for _, t := range models.ReactionTypes {
		counts[t] = 0
	}

	return ReactionSummary{Counts: counts, Mine: []models.ReactionType{}}
}

// Summarize groups reaction rows by post. Unknown reaction types are skipped.
func Summarize(rows []models.PostReaction, viewerID string) map[string]ReactionSummary {
	out := map[string]ReactionSummary{}

	for _, r := range rows {
		if !r.ReactionType.Valid() {
			continue
		}

		s, ok := out[r.PostID]
		if !ok {
			s = NewReactionSummary()
		}

		s.Counts[r.ReactionType]++
		s.Total++

		if r.UserID == viewerID && !slices.Contains(s.Mine, r.ReactionType) {
			s.Mine = append(s.Mine, r.ReactionType)
		}

		out[r.PostID] = s
	}

	for id, s := range out {
		s.Mine = SortReactionTypes(s.Mine)
		out[id] = s
	}

	return out
}

// SortReactionTypes orders types the way ReactionTypes lists them.
func SortReactionTypes(types []models.ReactionType) []models.ReactionType {
	out := make([]models.ReactionType, 0, len(types))

	for _, known := range models.ReactionTypes {
		if slices.Contains(types, known) {
			out = append(out, known)
		}
	}

	return out
}

// BuildPostViews decorates posts with reaction summaries and comment counts.
// Deleted posts are dropped.
func BuildPostViews(
	posts []models.FeedPost, reactions []models.PostReaction, commentCounts map[string]int64, viewerID string,
) []PostView {
	summaries := Summarize(reactions, viewerID)
	views := make([]PostView, 0, len(posts))

	for _, p := range posts {
		if p.IsDeleted {
			continue
		}

		s, ok := summaries[p.ID]
		if !ok {
			s = NewReactionSummary()
		}

		views = append(views, PostView{
			FeedPost:     p,
			Reactions:    s,
			CommentCount: commentCounts[p.ID],
			IsMine:       p.UserID == viewerID,
		})
	}

	return views
}

// PostIDs returns the ids of posts in order.
func PostIDs(posts []models.FeedPost) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	return ids
}
