package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db/models"
)

func TestSummarize(t *testing.T) {
	rows := []models.PostReaction{
		{PostID: "p1", UserID: "me", ReactionType: models.ReactionFire},
		{PostID: "p1", UserID: "me", ReactionType: models.ReactionLike},
		{PostID: "p1", UserID: "other", ReactionType: models.ReactionLike},
		{PostID: "p2", UserID: "other", ReactionType: models.ReactionClap},
		{PostID: "p2", UserID: "other", ReactionType: "bogus"},
	}

	got := Summarize(rows, "me")
	require.Len(t, got, 2)

	p1 := got["p1"]
	assert.EqualValues(t, 2, p1.Counts[models.ReactionLike])
	assert.EqualValues(t, 1, p1.Counts[models.ReactionFire])
	assert.EqualValues(t, 0, p1.Counts[models.ReactionPray])
	assert.EqualValues(t, 3, p1.Total)
	assert.Equal(t, []models.ReactionType{models.ReactionLike, models.ReactionFire}, p1.Mine)

	p2 := got["p2"]
	assert.EqualValues(t, 1, p2.Total)
	assert.Empty(t, p2.Mine)
	assert.Len(t, p2.Counts, len(models.ReactionTypes))
}

func TestBuildPostViews(t *testing.T) {
	posts := []models.FeedPost{
		{ID: "p1", UserID: "me"},
		{ID: "p2", UserID: "other", IsDeleted: true},
		{ID: "p3", UserID: "other"},
	}
	reactions := []models.PostReaction{{PostID: "p1", UserID: "other", ReactionType: models.ReactionStrong}}

	views := BuildPostViews(posts, reactions, map[string]int64{"p1": 4}, "me")
	require.Len(t, views, 2)

	assert.Equal(t, "p1", views[0].ID)
	assert.True(t, views[0].IsMine)
	assert.EqualValues(t, 4, views[0].CommentCount)
	assert.EqualValues(t, 1, views[0].Reactions.Counts[models.ReactionStrong])

	assert.Equal(t, "p3", views[1].ID)
	assert.False(t, views[1].IsMine)
	assert.Zero(t, views[1].CommentCount)
	assert.NotNil(t, views[1].Reactions.Counts)
	assert.NotNil(t, views[1].Reactions.Mine)
}
