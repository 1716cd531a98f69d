package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/post"
	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

func TestToggleTwiceRestoresOriginalSet(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.User(t, db, "owner")
	g := dbtest.Group(t, db, owner, false)
	p := dbtest.Post(t, db, g, owner, "hello")

	_, err := Toggle(db, g.ID, p.ID, owner.ID, models.ReactionFire)
	require.NoError(t, err)

	original, err := ForUser(db, p.ID, owner.ID)
	require.NoError(t, err)

	for _, rt := range models.ReactionTypes {
		t.Run(string(rt), func(t *testing.T) {
			_, err := Toggle(db, g.ID, p.ID, owner.ID, rt)
			require.NoError(t, err)

			got, err := Toggle(db, g.ID, p.ID, owner.ID, rt)
			require.NoError(t, err)
			assert.Equal(t, original, got)
		})
	}
}

func TestToggle(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.User(t, db, "owner")
	alice := dbtest.User(t, db, "alice")
	stranger := dbtest.User(t, db, "stranger")
	g := dbtest.Group(t, db, owner, false)
	dbtest.Member(t, db, g, alice, models.RoleMember)
	p := dbtest.Post(t, db, g, owner, "hello")

	_, err := Toggle(db, g.ID, p.ID, alice.ID, "meh")
	require.ErrorIs(t, err, ErrInvalidReaction)

	_, err = Toggle(db, g.ID, p.ID, stranger.ID, models.ReactionLike)
	require.ErrorIs(t, err, group.ErrNotMember)

	_, err = Toggle(db, g.ID, "missing", alice.ID, models.ReactionLike)
	require.ErrorIs(t, err, post.ErrPostNotFound)

	mine, err := Toggle(db, g.ID, p.ID, alice.ID, models.ReactionPray)
	require.NoError(t, err)
	assert.Equal(t, []models.ReactionType{models.ReactionPray}, mine)

	mine, err = Toggle(db, g.ID, p.ID, alice.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, []models.ReactionType{models.ReactionLike, models.ReactionPray}, mine)

	_, err = Toggle(db, g.ID, p.ID, owner.ID, models.ReactionLike)
	require.NoError(t, err)

	summary, err := Summary(db, p.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Counts[models.ReactionLike])
	assert.EqualValues(t, 1, summary.Counts[models.ReactionPray])
	assert.EqualValues(t, 3, summary.Total)
	assert.Equal(t, []models.ReactionType{models.ReactionLike, models.ReactionPray}, summary.Mine)

	var rows int64
	require.NoError(t, db.Model(&models.PostReaction{}).Where("post_id = ?", p.ID).Count(&rows).Error)
	assert.EqualValues(t, 3, rows)

	empty, err := Summary(db, "none", alice.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
}

func TestDeletedPostRejectsReactions(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.User(t, db, "owner")
	g := dbtest.Group(t, db, owner, false)
	p := dbtest.Post(t, db, g, owner, "hello")

	require.NoError(t, post.Delete(db, g.ID, p.ID, owner.ID))

	_, err := Toggle(db, g.ID, p.ID, owner.ID, models.ReactionLike)
	require.ErrorIs(t, err, post.ErrPostNotFound)
}
