package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/post"
	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

func TestCommentLifecycle(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.User(t, db, "owner")
	alice := dbtest.User(t, db, "alice")
	bob := dbtest.User(t, db, "bob")
	stranger := dbtest.User(t, db, "stranger")
	g := dbtest.Group(t, db, owner, false)
	dbtest.Member(t, db, g, alice, models.RoleMember)
	dbtest.Member(t, db, g, bob, models.RoleMember)
	p := dbtest.Post(t, db, g, alice, "long run")

	_, err := Create(db, g.ID, p.ID, alice.ID, "  ")
	require.ErrorIs(t, err, ErrCommentEmpty)

	_, err = Create(db, g.ID, p.ID, stranger.ID, "hi")
	require.ErrorIs(t, err, group.ErrNotMember)

	_, err = Create(db, g.ID, "missing", alice.ID, "hi")
	require.ErrorIs(t, err, post.ErrPostNotFound)

	first, err := Create(db, g.ID, p.ID, bob.ID, "nice pace")
	require.NoError(t, err)
	require.NotNil(t, first.User)

	second, err := Create(db, g.ID, p.ID, alice.ID, "thanks")
	require.NoError(t, err)

	_, err = Update(db, g.ID, p.ID, first.ID, alice.ID, "edited by someone else")
	require.ErrorIs(t, err, ErrCommentNotFound)

	edited, err := Update(db, g.ID, p.ID, first.ID, bob.ID, "great pace")
	require.NoError(t, err)
	assert.Equal(t, "great pace", edited.Content)

	require.ErrorIs(t, Delete(db, g.ID, p.ID, first.ID, alice.ID), group.ErrNotGroupAdmin)
	require.NoError(t, Delete(db, g.ID, p.ID, first.ID, owner.ID))
	require.ErrorIs(t, Delete(db, g.ID, p.ID, first.ID, owner.ID), ErrCommentNotFound)

	list, err := List(db, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	counts, err := Counts(db, []string{p.ID, "other"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[p.ID])
	assert.Zero(t, counts["other"])
}
