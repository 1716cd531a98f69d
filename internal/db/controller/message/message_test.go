package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/policy"
	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

func send(t *testing.T, db *gorm.DB, groupID, userID string, n int) []uint64 {
	t.Helper()

	ids := make([]uint64, 0, n)

	for range n {
		m, err := Send(db, groupID, userID, Input{Content: "hello"})
		require.NoError(t, err)

		ids = append(ids, m.ID)
	}

	return ids
}

func ids(messages []models.GroupMessage) []uint64 {
	out := make([]uint64, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}

	return out
}

func TestSend(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.User(t, db, "owner")
	alice := dbtest.User(t, db, "alice")
	stranger := dbtest.User(t, db, "stranger")
	g := dbtest.Group(t, db, owner, false)
	dbtest.Member(t, db, g, alice, models.RoleMember)

	_, err := Send(db, g.ID, alice.ID, Input{})
	require.ErrorIs(t, err, ErrMessageEmpty)

	_, err = Send(db, g.ID, stranger.ID, Input{Content: "hi"})
	require.ErrorIs(t, err, group.ErrNotMember)

	m, err := Send(db, g.ID, alice.ID, Input{Content: " hi ", LinkURL: "https://example.com"})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, "hi", m.Content)
	require.NotNil(t, m.User)

	require.NoError(t, policy.Save(db, g.ID, policy.Policy{MessagingMode: policy.ModeAdmins}))

	_, err = Send(db, g.ID, alice.ID, Input{Content: "hi"})
	require.ErrorIs(t, err, policy.ErrMessagingRestricted)
}

func TestList(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.User(t, db, "owner")
	g := dbtest.Group(t, db, owner, false)
	other := dbtest.Group(t, db, owner, false)

	all := send(t, db, g.ID, owner.ID, 6)
	send(t, db, other.ID, owner.ID, 2)

	testCases := []struct {
		name     string
		cursor   Cursor
		expected []uint64
	}{
		{name: "latest", cursor: Cursor{}, expected: all},
		{name: "latest limited", cursor: Cursor{Limit: 2}, expected: all[4:]},
		{name: "since", cursor: Cursor{Since: all[2]}, expected: all[3:]},
		{name: "since limited", cursor: Cursor{Since: all[0], Limit: 2}, expected: all[1:3]},
		{name: "before", cursor: Cursor{Before: all[3], Limit: 2}, expected: all[1:3]},
		{name: "window", cursor: Cursor{Since: all[0], Before: all[3]}, expected: all[1:3]},
		{name: "since last", cursor: Cursor{Since: all[5]}, expected: []uint64{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := List(db, g.ID, tc.cursor)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func TestEditDeletePin(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.User(t, db, "owner")
	alice := dbtest.User(t, db, "alice")
	bob := dbtest.User(t, db, "bob")
	g := dbtest.Group(t, db, owner, false)
	dbtest.Member(t, db, g, alice, models.RoleMember)
	dbtest.Member(t, db, g, bob, models.RoleMember)

	m, err := Send(db, g.ID, alice.ID, Input{Content: "hello"})
	require.NoError(t, err)

	_, err = Edit(db, g.ID, m.ID, bob.ID, Input{Content: "hijack"})
	require.ErrorIs(t, err, ErrMessageNotFound)

	edited, err := Edit(db, g.ID, m.ID, alice.ID, Input{Content: "hello all"})
	require.NoError(t, err)
	assert.Equal(t, "hello all", edited.Content)

	_, err = Pin(db, g.ID, m.ID, alice.ID)
	require.ErrorIs(t, err, group.ErrNotGroupAdmin)

	pinned, err := Pin(db, g.ID, m.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	list, err := Pinned(db, g.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = Delete(db, g.ID, m.ID, bob.ID)
	require.ErrorIs(t, err, controller.ErrForbidden)

	deleted, err := Delete(db, g.ID, m.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = Delete(db, g.ID, m.ID, owner.ID)
	require.ErrorIs(t, err, ErrMessageNotFound)

	msgs, err := List(db, g.ID, Cursor{})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("")
	require.NoError(t, err)
	assert.Zero(t, id)

	id, err = ParseID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	_, err = ParseID("abc")
	require.ErrorIs(t, err, controller.ErrInvalid)
}
