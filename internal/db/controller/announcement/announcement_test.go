package announcement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

func TestAnnouncements(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.User(t, db, "owner")
	alice := dbtest.User(t, db, "alice")
	g := dbtest.Group(t, db, owner, false)
	dbtest.Member(t, db, g, alice, models.RoleMember)

	testCases := []struct {
		name          string
		actorID       string
		input         Input
		expectedError error
	}{
		{name: "member cannot announce", actorID: alice.ID, input: Input{Title: "Hi"}, expectedError: group.ErrNotGroupAdmin},
		{name: "empty title", actorID: owner.ID, input: Input{Title: " "}, expectedError: ErrTitleEmpty},
		{name: "admin announces", actorID: owner.ID, input: Input{Title: "Race day", Content: "Sunday 8am"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Create(db, g.ID, tc.actorID, tc.input)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.actorID, a.AuthorID)
		})
	}

	list, err := List(db, g.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.ErrorIs(t, Delete(db, g.ID, list[0].ID, alice.ID), group.ErrNotGroupAdmin)
	require.NoError(t, Delete(db, g.ID, list[0].ID, owner.ID))
	require.ErrorIs(t, Delete(db, g.ID, list[0].ID, owner.ID), ErrAnnouncementNotFound)

	var logs int64
	require.NoError(t, db.Model(&models.AdminLog{}).Where("group_id = ?", g.ID).Count(&logs).Error)
	assert.EqualValues(t, 2, logs)
}
