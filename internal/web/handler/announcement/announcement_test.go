package announcement

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler/handlertest"
)

func TestAnnouncements(t *testing.T) {
	h := handlertest.New(t, &Handler)
	owner := dbtest.User(t, h.DB, "owner")
	alice := dbtest.User(t, h.DB, "alice")
	g := dbtest.Group(t, h.DB, owner, false)
	dbtest.Member(t, h.DB, g, alice, models.RoleMember)
	ownerToken := h.Login(t, owner)
	aliceToken := h.Login(t, alice)

	sub, err := h.Hub.Subscribe(g.ID)
	require.NoError(t, err)
	defer sub.Close()

	path := "/groups/" + g.ID + "/announcements"

	status, _ := h.Do(t, http.MethodPost, path, map[string]string{"title": "Hi"}, aliceToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = h.Do(t, http.MethodPost, path, map[string]string{"content": "no title"}, ownerToken)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := h.Do(t, http.MethodPost, path, map[string]string{"title": "Race day", "content": "Sunday 8am"}, ownerToken)
	require.Equal(t, http.StatusCreated, status, string(body))

	created := handlertest.Decode[models.GroupAnnouncement](t, body)

	e := <-sub.C
	assert.Equal(t, realtime.EventAnnouncement, e.Type)
	assert.Equal(t, created.ID, e.TargetID)

	status, body = h.Do(t, http.MethodGet, path, nil, aliceToken)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, handlertest.Decode[[]models.GroupAnnouncement](t, body), 1)

	status, _ = h.Do(t, http.MethodDelete, path+"/"+created.ID, nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = h.Do(t, http.MethodDelete, path+"/"+created.ID, nil, ownerToken)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = h.Do(t, http.MethodDelete, path+"/"+created.ID, nil, ownerToken)
	assert.Equal(t, http.StatusNotFound, status)
}
