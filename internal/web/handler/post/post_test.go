package post

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/feed"
	"github.com/fitcircle/fitcircle/internal/web/handler/handlertest"
)

type fixture struct {
	h             *handlertest.Harness
	group         *models.FitnessGroup
	owner         *models.User
	alice         *models.User
	ownerToken    string
	aliceToken    string
	strangerToken string
}

func newFixture(t *testing.T, private bool) *fixture {
	t.Helper()

	h := handlertest.New(t, &Handler)
	f := &fixture{
		h:     h,
		owner: dbtest.User(t, h.DB, "owner"),
		alice: dbtest.User(t, h.DB, "alice"),
	}

	f.group = dbtest.Group(t, h.DB, f.owner, private)
	dbtest.Member(t, h.DB, f.group, f.alice, models.RoleMember)

	f.ownerToken = h.Login(t, f.owner)
	f.aliceToken = h.Login(t, f.alice)
	f.strangerToken = h.Login(t, dbtest.User(t, h.DB, "stranger"))

	return f
}

func (f *fixture) path(suffix string) string {
	return "/groups/" + f.group.ID + "/posts" + suffix
}

func TestCreateRejectsEmptyPost(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "empty", body: map[string]string{}},
		{name: "whitespace only", body: map[string]string{"content": "   ", "linkUrl": " "}},
		{name: "bad link", body: map[string]string{"linkUrl": "ftp://example.com/file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.h.Do(t, http.MethodPost, f.path(""), tt.body, f.aliceToken)
			assert.Equal(t, http.StatusBadRequest, status, string(body))
		})
	}

	status, _ := f.h.Do(t, http.MethodPost, f.path(""), map[string]string{"content": "hi"}, f.strangerToken)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestFeedLifecycle(t *testing.T) {
	f := newFixture(t, false)

	status, body := f.h.Do(t, http.MethodPost, f.path(""), map[string]string{"content": "5k done"}, f.aliceToken)
	require.Equal(t, http.StatusCreated, status, string(body))

	created := handlertest.Decode[feed.PostView](t, body)
	assert.True(t, created.IsMine)
	assert.Equal(t, int64(0), created.Reactions.Total)

	status, _ = f.h.Do(t, http.MethodPatch, f.path("/"+created.ID), map[string]string{"content": "mine now"}, f.ownerToken)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = f.h.Do(t, http.MethodPatch, f.path("/"+created.ID), map[string]string{"content": "10k done"}, f.aliceToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "10k done", handlertest.Decode[feed.PostView](t, body).Content)

	status, body = f.h.Do(t, http.MethodPost, f.path("/"+created.ID+"/reactions"), map[string]string{"type": "fire"}, f.ownerToken)
	require.Equal(t, http.StatusOK, status, string(body))

	summary := handlertest.Decode[feed.ReactionSummary](t, body)
	assert.Equal(t, int64(1), summary.Counts[models.ReactionFire])
	assert.Equal(t, []models.ReactionType{models.ReactionFire}, summary.Mine)

	status, _ = f.h.Do(t, http.MethodPost, f.path("/"+created.ID+"/reactions"), map[string]string{"type": "meh"}, f.ownerToken)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = f.h.Do(t, http.MethodPost, f.path("/"+created.ID+"/comments"), CommentInput{Content: "nice"}, f.ownerToken)
	require.Equal(t, http.StatusCreated, status, string(body))

	cm := handlertest.Decode[models.PostComment](t, body)

	status, body = f.h.Do(t, http.MethodGet, f.path(""), nil, f.strangerToken)
	require.Equal(t, http.StatusOK, status)

	page := handlertest.Decode[controller.Result[feed.PostView]](t, body)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].CommentCount)
	assert.Equal(t, int64(1), page.Items[0].Reactions.Total)
	assert.Empty(t, page.Items[0].Reactions.Mine)

	status, _ = f.h.Do(t, http.MethodPatch, f.path("/"+created.ID+"/comments/"+cm.ID), CommentInput{Content: "x"}, f.aliceToken)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.h.Do(t, http.MethodDelete, f.path("/"+created.ID+"/comments/"+cm.ID), nil, f.ownerToken)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = f.h.Do(t, http.MethodGet, f.path("/"+created.ID+"/comments"), nil, f.aliceToken)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, handlertest.Decode[[]models.PostComment](t, body))

	status, body = f.h.Do(t, http.MethodPost, f.path("/"+created.ID+"/pin"), nil, f.ownerToken)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, handlertest.Decode[feed.PostView](t, body).IsPinned)

	status, _ = f.h.Do(t, http.MethodPost, f.path("/"+created.ID+"/pin"), nil, f.aliceToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.h.Do(t, http.MethodDelete, f.path("/"+created.ID), nil, f.aliceToken)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = f.h.Do(t, http.MethodDelete, f.path("/"+created.ID), nil, f.aliceToken)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = f.h.Do(t, http.MethodGet, f.path(""), nil, f.aliceToken)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, handlertest.Decode[controller.Result[feed.PostView]](t, body).Items)
}

func TestPrivateFeedNeedsMembership(t *testing.T) {
	f := newFixture(t, true)
	dbtest.Post(t, f.h.DB, f.group, f.alice, "secret run")

	status, _ := f.h.Do(t, http.MethodGet, f.path(""), nil, f.strangerToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := f.h.Do(t, http.MethodGet, f.path(""), nil, f.aliceToken)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, handlertest.Decode[controller.Result[feed.PostView]](t, body).Items, 1)
}
