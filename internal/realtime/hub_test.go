package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

func newHub(t *testing.T, buffer int) *Hub {
	t.Helper()

	h := NewHub(NewMemoryTransport(), buffer)
	require.NoError(t, h.Start())
	t.Cleanup(func() { _ = h.Close() })

	return h
}

func receive(t *testing.T, s *Subscription) Event {
	t.Helper()

	select {
	case e, ok := <-s.C:
		require.True(t, ok, "subscription closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	return Event{}
}

func TestSubscriberReceivesOnlyItsGroup(t *testing.T) {
	h := newHub(t, 4)

	a, err := h.Subscribe("a")
	require.NoError(t, err)
	b, err := h.Subscribe("b")
	require.NoError(t, err)

	require.NoError(t, h.Publish(GroupEvent(EventPostCreated, "a", "p1")))

	e := receive(t, a)
	assert.Equal(t, EventPostCreated, e.Type)
	assert.Equal(t, "p1", e.TargetID)

	select {
	case e := <-b.C:
		t.Fatalf("unexpected event for group b: %+v", e)
	default:
	}
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	h := newHub(t, 2)

	slow, err := h.Subscribe("g")
	require.NoError(t, err)
	fast, err := h.Subscribe("g")
	require.NoError(t, err)

	for i := range 3 {
		require.NoError(t, h.Publish(GroupEvent(EventPostCreated, "g", string(rune('a'+i)))))
		receive(t, fast)
	}

	// two buffered events are still readable, then the channel is closed
	receive(t, slow)
	receive(t, slow)

	_, ok := <-slow.C
	assert.False(t, ok)
	assert.True(t, slow.Dropped())
	assert.Equal(t, 1, h.Subscribers("g"))
}

func TestSubscriptionClose(t *testing.T) {
	h := newHub(t, 2)

	s, err := h.Subscribe("g")
	require.NoError(t, err)
	assert.Equal(t, 1, h.Subscribers("g"))

	s.Close()
	s.Close()

	_, ok := <-s.C
	assert.False(t, ok)
	assert.False(t, s.Dropped())
	assert.Zero(t, h.Subscribers("g"))
}

func TestHubClose(t *testing.T) {
	h := NewHub(NewMemoryTransport(), 0)
	require.NoError(t, h.Start())

	s, err := h.Subscribe("g")
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	_, ok := <-s.C
	assert.False(t, ok)

	_, err = h.Subscribe("g")
	require.ErrorIs(t, err, ErrHubClosed)
	require.ErrorIs(t, h.Publish(GroupEvent(EventPostCreated, "g", "")), ErrHubClosed)
}

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport(config.Realtime{Transport: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryTransport{}, tr)

	_, err = NewTransport(config.Realtime{Transport: "carrier-pigeon"})
	require.ErrorIs(t, err, config.ErrUnknownTransport)
}

func TestRedisChannelNames(t *testing.T) {
	tr := &RedisTransport{prefix: DefaultChannelPrefix}

	assert.Equal(t, "fitcircle:group:g1", tr.Channel("g1"))

	id, ok := tr.GroupID("fitcircle:group:g1")
	assert.True(t, ok)
	assert.Equal(t, "g1", id)

	_, ok = tr.GroupID("other:g1")
	assert.False(t, ok)

	_, ok = tr.GroupID("fitcircle:group:")
	assert.False(t, ok)
}

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) send(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, e)

	return nil
}

func (c *collector) ids() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]uint64, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.MessageID)
	}

	return out
}

func TestStreamReplaysThenForwards(t *testing.T) {
	h := newHub(t, 8)
	c := &collector{}

	stored := []models.GroupMessage{{ID: 11, GroupID: "g"}, {ID: 12, GroupID: "g"}}

	var gotSince uint64

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Stream(ctx, h, StreamOptions{
			GroupID:     "g",
			Since:       10,
			ReplayLimit: 100,
			Fetch: func(since uint64, _ int) ([]models.GroupMessage, error) {
				gotSince = since
				return stored, nil
			},
			Send: c.send,
		})
	}()

	require.Eventually(t, func() bool { return h.Subscribers("g") == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(c.ids()) == 2 }, time.Second, 5*time.Millisecond)

	// 12 was replayed already, 13 is new
	require.NoError(t, h.Publish(MessageEvent(EventMessageCreated, &models.GroupMessage{ID: 12, GroupID: "g"})))
	require.NoError(t, h.Publish(MessageEvent(EventMessageCreated, &models.GroupMessage{ID: 13, GroupID: "g"})))
	require.NoError(t, h.Publish(MessageEvent(EventMessageDeleted, &models.GroupMessage{ID: 11, GroupID: "g"})))

	require.Eventually(t, func() bool { return len(c.ids()) == 4 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.EqualValues(t, 10, gotSince)
	assert.Equal(t, []uint64{11, 12, 13, 11}, c.ids())
	assert.Zero(t, h.Subscribers("g"))
}

func TestStreamStopsOnSendError(t *testing.T) {
	h := newHub(t, 8)
	boom := errors.New("connection closed")

	done := make(chan error, 1)

	go func() {
		done <- Stream(context.Background(), h, StreamOptions{
			GroupID: "g",
			Send:    func(Event) error { return boom },
		})
	}()

	require.Eventually(t, func() bool { return h.Subscribers("g") == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, h.Publish(GroupEvent(EventPostCreated, "g", "p")))

	require.ErrorIs(t, <-done, boom)
}

func TestStreamRechecksAccessOnMemberChange(t *testing.T) {
	h := newHub(t, 8)
	c := &collector{}
	banned := errors.New("banned")

	var (
		mu     sync.Mutex
		access error
		checks int
	)

	done := make(chan error, 1)

	go func() {
		done <- Stream(context.Background(), h, StreamOptions{
			GroupID: "g",
			UserID:  "alice",
			Authorize: func() error {
				mu.Lock()
				defer mu.Unlock()
				checks++

				return access
			},
			Send: c.send,
		})
	}()

	require.Eventually(t, func() bool { return h.Subscribers("g") == 1 }, time.Second, 5*time.Millisecond)

	// someone else's membership change does not trigger a check
	require.NoError(t, h.Publish(GroupEvent(EventMemberChanged, "g", "bob")))
	require.NoError(t, h.Publish(GroupEvent(EventMemberChanged, "g", "alice")))
	require.NoError(t, h.Publish(MessageEvent(EventMessageCreated, &models.GroupMessage{ID: 5, GroupID: "g"})))
	require.Eventually(t, func() bool { return len(c.ids()) == 3 }, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, checks)
	access = banned
	mu.Unlock()

	require.NoError(t, h.Publish(GroupEvent(EventMemberChanged, "g", "alice")))
	require.NoError(t, h.Publish(MessageEvent(EventMessageCreated, &models.GroupMessage{ID: 6, GroupID: "g"})))

	err := <-done
	require.ErrorIs(t, err, ErrAccessRevoked)
	require.ErrorIs(t, err, banned)
	// both member events were forwarded, the revoking one and message 6 were not
	assert.Equal(t, []uint64{0, 0, 5}, c.ids())
}
