package realtime

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fitcircle/fitcircle/internal/metrics"
)

// DefaultBuffer is the number of events a subscriber may lag behind before it is dropped.
const DefaultBuffer = 64

// ErrHubClosed is returned when subscribing to or publishing on a closed hub.
var ErrHubClosed = errors.New("realtime hub is closed")

// Subscription receives the events of one group. C is closed when the subscription
// ends, either by Close, by the hub shutting down, or because the subscriber fell behind.
type Subscription struct {
	GroupID string
	C       <-chan Event

	ch      chan Event
	hub     *Hub
	dropped bool
}

// Dropped reports whether the subscription was ended because its buffer overflowed.
// Only meaningful after C was closed.
func (s *Subscription) Dropped() bool {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	return s.dropped
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s, false)
}

// Hub keeps the local subscribers per group and connects them to a transport.
type Hub struct {
	mu        sync.Mutex
	groups    map[string]map[*Subscription]struct{}
	transport Transport
	buffer    int
	closed    bool
}

// NewHub returns a hub on top of t. Call Run to start receiving.
func NewHub(t Transport, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	return &Hub{
		groups:    map[string]map[*Subscription]struct{}{},
		transport: t,
		buffer:    buffer,
	}
}

// Start connects the hub to its transport. Events published before Start are not delivered.
func (h *Hub) Start() error {
	return h.transport.Start(h.deliver) //nolint:wrapcheck
}

// Subscribe opens a subscription to groupID.
func (h *Hub) Subscribe(groupID string) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	ch := make(chan Event, h.buffer)
	s := &Subscription{GroupID: groupID, C: ch, ch: ch, hub: h}

	subs, ok := h.groups[groupID]
	if !ok {
		subs = map[*Subscription]struct{}{}
		h.groups[groupID] = subs
	}

	subs[s] = struct{}{}

	metrics.Subscribers.Inc()

	return s, nil
}

// Publish sends e to the subscribers of its group on every instance.
func (h *Hub) Publish(e Event) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()

	if closed {
		return ErrHubClosed
	}

	payload, err := e.encode()
	if err != nil {
		return err
	}

	if err = h.transport.Publish(e.GroupID, payload); err != nil {
		return err
	}

	metrics.EventsPublished.WithLabelValues(string(e.Type)).Inc()

	return nil
}

// Subscribers returns the number of local subscribers of groupID.
func (h *Hub) Subscribers(groupID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.groups[groupID])
}

// deliver fans a received payload out to local subscribers. Sends never block:
// a subscriber whose buffer is full is dropped.
func (h *Hub) deliver(groupID string, payload []byte) {
	e, err := decodeEvent(payload)
	if err != nil {
		log.Warn().Err(err).Str("group_id", groupID).Msg("dropping undecodable event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.groups[groupID] {
		select {
		case s.ch <- e:
			metrics.EventsDelivered.Inc()
		default:
			log.Warn().Str("group_id", groupID).Msg("dropping slow subscriber")
			metrics.SubscribersDropped.Inc()
			h.removeLocked(s, true)
		}
	}
}

func (h *Hub) remove(s *Subscription, dropped bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(s, dropped)
}

func (h *Hub) removeLocked(s *Subscription, dropped bool) {
	subs, ok := h.groups[s.GroupID]
	if !ok {
		return
	}

	if _, ok = subs[s]; !ok {
		return
	}

	delete(subs, s)

	if len(subs) == 0 {
		delete(h.groups, s.GroupID)
	}

	s.dropped = dropped
	close(s.ch)
	metrics.Subscribers.Dec()
}

// Close ends all subscriptions, stops the listener and closes the transport.
func (h *Hub) Close() error {
	h.mu.Lock()

	if h.closed {
		h.mu.Unlock()
		return nil
	}

	h.closed = true

	for _, subs := range h.groups {
		for s := range subs {
			h.removeLocked(s, false)
		}
	}

	h.mu.Unlock()

	return h.transport.Close() //nolint:wrapcheck
}
