package realtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitcircle/fitcircle/internal/db/models"
)

// ErrSlowSubscriber is returned by Stream when the hub dropped the subscription.
var ErrSlowSubscriber = errors.New("subscriber fell behind and was dropped")

// ErrAccessRevoked is returned by Stream when the subscriber lost read access to the group.
var ErrAccessRevoked = errors.New("group access revoked")

// FetchSince loads stored messages with an id above since, oldest first.
type FetchSince func(since uint64, limit int) ([]models.GroupMessage, error)

// StreamOptions configures Stream.
type StreamOptions struct {
	GroupID     string
	Since       uint64
	ReplayLimit int
	Fetch       FetchSince
	Send        func(Event) error
	// UserID and Authorize re-check read access whenever a member.changed event
	// targets the subscriber. Without Authorize access is never re-checked.
	UserID    string
	Authorize func() error
}

// Stream subscribes to a group, replays stored messages after Since when set,
// then forwards live events until ctx is done or Send fails.
// Subscribing happens before the replay so no message falls between the two;
// live creations already replayed are skipped.
func Stream(ctx context.Context, hub *Hub, opts StreamOptions) error {
	sub, err := hub.Subscribe(opts.GroupID)
	if err != nil {
		return err
	}
	defer sub.Close()

	last := opts.Since

	if opts.Since > 0 && opts.Fetch != nil {
		messages, errFetch := opts.Fetch(opts.Since, opts.ReplayLimit)
		if errFetch != nil {
			return errFetch
		}

		for i := range messages {
			m := &messages[i]

			if err = opts.Send(MessageEvent(EventMessageCreated, m)); err != nil {
				return err
			}

			last = max(last, m.ID)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-sub.C:
			if !ok {
				if sub.Dropped() {
					return ErrSlowSubscriber
				}

				return nil
			}

			if e.Type == EventMessageCreated && e.MessageID <= last {
				continue
			}

			if e.Type == EventMemberChanged && e.TargetID == opts.UserID && opts.Authorize != nil {
				if errAuth := opts.Authorize(); errAuth != nil {
					return fmt.Errorf("%w: %w", ErrAccessRevoked, errAuth)
				}
			}

			if err = opts.Send(e); err != nil {
				return err
			}
		}
	}
}
