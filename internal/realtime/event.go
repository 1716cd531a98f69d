// Package realtime fans out group events to subscribers of this and other instances.
package realtime

import (
	"encoding/json"
	"time"

	"github.com/fitcircle/fitcircle/internal/db/models"
)

// EventType names what happened.
type EventType string

// Event types published on a group channel.
const (
	EventMessageCreated EventType = "message.created"
	EventMessageUpdated EventType = "message.updated"
	EventMessageDeleted EventType = "message.deleted"
	EventMessagePinned  EventType = "message.pinned"
	EventPostCreated    EventType = "post.created"
	EventPostDeleted    EventType = "post.deleted"
	EventAnnouncement   EventType = "announcement.created"
	EventMemberChanged  EventType = "member.changed"
)

// Event is one change in a group. MessageID is set for message events and
// lets stream consumers skip messages they already replayed.
type Event struct {
	Type      EventType            `json:"type"`
	GroupID   string               `json:"groupId"`
	MessageID uint64               `json:"messageId,string,omitempty"`
	Message   *models.GroupMessage `json:"message,omitempty"`
	TargetID  string               `json:"targetId,omitempty"`
	At        time.Time            `json:"at"`
}

// MessageEvent builds an event carrying a message.
func MessageEvent(t EventType, m *models.GroupMessage) Event {
	return Event{Type: t, GroupID: m.GroupID, MessageID: m.ID, Message: m, At: time.Now().UTC()}
}

// GroupEvent builds an event about a non message target such as a post or member.
func GroupEvent(t EventType, groupID, targetID string) Event {
	return Event{Type: t, GroupID: groupID, TargetID: targetID, At: time.Now().UTC()}
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e) //nolint:wrapcheck
}

func decodeEvent(payload []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(payload, &e)

	return e, err //nolint:wrapcheck
}
