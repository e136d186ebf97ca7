package realtime

import (
	"encoding/json"
	"time"
)

// Event types on the wire
const (
	EventRoomJoin    = "room.join"
	EventRoomLeave   = "room.leave"
	EventChatMessage = "chat.message"
	EventTypingStart = "typing.start"
	EventTypingStop  = "typing.stop"
	EventUserJoined  = "user.joined"
	EventUserLeft    = "user.left"
)

// Event is one fan-out frame. MessageID lets clients de-duplicate the echo of
// their own optimistic append. Typing events are ephemeral: receivers clear
// the indicator on a local 3s timer, a lost typing.stop is never re-sent.
type Event struct {
	Type      string          `json:"type"`
	Room      string          `json:"room"`
	SenderID  string          `json:"sender_id,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	MessageID string          `json:"message_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func (e *Event) Encode() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		return []byte("{}")
	}
	return b
}
