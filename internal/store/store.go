package store

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// DisplayTimeLayout is how message timestamps are rendered for clients.
const DisplayTimeLayout = "15:04"

// Message represents a chat message kept in a room's history.
type Message struct {
	ID         int64
	Room       string
	SenderName string
	SenderID   string // session identity, used only for self-delete checks
	Text       string
	CreatedAt  time.Time
}

// DisplayTime formats the creation time as hours and minutes.
func (m Message) DisplayTime() string {
	return m.CreatedAt.Format(DisplayTimeLayout)
}

// MessageStore holds the ordered history of a single room.
// Insertion order is display order. It is not safe for concurrent use.
type MessageStore struct {
	messages []Message
}

// NewMessageStore creates an empty message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Append adds a message to the end of the history.
func (s *MessageStore) Append(msg Message) {
	s.messages = append(s.messages, msg)
}

// Find returns the message with the given id.
func (s *MessageStore) Find(id int64) (Message, bool) {
	msg, _, ok := s.find(id)
	return msg, ok
}

// DeleteByID removes the message with the given id and returns it.
// A missing id is not an error; ok is false.
func (s *MessageStore) DeleteByID(id int64) (Message, bool) {
	msg, idx, ok := s.find(id)
	if !ok {
		return Message{}, false
	}
	s.messages = slices.Delete(s.messages, idx, idx+1)
	return msg, true
}

// Clear drops every message and reports how many were removed.
func (s *MessageStore) Clear() int {
	n := len(s.messages)
	s.messages = nil
	return n
}

// History returns a copy of the messages in append order.
func (s *MessageStore) History() []Message {
	if len(s.messages) == 0 {
		return []Message{}
	}
	return slices.Clone(s.messages)
}

// Len returns the number of stored messages.
func (s *MessageStore) Len() int {
	return len(s.messages)
}

// LastID returns the id of the newest message, or 0 when empty.
func (s *MessageStore) LastID() int64 {
	if len(s.messages) == 0 {
		return 0
	}
	return s.messages[len(s.messages)-1].ID
}

func (s *MessageStore) find(id int64) (Message, int, bool) {
	return lo.FindIndexOf(s.messages, func(m Message) bool {
		return m.ID == id
	})
}
