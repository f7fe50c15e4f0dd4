package domain

import "time"

// Message is one stored chat message. The ID is assigned by the store and is
// monotonic per room; Timestamp is assigned server-side before the append.
type Message struct {
	ID        uint
	RoomID    string
	Username  string
	Content   string
	Timestamp time.Time
}

// ChatRecord is the wire form of a message, pushed over the websocket and
// returned by the history endpoint.
type ChatRecord struct {
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// InboundMessage is what a live client posts.
type InboundMessage struct {
	Content string `json:"content"`
}

// ToRecord converts a Message to its wire form.
func (m *Message) ToRecord() ChatRecord {
	return ChatRecord{
		Username:  m.Username,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}
