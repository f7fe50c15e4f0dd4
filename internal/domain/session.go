package domain

import "time"

// Session is the in-memory state of one live connection. Identity and room
// are fixed at the handshake, before either pump starts, so no locking is
// needed after construction.
type Session struct {
	ID       string
	Username string
	Role     string
	RoomID   string
	JoinedAt time.Time
}

// NewSession creates the session state for an authenticated connection.
func NewSession(id, username, role, roomID string) *Session {
	return &Session{
		ID:       id,
		Username: username,
		Role:     role,
		RoomID:   roomID,
		JoinedAt: time.Now(),
	}
}
