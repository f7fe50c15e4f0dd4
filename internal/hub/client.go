package hub

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/binita54/chat-app/internal/domain"
	"github.com/binita54/chat-app/pkg/log"
)

const sendBufferSize = 256

// Config holds the websocket keepalive and framing settings.
type Config struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

// Client owns one live connection: the socket, its session state, and the
// private outbound queue drained by WritePump.
type Client struct {
	ID      string
	Session *domain.Session

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	cfg  Config
}

// NewClient wraps an upgraded connection. The session must already be
// authenticated.
func NewClient(h *Hub, conn *websocket.Conn, sess *domain.Session, cfg Config) *Client {
	return &Client{
		ID:      sess.ID,
		Session: sess,
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		cfg:     cfg,
	}
}

// WriteDirect writes a JSON value straight to the socket. Only valid before
// WritePump starts, during the history replay.
func (c *Client) WriteDirect(v interface{}) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
	return c.conn.WriteJSON(v)
}

// ReadPump reads inbound payloads and hands them to handle until the
// connection drops. A non-nil error from handle closes the connection with
// an internal-error code. Deregistration runs on every exit path.
func (c *Client) ReadPump(handle func(payload []byte) error) {
	defer func() {
		c.hub.Leave(c.Session.RoomID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l := log.L()
				l.Debug().Err(err).Str(log.FieldClientID, c.ID).Msg("websocket read error")
			}
			return
		}

		if err := handle(payload); err != nil {
			l := log.L()
			l.Error().Err(err).Str(log.FieldClientID, c.ID).Str(log.FieldRoomID, c.Session.RoomID).Msg("closing session")
			c.CloseWithCode(websocket.CloseInternalServerErr, "internal error")
			return
		}
	}
}

// WritePump relays queued messages to the socket in delivery order and keeps
// the connection alive with pings. It exits when the hub closes the send
// channel or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// CloseWithCode sends a close frame with the given status code.
func (c *Client) CloseWithCode(code int, reason string) {
	deadline := time.Now().Add(c.cfg.WriteWait)
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}
