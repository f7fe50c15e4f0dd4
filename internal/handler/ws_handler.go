package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/binita54/chat-app/internal/auth"
	"github.com/binita54/chat-app/internal/domain"
	"github.com/binita54/chat-app/internal/hub"
	"github.com/binita54/chat-app/internal/service"
	"github.com/binita54/chat-app/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler owns the live connection endpoint.
type WSHandler struct {
	hub     *hub.Hub
	chat    service.ChatService
	history service.HistoryService
	tokens  *auth.Manager
	wsCfg   hub.Config
}

// NewWSHandler creates the websocket handler.
func NewWSHandler(h *hub.Hub, chat service.ChatService, history service.HistoryService, tokens *auth.Manager, wsCfg hub.Config) *WSHandler {
	return &WSHandler{
		hub:     h,
		chat:    chat,
		history: history,
		tokens:  tokens,
		wsCfg:   wsCfg,
	}
}

// RegisterRoutes registers the websocket route.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/:room_id", h.HandleWebSocket)
}

// HandleWebSocket runs one session end-to-end: authenticate, register,
// replay history oldest-first, then relay live messages until the
// connection closes.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	roomID := c.Param("room_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// The channel is already upgraded, so an auth failure maps to a close
	// frame, not an HTTP status. The session is never registered.
	claims, err := h.tokens.Validate(c.Query("token"))
	if err != nil {
		closeConn(conn, websocket.ClosePolicyViolation, "unauthorized", h.wsCfg.WriteWait)
		conn.Close()
		return
	}

	sess := domain.NewSession(uuid.New().String(), claims.Subject, claims.Role, roomID)
	client := hub.NewClient(h.hub, conn, sess, h.wsCfg)

	h.hub.Join(roomID, client)

	l := log.L().With().
		Str(log.FieldClientID, client.ID).
		Str(log.FieldRoomID, roomID).
		Str(log.FieldUsername, sess.Username).
		Logger()
	l.Info().Msg("session started")

	// Replay history directly on the socket before WritePump starts, so the
	// page always precedes live messages on the wire. Broadcasts arriving
	// meanwhile queue up behind it in the send buffer.
	page, err := h.history.Page(c.Request.Context(), roomID, parseCursor(c.Query("before_timestamp")))
	if err != nil {
		l.Error().Err(err).Msg("history replay failed")
		client.CloseWithCode(websocket.CloseInternalServerErr, "internal error")
		h.hub.Leave(roomID, client)
		conn.Close()
		return
	}
	for _, rec := range page {
		if err := client.WriteDirect(rec); err != nil {
			h.hub.Leave(roomID, client)
			conn.Close()
			return
		}
	}

	go client.WritePump()
	client.ReadPump(func(payload []byte) error {
		return h.handleInbound(client, payload)
	})

	l.Info().Msg("session closed")
}

// handleInbound processes one live payload. Unparseable payloads and blank
// content are ignored; a store failure propagates and closes the session.
func (h *WSHandler) handleInbound(client *hub.Client, payload []byte) error {
	var in domain.InboundMessage
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil
	}

	err := h.chat.Post(context.Background(), client.Session.RoomID, client.Session.Username, in.Content)
	if errors.Is(err, service.ErrEmptyContent) {
		return nil
	}
	return err
}

func closeConn(conn *websocket.Conn, code int, reason string, writeWait time.Duration) {
	deadline := time.Now().Add(writeWait)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}
