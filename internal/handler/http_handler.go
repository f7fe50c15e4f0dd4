package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/binita54/chat-app/internal/domain"
	"github.com/binita54/chat-app/internal/repository"
	"github.com/binita54/chat-app/internal/service"
	"github.com/binita54/chat-app/pkg/log"
	"github.com/binita54/chat-app/pkg/middleware"
	"github.com/binita54/chat-app/pkg/response"
)

// HTTPHandler serves the plain request/response surface: accounts, rooms,
// and the history endpoint.
type HTTPHandler struct {
	users   service.UserService
	rooms   service.RoomService
	history service.HistoryService
	authmw  *middleware.AuthMiddleware
}

// NewHTTPHandler creates the HTTP handler.
func NewHTTPHandler(users service.UserService, rooms service.RoomService, history service.HistoryService, authmw *middleware.AuthMiddleware) *HTTPHandler {
	return &HTTPHandler{
		users:   users,
		rooms:   rooms,
		history: history,
		authmw:  authmw,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("", h.Signup)
			users.POST("/login", h.Login)
			users.GET("/me", h.authmw.RequireAuth(), h.Me)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.ListRooms)
			rooms.GET("/:room_id", h.GetRoom)
			rooms.POST("", h.authmw.RequireAuth(), h.authmw.RequireRole(domain.RoleAdmin), h.CreateRoom)
			rooms.GET("/:room_id/messages", h.authmw.RequireAuth(), h.GetMessages)
		}
	}

	r.GET("/health", h.HealthCheck)
}

// Signup creates a new account.
func (h *HTTPHandler) Signup(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			response.Conflict(c, "username already exists")
			return
		}
		response.InternalError(c, "failed to create user")
		return
	}

	response.Created(c, user)
}

// Login authenticates and returns an access token.
func (h *HTTPHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.users.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid credentials")
			return
		}
		response.InternalError(c, "failed to log in")
		return
	}

	response.Success(c, res)
}

// Me returns the authenticated user's profile.
func (h *HTTPHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to get user")
		return
	}

	response.Success(c, user)
}

// CreateRoom creates a new room. Admin only.
func (h *HTTPHandler) CreateRoom(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.rooms.Create(ctx, &req)
	if err != nil {
		if errors.Is(err, repository.ErrRoomExists) {
			response.Conflict(c, "room name already exists")
			return
		}
		response.InternalError(c, "failed to create room")
		return
	}

	response.Created(c, room)
}

// ListRooms returns all rooms.
func (h *HTTPHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg("failed to list rooms")
		response.InternalError(c, "failed to list rooms")
		return
	}

	response.Success(c, rooms)
}

// GetRoom returns one room by id.
func (h *HTTPHandler) GetRoom(c *gin.Context) {
	room, err := h.rooms.Get(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		response.InternalError(c, "failed to get room")
		return
	}

	response.Success(c, room)
}

// GetMessages returns a history page, oldest-first, capped at the fixed
// page size. The optional before cursor pages strictly backward in time.
func (h *HTTPHandler) GetMessages(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := h.history.Page(ctx, c.Param("room_id"), parseCursor(c.Query("before")))
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to fetch history page")
		response.InternalError(c, "failed to fetch messages")
		return
	}

	response.Success(c, page)
}

// HealthCheck reports liveness.
func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
