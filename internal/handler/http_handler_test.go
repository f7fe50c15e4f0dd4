package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binita54/chat-app/internal/domain"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *testStack) doJSON(t *testing.T, method, path, token string, payload any) (*http.Response, apiEnvelope) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var env apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestSignupAndLogin(t *testing.T) {
	req := require.New(t)
	s := newTestStack(t)

	resp, env := s.doJSON(t, http.MethodPost, "/api/v1/users", "", domain.RegisterRequest{
		Username: "alice",
		Password: "password123",
		Role:     domain.RoleUser,
	})
	req.Equal(http.StatusCreated, resp.StatusCode)
	req.True(env.Success)

	// Same username again is a conflict.
	resp, env = s.doJSON(t, http.MethodPost, "/api/v1/users", "", domain.RegisterRequest{
		Username: "alice",
		Password: "password123",
		Role:     domain.RoleUser,
	})
	req.Equal(http.StatusConflict, resp.StatusCode)
	req.False(env.Success)

	resp, _ = s.doJSON(t, http.MethodPost, "/api/v1/users/login", "", domain.LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	})
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, env = s.doJSON(t, http.MethodPost, "/api/v1/users/login", "", domain.LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	req.Equal(http.StatusOK, resp.StatusCode)

	var authResp domain.AuthResponse
	req.NoError(json.Unmarshal(env.Data, &authResp))
	req.NotEmpty(authResp.AccessToken)
	req.Equal("bearer", authResp.TokenType)

	// The issued token works against an authenticated route.
	resp, env = s.doJSON(t, http.MethodGet, "/api/v1/users/me", authResp.AccessToken, nil)
	req.Equal(http.StatusOK, resp.StatusCode)

	var me domain.UserResponse
	req.NoError(json.Unmarshal(env.Data, &me))
	req.Equal("alice", me.Username)
}

func TestRoomCreationIsAdminOnly(t *testing.T) {
	req := require.New(t)
	s := newTestStack(t)

	userToken := s.issueToken(t, "alice", domain.RoleUser)
	adminToken := s.issueToken(t, "root", domain.RoleAdmin)

	resp, _ := s.doJSON(t, http.MethodPost, "/api/v1/rooms", userToken, domain.CreateRoomRequest{
		Name: "General",
	})
	req.Equal(http.StatusForbidden, resp.StatusCode)

	resp, env := s.doJSON(t, http.MethodPost, "/api/v1/rooms", adminToken, domain.CreateRoomRequest{
		Name:        "General",
		Description: "Town square",
	})
	req.Equal(http.StatusCreated, resp.StatusCode)
	var created domain.RoomResponse
	req.NoError(json.Unmarshal(env.Data, &created))
	req.NotEmpty(created.ID)

	resp, _ = s.doJSON(t, http.MethodPost, "/api/v1/rooms", adminToken, domain.CreateRoomRequest{
		Name: "General",
	})
	req.Equal(http.StatusConflict, resp.StatusCode)

	resp, env = s.doJSON(t, http.MethodGet, "/api/v1/rooms/"+created.ID, "", nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var room domain.RoomResponse
	req.NoError(json.Unmarshal(env.Data, &room))
	req.Equal("General", room.Name)
	req.Equal("Town square", room.Description)

	resp, _ = s.doJSON(t, http.MethodGet, "/api/v1/rooms/no-such-room", "", nil)
	req.Equal(http.StatusNotFound, resp.StatusCode)

	resp, env = s.doJSON(t, http.MethodGet, "/api/v1/rooms", "", nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var rooms []domain.RoomResponse
	req.NoError(json.Unmarshal(env.Data, &rooms))
	req.Len(rooms, 1)
}

func TestHistoryEndpointRequiresAuth(t *testing.T) {
	req := require.New(t)
	s := newTestStack(t)

	resp, _ := s.doJSON(t, http.MethodGet, "/api/v1/rooms/general/messages", "", nil)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}
