package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/binita54/chat-app/internal/auth"
	"github.com/binita54/chat-app/internal/domain"
	"github.com/binita54/chat-app/internal/repository"
	"github.com/binita54/chat-app/pkg/log"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords
// alike, so login failures do not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

type userService struct {
	repo   repository.UserRepository
	tokens *auth.Manager
}

// NewUserService creates the account service.
func NewUserService(repo repository.UserRepository, tokens *auth.Manager) UserService {
	return &userService{repo: repo, tokens: tokens}
}

// Register creates a new account.
func (s *userService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserResponse, error) {
	l := log.Ctx(ctx)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrUsernameExists) {
			l.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

// Login verifies credentials and issues an access token.
func (s *userService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by username")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUsername, user.Username).Msg("failed to issue token")
		return nil, err
	}

	return &domain.AuthResponse{
		User:        user.ToResponse(),
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Get retrieves a user's public profile.
func (s *userService) Get(ctx context.Context, username string) (*domain.UserResponse, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
