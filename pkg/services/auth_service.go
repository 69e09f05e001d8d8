package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jgirmay/attendance/pkg/auth"
	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/logging"
	"github.com/jgirmay/attendance/pkg/models"
	"github.com/jgirmay/attendance/pkg/repository"
)

const invalidCredentials = "Invalid email or password"

// AuthService registers and authenticates accounts.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	hasher *auth.PasswordHasher
	logger *logging.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, hasher *auth.PasswordHasher, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, hasher: hasher, logger: logger}
}

// Register creates an account and returns it with a fresh token. Role
// defaults to employee.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = models.RoleEmployee
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err.Error())
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		EmployeeID:   strings.TrimSpace(req.EmployeeID),
		Department:   strings.TrimSpace(req.Department),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("User already exists")
		}
		return nil, apperrors.StoreUnavailable("create user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return s.respond(user)
}

// Login verifies credentials and returns the account with a fresh token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.StoreUnavailable("look up user", err)
	}
	if user == nil {
		return nil, apperrors.Unauthenticated(invalidCredentials)
	}
	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("password verification failed", zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, apperrors.Unauthenticated(invalidCredentials)
	}
	return s.respond(user)
}

// Me returns the account behind userID.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("look up user", err)
	}
	if user == nil {
		return nil, apperrors.Unauthenticated("User no longer exists")
	}
	return user, nil
}

// Authenticate resolves a bearer token to its claims.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.Unauthenticated("Token expired")
		}
		return nil, apperrors.Unauthenticated("Not authorized, token failed")
	}
	return claims, nil
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err.Error())
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}
