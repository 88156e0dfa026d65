package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

type authUserRepository interface {
	FindActiveByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

type tokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

// AuthService provides the password login use case.
type AuthService struct {
	repo      authUserRepository
	tokens    tokenIssuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, tokens tokenIssuer, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, tokens: tokens, validator: validate, logger: logger}
}

// Login checks credentials and issues a session token. Unknown, inactive and wrong-password accounts are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username and password required")
	}

	user, err := s.repo.FindActiveByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, database.ErrNoResult) {
			s.logger.Info("login failed: unknown user", zap.String("username", req.Username), zap.String("ip", req.IP))
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if !user.IsActive {
		return nil, appErrors.ErrInvalidCredentials
	}

	if user.RequiresProvider(models.AuthProviderGoogle) {
		s.logger.Info("login blocked: account requires google sign-in", zap.Int64("user_id", user.UserID))
		return nil, appErrors.ErrAuthProviderRequired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login failed: bad password", zap.Int64("user_id", user.UserID), zap.String("ip", req.IP))
		return nil, appErrors.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.UserID); err != nil {
		s.logger.Warn("failed to update last login", zap.Int64("user_id", user.UserID), zap.Error(err))
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.UserID), zap.String("role", user.Role))

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: models.UserInfo{
			UserID:   user.UserID,
			Username: user.Username,
			Name:     user.FullName,
			Email:    user.Email,
			Role:     user.Role,
		},
	}, nil
}
