package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/pkg/jwt"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*model.UserResponse, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
}

type authService struct {
	identity IdentityProvider
	tokens   *jwt.Manager
	log      *zap.Logger
}

func NewAuthService(identity IdentityProvider, tokens *jwt.Manager, log *zap.Logger) AuthService {
	return &authService{
		identity: identity,
		tokens:   tokens,
		log:      log.Named("auth"),
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// 1. Find user by email
	user, err := s.identity.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !s.identity.VerifyPassword(user, req.Password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Issue token with the primary role
	role := user.PrimaryRole()
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email, user.Name, role)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("role", role))
	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Name:      user.Name,
		Role:      role,
		Message:   fmt.Sprintf("Bienvenido, %s", user.Name),
	}, nil
}

// Register creates a self-service CLIENT account.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user := &model.User{Name: req.Name, Email: req.Email}
	user.CreatedBy = "self-registration"
	if err := s.identity.CreateUser(ctx, user, req.Password, model.RoleClient); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}
