package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
)

// AuthService resolves identities: credential exchange, profile lookup and
// bootstrap of the initial admin account.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	CurrentUser(ctx context.Context, id uint) (dto.UserResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	repo      repository.UserRepository
	validator *validator.Validate
	secret    []byte
	accessTTL time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(repo repository.UserRepository, validate *validator.Validate, secret string, accessTTL time.Duration, logger zerolog.Logger) AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &authService{
		repo:      repo,
		validator: validate,
		secret:    []byte(secret),
		accessTTL: accessTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.repo.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if !user.Active {
		return dto.LoginResponse{}, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.accessTTL)
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        dto.NewUserResponse(user),
	}, nil
}

func (s *authService) CurrentUser(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

// EnsureAdmin creates the bootstrap admin account if the configured email is
// not registered yet. It is safe to call on every startup.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}

	if err := s.repo.Create(ctx, &admin); err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Msg("bootstrap admin account created")
	return nil
}
