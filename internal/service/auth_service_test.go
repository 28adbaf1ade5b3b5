package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
)

const testJWTSecret = "test-secret-for-auth"

func setupAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAuthService(repository.NewUserRepository(db), validate, testJWTSecret, 15*time.Minute, zerolog.Nop())

	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string, active bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         "Test Account",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestAuthServiceLoginIssuesSignedToken(t *testing.T) {
	svc, db := setupAuthService(t)
	user := seedUser(t, db, "staff@example.com", "correct-horse", models.RoleStaff, true)

	result, err := svc.Login(context.Background(), dto.LoginRequest{Email: "staff@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, user.ID, result.User.ID)
	require.Equal(t, "staff@example.com", result.User.Email)
	require.True(t, result.ExpiresAt.After(time.Now()))

	parsed, err := jwt.Parse(result.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, float64(user.ID), claims["sub"])
	require.Equal(t, models.RoleStaff, claims["role"])
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc, db := setupAuthService(t)
	seedUser(t, db, "client@example.com", "valid-password", models.RoleClient, true)
	seedUser(t, db, "gone@example.com", "valid-password", models.RoleClient, false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "client@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "valid-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "gone@example.com", Password: "valid-password"})
	require.ErrorIs(t, err, ErrAccountDisabled)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "not-an-email", Password: "valid-password"})
	require.Error(t, err)
}

func TestAuthServiceCurrentUser(t *testing.T) {
	svc, db := setupAuthService(t)
	user := seedUser(t, db, "me@example.com", "valid-password", models.RoleAdmin, true)

	profile, err := svc.CurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "me@example.com", profile.Email)
	require.Equal(t, models.RoleAdmin, profile.Role)

	_, err = svc.CurrentUser(context.Background(), 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthServiceEnsureAdminIsIdempotent(t *testing.T) {
	svc, db := setupAuthService(t)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin@Example.com", "bootstrap-pass"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@example.com", "bootstrap-pass"))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count).Error)
	require.Equal(t, int64(1), count)

	result, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "bootstrap-pass"})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, result.User.Role)

	// Blank config means no bootstrap account is created.
	require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
}
