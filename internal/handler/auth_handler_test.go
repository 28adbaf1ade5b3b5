package handler_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/handler"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
	"github.com/atlasworks/atlas-api/internal/service"
)

func setupAuthApp(t *testing.T) (*fiber.App, models.User) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: "Dana", Email: "dana@example.com", PasswordHash: string(hash), Role: models.RoleStaff, Active: true}
	require.NoError(t, db.Create(&user).Error)

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	authService := service.NewAuthService(repository.NewUserRepository(db), validate, "handler-test-secret", time.Hour, logger)
	authHandler := handler.NewAuthHandler(authService, validate, logger)

	app := fiber.New()
	authHandler.RegisterPublic(app.Group("/api/v1/auth"))
	authHandler.RegisterProtected(app.Group("/api/v1/auth", fakeAuth(user.ID, user.Role)))

	return app, user
}

func TestAuthHandlerLogin(t *testing.T) {
	app, user := setupAuthApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/login", dto.LoginRequest{
		Email:    "dana@example.com",
		Password: "s3cret-password",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
		Message string            `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "login successful", body.Message)
	require.NotEmpty(t, body.Data.AccessToken)
	require.Equal(t, user.Email, body.Data.User.Email)
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	app, _ := setupAuthApp(t)

	cases := []struct {
		name string
		req  dto.LoginRequest
		want int
	}{
		{"wrong password", dto.LoginRequest{Email: "dana@example.com", Password: "wrong-password"}, fiber.StatusUnauthorized},
		{"unknown account", dto.LoginRequest{Email: "ghost@example.com", Password: "s3cret-password"}, fiber.StatusUnauthorized},
		{"invalid payload", dto.LoginRequest{Email: "not-an-email", Password: "s3cret-password"}, fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/login", tc.req))
			require.NoError(t, err)
			require.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestAuthHandlerMe(t *testing.T) {
	app, user := setupAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/auth/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, user.ID, body.Data.ID)
	require.Equal(t, models.RoleStaff, body.Data.Role)
}
