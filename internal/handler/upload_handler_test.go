package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/handler"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
	"github.com/atlasworks/atlas-api/internal/service"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

type testUploadStorage struct{}

func (t *testUploadStorage) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	return "https://cdn.example.com/" + name, nil
}

func setupUploadApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:upload_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UploadRecord{}))

	logger := zerolog.New(io.Discard)
	uploadService := service.NewUploadService(&testUploadStorage{}, repository.NewUploadRepository(db), 10, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)

	app := fiber.New()
	uploadHandler.Register(app.Group("/api/v1/admin/uploads", fakeAuth(7, models.RoleAdmin)))

	return app
}

func multipartRequest(t *testing.T, target, fileName string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadHandlerStoresFileAndListsIt(t *testing.T) {
	app := setupUploadApp(t)

	resp, err := app.Test(multipartRequest(t, "/api/v1/admin/uploads", "Hero Banner.PNG", pngBytes))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool               `json:"success"`
		Data    dto.UploadResponse `json:"data"`
		Message string             `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "upload successful", body.Message)
	require.Equal(t, "hero-banner.png", body.Data.FileName)
	require.Equal(t, "https://cdn.example.com/hero-banner.png", body.Data.URL)
	require.Equal(t, "image/png", body.Data.MimeType)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/admin/uploads?limit=5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list struct {
		Success bool                 `json:"success"`
		Data    []dto.UploadResponse `json:"data"`
	}
	decodeResponse(t, resp, &list)
	require.Len(t, list.Data, 1)
}

func TestUploadHandlerRejectsBadUploads(t *testing.T) {
	app := setupUploadApp(t)

	resp, err := app.Test(multipartRequest(t, "/api/v1/admin/uploads", "notes.txt", []byte("plain text payload")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	missing := httptest.NewRequest("POST", "/api/v1/admin/uploads", nil)
	resp, err = app.Test(missing)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
