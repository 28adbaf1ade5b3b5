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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/handler"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
	"github.com/atlasworks/atlas-api/internal/service"
)

func setupTaskApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:task_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Task{}, &models.ActivityLog{}, &models.User{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	activityService := service.NewActivityService(
		repository.NewActivityLogRepository(db),
		repository.NewUserRepository(db),
		nil, nil, "", logger,
	)
	taskService := service.NewTaskService(repository.NewTaskRepository(db), validate, activityService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)

	app := fiber.New()
	taskHandler.Register(app.Group("/api/v1/admin/tasks", fakeAuth(7, models.RoleStaff)))

	return app
}

type taskBody struct {
	Success bool             `json:"success"`
	Data    dto.TaskResponse `json:"data"`
	Message string           `json:"message"`
}

func TestTaskHandlerCreateUpdateDelete(t *testing.T) {
	app := setupTaskApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/admin/tasks", dto.TaskRequest{
		Title:   "Draft launch checklist",
		Details: "Cover DNS, uptime checks and rollback steps.",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created taskBody
	decodeResponse(t, resp, &created)
	require.Equal(t, "task created", created.Message)
	require.Equal(t, "todo", created.Data.Status)
	require.Equal(t, uint(7), created.Data.CreatedBy)

	status := "in_progress"
	resp, err = app.Test(jsonRequest(t, "PATCH", fmt.Sprintf("/api/v1/admin/tasks/%d", created.Data.ID), dto.TaskUpdateRequest{Status: &status}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated taskBody
	decodeResponse(t, resp, &updated)
	require.Equal(t, "in_progress", updated.Data.Status)

	resp, err = app.Test(httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/admin/tasks/%d", created.Data.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", fmt.Sprintf("/api/v1/admin/tasks/%d", created.Data.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTaskHandlerListFilters(t *testing.T) {
	app := setupTaskApp(t)

	seeds := []dto.TaskRequest{
		{Title: "Write case study draft", Status: "in_progress"},
		{Title: "Review homepage copy"},
		{Title: "Close out sprint", Status: "done"},
	}
	for _, seed := range seeds {
		resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/admin/tasks", seed))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/admin/tasks?status=in_progress", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list struct {
		Success bool                 `json:"success"`
		Data    dto.TaskListResponse `json:"data"`
	}
	decodeResponse(t, resp, &list)
	require.Len(t, list.Data.Items, 1)
	require.Equal(t, "Write case study draft", list.Data.Items[0].Title)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/admin/tasks?assignee_id=oops", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
