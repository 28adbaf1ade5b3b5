package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/observability"
	"github.com/atlasworks/atlas-api/internal/repository"
)

const taskEntityType = "task"

// TaskService exposes audited CRUD over staff tasks. Tasks have no publish
// workflow, so the derived actions are limited to create/update/delete.
type TaskService interface {
	Create(ctx context.Context, actor Actor, payload dto.TaskRequest) (dto.TaskResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Get(ctx context.Context, id uint) (dto.TaskResponse, error)
	List(ctx context.Context, req dto.TaskListRequest) (dto.TaskListResponse, error)
}

type taskService struct {
	repo      repository.TaskRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewTaskService constructs the task service.
func NewTaskService(repo repository.TaskRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) TaskService {
	return &taskService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) Create(ctx context.Context, actor Actor, payload dto.TaskRequest) (dto.TaskResponse, error) {
	if actor.ID == 0 {
		return dto.TaskResponse{}, ErrActorRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.TaskStatusTodo
	}

	task := models.Task{
		Title:      strings.TrimSpace(payload.Title),
		Details:    strings.TrimSpace(payload.Details),
		Status:     status,
		AssigneeID: payload.AssigneeID,
		ProjectID:  payload.ProjectID,
		DueAt:      payload.DueAt,
		CreatedBy:  actor.ID,
		UpdatedBy:  actor.ID,
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.recordActivity(ctx, actor, models.ActionCreate, task.ID, task.Title, nil)
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, actor Actor, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if actor.ID == 0 {
		return dto.TaskResponse{}, ErrActorRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}
	if s.activity != nil {
		if err := s.activity.ValidateChanges(payload.Changes); err != nil {
			return dto.TaskResponse{}, err
		}
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	if payload.Title != nil {
		task.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Details != nil {
		task.Details = strings.TrimSpace(*payload.Details)
	}
	if payload.Status != nil {
		task.Status = *payload.Status
	}
	if payload.AssigneeID != nil {
		task.AssigneeID = payload.AssigneeID
	}
	if payload.ProjectID != nil {
		task.ProjectID = payload.ProjectID
	}
	if payload.DueAt != nil {
		task.DueAt = payload.DueAt
	}
	task.UpdatedBy = actor.ID

	if err := s.repo.Update(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.recordActivity(ctx, actor, models.ActionUpdate, task.ID, task.Title, payload.Changes)
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.ID == 0 {
		return ErrActorRequired
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.recordActivity(ctx, actor, models.ActionDelete, id, task.Title, nil)
	return nil
}

func (s *taskService) Get(ctx context.Context, id uint) (dto.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) List(ctx context.Context, req dto.TaskListRequest) (dto.TaskListResponse, error) {
	filter := repository.TaskFilter{
		Page:     normalizePage(req.Page),
		PageSize: clampPageSize(req.PageSize),
		Status:   strings.TrimSpace(req.Status),
	}
	if req.AssigneeID > 0 {
		filter.AssigneeID = &req.AssigneeID
	}

	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.TaskListResponse{}, err
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, dto.NewTaskResponse(task))
	}

	pagination := dto.PaginationMeta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: calculateTotalPages(total, filter.PageSize),
	}

	return dto.TaskListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *taskService) recordActivity(ctx context.Context, actor Actor, action string, id uint, name string, changes *dto.ChangeSet) {
	observability.ContentMutations().WithLabelValues(taskEntityType, action).Inc()

	if s.activity == nil {
		return
	}

	entry := ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: taskEntityType,
		EntityID:   &id,
		EntityName: name,
		Changes:    changes,
	}
	if _, err := s.activity.Record(ctx, entry); err != nil {
		observability.AuditWriteFailures().WithLabelValues(taskEntityType).Inc()
		s.logger.Warn().Err(err).Uint("entity_id", id).Msg("audit append failed after successful mutation")
	}
}
