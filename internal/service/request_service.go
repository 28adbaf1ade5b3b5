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

const requestEntityType = "client_request"

// RequestService exposes audited operations over client requests. Clients
// create and read their own requests; staff move them through the workflow.
type RequestService interface {
	Create(ctx context.Context, actor Actor, payload dto.RequestCreateRequest) (dto.RequestResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, payload dto.RequestStatusRequest) (dto.RequestResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Get(ctx context.Context, actor Actor, id uint) (dto.RequestResponse, error)
	List(ctx context.Context, actor Actor, req dto.RequestListRequest) (dto.RequestListResponse, error)
}

type requestService struct {
	repo      repository.RequestRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewRequestService constructs the client request service.
func NewRequestService(repo repository.RequestRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) RequestService {
	return &requestService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "request_service").Logger(),
	}
}

func (s *requestService) Create(ctx context.Context, actor Actor, payload dto.RequestCreateRequest) (dto.RequestResponse, error) {
	if actor.ID == 0 {
		return dto.RequestResponse{}, ErrActorRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequestResponse{}, err
	}

	request := models.ClientRequest{
		Subject:   strings.TrimSpace(payload.Subject),
		Message:   strings.TrimSpace(payload.Message),
		Status:    models.RequestStatusNew,
		ClientID:  actor.ID,
		CreatedBy: actor.ID,
		UpdatedBy: actor.ID,
	}

	if err := s.repo.Create(ctx, &request); err != nil {
		return dto.RequestResponse{}, err
	}

	s.recordActivity(ctx, actor, models.ActionCreate, request.ID, request.Subject, nil)
	return dto.NewRequestResponse(request), nil
}

func (s *requestService) UpdateStatus(ctx context.Context, actor Actor, id uint, payload dto.RequestStatusRequest) (dto.RequestResponse, error) {
	if actor.ID == 0 {
		return dto.RequestResponse{}, ErrActorRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequestResponse{}, err
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RequestResponse{}, ErrRequestNotFound
		}
		return dto.RequestResponse{}, err
	}

	previous := request.Status
	request.Status = payload.Status
	request.UpdatedBy = actor.ID

	if err := s.repo.Update(ctx, &request); err != nil {
		return dto.RequestResponse{}, err
	}

	changes := &dto.ChangeSet{
		Before: map[string]interface{}{"status": previous},
		After:  map[string]interface{}{"status": request.Status},
	}
	s.recordActivity(ctx, actor, models.ActionUpdate, request.ID, request.Subject, changes)

	return dto.NewRequestResponse(request), nil
}

func (s *requestService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.ID == 0 {
		return ErrActorRequired
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	s.recordActivity(ctx, actor, models.ActionDelete, id, request.Subject, nil)
	return nil
}

func (s *requestService) Get(ctx context.Context, actor Actor, id uint) (dto.RequestResponse, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RequestResponse{}, ErrRequestNotFound
		}
		return dto.RequestResponse{}, err
	}

	// Clients may only read their own requests.
	if !actor.IsStaff() && request.ClientID != actor.ID {
		return dto.RequestResponse{}, ErrRequestNotFound
	}

	return dto.NewRequestResponse(request), nil
}

func (s *requestService) List(ctx context.Context, actor Actor, req dto.RequestListRequest) (dto.RequestListResponse, error) {
	filter := repository.RequestFilter{
		Page:     normalizePage(req.Page),
		PageSize: clampPageSize(req.PageSize),
		Status:   strings.TrimSpace(req.Status),
	}

	if actor.IsStaff() {
		if req.ClientID > 0 {
			filter.ClientID = &req.ClientID
		}
	} else {
		clientID := actor.ID
		filter.ClientID = &clientID
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.RequestListResponse{}, err
	}

	responses := make([]dto.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, dto.NewRequestResponse(request))
	}

	pagination := dto.PaginationMeta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: calculateTotalPages(total, filter.PageSize),
	}

	return dto.RequestListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *requestService) recordActivity(ctx context.Context, actor Actor, action string, id uint, name string, changes *dto.ChangeSet) {
	observability.ContentMutations().WithLabelValues(requestEntityType, action).Inc()

	if s.activity == nil {
		return
	}

	entry := ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: requestEntityType,
		EntityID:   &id,
		EntityName: name,
		Changes:    changes,
	}
	if _, err := s.activity.Record(ctx, entry); err != nil {
		observability.AuditWriteFailures().WithLabelValues(requestEntityType).Inc()
		s.logger.Warn().Err(err).Uint("entity_id", id).Msg("audit append failed after successful mutation")
	}
}
