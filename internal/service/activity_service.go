package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
)

// changeSetSchema constrains caller-supplied audit snapshots: both sides must
// be objects, nothing else is accepted.
const changeSetSchema = `{
	"type": "object",
	"properties": {
		"before": {"type": "object"},
		"after": {"type": "object"}
	},
	"required": ["before", "after"],
	"additionalProperties": false
}`

var validActions = map[string]struct{}{
	models.ActionCreate:    {},
	models.ActionUpdate:    {},
	models.ActionDelete:    {},
	models.ActionPublish:   {},
	models.ActionUnpublish: {},
}

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	Actor      Actor
	Action     string
	EntityType string
	EntityID   *uint
	EntityName string
	Changes    *dto.ChangeSet
}

// ActivityRecorder defines behaviour for recording audit entries. Mutation
// facades validate change sets up front so that Record itself can only fail
// on infrastructure problems.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
	ValidateChanges(changes *dto.ChangeSet) error
}

// ActivityService exposes the append-only audit trail. There is deliberately
// no update or delete on this contract.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	ListByEntity(ctx context.Context, entityType string, entityID uint) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo    repository.ActivityLogRepository
	users   repository.UserRepository
	broker  *ActivityBroker
	nats    *nats.Conn
	subject string
	schema  *jsonschema.Schema
	logger  zerolog.Logger
}

// NewActivityService constructs the audit trail service. The broker and NATS
// connection are optional; both fan-outs are best effort.
func NewActivityService(repo repository.ActivityLogRepository, users repository.UserRepository, broker *ActivityBroker, natsConn *nats.Conn, subject string, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:    repo,
		users:   users,
		broker:  broker,
		nats:    natsConn,
		subject: subject,
		schema:  jsonschema.MustCompileString("changes.json", changeSetSchema),
		logger:  logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) ValidateChanges(changes *dto.ChangeSet) error {
	if changes == nil {
		return nil
	}

	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}

	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}

	if err := s.schema.Validate(decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}

	return nil
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	if _, ok := validActions[action]; !ok {
		return dto.ActivityResponse{}, fmt.Errorf("unknown audit action %q", entry.Action)
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return dto.ActivityResponse{}, fmt.Errorf("entity type is required")
	}

	model := models.ActivityLog{
		ActorID:    entry.Actor.ID,
		ActorRole:  normalizeActorRole(entry.Actor.Role),
		Action:     action,
		EntityType: strings.ToLower(strings.TrimSpace(entry.EntityType)),
		EntityID:   entry.EntityID,
		EntityName: strings.TrimSpace(entry.EntityName),
		Changes:    changesToJSONMap(entry.Changes),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("entity_type", model.EntityType).Msg("failed to persist activity log")
		return dto.ActivityResponse{}, err
	}

	response := dto.NewActivityResponse(model)
	s.fanOut(response)

	return response, nil
}

func (s *activityService) fanOut(record dto.ActivityResponse) {
	if s.broker != nil {
		s.broker.Broadcast(record)
	}

	if s.nats != nil && s.subject != "" {
		payload, err := json.Marshal(record)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to encode activity event")
			return
		}
		if err := s.nats.Publish(s.subject, payload); err != nil {
			s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish activity event")
		}
	}
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	filter := repository.ActivityLogFilter{
		Page:       normalizePage(req.Page),
		PageSize:   clampPageSize(req.PageSize),
		Action:     strings.TrimSpace(req.Action),
		EntityType: strings.TrimSpace(req.EntityType),
	}
	if req.ActorID > 0 {
		filter.ActorID = &req.ActorID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := s.withActors(ctx, entries)

	pagination := dto.PaginationMeta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: calculateTotalPages(total, filter.PageSize),
	}

	return dto.ActivityListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *activityService) ListByEntity(ctx context.Context, entityType string, entityID uint) ([]dto.ActivityResponse, error) {
	entries, err := s.repo.ListByEntity(ctx, strings.ToLower(strings.TrimSpace(entityType)), entityID)
	if err != nil {
		return nil, err
	}

	return s.withActors(ctx, entries), nil
}

// withActors joins actor display info at read time. A failed lookup leaves
// the actor fields null; records are never dropped because of it.
func (s *activityService) withActors(ctx context.Context, entries []models.ActivityLog) []dto.ActivityResponse {
	ids := make([]uint, 0, len(entries))
	seen := make(map[uint]struct{}, len(entries))
	for _, entry := range entries {
		if entry.ActorID == 0 {
			continue
		}
		if _, ok := seen[entry.ActorID]; ok {
			continue
		}
		seen[entry.ActorID] = struct{}{}
		ids = append(ids, entry.ActorID)
	}

	var actors map[uint]models.User
	if s.users != nil && len(ids) > 0 {
		var err error
		actors, err = s.users.GetByIDs(ctx, ids)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to resolve activity actors")
			actors = nil
		}
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		response := dto.NewActivityResponse(entry)
		if actor, ok := actors[entry.ActorID]; ok {
			name := actor.Name
			email := actor.Email
			response.Actor.Name = &name
			response.Actor.Email = &email
			response.Actor.Role = actor.Role
		}
		responses = append(responses, response)
	}

	return responses
}

func changesToJSONMap(changes *dto.ChangeSet) datatypes.JSONMap {
	if changes == nil {
		return nil
	}
	return datatypes.JSONMap{
		"before": sanitizeSnapshot(changes.Before),
		"after":  sanitizeSnapshot(changes.After),
	}
}

// sanitizeSnapshot masks credential-like keys before the snapshot is stored.
func sanitizeSnapshot(snapshot map[string]interface{}) map[string]interface{} {
	if snapshot == nil {
		return map[string]interface{}{}
	}

	sanitized := make(map[string]interface{}, len(snapshot))
	for key, value := range snapshot {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") || strings.Contains(lower, "secret") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func normalizeActorRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return "system"
	}
	return r
}
