package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/observability"
	"github.com/atlasworks/atlas-api/internal/repository"
)

// AuditFailureHook is invoked when an audit append fails after a successful
// mutation, so callers can wire additional alerting beyond the warn log and
// the failure counter.
type AuditFailureHook func(entry ActivityEntry, err error)

// ContentService is the audited mutation facade for one content collection.
// Every successful mutation yields exactly one audit record; a failed
// mutation yields none. Audit appends are best effort: their failure never
// rolls back or hides the mutation result.
type ContentService[T any, P repository.ContentPtr[T]] interface {
	Create(ctx context.Context, actor Actor, item P) (P, error)
	Update(ctx context.Context, actor Actor, id uint, apply func(P) error, changes *dto.ChangeSet) (P, error)
	SetPublished(ctx context.Context, actor Actor, id uint, published bool) (P, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Get(ctx context.Context, id uint) (P, error)
	GetBySlug(ctx context.Context, slug string, includeUnpublished bool) (P, error)
	List(ctx context.Context, req dto.ContentListRequest) ([]P, dto.PaginationMeta, error)
}

type contentService[T any, P repository.ContentPtr[T]] struct {
	repo       repository.ContentRepository[T, P]
	activity   ActivityRecorder
	onAuditErr AuditFailureHook
	logger     zerolog.Logger
}

// NewContentService constructs the audited facade for one content variant.
// The failure hook may be nil.
func NewContentService[T any, P repository.ContentPtr[T]](repo repository.ContentRepository[T, P], activity ActivityRecorder, onAuditErr AuditFailureHook, logger zerolog.Logger) ContentService[T, P] {
	entityType := P(new(T)).EntityType()
	return &contentService[T, P]{
		repo:       repo,
		activity:   activity,
		onAuditErr: onAuditErr,
		logger:     logger.With().Str("component", entityType+"_service").Logger(),
	}
}

func (s *contentService[T, P]) Create(ctx context.Context, actor Actor, item P) (P, error) {
	if actor.ID == 0 {
		return nil, ErrActorRequired
	}

	meta := item.Meta()
	if strings.TrimSpace(meta.Slug) == "" {
		meta.Slug = generateSlug(item.DisplayName())
	} else {
		meta.Slug = slugify(meta.Slug)
	}
	meta.ID = 0
	meta.Published = false
	meta.CreatedBy = actor.ID
	meta.UpdatedBy = actor.ID

	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	s.recordMutation(ctx, actor, models.ActionCreate, item, nil)
	return item, nil
}

func (s *contentService[T, P]) Update(ctx context.Context, actor Actor, id uint, apply func(P) error, changes *dto.ChangeSet) (P, error) {
	if actor.ID == 0 {
		return nil, ErrActorRequired
	}

	if s.activity != nil {
		if err := s.activity.ValidateChanges(changes); err != nil {
			return nil, err
		}
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	before := *item.Meta()

	if err := apply(item); err != nil {
		return nil, err
	}

	// id, slug, creation metadata are immutable regardless of what apply did.
	meta := item.Meta()
	meta.ID = before.ID
	meta.Slug = before.Slug
	meta.CreatedAt = before.CreatedAt
	meta.CreatedBy = before.CreatedBy
	meta.UpdatedBy = actor.ID

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	action := models.ActionUpdate
	switch {
	case !before.Published && meta.Published:
		action = models.ActionPublish
	case before.Published && !meta.Published:
		action = models.ActionUnpublish
	}

	s.recordMutation(ctx, actor, action, item, changes)
	return item, nil
}

func (s *contentService[T, P]) SetPublished(ctx context.Context, actor Actor, id uint, published bool) (P, error) {
	return s.Update(ctx, actor, id, func(item P) error {
		item.Meta().Published = published
		return nil
	}, nil)
}

func (s *contentService[T, P]) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.ID == 0 {
		return ErrActorRequired
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}

	s.recordMutation(ctx, actor, models.ActionDelete, item, nil)
	return nil
}

func (s *contentService[T, P]) Get(ctx context.Context, id uint) (P, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *contentService[T, P]) GetBySlug(ctx context.Context, slug string, includeUnpublished bool) (P, error) {
	item, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	if !includeUnpublished && !item.Meta().Published {
		return nil, ErrContentNotFound
	}

	return item, nil
}

func (s *contentService[T, P]) List(ctx context.Context, req dto.ContentListRequest) ([]P, dto.PaginationMeta, error) {
	filter := repository.ContentFilter{
		Page:               normalizePage(req.Page),
		PageSize:           clampPageSize(req.PageSize),
		Search:             strings.TrimSpace(req.Search),
		IncludeUnpublished: req.IncludeUnpublished,
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	pagination := dto.PaginationMeta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: calculateTotalPages(total, filter.PageSize),
	}

	return items, pagination, nil
}

// recordMutation appends the audit record for a successful mutation. Append
// failures are surfaced through the warn log, the failure counter and the
// optional hook; the mutation itself has already succeeded and stands.
func (s *contentService[T, P]) recordMutation(ctx context.Context, actor Actor, action string, item P, changes *dto.ChangeSet) {
	entityType := item.EntityType()
	observability.ContentMutations().WithLabelValues(entityType, action).Inc()

	if s.activity == nil {
		return
	}

	id := item.Meta().ID
	entry := ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   &id,
		EntityName: item.DisplayName(),
		Changes:    changes,
	}

	if _, err := s.activity.Record(ctx, entry); err != nil {
		observability.AuditWriteFailures().WithLabelValues(entityType).Inc()
		s.logger.Warn().Err(err).Str("action", action).Uint("entity_id", id).Msg("audit append failed after successful mutation")
		if s.onAuditErr != nil {
			s.onAuditErr(entry, err)
		}
	}
}
