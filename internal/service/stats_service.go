package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/observability"
	"github.com/atlasworks/atlas-api/internal/repository"
)

const (
	statsEntityType = "portfolio_stats"
	statsCacheKey   = "portfolio:stats:v1"
)

// StatsService serves the public headline metrics through a cache and lets
// staff rewrite them as one audited batch.
type StatsService interface {
	Get(ctx context.Context) ([]dto.StatResponse, error)
	Upsert(ctx context.Context, actor Actor, payload dto.StatsUpsertRequest) ([]dto.StatResponse, error)
}

type statsService struct {
	repo      repository.StatsRepository
	cache     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewStatsService constructs the stats service. The cache client may be nil;
// reads then go straight to the repository.
func NewStatsService(repo repository.StatsRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) StatsService {
	return &statsService{
		repo:      repo,
		cache:     cache,
		ttl:       ttl,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "stats_service").Logger(),
	}
}

func (s *statsService) Get(ctx context.Context) ([]dto.StatResponse, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var cached []dto.StatResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn().Err(err).Msg("discarding malformed stats cache entry")
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("stats cache read failed")
		}
	}

	stats, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StatResponse, 0, len(stats))
	for _, stat := range stats {
		responses = append(responses, dto.NewStatResponse(stat))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write stats cache")
			}
		}
	}

	return responses, nil
}

func (s *statsService) Upsert(ctx context.Context, actor Actor, payload dto.StatsUpsertRequest) ([]dto.StatResponse, error) {
	if actor.ID == 0 {
		return nil, ErrActorRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	stats := make([]models.PortfolioStat, 0, len(payload.Stats))
	for _, entry := range payload.Stats {
		stats = append(stats, models.PortfolioStat{
			Key:       slugify(entry.Key),
			Label:     strings.TrimSpace(entry.Label),
			Value:     strings.TrimSpace(entry.Value),
			SortOrder: entry.SortOrder,
			UpdatedBy: actor.ID,
		})
	}

	if _, err := s.repo.UpsertBatch(ctx, stats); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate stats cache")
		}
	}

	s.recordActivity(ctx, actor, len(stats))

	current, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StatResponse, 0, len(current))
	for _, stat := range current {
		responses = append(responses, dto.NewStatResponse(stat))
	}
	return responses, nil
}

func (s *statsService) recordActivity(ctx context.Context, actor Actor, count int) {
	observability.ContentMutations().WithLabelValues(statsEntityType, models.ActionUpdate).Inc()

	if s.activity == nil {
		return
	}

	entry := ActivityEntry{
		Actor:      actor,
		Action:     models.ActionUpdate,
		EntityType: statsEntityType,
		EntityName: "Portfolio stats",
	}
	if _, err := s.activity.Record(ctx, entry); err != nil {
		observability.AuditWriteFailures().WithLabelValues(statsEntityType).Inc()
		s.logger.Warn().Err(err).Int("stats", count).Msg("audit append failed after successful mutation")
	}
}
