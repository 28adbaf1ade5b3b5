package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
)

func setupStatsService(t *testing.T) (StatsService, *stubActivityRecorder, *miniredis.Miniredis) {
	t.Helper()

	dsn := fmt.Sprintf("file:stats_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PortfolioStat{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	validate := validator.New(validator.WithRequiredStructEnabled())
	activity := &stubActivityRecorder{}
	svc := NewStatsService(repository.NewStatsRepository(db), cache, time.Minute, validate, activity, zerolog.Nop())

	return svc, activity, mr
}

func TestStatsServiceUpsertAndOrderedRead(t *testing.T) {
	svc, activity, _ := setupStatsService(t)
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	stats, err := svc.Upsert(context.Background(), actor, dto.StatsUpsertRequest{Stats: []dto.StatEntry{
		{Key: "Projects Delivered", Label: "Projects delivered", Value: "120+", SortOrder: 2},
		{Key: "happy-clients", Label: "Happy clients", Value: "85", SortOrder: 1},
	}})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, "happy-clients", stats[0].Key, "reads come back in sort order")
	require.Equal(t, "projects-delivered", stats[1].Key, "keys are slugified")

	// One audit record covers the whole batch.
	require.Len(t, activity.entries, 1)
	require.Equal(t, models.ActionUpdate, activity.entries[0].Action)
	require.Equal(t, "portfolio_stats", activity.entries[0].EntityType)

	// Upserting the same key rewrites the row instead of duplicating it.
	stats, err = svc.Upsert(context.Background(), actor, dto.StatsUpsertRequest{Stats: []dto.StatEntry{
		{Key: "happy-clients", Label: "Happy clients", Value: "90", SortOrder: 1},
	}})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, "90", stats[0].Value)
}

func TestStatsServiceUpsertRequiresActorAndEntries(t *testing.T) {
	svc, _, _ := setupStatsService(t)

	_, err := svc.Upsert(context.Background(), Actor{}, dto.StatsUpsertRequest{Stats: []dto.StatEntry{
		{Key: "k", Label: "Label", Value: "1"},
	}})
	require.ErrorIs(t, err, ErrActorRequired)

	_, err = svc.Upsert(context.Background(), Actor{ID: 1}, dto.StatsUpsertRequest{})
	require.Error(t, err, "an empty batch is rejected")
}

func TestStatsServiceGetUsesCacheUntilInvalidated(t *testing.T) {
	svc, _, mr := setupStatsService(t)
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	_, err := svc.Upsert(context.Background(), actor, dto.StatsUpsertRequest{Stats: []dto.StatEntry{
		{Key: "uptime", Label: "Uptime", Value: "99.9%"},
	}})
	require.NoError(t, err)

	// First read warms the cache.
	stats, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.True(t, mr.Exists("portfolio:stats:v1"))

	// A stale cache entry is served as-is until an upsert clears it.
	require.NoError(t, mr.Set("portfolio:stats:v1", `[{"key":"cached","label":"Cached","value":"1","sort_order":0,"updated_at":"2026-01-01T00:00:00Z"}]`))
	stats, err = svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cached", stats[0].Key)

	_, err = svc.Upsert(context.Background(), actor, dto.StatsUpsertRequest{Stats: []dto.StatEntry{
		{Key: "uptime", Label: "Uptime", Value: "99.99%"},
	}})
	require.NoError(t, err)
	require.False(t, mr.Exists("portfolio:stats:v1"), "upserts invalidate the cache")

	stats, err = svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "uptime", stats[0].Key)
	require.Equal(t, "99.99%", stats[0].Value)
}

func TestStatsServiceReadsSurviveCacheOutage(t *testing.T) {
	svc, _, mr := setupStatsService(t)
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	_, err := svc.Upsert(context.Background(), actor, dto.StatsUpsertRequest{Stats: []dto.StatEntry{
		{Key: "team", Label: "Team size", Value: "14"},
	}})
	require.NoError(t, err)

	mr.SetError("cache down")
	defer mr.SetError("")

	stats, err := svc.Get(context.Background())
	require.NoError(t, err, "cache failures never fail reads")
	require.Len(t, stats, 1)
	require.Equal(t, "team", stats[0].Key)
}
