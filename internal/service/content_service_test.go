package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
)

type stubActivityRecorder struct {
	entries     []ActivityEntry
	recordErr   error
	validateErr error
}

func (s *stubActivityRecorder) Record(_ context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	if s.recordErr != nil {
		return dto.ActivityResponse{}, s.recordErr
	}
	s.entries = append(s.entries, entry)
	return dto.ActivityResponse{Action: entry.Action, EntityType: entry.EntityType, EntityID: entry.EntityID}, nil
}

func (s *stubActivityRecorder) ValidateChanges(_ *dto.ChangeSet) error {
	return s.validateErr
}

func setupProjectService(t *testing.T) (ContentService[models.Project, *models.Project], *stubActivityRecorder, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:content_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}))

	repo := repository.NewContentRepository[models.Project, *models.Project](db)
	activity := &stubActivityRecorder{}
	svc := NewContentService(repo, activity, nil, zerolog.Nop())

	return svc, activity, db
}

func TestContentServiceCreateGeneratesSlugAndRecordsAudit(t *testing.T) {
	svc, activity, _ := setupProjectService(t)
	actor := Actor{ID: 7, Role: models.RoleAdmin}

	created, err := svc.Create(context.Background(), actor, &models.Project{
		Title:       "Atlas Redesign",
		ContentMeta: models.ContentMeta{Published: true},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.True(t, strings.HasPrefix(created.Slug, "atlas-redesign-"))
	require.False(t, created.Published, "new content always starts unpublished")
	require.Equal(t, uint(7), created.CreatedBy)
	require.Equal(t, uint(7), created.UpdatedBy)

	require.Len(t, activity.entries, 1)
	entry := activity.entries[0]
	require.Equal(t, models.ActionCreate, entry.Action)
	require.Equal(t, "project", entry.EntityType)
	require.Equal(t, "Atlas Redesign", entry.EntityName)
	require.NotNil(t, entry.EntityID)
	require.Equal(t, created.ID, *entry.EntityID)
}

func TestContentServiceCreateRequiresActor(t *testing.T) {
	svc, activity, _ := setupProjectService(t)

	_, err := svc.Create(context.Background(), Actor{}, &models.Project{Title: "Orphan"})
	require.ErrorIs(t, err, ErrActorRequired)
	require.Empty(t, activity.entries)
}

func TestContentServiceCreateSlugConflict(t *testing.T) {
	svc, activity, _ := setupProjectService(t)
	actor := Actor{ID: 1, Role: models.RoleStaff}

	_, err := svc.Create(context.Background(), actor, &models.Project{
		Title:       "First",
		ContentMeta: models.ContentMeta{Slug: "atlas"},
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), actor, &models.Project{
		Title:       "Second",
		ContentMeta: models.ContentMeta{Slug: "atlas"},
	})
	require.ErrorIs(t, err, ErrSlugTaken)
	require.Len(t, activity.entries, 1, "failed mutation must not be audited")
}

func TestContentServiceUpdateAppliesPatchAndKeepsImmutables(t *testing.T) {
	svc, activity, _ := setupProjectService(t)
	creator := Actor{ID: 1, Role: models.RoleAdmin}
	editor := Actor{ID: 2, Role: models.RoleStaff}

	created, err := svc.Create(context.Background(), creator, &models.Project{Title: "Atlas Redesign"})
	require.NoError(t, err)
	originalSlug := created.Slug

	changes := &dto.ChangeSet{
		Before: map[string]interface{}{"title": "Atlas Redesign"},
		After:  map[string]interface{}{"title": "Atlas Relaunch"},
	}

	updated, err := svc.Update(context.Background(), editor, created.ID, func(p *models.Project) error {
		p.Title = "Atlas Relaunch"
		p.Slug = "hijacked"
		p.CreatedBy = 99
		return nil
	}, changes)
	require.NoError(t, err)
	require.Equal(t, "Atlas Relaunch", updated.Title)
	require.Equal(t, originalSlug, updated.Slug, "slug is immutable after create")
	require.Equal(t, uint(1), updated.CreatedBy)
	require.Equal(t, uint(2), updated.UpdatedBy)

	require.Len(t, activity.entries, 2)
	entry := activity.entries[1]
	require.Equal(t, models.ActionUpdate, entry.Action)
	require.Same(t, changes, entry.Changes, "change snapshots pass through untouched")
}

func TestContentServicePublishTransitionsDeriveActions(t *testing.T) {
	svc, activity, _ := setupProjectService(t)
	actor := Actor{ID: 3, Role: models.RoleAdmin}

	created, err := svc.Create(context.Background(), actor, &models.Project{Title: "Launch Notes"})
	require.NoError(t, err)

	published, err := svc.SetPublished(context.Background(), actor, created.ID, true)
	require.NoError(t, err)
	require.True(t, published.Published)

	// Republishing an already published row is a plain update.
	_, err = svc.SetPublished(context.Background(), actor, created.ID, true)
	require.NoError(t, err)

	unpublished, err := svc.SetPublished(context.Background(), actor, created.ID, false)
	require.NoError(t, err)
	require.False(t, unpublished.Published)

	require.Len(t, activity.entries, 4)
	require.Equal(t, models.ActionCreate, activity.entries[0].Action)
	require.Equal(t, models.ActionPublish, activity.entries[1].Action)
	require.Equal(t, models.ActionUpdate, activity.entries[2].Action)
	require.Equal(t, models.ActionUnpublish, activity.entries[3].Action)
}

func TestContentServiceUpdateRejectsInvalidChangesBeforeMutating(t *testing.T) {
	svc, activity, db := setupProjectService(t)
	actor := Actor{ID: 4, Role: models.RoleAdmin}

	created, err := svc.Create(context.Background(), actor, &models.Project{Title: "Stable"})
	require.NoError(t, err)

	activity.validateErr = ErrInvalidChanges
	_, err = svc.Update(context.Background(), actor, created.ID, func(p *models.Project) error {
		p.Title = "Mutated"
		return nil
	}, &dto.ChangeSet{})
	require.ErrorIs(t, err, ErrInvalidChanges)

	var stored models.Project
	require.NoError(t, db.First(&stored, created.ID).Error)
	require.Equal(t, "Stable", stored.Title, "rejected change set must not mutate")
	require.Len(t, activity.entries, 1)
}

func TestContentServiceUpdateNotFound(t *testing.T) {
	svc, _, _ := setupProjectService(t)

	_, err := svc.Update(context.Background(), Actor{ID: 1}, 4321, func(p *models.Project) error {
		return nil
	}, nil)
	require.ErrorIs(t, err, ErrContentNotFound)
}

func TestContentServiceDeleteRecordsAuditWithEntityName(t *testing.T) {
	svc, activity, _ := setupProjectService(t)
	actor := Actor{ID: 5, Role: models.RoleAdmin}

	created, err := svc.Create(context.Background(), actor, &models.Project{Title: "Short Lived"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), actor, created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrContentNotFound)

	require.Len(t, activity.entries, 2)
	entry := activity.entries[1]
	require.Equal(t, models.ActionDelete, entry.Action)
	require.Equal(t, "Short Lived", entry.EntityName, "name is captured before the row is gone")

	require.ErrorIs(t, svc.Delete(context.Background(), actor, created.ID), ErrContentNotFound)
}

func TestContentServiceAuditFailureDoesNotBlockMutation(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:content_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}))

	repo := repository.NewContentRepository[models.Project, *models.Project](db)
	activity := &stubActivityRecorder{recordErr: errors.New("audit store down")}

	var hookedEntry ActivityEntry
	var hookedErr error
	svc := NewContentService(repo, activity, func(entry ActivityEntry, err error) {
		hookedEntry = entry
		hookedErr = err
	}, zerolog.Nop())

	created, err := svc.Create(context.Background(), Actor{ID: 9, Role: models.RoleAdmin}, &models.Project{Title: "Resilient"})
	require.NoError(t, err, "audit append failure must not fail the mutation")
	require.NotZero(t, created.ID)

	stored, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Resilient", stored.Title)

	require.Error(t, hookedErr)
	require.Equal(t, models.ActionCreate, hookedEntry.Action)
	require.Equal(t, "project", hookedEntry.EntityType)
}

func TestContentServiceGetBySlugHidesUnpublished(t *testing.T) {
	svc, _, _ := setupProjectService(t)
	actor := Actor{ID: 6, Role: models.RoleAdmin}

	created, err := svc.Create(context.Background(), actor, &models.Project{Title: "Hidden Gem"})
	require.NoError(t, err)

	_, err = svc.GetBySlug(context.Background(), created.Slug, false)
	require.ErrorIs(t, err, ErrContentNotFound)

	found, err := svc.GetBySlug(context.Background(), created.Slug, true)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = svc.SetPublished(context.Background(), actor, created.ID, true)
	require.NoError(t, err)

	found, err = svc.GetBySlug(context.Background(), created.Slug, false)
	require.NoError(t, err)
	require.True(t, found.Published)
}

func TestContentServiceListFiltersPublishedAndSearches(t *testing.T) {
	svc, _, _ := setupProjectService(t)
	actor := Actor{ID: 8, Role: models.RoleAdmin}

	titles := []string{"Atlas Portal", "Atlas Mobile", "Internal Tooling"}
	ids := make([]uint, 0, len(titles))
	for _, title := range titles {
		created, err := svc.Create(context.Background(), actor, &models.Project{Title: title})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	for _, id := range ids[:2] {
		_, err := svc.SetPublished(context.Background(), actor, id, true)
		require.NoError(t, err)
	}

	items, pagination, err := svc.List(context.Background(), dto.ContentListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 2, "public listings only return published rows")
	require.Equal(t, int64(2), pagination.TotalItems)
	require.Equal(t, 1, pagination.Page)
	require.Equal(t, 20, pagination.PageSize)

	items, pagination, err = svc.List(context.Background(), dto.ContentListRequest{IncludeUnpublished: true})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, int64(3), pagination.TotalItems)

	items, _, err = svc.List(context.Background(), dto.ContentListRequest{Search: "mobile", IncludeUnpublished: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Atlas Mobile", items[0].Title)

	items, pagination, err = svc.List(context.Background(), dto.ContentListRequest{Page: 2, PageSize: 2, IncludeUnpublished: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 2, pagination.TotalPages)
}
