package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/models"
)

// ContentPtr constrains P to a pointer to a content variant.
type ContentPtr[T any] interface {
	*T
	models.Content
}

// ContentFilter narrows content listings.
type ContentFilter struct {
	Page               int
	PageSize           int
	Search             string
	IncludeUnpublished bool
}

// ContentRepository manages persistence for one content collection. A single
// implementation serves every variant; slug uniqueness is enforced by the
// store's unique index, not by check-then-insert.
type ContentRepository[T any, P ContentPtr[T]] interface {
	Create(ctx context.Context, item P) error
	Update(ctx context.Context, item P) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (P, error)
	GetBySlug(ctx context.Context, slug string) (P, error)
	List(ctx context.Context, filter ContentFilter) ([]P, int64, error)
}

type contentRepository[T any, P ContentPtr[T]] struct {
	db *gorm.DB
}

// NewContentRepository constructs a repository for one content variant.
func NewContentRepository[T any, P ContentPtr[T]](db *gorm.DB) ContentRepository[T, P] {
	return &contentRepository[T, P]{db: db}
}

func (r *contentRepository[T, P]) Create(ctx context.Context, item P) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *contentRepository[T, P]) Update(ctx context.Context, item P) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *contentRepository[T, P]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(P(new(T)), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contentRepository[T, P]) GetByID(ctx context.Context, id uint) (P, error) {
	var item T
	err := r.db.WithContext(ctx).First(&item, id).Error
	return P(&item), err
}

func (r *contentRepository[T, P]) GetBySlug(ctx context.Context, slug string) (P, error) {
	var item T
	err := r.db.WithContext(ctx).Where("slug = ?", strings.TrimSpace(slug)).First(&item).Error
	return P(&item), err
}

func (r *contentRepository[T, P]) List(ctx context.Context, filter ContentFilter) ([]P, int64, error) {
	query := r.db.WithContext(ctx).Model(P(new(T)))

	if !filter.IncludeUnpublished {
		query = query.Where("published = ?", true)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ?", pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var items []T
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	out := make([]P, 0, len(items))
	for i := range items {
		out = append(out, P(&items[i]))
	}

	return out, total, nil
}
