package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/atlasworks/atlas-api/internal/models"
)

// RequestFilter narrows client request listings.
type RequestFilter struct {
	Page     int
	PageSize int
	Status   string
	ClientID *uint
}

// RequestRepository manages client request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *models.ClientRequest) error
	Update(ctx context.Context, request *models.ClientRequest) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (models.ClientRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]models.ClientRequest, int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository constructs a client request repository implementation.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *models.ClientRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepository) Update(ctx context.Context, request *models.ClientRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientRequest{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (models.ClientRequest, error) {
	var request models.ClientRequest
	err := r.db.WithContext(ctx).First(&request, id).Error
	return request, err
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]models.ClientRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientRequest{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
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

	var requests []models.ClientRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
