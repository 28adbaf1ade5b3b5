package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atlasworks/atlas-api/internal/models"
)

// StatsRepository manages portfolio headline metrics.
type StatsRepository interface {
	UpsertBatch(ctx context.Context, stats []models.PortfolioStat) (int64, error)
	List(ctx context.Context) ([]models.PortfolioStat, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository constructs a stats repository implementation.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) UpsertBatch(ctx context.Context, stats []models.PortfolioStat) (int64, error) {
	if len(stats) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "value", "sort_order", "updated_by", "updated_at"}),
	})

	result := tx.Create(&stats)
	return result.RowsAffected, result.Error
}

func (r *statsRepository) List(ctx context.Context) ([]models.PortfolioStat, error) {
	var stats []models.PortfolioStat
	err := r.db.WithContext(ctx).Order("sort_order ASC, key ASC").Find(&stats).Error
	return stats, err
}
