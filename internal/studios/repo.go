package studios

import (
	"context"

	"github.com/evolutionflow/admin-bff/internal/repo"
	"gorm.io/gorm"
)

// Repository persists studios.
type Repository interface {
	List(ctx context.Context, limit int) ([]Studio, error)
	FindByID(ctx context.Context, id string) (*Studio, error)
	Create(ctx context.Context, studio *Studio) error
	Save(ctx context.Context, studio *Studio) error
	Count(ctx context.Context) (int64, error)
}

type gormRepository struct {
	repo.Base
}

// NewRepository binds the studio repository to a GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{Base: repo.NewBase(db)}
}

func (r *gormRepository) List(ctx context.Context, limit int) ([]Studio, error) {
	var rows []Studio
	query := r.DB(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Studio, error) {
	var studio Studio
	if err := r.DB(ctx).Where("id = ?", id).First(&studio).Error; err != nil {
		return nil, err
	}
	return &studio, nil
}

func (r *gormRepository) Create(ctx context.Context, studio *Studio) error {
	return r.DB(ctx).Create(studio).Error
}

func (r *gormRepository) Save(ctx context.Context, studio *Studio) error {
	return r.DB(ctx).Save(studio).Error
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&Studio{}).Count(&count).Error
	return count, err
}
