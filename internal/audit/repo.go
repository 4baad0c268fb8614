package audit

import (
	"context"
	"time"

	"github.com/evolutionflow/admin-bff/internal/repo"
	"gorm.io/gorm"
)

// Repository persists audit entries.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	repo.Base
}

// NewRepository binds the audit repository to a GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{Base: repo.NewBase(db)}
}

func (r *gormRepository) Create(ctx context.Context, entry *Entry) error {
	return r.DB(ctx).Create(entry).Error
}

func (r *gormRepository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	var rows []Entry
	query := r.DB(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Where("created_at < ?", cutoff).Delete(&Entry{})
	return res.RowsAffected, res.Error
}
