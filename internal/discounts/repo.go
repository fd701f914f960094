package discounts

import (
	"context"

	"gorm.io/gorm"

	"github.com/bleupos/sales-service/internal/repo"
	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/enums"
)

// Repository reads the discount catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByNames(ctx context.Context, names []string) ([]models.Discount, error)
	List(ctx context.Context, status *enums.DiscountStatus) ([]models.Discount, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a discounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

// FindActiveByNames returns active discounts whose name matches exactly, in id order.
func (r *repository) FindActiveByNames(ctx context.Context, names []string) ([]models.Discount, error) {
	if len(names) == 0 {
		return []models.Discount{}, nil
	}
	var rows []models.Discount
	err := r.DB(ctx).
		Where("name IN ? AND status = ?", names, enums.DiscountStatusActive).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context, status *enums.DiscountStatus) ([]models.Discount, error) {
	query := r.DB(ctx).Model(&models.Discount{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.Discount
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
