package sales

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bleupos/sales-service/internal/repo"
	"github.com/bleupos/sales-service/pkg/db/models"
)

// Repository writes the sale header and its children.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSale(ctx context.Context, sale *models.Sale) error
	CreateItems(ctx context.Context, items []models.SaleItem) error
	CreateDiscounts(ctx context.Context, applications []models.SaleDiscount) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

// CreateSale inserts the header only; the generated id is written back onto sale.
func (r *repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.DB(ctx).Omit(clause.Associations).Create(sale).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&items).Error
}

func (r *repository) CreateDiscounts(ctx context.Context, applications []models.SaleDiscount) error {
	if len(applications) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&applications).Error
}
