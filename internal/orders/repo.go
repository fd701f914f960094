package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bleupos/sales-service/internal/repo"
	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/enums"
)

const orderRowColumns = `s.sale_id, s.order_type, s.payment_method, s.cashier_name, s.created_at,
	s.total_discount_amount, s.status, s.gcash_reference,
	si.sale_item_id, si.item_name, si.quantity, si.unit_price, si.category, si.addons`

// Repository reads the order join and mutates sale status.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListOrderRows(ctx context.Context, query ListQuery) ([]OrderRow, error)
	UpdateStatus(ctx context.Context, saleID int64, status enums.SaleStatus, at time.Time) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) ListOrderRows(ctx context.Context, query ListQuery) ([]OrderRow, error) {
	statuses := make([]string, 0, len(query.Statuses))
	for _, status := range query.Statuses {
		statuses = append(statuses, status.String())
	}

	direction := "ASC"
	if query.NewestFirst {
		direction = "DESC"
	}

	stmt := r.DB(ctx).
		Table("sales AS s").
		Select(orderRowColumns).
		Joins("LEFT JOIN sale_items AS si ON si.sale_id = s.sale_id").
		Where("s.status IN ?", statuses)
	if query.Cashier != nil {
		stmt = stmt.Where("s.cashier_name = ?", *query.Cashier)
	}
	stmt = stmt.
		Order("s.created_at " + direction).
		Order("s.sale_id " + direction).
		Order("si.sale_item_id ASC")

	var rows []OrderRow
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the status of one sale and reports how many rows matched.
func (r *repository) UpdateStatus(ctx context.Context, saleID int64, status enums.SaleStatus, at time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Sale{}).
		Where("sale_id = ?", saleID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}
