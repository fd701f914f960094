package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bleupos/sales-service/pkg/enums"
)

// Discount is a named promotion looked up by the counter at checkout.
type Discount struct {
	ID           int64                `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string               `gorm:"column:name;not null;uniqueIndex"`
	Type         enums.DiscountType   `gorm:"column:type;type:text;not null"`
	Value        decimal.Decimal      `gorm:"column:value;type:numeric(12,2);not null"`
	MinimumSpend decimal.Decimal      `gorm:"column:minimum_spend;type:numeric(12,2);not null;default:0"`
	Status       enums.DiscountStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// SaleDiscount records what one discount contributed to a sale.
type SaleDiscount struct {
	SaleID        int64           `gorm:"column:sale_id;primaryKey"`
	DiscountID    int64           `gorm:"column:discount_id;primaryKey"`
	AppliedAmount decimal.Decimal `gorm:"column:applied_amount;type:numeric(12,2);not null"`
}
