package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bleupos/sales-service/pkg/enums"
)

// Sale is the order header written once per counter or online checkout.
type Sale struct {
	ID                  int64            `gorm:"column:sale_id;primaryKey;autoIncrement"`
	OrderType           string           `gorm:"column:order_type;not null"`
	PaymentMethod       string           `gorm:"column:payment_method;not null"`
	CashierName         string           `gorm:"column:cashier_name;not null"`
	TotalDiscountAmount decimal.Decimal  `gorm:"column:total_discount_amount;type:numeric(12,2);not null;default:0"`
	Status              enums.SaleStatus `gorm:"column:status;type:text;not null;default:'processing'"`
	GCashReference      *string          `gorm:"column:gcash_reference"`
	Items               []SaleItem       `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Discounts           []SaleDiscount   `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
