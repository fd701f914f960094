package models

import "github.com/shopspring/decimal"

// SaleItem is an immutable line captured at ingestion. Addons holds compact JSON or NULL.
type SaleItem struct {
	ID        int64           `gorm:"column:sale_item_id;primaryKey;autoIncrement"`
	SaleID    int64           `gorm:"column:sale_id;not null;index"`
	ItemName  string          `gorm:"column:item_name;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Category  string          `gorm:"column:category;not null;default:''"`
	Addons    *string         `gorm:"column:addons;type:text"`
}
