package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bleupos/sales-service/pkg/enums"
)

// DeductionLine is one (item, quantity) pair sent to an inventory service.
type DeductionLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// InventorySyncFailure is a deduction that did not reach its inventory service and awaits replay.
type InventorySyncFailure struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	SaleID     int64                 `gorm:"column:sale_id;not null;index"`
	Target     enums.InventoryTarget `gorm:"column:target;type:text;not null"`
	Payload    []DeductionLine       `gorm:"column:payload;type:jsonb;serializer:json;not null"`
	Attempts   int                   `gorm:"column:attempts;not null;default:1"`
	LastError  string                `gorm:"column:last_error;not null;default:''"`
	ResolvedAt *time.Time            `gorm:"column:resolved_at"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
