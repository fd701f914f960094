package discounts

import (
	"github.com/bleupos/sales-service/pkg/db/models"
)

// DiscountDTO is the wire shape of a catalog discount.
type DiscountDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Value        float64 `json:"value"`
	MinimumSpend float64 `json:"minimumSpend"`
	Status       string  `json:"status"`
}

func toDTO(row models.Discount) DiscountDTO {
	return DiscountDTO{
		ID:           row.ID,
		Name:         row.Name,
		Type:         row.Type.String(),
		Value:        row.Value.InexactFloat64(),
		MinimumSpend: row.MinimumSpend.InexactFloat64(),
		Status:       row.Status.String(),
	}
}
