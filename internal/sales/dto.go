package sales

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bleupos/sales-service/internal/pricing"
	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/enums"
)

// Actor is the authenticated caller on whose behalf a sale is written.
type Actor struct {
	Username string
	Role     enums.Role
	Token    string
}

// CartItemRequest is one line as submitted by the register or the online shop.
type CartItemRequest struct {
	Name     string         `json:"name" validate:"required"`
	Quantity int            `json:"quantity" validate:"required,min=1"`
	Price    json.Number    `json:"price" validate:"required"`
	Category string         `json:"category"`
	Addons   map[string]int `json:"addons,omitempty"`
}

// CreateSaleRequest is the counter checkout payload.
type CreateSaleRequest struct {
	CartItems        []CartItemRequest `json:"cartItems" validate:"required,min=1,dive"`
	OrderType        string            `json:"orderType" validate:"required"`
	PaymentMethod    string            `json:"paymentMethod" validate:"required"`
	AppliedDiscounts []string          `json:"appliedDiscounts"`
	GCashReference   *string           `json:"gcashReference,omitempty"`
}

// ExternalOrderRequest is an order already priced by the online channel.
type ExternalOrderRequest struct {
	OnlineOrderID string            `json:"onlineOrderId" validate:"required"`
	CartItems     []CartItemRequest `json:"cartItems" validate:"required,min=1,dive"`
	OrderType     string            `json:"orderType" validate:"required"`
	PaymentMethod string            `json:"paymentMethod" validate:"required"`
	TotalAmount   json.Number       `json:"totalAmount" validate:"required"`
	CashierName   string            `json:"cashierName,omitempty"`
}

// SaleResult is returned to the caller once the sale has committed.
type SaleResult struct {
	SaleID         int64   `json:"saleId"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalTotal     float64 `json:"finalTotal"`
}

func newSaleResult(saleID int64, subtotal, discount decimal.Decimal) *SaleResult {
	return &SaleResult{
		SaleID:         saleID,
		Subtotal:       subtotal.InexactFloat64(),
		DiscountAmount: discount.InexactFloat64(),
		FinalTotal:     subtotal.Sub(discount).InexactFloat64(),
	}
}

func toCartItems(reqs []CartItemRequest) ([]pricing.CartItem, error) {
	items := make([]pricing.CartItem, 0, len(reqs))
	for i, req := range reqs {
		price, err := pricing.ParseAmount(fmt.Sprintf("cartItems[%d].price", i), req.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, pricing.CartItem{
			Name:      req.Name,
			Quantity:  req.Quantity,
			UnitPrice: price,
			Category:  req.Category,
			Addons:    req.Addons,
		})
	}
	return items, nil
}

func toSaleItems(saleID int64, items []pricing.CartItem) ([]models.SaleItem, error) {
	rows := make([]models.SaleItem, 0, len(items))
	for _, item := range items {
		addons, err := encodeAddons(item.Addons)
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.SaleItem{
			SaleID:    saleID,
			ItemName:  item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Category:  item.Category,
			Addons:    addons,
		})
	}
	return rows, nil
}

func toSaleDiscounts(saleID int64, apps []pricing.Application) []models.SaleDiscount {
	rows := make([]models.SaleDiscount, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, models.SaleDiscount{
			SaleID:        saleID,
			DiscountID:    app.DiscountID,
			AppliedAmount: app.Amount,
		})
	}
	return rows
}

func toDeductionLines(items []pricing.CartItem) []models.DeductionLine {
	lines := make([]models.DeductionLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.DeductionLine{Name: item.Name, Quantity: item.Quantity})
	}
	return lines
}

// encodeAddons stores addons as compact JSON, or NULL when there are none.
func encodeAddons(addons map[string]int) (*string, error) {
	if len(addons) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(addons)
	if err != nil {
		return nil, err
	}
	encoded := string(raw)
	return &encoded, nil
}
