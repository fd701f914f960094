package orders

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout renders order timestamps the way the counter screens show them.
const DateLayout = "January 02, 2006 03:04 PM"

// OrderRow is one row of the sales LEFT JOIN sale_items query. Item columns are NULL for orders without lines.
type OrderRow struct {
	SaleID              int64           `gorm:"column:sale_id"`
	OrderType           string          `gorm:"column:order_type"`
	PaymentMethod       string          `gorm:"column:payment_method"`
	CashierName         string          `gorm:"column:cashier_name"`
	CreatedAt           time.Time       `gorm:"column:created_at"`
	TotalDiscountAmount decimal.Decimal `gorm:"column:total_discount_amount"`
	Status              string          `gorm:"column:status"`
	GCashReference      *string         `gorm:"column:gcash_reference"`

	SaleItemID *int64              `gorm:"column:sale_item_id"`
	ItemName   *string             `gorm:"column:item_name"`
	Quantity   *int                `gorm:"column:quantity"`
	UnitPrice  decimal.NullDecimal `gorm:"column:unit_price"`
	Category   *string             `gorm:"column:category"`
	Addons     *string             `gorm:"column:addons"`
}

// OrderItemView is a line inside an OrderView.
type OrderItemView struct {
	Name     string         `json:"name"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
	Category string         `json:"category"`
	Addons   map[string]any `json:"addons"`
}

// OrderView is the per-order projection rebuilt on every read.
type OrderView struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	ItemCount      int             `json:"items"`
	Total          float64         `json:"total"`
	Status         string          `json:"status"`
	OrderType      string          `json:"orderType"`
	PaymentMethod  string          `json:"paymentMethod"`
	CashierName    string          `json:"cashierName"`
	GCashReference *string         `json:"GCashReferenceNumber,omitempty"`
	Items          []OrderItemView `json:"orderItems"`

	saleID   int64
	subtotal decimal.Decimal
	discount decimal.Decimal
}

// SaleID is the numeric key behind the display id.
func (v OrderView) SaleID() int64 { return v.saleID }

// Aggregator folds flat join rows into one view per sale.
type Aggregator struct {
	displayPrefix string
}

func NewAggregator(displayPrefix string) Aggregator {
	return Aggregator{displayPrefix: displayPrefix}
}

// DisplayID formats a sale id for humans, e.g. SO-42.
func (a Aggregator) DisplayID(saleID int64) string {
	return a.displayPrefix + strconv.FormatInt(saleID, 10)
}

// Aggregate groups rows by sale id. Views come out in first-seen order, items in row order.
// total = Σ unitPrice × quantity − stored discount; addon surcharges are not part of the recomputation.
func (a Aggregator) Aggregate(rows []OrderRow) []OrderView {
	index := make(map[int64]*OrderView, len(rows))
	order := make([]int64, 0, len(rows))

	for _, row := range rows {
		view, ok := index[row.SaleID]
		if !ok {
			view = &OrderView{
				ID:             a.DisplayID(row.SaleID),
				Date:           row.CreatedAt.Format(DateLayout),
				Status:         row.Status,
				OrderType:      row.OrderType,
				PaymentMethod:  row.PaymentMethod,
				CashierName:    row.CashierName,
				GCashReference: row.GCashReference,
				Items:          []OrderItemView{},
				saleID:         row.SaleID,
				subtotal:       decimal.Zero,
				discount:       row.TotalDiscountAmount,
			}
			index[row.SaleID] = view
			order = append(order, row.SaleID)
		}
		if row.SaleItemID == nil {
			continue
		}

		quantity := 0
		if row.Quantity != nil {
			quantity = *row.Quantity
		}
		price := decimal.Zero
		if row.UnitPrice.Valid {
			price = row.UnitPrice.Decimal
		}
		view.ItemCount += quantity
		view.subtotal = view.subtotal.Add(price.Mul(decimal.NewFromInt(int64(quantity))))
		view.Items = append(view.Items, OrderItemView{
			Name:     deref(row.ItemName),
			Quantity: quantity,
			Price:    price.InexactFloat64(),
			Category: deref(row.Category),
			Addons:   decodeAddons(row.Addons),
		})
	}

	views := make([]OrderView, 0, len(order))
	for _, id := range order {
		view := index[id]
		view.Total = view.subtotal.Sub(view.discount).InexactFloat64()
		views = append(views, *view)
	}
	return views
}

func decodeAddons(raw *string) map[string]any {
	addons := map[string]any{}
	if raw == nil || *raw == "" {
		return addons
	}
	if err := json.Unmarshal([]byte(*raw), &addons); err != nil || addons == nil {
		return map[string]any{}
	}
	return addons
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
