package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// CartItem is one priced line submitted at checkout.
type CartItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Category  string
	Addons    map[string]int
}

// Application is the amount one discount contributed before the subtotal cap.
type Application struct {
	DiscountID int64
	Name       string
	Amount     decimal.Decimal
}

// Quote is the priced result of a cart.
type Quote struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Applications   []Application
	// Clamped is set when the summed applications exceeded the subtotal.
	Clamped bool
}

// FinalTotal is what the customer pays.
func (q Quote) FinalTotal() decimal.Decimal {
	return q.Subtotal.Sub(q.DiscountAmount)
}

// DiscountFinder resolves active discounts by name.
type DiscountFinder interface {
	FindActiveByNames(ctx context.Context, names []string) ([]models.Discount, error)
}

// Calculator prices carts against an addon catalog and the active discounts.
type Calculator struct {
	catalog   AddonCatalog
	discounts DiscountFinder
}

// NewCalculator wires the immutable addon catalog and discount lookup.
func NewCalculator(catalog AddonCatalog, discounts DiscountFinder) (*Calculator, error) {
	if discounts == nil {
		return nil, fmt.Errorf("discount finder required")
	}
	return &Calculator{catalog: catalog, discounts: discounts}, nil
}

// LineTotal is (unit price + addon surcharge) × quantity.
func (c *Calculator) LineTotal(item CartItem) decimal.Decimal {
	unit := item.UnitPrice.Add(c.catalog.Surcharge(item.Addons))
	return unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal sums every line total.
func (c *Calculator) Subtotal(items []CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(c.LineTotal(item))
	}
	return subtotal
}

// Quote prices the cart and applies the requested discounts.
func (c *Calculator) Quote(ctx context.Context, items []CartItem, discountNames []string) (Quote, error) {
	if err := ValidateItems(items); err != nil {
		return Quote{}, err
	}

	quote := Quote{
		Subtotal:       c.Subtotal(items),
		DiscountAmount: decimal.Zero,
		Applications:   []Application{},
	}

	names := uniqueNames(discountNames)
	if len(names) == 0 {
		return quote, nil
	}

	discounts, err := c.discounts.FindActiveByNames(ctx, names)
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup discounts")
	}

	total := decimal.Zero
	for _, discount := range discounts {
		amount, ok := contribution(discount, quote.Subtotal)
		if !ok {
			continue
		}
		quote.Applications = append(quote.Applications, Application{
			DiscountID: discount.ID,
			Name:       discount.Name,
			Amount:     amount,
		})
		total = total.Add(amount)
	}

	if total.GreaterThan(quote.Subtotal) {
		total = quote.Subtotal
		quote.Clamped = true
	}
	quote.DiscountAmount = total
	return quote, nil
}

// ValidateItems rejects lines that cannot be priced.
func ValidateItems(items []CartItem) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "item name is required").
				WithDetails(map[string]any{"index": i})
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive").
				WithDetails(map[string]any{"index": i, "name": item.Name})
		}
		if item.UnitPrice.IsNegative() {
			return invalidMonetaryValue(fmt.Sprintf("cartItems[%d].price", i), item.UnitPrice.String())
		}
		for addon, qty := range item.Addons {
			if qty < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "addon quantity must not be negative").
					WithDetails(map[string]any{"index": i, "addon": addon})
			}
		}
	}
	return nil
}

// contribution returns a discount's raw amount, rounded to cents, when its minimum spend is met.
func contribution(discount models.Discount, subtotal decimal.Decimal) (decimal.Decimal, bool) {
	if discount.MinimumSpend.GreaterThan(subtotal) {
		return decimal.Zero, false
	}
	switch discount.Type {
	case enums.DiscountTypePercentage:
		return subtotal.Mul(discount.Value).Div(hundred).Round(2), true
	case enums.DiscountTypeFixedAmount:
		return discount.Value.Round(2), true
	default:
		return decimal.Zero, false
	}
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
