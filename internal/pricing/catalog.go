package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultAddonPrices is the counter's addon price list when no override is configured.
const DefaultAddonPrices = "espressoShots:25.00,seaSaltCream:30.00,syrupSauces:20.00"

// AddonCatalog maps addon names to their unit surcharge. It is immutable once built.
type AddonCatalog struct {
	prices map[string]decimal.Decimal
}

// NewAddonCatalog copies prices into a catalog.
func NewAddonCatalog(prices map[string]decimal.Decimal) AddonCatalog {
	copied := make(map[string]decimal.Decimal, len(prices))
	for name, price := range prices {
		copied[name] = price
	}
	return AddonCatalog{prices: copied}
}

// ParseAddonCatalog reads "name:price" pairs separated by commas.
func ParseAddonCatalog(raw string) (AddonCatalog, error) {
	prices := map[string]decimal.Decimal{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return AddonCatalog{}, fmt.Errorf("addon entry %q must be name:price", pair)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return AddonCatalog{}, fmt.Errorf("addon %q price: %w", name, err)
		}
		if price.IsNegative() {
			return AddonCatalog{}, fmt.Errorf("addon %q price must not be negative", name)
		}
		if _, dup := prices[name]; dup {
			return AddonCatalog{}, fmt.Errorf("addon %q listed twice", name)
		}
		prices[name] = price
	}
	return AddonCatalog{prices: prices}, nil
}

// DefaultAddonCatalog returns the built-in price list.
func DefaultAddonCatalog() AddonCatalog {
	catalog, err := ParseAddonCatalog(DefaultAddonPrices)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Price returns the surcharge for one unit of the named addon.
func (c AddonCatalog) Price(name string) (decimal.Decimal, bool) {
	price, ok := c.prices[name]
	return price, ok
}

// Names lists the catalog's addons alphabetically.
func (c AddonCatalog) Names() []string {
	names := make([]string, 0, len(c.prices))
	for name := range c.prices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Surcharge sums price × quantity for each known addon. Unknown names add nothing.
func (c AddonCatalog) Surcharge(addons map[string]int) decimal.Decimal {
	total := decimal.Zero
	for name, qty := range addons {
		price, ok := c.prices[name]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}
