package pricing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
)

// ParseAmount converts a wire number into an exact decimal. Malformed values fail validation.
func ParseAmount(field string, raw json.Number) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw.String())
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, invalidMonetaryValue(field, value)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, invalidMonetaryValue(field, value)
	}
	return amount, nil
}

func invalidMonetaryValue(field, value string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid monetary value").
		WithDetails(map[string]any{"field": field, "value": value})
}
