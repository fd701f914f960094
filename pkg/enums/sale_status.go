package enums

import (
	"fmt"
	"strings"
)

// SaleStatus tracks where a sale sits in the counter workflow.
type SaleStatus string

const (
	SaleStatusProcessing SaleStatus = "processing"
	SaleStatusCompleted  SaleStatus = "completed"
	SaleStatusCancelled  SaleStatus = "cancelled"
)

var validSaleStatuses = []SaleStatus{
	SaleStatusProcessing,
	SaleStatusCompleted,
	SaleStatusCancelled,
}

// String implements fmt.Stringer.
func (s SaleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SaleStatus.
func (s SaleStatus) IsValid() bool {
	for _, candidate := range validSaleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSaleStatus converts raw input into a SaleStatus. Matching ignores case and surrounding space.
func ParseSaleStatus(value string) (SaleStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSaleStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale status %q", value)
}

// OpenSaleStatuses are the statuses shown on the counter's processing board.
func OpenSaleStatuses() []SaleStatus {
	return []SaleStatus{SaleStatusProcessing, SaleStatusCompleted}
}

// AllSaleStatuses returns every status, cancelled included.
func AllSaleStatuses() []SaleStatus {
	out := make([]SaleStatus, len(validSaleStatuses))
	copy(out, validSaleStatuses)
	return out
}
