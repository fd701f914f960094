package enums

import "fmt"

// InventoryTarget names a downstream stock system notified after a sale.
type InventoryTarget string

const (
	InventoryTargetIngredients InventoryTarget = "ingredients"
	InventoryTargetMaterials   InventoryTarget = "materials"
)

var validInventoryTargets = []InventoryTarget{
	InventoryTargetIngredients,
	InventoryTargetMaterials,
}

// String implements fmt.Stringer.
func (i InventoryTarget) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InventoryTarget.
func (i InventoryTarget) IsValid() bool {
	for _, candidate := range validInventoryTargets {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInventoryTarget converts raw input into an InventoryTarget.
func ParseInventoryTarget(value string) (InventoryTarget, error) {
	for _, candidate := range validInventoryTargets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory target %q", value)
}

// FailureEvent is the log event emitted when a deduction for this target is lost.
func (i InventoryTarget) FailureEvent() string {
	switch i {
	case InventoryTargetIngredients:
		return "INGREDIENT-SYNC-FAILURE"
	case InventoryTargetMaterials:
		return "MATERIAL-SYNC-FAILURE"
	default:
		return "INVENTORY-SYNC-FAILURE"
	}
}
