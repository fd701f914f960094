package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleNormalizes(t *testing.T) {
	role, err := ParseRole("  Manager ")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	_, err = ParseRole("supplier")
	require.Error(t, err)
	assert.False(t, NormalizeRole("supplier").IsValid())
}

func TestParseSaleStatus(t *testing.T) {
	status, err := ParseSaleStatus("Completed")
	require.NoError(t, err)
	assert.Equal(t, SaleStatusCompleted, status)

	_, err = ParseSaleStatus("refunded")
	require.Error(t, err)
}

func TestSaleStatusSets(t *testing.T) {
	assert.Equal(t, []SaleStatus{SaleStatusProcessing, SaleStatusCompleted}, OpenSaleStatuses())
	all := AllSaleStatuses()
	assert.Len(t, all, 3)
	assert.Contains(t, all, SaleStatusCancelled)

	all[0] = "mutated"
	assert.Equal(t, SaleStatusProcessing, AllSaleStatuses()[0])
}

func TestDiscountEnums(t *testing.T) {
	assert.True(t, DiscountTypePercentage.IsValid())
	assert.False(t, DiscountType("bogo").IsValid())

	status, err := ParseDiscountStatus("inactive")
	require.NoError(t, err)
	assert.Equal(t, DiscountStatusInactive, status)
}

func TestInventoryTargetFailureEvent(t *testing.T) {
	assert.Equal(t, "INGREDIENT-SYNC-FAILURE", InventoryTargetIngredients.FailureEvent())
	assert.Equal(t, "MATERIAL-SYNC-FAILURE", InventoryTargetMaterials.FailureEvent())
}
