package orders

import (
	"github.com/bleupos/sales-service/pkg/enums"
	"github.com/bleupos/sales-service/pkg/visibility"
)

// ListQuery is the resolved filter for one order listing.
type ListQuery struct {
	Statuses []enums.SaleStatus
	// Cashier narrows the listing to one cashier; nil lists every cashier.
	Cashier *string
	// NewestFirst flips the created_at, sale_id ordering to descending.
	NewestFirst bool
}

// Viewer is the authenticated caller of a read operation.
type Viewer struct {
	Username string
	Role     enums.Role
}

// PlanProcessing builds the processing-board query: open statuses, oldest first.
func PlanProcessing(policy visibility.Policy, viewer Viewer, requestedCashier string) ListQuery {
	return ListQuery{
		Statuses: enums.OpenSaleStatuses(),
		Cashier:  policy.CashierScope(viewer.Role, viewer.Username, requestedCashier),
	}
}

// PlanAll builds the full order history query: every status, newest first.
func PlanAll(policy visibility.Policy, viewer Viewer, requestedCashier string) ListQuery {
	return ListQuery{
		Statuses:    enums.AllSaleStatuses(),
		Cashier:     policy.CashierScope(viewer.Role, viewer.Username, requestedCashier),
		NewestFirst: true,
	}
}
