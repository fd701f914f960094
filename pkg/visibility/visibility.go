package visibility

import (
	"fmt"
	"strings"

	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
)

// Operation names an action exposed by the sales API.
type Operation string

const (
	OperationCreateSale        Operation = "create_sale"
	OperationSaveExternalOrder Operation = "save_external_order"
	OperationListProcessing    Operation = "list_processing"
	OperationListAll           Operation = "list_all"
	OperationExportAll         Operation = "export_all"
	OperationUpdateStatus      Operation = "update_status"
	OperationListDiscounts     Operation = "list_discounts"
)

// Policy pairs the roles allowed to run an operation with the roles that see every cashier's orders.
// Allowed roles outside SeeAll only ever see their own orders.
type Policy struct {
	Operation Operation
	Allowed   []enums.Role
	SeeAll    []enums.Role
}

var (
	everyone   = []enums.Role{enums.RoleAdmin, enums.RoleManager, enums.RoleStaff, enums.RoleCashier}
	privileged = []enums.Role{enums.RoleAdmin, enums.RoleManager}
)

var policies = map[Operation]Policy{
	OperationCreateSale:        {Allowed: everyone},
	OperationSaveExternalOrder: {Allowed: everyone},
	OperationListProcessing:    {Allowed: everyone, SeeAll: privileged},
	OperationListAll:           {Allowed: privileged, SeeAll: privileged},
	OperationExportAll:         {Allowed: privileged, SeeAll: privileged},
	OperationUpdateStatus:      {Allowed: everyone},
	OperationListDiscounts:     {Allowed: privileged},
}

// Authorize returns the policy for op when role may run it, and a FORBIDDEN error otherwise.
func Authorize(op Operation, role enums.Role) (Policy, error) {
	policy, ok := policies[op]
	if !ok {
		return Policy{}, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("no access policy for %q", op))
	}
	policy.Operation = op
	if !contains(policy.Allowed, role) {
		return Policy{}, pkgerrors.New(pkgerrors.CodeForbidden, "your role is not permitted to perform this action")
	}
	return policy, nil
}

// CashierScope resolves which cashier's orders the caller may see. A nil result means every cashier.
// Roles outside SeeAll are pinned to their own username and the requested filter is ignored.
func (p Policy) CashierScope(role enums.Role, username, requested string) *string {
	if !contains(p.SeeAll, role) {
		own := username
		return &own
	}
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return nil
	}
	return &requested
}

// Allows reports whether role appears in the operation's allow-list.
func Allows(op Operation, role enums.Role) bool {
	_, err := Authorize(op, role)
	return err == nil
}

func contains(roles []enums.Role, role enums.Role) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}
