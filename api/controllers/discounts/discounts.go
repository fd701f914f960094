package discounts

import (
	"net/http"
	"strings"

	"github.com/bleupos/sales-service/api/middleware"
	"github.com/bleupos/sales-service/api/responses"
	internaldiscounts "github.com/bleupos/sales-service/internal/discounts"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
	"github.com/bleupos/sales-service/pkg/logger"
)

// List returns the discount catalog, optionally filtered by ?status=active|inactive.
func List(svc internaldiscounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		status := strings.TrimSpace(r.URL.Query().Get("status"))
		list, err := svc.List(r.Context(), middleware.RoleFromContext(r.Context()), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
