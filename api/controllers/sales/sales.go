package sales

import (
	"net/http"

	"github.com/bleupos/sales-service/api/middleware"
	"github.com/bleupos/sales-service/api/responses"
	"github.com/bleupos/sales-service/api/validators"
	internalsales "github.com/bleupos/sales-service/internal/sales"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
	"github.com/bleupos/sales-service/pkg/logger"
)

// Create records a counter sale and returns its totals.
func Create(svc internalsales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		var payload internalsales.CreateSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateSale(r.Context(), actorFromRequest(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// SaveExternal ingests an order priced by the online shop.
func SaveExternal(svc internalsales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		var payload internalsales.ExternalOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SaveExternalOrder(r.Context(), actorFromRequest(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func actorFromRequest(r *http.Request) internalsales.Actor {
	ctx := r.Context()
	return internalsales.Actor{
		Username: middleware.UsernameFromContext(ctx),
		Role:     middleware.RoleFromContext(ctx),
		Token:    middleware.TokenFromContext(ctx),
	}
}
