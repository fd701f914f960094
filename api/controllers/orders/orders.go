package orders

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bleupos/sales-service/api/middleware"
	"github.com/bleupos/sales-service/api/responses"
	"github.com/bleupos/sales-service/api/validators"
	internalorders "github.com/bleupos/sales-service/internal/orders"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
	"github.com/bleupos/sales-service/pkg/logger"
)

const cashierNameMaxLen = 100

type statusUpdateRequest struct {
	NewStatus string `json:"newStatus" validate:"required"`
}

type statusUpdateResponse struct {
	Message string `json:"message"`
}

// ListProcessing returns open orders; cashiers only ever see their own.
func ListProcessing(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		views, err := svc.ListProcessing(r.Context(), viewerFromRequest(r), cashierFilter(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// ListAll returns every order, cancelled included, newest first.
func ListAll(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		views, err := svc.ListAll(r.Context(), viewerFromRequest(r), cashierFilter(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// Export sends the full order history as an XLSX workbook.
func Export(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		// Buffered so a failed export can still be reported as JSON.
		var buf bytes.Buffer
		if err := svc.ExportAll(r.Context(), viewerFromRequest(r), cashierFilter(r), &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
		w.Header().Set("Content-Type", internalorders.ExportContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil && logg != nil {
			logg.Error(r.Context(), "write order export", err)
		}
	}
}

// UpdateStatus moves the order named in the path to the requested status.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.UpdateStatus(r.Context(), viewerFromRequest(r), chi.URLParam(r, "orderId"), payload.NewStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, statusUpdateResponse{Message: message})
	}
}

func viewerFromRequest(r *http.Request) internalorders.Viewer {
	return internalorders.Viewer{
		Username: middleware.UsernameFromContext(r.Context()),
		Role:     middleware.RoleFromContext(r.Context()),
	}
}

func cashierFilter(r *http.Request) string {
	return validators.SanitizeString(r.URL.Query().Get("cashierName"), cashierNameMaxLen)
}
