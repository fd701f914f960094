package orders

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
	"github.com/bleupos/sales-service/pkg/logger"
	"github.com/bleupos/sales-service/pkg/visibility"
)

// Service exposes the role-scoped order views and the status workflow.
type Service interface {
	ListProcessing(ctx context.Context, viewer Viewer, cashierName string) ([]OrderView, error)
	ListAll(ctx context.Context, viewer Viewer, cashierName string) ([]OrderView, error)
	ExportAll(ctx context.Context, viewer Viewer, cashierName string, w io.Writer) error
	UpdateStatus(ctx context.Context, viewer Viewer, rawID, status string) (string, error)
}

// ServiceParams wires the order read path.
type ServiceParams struct {
	Logger        *logger.Logger
	Repo          Repository
	DisplayPrefix string
}

type service struct {
	logg       *logger.Logger
	repo       Repository
	aggregator Aggregator
	prefix     string
	now        func() time.Time
}

// NewService builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if strings.TrimSpace(params.DisplayPrefix) == "" {
		return nil, fmt.Errorf("display prefix required")
	}
	return &service{
		logg:       params.Logger,
		repo:       params.Repo,
		aggregator: NewAggregator(params.DisplayPrefix),
		prefix:     params.DisplayPrefix,
		now:        time.Now,
	}, nil
}

func (s *service) ListProcessing(ctx context.Context, viewer Viewer, cashierName string) ([]OrderView, error) {
	policy, err := visibility.Authorize(visibility.OperationListProcessing, viewer.Role)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, PlanProcessing(policy, viewer, cashierName))
}

func (s *service) ListAll(ctx context.Context, viewer Viewer, cashierName string) ([]OrderView, error) {
	policy, err := visibility.Authorize(visibility.OperationListAll, viewer.Role)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, PlanAll(policy, viewer, cashierName))
}

func (s *service) ExportAll(ctx context.Context, viewer Viewer, cashierName string, w io.Writer) error {
	policy, err := visibility.Authorize(visibility.OperationExportAll, viewer.Role)
	if err != nil {
		return err
	}
	views, err := s.list(ctx, PlanAll(policy, viewer, cashierName))
	if err != nil {
		return err
	}
	if err := WriteWorkbook(w, views); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to build order export")
	}
	return nil
}

func (s *service) list(ctx context.Context, query ListQuery) ([]OrderView, error) {
	rows, err := s.repo.ListOrderRows(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to fetch orders")
	}
	return s.aggregator.Aggregate(rows), nil
}

// UpdateStatus moves an order to a new status. Authorization, id and status are all checked before the write.
func (s *service) UpdateStatus(ctx context.Context, viewer Viewer, rawID, status string) (string, error) {
	if _, err := visibility.Authorize(visibility.OperationUpdateStatus, viewer.Role); err != nil {
		return "", err
	}
	saleID, err := ParseOrderID(s.prefix, rawID)
	if err != nil {
		return "", err
	}
	next, err := enums.ParseSaleStatus(status)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status").
			WithDetails(map[string]any{"allowed": enums.AllSaleStatuses()})
	}

	affected, err := s.repo.UpdateStatus(ctx, saleID, next, s.now().UTC())
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "an unexpected error occurred while updating the order status")
	}
	if affected == 0 {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order with id '%s' not found", strings.TrimSpace(rawID)))
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithSaleID(ctx, saleID), map[string]any{
		"status": next.String(),
	}), "order status updated")
	return fmt.Sprintf("Order %s status successfully updated to '%s'.", strings.TrimSpace(rawID), next), nil
}

// ParseOrderID accepts "42" or a display code such as "SO-42" (prefix matched case-insensitively).
func ParseOrderID(prefix, raw string) (int64, error) {
	value := strings.TrimSpace(raw)
	if prefix != "" && len(value) >= len(prefix) && strings.EqualFold(value[:len(prefix)], prefix) {
		value = value[len(prefix):]
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid order identifier").
			WithDetails(map[string]any{"orderId": raw, "expected": prefix + "<number>"})
	}
	return id, nil
}
