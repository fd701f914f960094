package discounts

import (
	"context"
	"fmt"

	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
	"github.com/bleupos/sales-service/pkg/visibility"
)

// Service exposes the discount catalog to managers.
type Service interface {
	List(ctx context.Context, role enums.Role, status string) ([]DiscountDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a discount service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, role enums.Role, status string) ([]DiscountDTO, error) {
	if _, err := visibility.Authorize(visibility.OperationListDiscounts, role); err != nil {
		return nil, err
	}

	var filter *enums.DiscountStatus
	if status != "" {
		parsed, err := enums.ParseDiscountStatus(status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter = &parsed
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list discounts")
	}
	out := make([]DiscountDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}
