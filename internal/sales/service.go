package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bleupos/sales-service/internal/inventory"
	"github.com/bleupos/sales-service/internal/pricing"
	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
	"github.com/bleupos/sales-service/pkg/logger"
	"github.com/bleupos/sales-service/pkg/metrics"
	"github.com/bleupos/sales-service/pkg/visibility"
)

const (
	channelCounter = "counter"
	channelOnline  = "online"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type quoter interface {
	Quote(ctx context.Context, items []pricing.CartItem, discountNames []string) (pricing.Quote, error)
	Subtotal(items []pricing.CartItem) decimal.Decimal
}

type dispatcher interface {
	Dispatch(ctx context.Context, deduction inventory.Deduction)
}

// Service ingests counter sales and orders forwarded by the online channel.
type Service interface {
	CreateSale(ctx context.Context, actor Actor, req CreateSaleRequest) (*SaleResult, error)
	SaveExternalOrder(ctx context.Context, actor Actor, req ExternalOrderRequest) (*SaleResult, error)
}

// ServiceParams wires the sale write path.
type ServiceParams struct {
	Logger            *logger.Logger
	DB                txRunner
	Repo              Repository
	Calculator        quoter
	Dispatcher        dispatcher
	Metrics           *metrics.SalesMetrics
	ExternalRefPrefix string
}

type service struct {
	logg       *logger.Logger
	tx         txRunner
	repo       Repository
	calculator quoter
	dispatcher dispatcher
	metrics    *metrics.SalesMetrics
	refPrefix  string
}

// NewService builds the sales service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if params.Calculator == nil {
		return nil, fmt.Errorf("calculator required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("inventory dispatcher required")
	}
	return &service{
		logg:       params.Logger,
		tx:         params.DB,
		repo:       params.Repo,
		calculator: params.Calculator,
		dispatcher: params.Dispatcher,
		metrics:    params.Metrics,
		refPrefix:  params.ExternalRefPrefix,
	}, nil
}

// saleDraft is everything needed to write one sale.
type saleDraft struct {
	header       models.Sale
	items        []pricing.CartItem
	applications []pricing.Application
}

func (s *service) CreateSale(ctx context.Context, actor Actor, req CreateSaleRequest) (*SaleResult, error) {
	if _, err := visibility.Authorize(visibility.OperationCreateSale, actor.Role); err != nil {
		return nil, err
	}
	items, err := toCartItems(req.CartItems)
	if err != nil {
		return nil, err
	}
	quote, err := s.calculator.Quote(ctx, items, req.AppliedDiscounts)
	if err != nil {
		return nil, err
	}
	if quote.Clamped {
		s.metrics.IncDiscountClamped()
	}

	draft := saleDraft{
		header: models.Sale{
			OrderType:           strings.TrimSpace(req.OrderType),
			PaymentMethod:       strings.TrimSpace(req.PaymentMethod),
			CashierName:         cashierOrDefault(actor.Username),
			TotalDiscountAmount: quote.DiscountAmount,
			Status:              enums.SaleStatusProcessing,
			GCashReference:      trimmedOrNil(req.GCashReference),
		},
		items:        items,
		applications: quote.Applications,
	}
	saleID, err := s.persist(ctx, draft)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithSaleID(ctx, saleID)
	s.metrics.IncCreated(channelCounter)
	s.logg.Info(ctx, "sale created")
	s.notifyInventory(ctx, saleID, actor.Token, items)

	return newSaleResult(saleID, quote.Subtotal, quote.DiscountAmount), nil
}

func (s *service) SaveExternalOrder(ctx context.Context, actor Actor, req ExternalOrderRequest) (*SaleResult, error) {
	if _, err := visibility.Authorize(visibility.OperationSaveExternalOrder, actor.Role); err != nil {
		return nil, err
	}
	orderID := strings.TrimSpace(req.OnlineOrderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "online order id is required")
	}
	items, err := toCartItems(req.CartItems)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidateItems(items); err != nil {
		return nil, err
	}
	total, err := pricing.ParseAmount("totalAmount", req.TotalAmount)
	if err != nil {
		return nil, err
	}

	subtotal := s.calculator.Subtotal(items)
	discount := subtotal.Sub(total)
	// totalAmount is non-negative, so only an overpaid order leaves the [0, subtotal] range.
	if discount.IsNegative() {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"online_order_id": orderID,
			"subtotal":        subtotal.String(),
			"total_amount":    total.String(),
		}), "external order total does not reconcile with its items; discount clamped")
		s.metrics.IncDiscountClamped()
		discount = decimal.Zero
	}

	cashier := strings.TrimSpace(req.CashierName)
	if cashier == "" {
		cashier = cashierOrDefault(actor.Username)
	}
	reference := s.refPrefix + orderID

	draft := saleDraft{
		header: models.Sale{
			OrderType:           strings.TrimSpace(req.OrderType),
			PaymentMethod:       strings.TrimSpace(req.PaymentMethod),
			CashierName:         cashier,
			TotalDiscountAmount: discount,
			Status:              enums.SaleStatusProcessing,
			GCashReference:      &reference,
		},
		items: items,
	}
	saleID, err := s.persist(ctx, draft)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithSaleID(ctx, saleID)
	s.metrics.IncCreated(channelOnline)
	s.logg.Info(s.logg.WithField(ctx, "online_order_id", orderID), "external order saved")
	s.notifyInventory(ctx, saleID, actor.Token, items)

	return newSaleResult(saleID, subtotal, discount), nil
}

// persist writes header, items and discount applications in one transaction.
func (s *service) persist(ctx context.Context, draft saleDraft) (int64, error) {
	var saleID int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		header := draft.header
		if err := repo.CreateSale(ctx, &header); err != nil {
			return err
		}
		if header.ID == 0 {
			return pkgerrors.New(pkgerrors.CodeSaleCreationFailed, "sale could not be created")
		}

		rows, err := toSaleItems(header.ID, draft.items)
		if err != nil {
			return err
		}
		if err := repo.CreateItems(ctx, rows); err != nil {
			return err
		}
		if err := repo.CreateDiscounts(ctx, toSaleDiscounts(header.ID, draft.applications)); err != nil {
			return err
		}
		saleID = header.ID
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return 0, typed
		}
		s.logg.Error(ctx, "sale transaction rolled back", err)
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "an unexpected error occurred while processing the sale")
	}
	return saleID, nil
}

func (s *service) notifyInventory(ctx context.Context, saleID int64, token string, items []pricing.CartItem) {
	s.dispatcher.Dispatch(ctx, inventory.Deduction{
		SaleID: saleID,
		Token:  token,
		Lines:  toDeductionLines(items),
	})
}

func cashierOrDefault(username string) string {
	if name := strings.TrimSpace(username); name != "" {
		return name
	}
	return "SystemUser"
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
