package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/logger"
	"github.com/bleupos/sales-service/pkg/metrics"
)

// Deduction is the post-commit notification for one sale.
type Deduction struct {
	SaleID int64
	Token  string
	Lines  []models.DeductionLine
}

type failureRecorder interface {
	Create(ctx context.Context, failure *models.InventorySyncFailure) error
}

// DispatcherParams configure the post-commit notifier.
type DispatcherParams struct {
	Logger    *logger.Logger
	Deductors []Deductor
	Failures  failureRecorder
	Metrics   *metrics.SalesMetrics
	Timeout   time.Duration
}

// Dispatcher fans a committed sale out to every inventory service without blocking the caller.
type Dispatcher struct {
	logg      *logger.Logger
	deductors []Deductor
	failures  failureRecorder
	metrics   *metrics.SalesMetrics
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if len(params.Deductors) == 0 {
		return nil, fmt.Errorf("at least one deductor required")
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		logg:      params.Logger,
		deductors: params.Deductors,
		failures:  params.Failures,
		metrics:   params.Metrics,
		timeout:   timeout,
	}, nil
}

// Dispatch starts one goroutine per inventory target and returns immediately.
// The calls outlive the request context but are bounded by the dispatcher timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, deduction Deduction) {
	if d == nil {
		return
	}
	base := context.WithoutCancel(ctx)
	for _, deductor := range d.deductors {
		d.wg.Add(1)
		go func(deductor Deductor) {
			defer d.wg.Done()
			d.notify(base, deductor, deduction)
		}(deductor)
	}
}

// Wait blocks until every in-flight notification has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

func (d *Dispatcher) notify(ctx context.Context, deductor Deductor, deduction Deduction) {
	target := deductor.Target()
	ctx = d.logg.WithSaleID(ctx, deduction.SaleID)
	ctx = d.logg.WithField(ctx, "target", target.String())

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := deductor.Deduct(callCtx, deduction.Token, deduction.Lines)
	took := time.Since(start)
	if err == nil {
		d.metrics.ObserveNotification(target.String(), metrics.OutcomeDelivered, took)
		return
	}

	d.metrics.ObserveNotification(target.String(), metrics.OutcomeFailed, took)
	d.logg.Critical(ctx, target.FailureEvent(), "inventory deduction failed after sale commit", err)

	if d.failures == nil {
		return
	}
	record := &models.InventorySyncFailure{
		SaleID:    deduction.SaleID,
		Target:    target,
		Payload:   deduction.Lines,
		LastError: err.Error(),
	}
	if recErr := d.failures.Create(ctx, record); recErr != nil {
		d.logg.Error(ctx, "failed to record inventory sync failure", recErr)
	}
}
