package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"

	"github.com/bleupos/sales-service/internal/inventory"
	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/enums"
	"github.com/bleupos/sales-service/pkg/logger"
	"github.com/bleupos/sales-service/pkg/metrics"
)

const (
	inventoryRetryJobName   = "inventory-retry"
	defaultRetryBatchSize   = 50
	defaultRetryMaxAttempts = 5
)

type failureStore interface {
	ListPending(ctx context.Context, maxAttempts, limit int) ([]models.InventorySyncFailure, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error
	RecordAttempt(ctx context.Context, id uuid.UUID, lastError string) error
}

// InventoryRetryJobParams configure the replay of lost inventory deductions.
type InventoryRetryJobParams struct {
	Logger       *logger.Logger
	Failures     failureStore
	Deductors    []inventory.Deductor
	ServiceToken string
	MaxAttempts  int
	BatchSize    int
	// RatePerSec caps resends so a recovering inventory service is not flooded. Zero disables the cap.
	RatePerSec float64
	Metrics    *metrics.CronJobMetrics
}

type inventoryRetryJob struct {
	logg        *logger.Logger
	failures    failureStore
	deductors   map[enums.InventoryTarget]inventory.Deductor
	token       string
	maxAttempts int
	batchSize   int
	limiter     *rate.Limiter
	metrics     *metrics.CronJobMetrics
	now         func() time.Time
}

// NewInventoryRetryJob builds the job that resends failed deductions.
func NewInventoryRetryJob(params InventoryRetryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Failures == nil {
		return nil, fmt.Errorf("failure store required")
	}
	if len(params.Deductors) == 0 {
		return nil, fmt.Errorf("at least one deductor required")
	}
	deductors := make(map[enums.InventoryTarget]inventory.Deductor, len(params.Deductors))
	for _, d := range params.Deductors {
		deductors[d.Target()] = d
	}
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryMaxAttempts
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultRetryBatchSize
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if params.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(params.RatePerSec), 1)
	}
	return &inventoryRetryJob{
		logg:        params.Logger,
		failures:    params.Failures,
		deductors:   deductors,
		token:       params.ServiceToken,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		limiter:     limiter,
		metrics:     params.Metrics,
		now:         time.Now,
	}, nil
}

func (j *inventoryRetryJob) Name() string { return inventoryRetryJobName }

func (j *inventoryRetryJob) Run(ctx context.Context) error {
	pending, err := j.failures.ListPending(ctx, j.maxAttempts, j.batchSize)
	if err != nil {
		return fmt.Errorf("list pending inventory failures: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	var errs error
	resolved, retried := 0, 0
	for _, failure := range pending {
		if err := j.limiter.Wait(ctx); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		ok, err := j.replay(ctx, failure)
		errs = multierr.Append(errs, err)
		if ok {
			resolved++
		} else {
			retried++
		}
	}

	j.metrics.AddProcessed(j.Name(), "resolved", resolved)
	j.metrics.AddProcessed(j.Name(), "retried", retried)
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"resolved": resolved,
		"retried":  retried,
	}), "inventory retry batch finished")
	return errs
}

// replay resends one failure. A failed resend is recorded on the row and is not a job error.
func (j *inventoryRetryJob) replay(ctx context.Context, failure models.InventorySyncFailure) (bool, error) {
	ctx = j.logg.WithSaleID(ctx, failure.SaleID)
	deductor, ok := j.deductors[failure.Target]
	if !ok {
		return false, j.failures.RecordAttempt(ctx, failure.ID, fmt.Sprintf("no deductor for target %q", failure.Target))
	}

	if err := deductor.Deduct(ctx, j.token, failure.Payload); err != nil {
		if failure.Attempts+1 >= j.maxAttempts {
			j.logg.Critical(ctx, failure.Target.FailureEvent(), "inventory deduction retries exhausted", err)
		}
		if recErr := j.failures.RecordAttempt(ctx, failure.ID, err.Error()); recErr != nil {
			return false, fmt.Errorf("record attempt %s: %w", failure.ID, recErr)
		}
		return false, nil
	}

	if err := j.failures.MarkResolved(ctx, failure.ID, j.now().UTC()); err != nil {
		return false, fmt.Errorf("mark resolved %s: %w", failure.ID, err)
	}
	return true, nil
}
