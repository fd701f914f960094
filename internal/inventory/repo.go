package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bleupos/sales-service/internal/repo"
	"github.com/bleupos/sales-service/pkg/db/models"
)

// FailureRepository persists deductions that never reached their inventory service.
type FailureRepository interface {
	WithTx(tx *gorm.DB) FailureRepository
	Create(ctx context.Context, failure *models.InventorySyncFailure) error
	ListPending(ctx context.Context, maxAttempts, limit int) ([]models.InventorySyncFailure, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error
	RecordAttempt(ctx context.Context, id uuid.UUID, lastError string) error
}

type failureRepository struct {
	repo.Base
}

func NewFailureRepository(db *gorm.DB) FailureRepository {
	return &failureRepository{Base: repo.NewBase(db)}
}

func (r *failureRepository) WithTx(tx *gorm.DB) FailureRepository {
	if tx == nil {
		return r
	}
	return &failureRepository{Base: repo.NewBase(tx)}
}

func (r *failureRepository) Create(ctx context.Context, failure *models.InventorySyncFailure) error {
	if failure.ID == uuid.Nil {
		failure.ID = uuid.New()
	}
	if failure.Attempts == 0 {
		failure.Attempts = 1
	}
	return r.DB(ctx).Create(failure).Error
}

// ListPending returns unresolved failures below the attempt ceiling, oldest first.
func (r *failureRepository) ListPending(ctx context.Context, maxAttempts, limit int) ([]models.InventorySyncFailure, error) {
	query := r.DB(ctx).
		Where("resolved_at IS NULL").
		Order("created_at ASC").
		Order("id ASC")
	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var failures []models.InventorySyncFailure
	if err := query.Find(&failures).Error; err != nil {
		return nil, err
	}
	return failures, nil
}

func (r *failureRepository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.InventorySyncFailure{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"resolved_at": at,
			"updated_at":  at,
		}).Error
}

func (r *failureRepository) RecordAttempt(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.DB(ctx).
		Model(&models.InventorySyncFailure{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
			"updated_at": time.Now().UTC(),
		}).Error
}
