package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kyler004/inventory-system/internal/dto"
	"github.com/kyler004/inventory-system/internal/model"
)

// ─── Interface ───────────────────────────────────────────────────────────────

// MovementRepository is append-only: movements are never updated or deleted.
type MovementRepository interface {
	// CreateTx appends a movement inside the same transaction that
	// updated the product stock.
	CreateTx(tx *gorm.DB, m *model.Movement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.Movement, error)
	List(ctx context.Context, f dto.MovementFilter) ([]model.Movement, int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

// ─── GORM implementation ─────────────────────────────────────────────────────

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepo{db: db}
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.Movement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.Movement, error) {
	var out []model.Movement
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *movementRepo) List(ctx context.Context, f dto.MovementFilter) ([]model.Movement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movement{})

	if f.ProductID != "" {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.Type != "" {
		q = q.Where("movement_type = ?", f.Type)
	}
	if f.From != "" {
		q = q.Where("DATE(created_at) >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("DATE(created_at) <= ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []model.Movement
	err := q.Preload("Product").Preload("User").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&out).Error
	return out, total, err
}

func (r *movementRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Movement{}).
		Where("product_id = ?", productID).
		Count(&n).Error
	return n, err
}
