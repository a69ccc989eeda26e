package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kyler004/inventory-system/internal/dto"
	"github.com/kyler004/inventory-system/internal/model"
	"github.com/kyler004/inventory-system/internal/repository"
	"github.com/kyler004/inventory-system/internal/worker"
)

type MovementService interface {
	Apply(ctx context.Context, productID, userID uuid.UUID, req dto.ApplyMovementRequest) (*dto.MovementResponse, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]dto.MovementResponse, error)
	List(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
}

type movementService struct {
	tx         repository.TxManager
	products   repository.ProductRepository
	movements  repository.MovementRepository
	cache      *redis.Client
	dispatcher *worker.Dispatcher
}

func NewMovementService(
	tx repository.TxManager,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	cache *redis.Client,
	dispatcher *worker.Dispatcher,
) MovementService {
	return &movementService{
		tx:         tx,
		products:   products,
		movements:  movements,
		cache:      cache,
		dispatcher: dispatcher,
	}
}

// ── Intent resolution ─────────────────────────────────────────────────────────

// movementIntent is the resolved meaning of a request's quantity field:
// IN/OUT carry a relative delta, ADJUSTMENT carries the new absolute level.
// Resolving this before any arithmetic keeps the overloaded quantity field
// out of the stock math.
type movementIntent struct {
	movType  string
	absolute bool
	delta    int // signed, when absolute == false
	target   int // new level, when absolute == true
}

func resolveIntent(req dto.ApplyMovementRequest) (movementIntent, error) {
	switch req.Type {
	case model.MovementIn:
		if req.Quantity < 1 {
			return movementIntent{}, fmt.Errorf("%w: quantity must be at least 1 for IN", ErrValidation)
		}
		return movementIntent{movType: model.MovementIn, delta: req.Quantity}, nil
	case model.MovementOut:
		if req.Quantity < 1 {
			return movementIntent{}, fmt.Errorf("%w: quantity must be at least 1 for OUT", ErrValidation)
		}
		return movementIntent{movType: model.MovementOut, delta: -req.Quantity}, nil
	case model.MovementAdjustment:
		// Zero is a valid target: adjusting to an empty shelf is a real count.
		if req.Quantity < 0 {
			return movementIntent{}, fmt.Errorf("%w: adjustment level cannot be negative", ErrValidation)
		}
		return movementIntent{movType: model.MovementAdjustment, absolute: true, target: req.Quantity}, nil
	default:
		return movementIntent{}, fmt.Errorf("%w: %q", ErrInvalidMovementType, req.Type)
	}
}

// ── Apply ─────────────────────────────────────────────────────────────────────
// One movement is one transaction:
//   1. Lock the product row (SELECT ... FOR UPDATE)
//   2. Compute stock_after from the locked stock_before
//   3. Write the new stock level
//   4. Append the ledger entry with both snapshots
// Either all of it commits or none of it does, so current_stock always equals
// the stock_after of the product's latest movement.

func (s *movementService) Apply(ctx context.Context, productID, userID uuid.UUID, req dto.ApplyMovementRequest) (*dto.MovementResponse, error) {
	intent, err := resolveIntent(req)
	if err != nil {
		return nil, err
	}

	var created *model.Movement
	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		p, err := s.products.FindByIDForUpdate(tx, productID)
		if err != nil {
			return fmt.Errorf("locking product: %w", err)
		}
		if p == nil {
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}

		before := p.CurrentStock
		var after int
		if intent.absolute {
			after = intent.target
		} else {
			after = before + intent.delta
		}
		if after < 0 {
			return fmt.Errorf("%w: have %d, requested %d", ErrInsufficientStock, before, req.Quantity)
		}

		if err := s.products.SetStockTx(tx, productID, after); err != nil {
			return fmt.Errorf("updating stock: %w", err)
		}

		m := &model.Movement{
			ProductID:   productID,
			UserID:      userID,
			Type:        intent.movType,
			Quantity:    req.Quantity,
			StockBefore: before,
			StockAfter:  after,
			Reference:   req.Reference,
			Notes:       req.Notes,
		}
		if err := s.movements.CreateTx(tx, m); err != nil {
			return fmt.Errorf("appending movement: %w", err)
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, productID, created.StockAfter)
	return movementToResponse(created), nil
}

// afterCommit handles the side effects that must not affect the already
// committed movement: cache invalidation and low stock alerting. Failures
// here are logged, never surfaced.
func (s *movementService) afterCommit(ctx context.Context, productID uuid.UUID, stockAfter int) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, productCacheKey(productID)).Err(); err != nil {
			log.Warn().Err(err).Str("product_id", productID.String()).Msg("cache invalidation failed")
		}
	}
	if s.dispatcher == nil {
		return
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil || p == nil {
		return
	}
	if stockAfter <= p.MinimumStock {
		if err := s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{
			ProductID:    productID.String(),
			SKU:          p.SKU,
			Name:         p.Name,
			CurrentStock: stockAfter,
			MinimumStock: p.MinimumStock,
		}); err != nil {
			log.Warn().Err(err).Str("product_id", productID.String()).Msg("stock alert enqueue failed")
		}
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *movementService) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]dto.MovementResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if limit < 1 {
		limit = 5
	}
	movs, err := s.movements.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for i := range movs {
		out = append(out, *movementToResponse(&movs[i]))
	}
	return out, nil
}

func (s *movementService) List(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	movs, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(movs))
	for i := range movs {
		data = append(data, *movementToResponse(&movs[i]))
	}
	return &dto.MovementListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func movementToResponse(m *model.Movement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reference:   m.Reference,
		Notes:       m.Notes,
		UserID:      m.UserID.String(),
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	return resp
}

func productCacheKey(id uuid.UUID) string { return "product:" + id.String() }
