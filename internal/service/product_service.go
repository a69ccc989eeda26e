package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/kyler004/inventory-system/internal/dto"
	"github.com/kyler004/inventory-system/internal/model"
	"github.com/kyler004/inventory-system/internal/repository"
)

const productCacheTTL = 5 * time.Minute

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductDetailResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	ListLowStock(ctx context.Context) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	suppliers repository.SupplierRepository
	movements repository.MovementRepository
	cache     *redis.Client
}

func NewProductService(
	repo repository.ProductRepository,
	suppliers repository.SupplierRepository,
	movements repository.MovementRepository,
	cache *redis.Client,
) ProductService {
	return &productService{repo: repo, suppliers: suppliers, movements: movements, cache: cache}
}

// ── Commands ──────────────────────────────────────────────────────────────────

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if sku == "" {
		return nil, fmt.Errorf("%w: sku is required", ErrValidation)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit_price cannot be negative", ErrValidation)
	}

	existing, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: sku %s already exists", ErrDuplicate, sku)
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid supplier_id", ErrValidation)
	}
	sup, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, fmt.Errorf("%w: %s", ErrSupplierNotFound, req.SupplierID)
	}

	// New products always start empty. Initial inventory arrives as an IN
	// movement so the ledger accounts for every unit.
	p := &model.Product{
		SKU:          sku,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		SupplierID:   supplierID,
		UnitPrice:    req.UnitPrice,
		CurrentStock: 0,
		MinimumStock: req.MinimumStock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Supplier = sup
	return productToResponse(p), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid supplier_id", ErrValidation)
		}
		sup, err := s.suppliers.FindByID(ctx, supplierID)
		if err != nil {
			return nil, err
		}
		if sup == nil {
			return nil, fmt.Errorf("%w: %s", ErrSupplierNotFound, *req.SupplierID)
		}
		p.SupplierID = supplierID
		p.Supplier = sup
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit_price cannot be negative", ErrValidation)
		}
		p.UnitPrice = *req.UnitPrice
	}
	if req.MinimumStock != nil {
		if *req.MinimumStock < 0 {
			return nil, fmt.Errorf("%w: minimum_stock cannot be negative", ErrValidation)
		}
		p.MinimumStock = *req.MinimumStock
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	n, err := s.movements.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: product has %d movements", ErrReferencedEntity, n)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductDetailResponse, error) {
	p, err := s.cachedFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	movs, err := s.movements.ListByProduct(ctx, id, 5)
	if err != nil {
		return nil, err
	}
	recent := make([]dto.MovementResponse, 0, len(movs))
	for i := range movs {
		recent = append(recent, *movementToResponse(&movs[i]))
	}
	return &dto.ProductDetailResponse{
		ProductResponse: *productToResponse(p),
		RecentMovements: recent,
	}, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *productService) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

// ── Cache ─────────────────────────────────────────────────────────────────────

func (s *productService) cachedFind(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, productCacheKey(id)).Bytes()
		if err == nil {
			var p model.Product
			if json.Unmarshal(raw, &p) == nil {
				return &p, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			if err := s.cache.Set(ctx, productCacheKey(id), raw, productCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("product_id", id.String()).Msg("cache write failed")
			}
		}
	}
	return p, nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productCacheKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("cache invalidation failed")
	}
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		SupplierID:   p.SupplierID.String(),
		UnitPrice:    p.UnitPrice,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		IsLowStock:   p.IsLowStock(),
		StockValue:   p.StockValue(),
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	return resp
}
