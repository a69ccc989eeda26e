package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/kyler004/inventory-system/internal/dto"
	"github.com/kyler004/inventory-system/internal/model"
	"github.com/kyler004/inventory-system/internal/repository"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context, search string, page, limit int) (*dto.SupplierListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo     repository.SupplierRepository
	products repository.ProductRepository
}

func NewSupplierService(repo repository.SupplierRepository, products repository.ProductRepository) SupplierService {
	return &supplierService{repo: repo, products: products}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: supplier %q already exists", ErrDuplicate, name)
	}

	sup := &model.Supplier{
		Name:          name,
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return supplierToResponse(sup, 0), nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, fmt.Errorf("%w: %s", ErrSupplierNotFound, id)
	}
	n, err := s.products.CountBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return supplierToResponse(sup, n), nil
}

func (s *supplierService) List(ctx context.Context, search string, page, limit int) (*dto.SupplierListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	suppliers, total, err := s.repo.List(ctx, search, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		n, err := s.products.CountBySupplier(ctx, suppliers[i].ID)
		if err != nil {
			return nil, err
		}
		data = append(data, *supplierToResponse(&suppliers[i], n))
	}
	return &dto.SupplierListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, fmt.Errorf("%w: %s", ErrSupplierNotFound, id)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		other, err := s.repo.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("%w: supplier %q already exists", ErrDuplicate, name)
		}
		sup.Name = name
	}
	if req.ContactPerson != nil {
		sup.ContactPerson = strings.TrimSpace(*req.ContactPerson)
	}
	if req.Email != nil {
		sup.Email = req.Email
	}
	if req.Phone != nil {
		sup.Phone = req.Phone
	}
	if req.Address != nil {
		sup.Address = req.Address
	}

	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	n, err := s.products.CountBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return supplierToResponse(sup, n), nil
}

// Delete refuses to remove a supplier that still has products; catalog
// references stay intact.
func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sup == nil {
		return fmt.Errorf("%w: %s", ErrSupplierNotFound, id)
	}

	n, err := s.products.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: supplier has %d products", ErrReferencedEntity, n)
	}
	return s.repo.Delete(ctx, id)
}

func supplierToResponse(s *model.Supplier, productCount int64) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		ProductCount:  productCount,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
