package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyler004/inventory-system/internal/dto"
	"github.com/kyler004/inventory-system/internal/model"
	"github.com/kyler004/inventory-system/internal/service"
)

func newProductFixture(t *testing.T) (service.ProductService, service.MovementService, *stubSupplierRepo, uuid.UUID) {
	t.Helper()
	suppliers := newStubSupplierRepo()
	products := newStubProductRepo()
	movements := newStubMovementRepo()
	tx := newStubTxManager(products, movements)

	sup := &model.Supplier{Name: "Acme Parts", ContactPerson: "R. Coyote"}
	require.NoError(t, suppliers.Create(context.Background(), sup))

	productSvc := service.NewProductService(products, suppliers, movements, nil)
	movementSvc := service.NewMovementService(tx, products, movements, nil, nil)
	return productSvc, movementSvc, suppliers, sup.ID
}

func TestCreateProductNormalizesSKUAndStartsEmpty(t *testing.T) {
	svc, _, _, supplierID := newProductFixture(t)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:        "  widget-01 ",
		Name:       "Widget",
		SupplierID: supplierID.String(),
		UnitPrice:  decimal.NewFromFloat(9.99),
	})
	require.NoError(t, err)
	assert.Equal(t, "WIDGET-01", resp.SKU)
	assert.Equal(t, 0, resp.CurrentStock)
	assert.True(t, resp.StockValue.IsZero())
	assert.Equal(t, "Acme Parts", resp.SupplierName)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc, _, _, supplierID := newProductFixture(t)
	ctx := context.Background()

	req := dto.CreateProductRequest{
		SKU:        "DUP-1",
		Name:       "First",
		SupplierID: supplierID.String(),
		UnitPrice:  decimal.NewFromInt(1),
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	// Same SKU, different case — still a duplicate.
	req.SKU = "dup-1"
	req.Name = "Second"
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, service.ErrDuplicate)
}

func TestCreateProductUnknownSupplier(t *testing.T) {
	svc, _, _, _ := newProductFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:        "ORPHAN-1",
		Name:       "Orphan",
		SupplierID: uuid.NewString(),
		UnitPrice:  decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, service.ErrSupplierNotFound)
}

func TestDeleteProductWithMovementsRefused(t *testing.T) {
	svc, movementSvc, _, supplierID := newProductFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateProductRequest{
		SKU:        "KEEP-1",
		Name:       "Keeper",
		SupplierID: supplierID.String(),
		UnitPrice:  decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	productID := uuid.MustParse(resp.ID)

	_, err = movementSvc.Apply(ctx, productID, uuid.New(), dto.ApplyMovementRequest{
		Type: model.MovementIn, Quantity: 3,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, productID)
	require.ErrorIs(t, err, service.ErrReferencedEntity)

	// Still retrievable afterwards.
	detail, err := svc.Get(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.CurrentStock)
}

func TestDeleteProductWithoutMovements(t *testing.T) {
	svc, _, _, supplierID := newProductFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateProductRequest{
		SKU:        "GONE-1",
		Name:       "Goner",
		SupplierID: supplierID.String(),
		UnitPrice:  decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	productID := uuid.MustParse(resp.ID)

	require.NoError(t, svc.Delete(ctx, productID))
	_, err = svc.Get(ctx, productID)
	require.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProductDetailIncludesRecentMovements(t *testing.T) {
	svc, movementSvc, _, supplierID := newProductFixture(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateProductRequest{
		SKU:        "HIST-1",
		Name:       "Historied",
		SupplierID: supplierID.String(),
		UnitPrice:  decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	productID := uuid.MustParse(resp.ID)

	userID := uuid.New()
	for i := 0; i < 7; i++ {
		_, err := movementSvc.Apply(ctx, productID, userID, dto.ApplyMovementRequest{
			Type: model.MovementIn, Quantity: 1,
		})
		require.NoError(t, err)
	}

	detail, err := svc.Get(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, detail.CurrentStock)
	require.Len(t, detail.RecentMovements, 5, "detail view carries the five most recent entries")
	assert.Equal(t, 7, detail.RecentMovements[0].StockAfter)
}

func TestLowStockListing(t *testing.T) {
	svc, movementSvc, _, supplierID := newProductFixture(t)
	ctx := context.Background()

	low, err := svc.Create(ctx, dto.CreateProductRequest{
		SKU: "LOW-1", Name: "Low", SupplierID: supplierID.String(),
		UnitPrice: decimal.NewFromInt(1), MinimumStock: 5,
	})
	require.NoError(t, err)

	ok, err := svc.Create(ctx, dto.CreateProductRequest{
		SKU: "OK-1", Name: "Okay", SupplierID: supplierID.String(),
		UnitPrice: decimal.NewFromInt(1), MinimumStock: 5,
	})
	require.NoError(t, err)

	userID := uuid.New()
	_, err = movementSvc.Apply(ctx, uuid.MustParse(low.ID), userID, dto.ApplyMovementRequest{Type: model.MovementIn, Quantity: 5})
	require.NoError(t, err)
	_, err = movementSvc.Apply(ctx, uuid.MustParse(ok.ID), userID, dto.ApplyMovementRequest{Type: model.MovementIn, Quantity: 6})
	require.NoError(t, err)

	alerts, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1, "stock equal to minimum counts as low")
	assert.Equal(t, "LOW-1", alerts[0].SKU)
	assert.True(t, alerts[0].IsLowStock)
}
