package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateProductRequest carries no stock level on purpose: products start at
// zero and stock only ever changes through movements.
type CreateProductRequest struct {
	SKU          string          `json:"sku"           validate:"required,min=2,max=40"`
	Name         string          `json:"name"          validate:"required,min=2,max=200"`
	Description  *string         `json:"description"`
	SupplierID   string          `json:"supplier_id"   validate:"required,uuid"`
	UnitPrice    decimal.Decimal `json:"unit_price"    validate:"min=0"`
	MinimumStock int             `json:"minimum_stock" validate:"min=0"`
}

// UpdateProductRequest deliberately has no current_stock field — the stock
// level is owned by the movement ledger.
type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=200"`
	Description  *string          `json:"description"`
	SupplierID   *string          `json:"supplier_id"   validate:"omitempty,uuid"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	MinimumStock *int             `json:"minimum_stock" validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	SKU        string `form:"sku"`
	Name       string `form:"name"`
	SupplierID string `form:"supplier_id"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStock int             `json:"current_stock"`
	MinimumStock int             `json:"minimum_stock"`
	IsLowStock   bool            `json:"is_low_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// ProductDetailResponse is the detail view: the snapshot plus the most
// recent ledger entries.
type ProductDetailResponse struct {
	ProductResponse
	RecentMovements []MovementResponse `json:"recent_movements"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
