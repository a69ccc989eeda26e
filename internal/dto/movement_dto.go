package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ApplyMovementRequest records one stock-affecting event.
// For IN/OUT quantity is the number of units moved (≥ 1); for ADJUSTMENT it is
// the new absolute stock level (≥ 0). stock_before/stock_after are computed
// server-side at commit time and cannot be supplied.
type ApplyMovementRequest struct {
	Type      string  `json:"movement_type" validate:"required"`
	Quantity  int     `json:"quantity"`
	Reference *string `json:"reference"     validate:"omitempty,max=200"`
	Notes     *string `json:"notes"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"movement_type"`
	From      string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Type        string  `json:"movement_type"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reference   *string `json:"reference"`
	Notes       *string `json:"notes"`
	UserID      string  `json:"user_id"`
	CreatedAt   string  `json:"created_at"`
}

type MovementListResponse struct {
	Data       []MovementResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
