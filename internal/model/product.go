package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item whose stock level is tracked by the movement
// ledger. CurrentStock is a materialized value: it always equals the
// StockAfter of the most recently committed movement (0 when the ledger is
// empty) and is written exclusively by the movement service — no other code
// path may touch it.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU          string    `gorm:"uniqueIndex;not null"` // stored uppercase
	Name         string    `gorm:"index;not null"`
	Description  *string
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrentStock int             `gorm:"not null;default:0"`
	MinimumStock int             `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// IsLowStock reports whether the product is at or below its reorder threshold.
func (p *Product) IsLowStock() bool { return p.CurrentStock <= p.MinimumStock }

// StockValue is the monetary value of the stock on hand.
func (p *Product) StockValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}
