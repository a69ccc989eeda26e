package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. For IN and OUT the quantity is a delta; for ADJUSTMENT the
// quantity is the new absolute stock level.
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
)

// Movement is one entry in the append-only stock ledger. Rows are created by
// the movement service inside the same transaction that updates the product's
// stock and are never updated or deleted afterwards. StockBefore/StockAfter
// are snapshots taken at commit time, never supplied by callers.
type Movement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"type:uuid;not null"`
	Type        string    `gorm:"column:movement_type;not null"`
	Quantity    int       `gorm:"not null"`
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reference   *string
	Notes       *string
	CreatedAt   time.Time `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
	User    *User    `gorm:"foreignKey:UserID"`
}

// TableName overrides GORM's default pluralization.
func (Movement) TableName() string { return "stock_movements" }
