package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a company that supplies products.
// Deletion is blocked while any product references the supplier.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"uniqueIndex;not null"`
	ContactPerson string
	Email         *string
	Phone         *string
	Address       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Products []Product `gorm:"foreignKey:SupplierID"`
}
