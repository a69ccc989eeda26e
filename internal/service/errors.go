package service

import "errors"

// Domain errors. Handlers map these to HTTP statuses with errors.Is, so
// services must wrap them (fmt.Errorf "%w") rather than replace them.
var (
	ErrInsufficientStock   = errors.New("insufficient stock for outbound movement")
	ErrProductNotFound     = errors.New("product not found")
	ErrSupplierNotFound    = errors.New("supplier not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrReferencedEntity    = errors.New("entity is referenced and cannot be deleted")
	ErrDuplicate           = errors.New("duplicate entity")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
