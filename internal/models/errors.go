package models

import "errors"

// Core errors as sentinel values
var (
	// Storage
	ErrSchema      = errors.New("relation cannot be created or opened")
	ErrStorage     = errors.New("inventory storage failed")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("staging area unavailable")

	// Input
	ErrInvalidQuantity  = errors.New("quantity is not numeric")
	ErrInvalidStockItem = errors.New("invalid stock item")
	ErrInvalidKind      = errors.New("unknown stock kind")
	ErrEmptyCart        = errors.New("cart is empty")
)
