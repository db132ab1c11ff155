package services

import (
	"errors"
	"fmt"
)

var (
	ErrBadCreds     = errors.New("invalid email or password")
	ErrEmailTaken   = errors.New("email already registered")
	ErrNotFound     = errors.New("product not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrOrderMissing = errors.New("order not found")
)

// InsufficientStockError carries the availability detail the client needs
// to lower the requested quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested %d, available %d)", e.ProductID, e.Requested, e.Available)
}

// ValidationError reports one malformed checkout field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

// PaymentDeclinedError is the simulated gateway's rejection.
type PaymentDeclinedError struct {
	Method string
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined (%s): %s", e.Method, e.Reason)
}
