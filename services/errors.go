// Package services holds the order workflow: checkout, franchise assignment,
// status transitions and inventory reconciliation, plus the catalog, cart,
// procurement and settings operations around it.
package services

import (
	"errors"
	"fmt"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("resource was modified concurrently, retry")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrProductUnavailable  = errors.New("product is not available")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInsufficientCredit  = errors.New("insufficient credit limit")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrNotAssigned         = errors.New("order is not assigned to you")
	ErrRoleForbidden       = errors.New("role may not perform this transition")
	ErrAlreadyAssigned     = errors.New("order is already assigned to another franchise")
	ErrStockUnavailable    = errors.New("insufficient stock")
	ErrPaymentGateway      = errors.New("payment gateway error")
)

// UnknownProductName stands in when a cart line points at a deleted product.
const UnknownProductName = "a product in your cart"

// ProductUnavailableError names the product so the customer can fix the cart.
type ProductUnavailableError struct {
	ProductName string
}

func (e *ProductUnavailableError) Error() string {
	if e.ProductName == UnknownProductName {
		return UnknownProductName + " is no longer available"
	}
	return fmt.Sprintf("product %q is not available", e.ProductName)
}

func (e *ProductUnavailableError) Is(target error) bool {
	return target == ErrProductUnavailable
}

func validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// translate maps repository sentinels onto the service taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	}
	return err
}
