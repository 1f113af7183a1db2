// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure. The HTTP layer maps kinds to status codes.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindCapacityExceeded     ErrorKind = "capacity_exceeded"
	KindDuplicateSKU         ErrorKind = "duplicate_sku"
	KindItemNotInSource      ErrorKind = "item_not_in_source"
	KindInvalidAmount        ErrorKind = "invalid_amount"
	KindInvariantViolation   ErrorKind = "invariant_violation"
	KindValidation           ErrorKind = "validation"
	KindDuplicateWarehouse   ErrorKind = "duplicate_warehouse"
	KindWarehouseNotEmpty    ErrorKind = "warehouse_not_empty"
	KindInsufficientQuantity ErrorKind = "insufficient_quantity"
)

// Error is the single error type returned by the core for expected failures.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind, so the
// sentinels below work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrCapacityExceeded     = &Error{Kind: KindCapacityExceeded}
	ErrDuplicateSKU         = &Error{Kind: KindDuplicateSKU}
	ErrItemNotInSource      = &Error{Kind: KindItemNotInSource}
	ErrInvalidAmount        = &Error{Kind: KindInvalidAmount}
	ErrInvariantViolation   = &Error{Kind: KindInvariantViolation}
	ErrValidation           = &Error{Kind: KindValidation}
	ErrDuplicateWarehouse   = &Error{Kind: KindDuplicateWarehouse}
	ErrWarehouseNotEmpty    = &Error{Kind: KindWarehouseNotEmpty}
	ErrInsufficientQuantity = &Error{Kind: KindInsufficientQuantity}
)

// NewError builds a domain error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a domain kind to an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(entity string, id any) *Error {
	return NewError(KindNotFound, "%s %v not found", entity, id)
}

func CapacityExceeded(warehouse string, requested, headroom int) *Error {
	return NewError(KindCapacityExceeded,
		"warehouse %s cannot accept %d units (headroom %d)", warehouse, requested, headroom)
}

func DuplicateSKU(sku string) *Error {
	return NewError(KindDuplicateSKU, "sku %q already exists in this warehouse", sku)
}

func InvalidAmount(amount int) *Error {
	return NewError(KindInvalidAmount, "amount must be positive, got %d", amount)
}

func Validation(format string, args ...any) *Error {
	return NewError(KindValidation, format, args...)
}

// KindOf extracts the kind of a domain error anywhere in the chain.
// It returns the empty kind for errors that did not originate in the domain.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
