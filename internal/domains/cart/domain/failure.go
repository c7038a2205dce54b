package domain

import (
	"errors"
	"fmt"
)

// Operation names a cart mutation.
type Operation string

const (
	OpAdd    Operation = "add"
	OpRemove Operation = "remove"
	OpUpdate Operation = "update"
)

// FailureKind discriminates why a cart operation failed.
type FailureKind int

const (
	KindUnknown FailureKind = iota
	KindStockExceeded
	KindNotFound
	KindLookupFailure
	KindConflict
	KindPersistence
)

func (k FailureKind) String() string {
	switch k {
	case KindStockExceeded:
		return "stock_exceeded"
	case KindNotFound:
		return "not_found"
	case KindLookupFailure:
		return "lookup_failure"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// ErrRevisionConflict reports that the cart changed between planning and commit.
var ErrRevisionConflict = errors.New("cart revision changed during operation")

// OperationError is the tagged failure returned by every cart mutation.
type OperationError struct {
	Op        Operation
	Kind      FailureKind
	ProductID int64
	Err       error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s product %d: %s", e.Op, e.ProductID, e.Kind)
	}
	return fmt.Sprintf("%s product %d: %s: %v", e.Op, e.ProductID, e.Kind, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// Fail builds an OperationError.
func Fail(op Operation, kind FailureKind, productID int64, err error) *OperationError {
	return &OperationError{Op: op, Kind: kind, ProductID: productID, Err: err}
}

// KindOf extracts the failure discriminant from err, KindUnknown when err is not tagged.
func KindOf(err error) FailureKind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindUnknown
}
