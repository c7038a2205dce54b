package application

import (
	"errors"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// mapError tags a domain failure with the operation that produced it.
func mapError(op domain.Operation, productID int64, err error) error {
	if err == nil {
		return nil
	}
	var tagged *domain.OperationError
	if errors.As(err, &tagged) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrStockExceeded):
		return domain.Fail(op, domain.KindStockExceeded, productID, err)
	case errors.Is(err, domain.ErrProductNotFound):
		return domain.Fail(op, domain.KindNotFound, productID, err)
	case errors.Is(err, domain.ErrRevisionConflict):
		return domain.Fail(op, domain.KindConflict, productID, err)
	default:
		return domain.Fail(op, domain.KindUnknown, productID, err)
	}
}
