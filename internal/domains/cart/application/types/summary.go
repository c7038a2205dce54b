package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// SummaryLine is a cart line item with display-ready prices.
type SummaryLine struct {
	Product           domain.Product
	PriceFormatted    string
	Subtotal          decimal.Decimal
	SubtotalFormatted string
}

// CartSummary is the read model shown by cart pages and headers.
type CartSummary struct {
	Size           int
	Lines          []SummaryLine
	Amounts        map[int64]int
	Total          decimal.Decimal
	TotalFormatted string
}
