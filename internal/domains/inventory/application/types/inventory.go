package types

import "github.com/shopspring/decimal"

// SetStockInput replaces the stock level of a product.
type SetStockInput struct {
	ProductID int64
	Amount    int
}

// SeedItem is one product with its initial stock, as found in seed files.
type SeedItem struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`
}
