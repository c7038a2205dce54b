package mapper

import (
	"encoding/json"

	inventorydomain "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/domain"
)

// Product is the wire shape of a catalog entry. Price is a bare JSON number.
type Product struct {
	ID    int64       `json:"id"`
	Title string      `json:"title"`
	Price json.Number `json:"price"`
	Image string      `json:"image"`
}

// Stock is the wire shape of a stock level.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// StockUpdate is the body of PUT /stock/:id.
type StockUpdate struct {
	Amount *int `json:"amount" binding:"required"`
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(product *inventorydomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:    product.ID,
		Title: product.Title,
		Price: json.Number(product.Price.String()),
		Image: product.Image,
	}
}

// FromDomainProducts converts a list, never returning nil.
func FromDomainProducts(products []*inventorydomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomainProduct(p))
	}
	return out
}

// FromDomainStock converts a domain stock level to the transport representation.
func FromDomainStock(stock *inventorydomain.Stock) Stock {
	if stock == nil {
		return Stock{}
	}
	return Stock{ID: stock.ID, Amount: stock.Amount}
}

// FromDomainStockLevels converts a list, never returning nil.
func FromDomainStockLevels(levels []*inventorydomain.Stock) []Stock {
	out := make([]Stock, 0, len(levels))
	for _, s := range levels {
		out = append(out, FromDomainStock(s))
	}
	return out
}
