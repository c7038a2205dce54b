package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidAmount    = errors.New("amount must be at least one")
	ErrDuplicateProduct = errors.New("product already in cart")
	ErrProductNotFound  = errors.New("product not found in cart")
	ErrStockExceeded    = errors.New("requested quantity exceeds available stock")
)

// ProductDetails is the catalog metadata of a product.
type ProductDetails struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string
}

// Product is a cart line item: catalog metadata plus the quantity in the cart.
type Product struct {
	ID     int64
	Title  string
	Price  decimal.Decimal
	Image  string
	Amount int
}

// NewProduct builds a line item from catalog details.
func NewProduct(details ProductDetails, amount int) (Product, error) {
	p := Product{
		ID:     details.ID,
		Title:  details.Title,
		Price:  details.Price,
		Image:  details.Image,
		Amount: amount,
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validate enforces line item invariants.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if p.Amount < 1 {
		return ErrInvalidAmount
	}
	return nil
}

// Subtotal is price times amount.
func (p Product) Subtotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Amount)))
}

// StockRecord is a point-in-time reading of the quantity available for a product.
type StockRecord struct {
	ID     int64
	Amount int
}

// Allows reports whether the requested amount fits in the available stock.
func (s StockRecord) Allows(amount int) bool {
	return amount <= s.Amount
}

// Cart is an ordered, unique-by-id collection of line items.
// Revision counts committed mutations since load and is never persisted.
type Cart struct {
	Items    []Product
	Revision uint64
}

// NewCart validates items and returns a cart at revision zero.
func NewCart(items []Product) (Cart, error) {
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Cart{}, fmt.Errorf("product %d: %w", item.ID, err)
		}
		if _, ok := seen[item.ID]; ok {
			return Cart{}, fmt.Errorf("product %d: %w", item.ID, ErrDuplicateProduct)
		}
		seen[item.ID] = struct{}{}
	}
	return Cart{Items: cloneItems(items)}, nil
}

// Clone returns a deep copy sharing no backing array with c.
func (c Cart) Clone() Cart {
	return Cart{Items: cloneItems(c.Items), Revision: c.Revision}
}

// Find returns the line item for id.
func (c Cart) Find(id int64) (Product, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return Product{}, false
}

// Size is the number of distinct products in the cart.
func (c Cart) Size() int {
	return len(c.Items)
}

// Total sums every line subtotal.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Append returns a copy of c with p added at the end.
func (c Cart) Append(p Product) (Cart, error) {
	if err := p.Validate(); err != nil {
		return Cart{}, err
	}
	if c.index(p.ID) >= 0 {
		return Cart{}, ErrDuplicateProduct
	}
	next := c.Clone()
	next.Items = append(next.Items, p)
	return next, nil
}

// Remove returns a copy of c without the line item for id, preserving the order of the rest.
func (c Cart) Remove(id int64) (Cart, error) {
	i := c.index(id)
	if i < 0 {
		return Cart{}, ErrProductNotFound
	}
	items := make([]Product, 0, len(c.Items)-1)
	items = append(items, c.Items[:i]...)
	items = append(items, c.Items[i+1:]...)
	return Cart{Items: items, Revision: c.Revision}, nil
}

// WithAmount returns a copy of c with the amount of id set to amount.
func (c Cart) WithAmount(id int64, amount int) (Cart, error) {
	if amount < 1 {
		return Cart{}, ErrInvalidAmount
	}
	i := c.index(id)
	if i < 0 {
		return Cart{}, ErrProductNotFound
	}
	next := c.Clone()
	next.Items[i].Amount = amount
	return next, nil
}

func (c Cart) index(id int64) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []Product) []Product {
	out := make([]Product, len(items))
	copy(out, items)
	return out
}
