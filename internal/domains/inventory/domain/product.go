package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidTitle     = errors.New("product title is required")
	ErrInvalidPrice     = errors.New("product price must not be negative")
	ErrNegativeStock    = errors.New("stock amount must not be negative")
)

// Product is a catalog entry served to carts.
type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string
}

// NewProduct builds and validates a catalog entry.
func NewProduct(id int64, title string, price decimal.Decimal, image string) (*Product, error) {
	p := &Product{ID: id, Title: strings.TrimSpace(title), Price: price, Image: strings.TrimSpace(image)}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if p.Title == "" {
		return ErrInvalidTitle
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// Stock is the quantity available for one product.
type Stock struct {
	ID     int64
	Amount int
}

// NewStock builds and validates a stock level.
func NewStock(id int64, amount int) (*Stock, error) {
	s := &Stock{ID: id, Amount: amount}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stock) Validate() error {
	if s.ID <= 0 {
		return ErrInvalidProductID
	}
	if s.Amount < 0 {
		return ErrNegativeStock
	}
	return nil
}
