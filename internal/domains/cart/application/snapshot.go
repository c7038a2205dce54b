package application

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// ErrCorruptSnapshot signals a slot payload that cannot be turned back into a cart.
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// snapshotProduct is the stored shape of a line item. Price stays a JSON number.
type snapshotProduct struct {
	ID     int64       `json:"id"`
	Title  string      `json:"title"`
	Price  json.Number `json:"price"`
	Image  string      `json:"image"`
	Amount int         `json:"amount"`
}

// EncodeSnapshot serializes the cart items as a JSON array, in cart order.
func EncodeSnapshot(cart domain.Cart) ([]byte, error) {
	records := make([]snapshotProduct, 0, len(cart.Items))
	for _, item := range cart.Items {
		records = append(records, snapshotProduct{
			ID:     item.ID,
			Title:  item.Title,
			Price:  json.Number(item.Price.String()),
			Image:  item.Image,
			Amount: item.Amount,
		})
	}
	return json.Marshal(records)
}

// DecodeSnapshot parses a slot payload and validates cart invariants.
func DecodeSnapshot(payload []byte) (domain.Cart, error) {
	var records []snapshotProduct
	if err := json.Unmarshal(payload, &records); err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	items := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		price, err := decimal.NewFromString(rec.Price.String())
		if err != nil {
			return domain.Cart{}, fmt.Errorf("%w: product %d price: %w", ErrCorruptSnapshot, rec.ID, err)
		}
		items = append(items, domain.Product{
			ID:     rec.ID,
			Title:  rec.Title,
			Price:  price,
			Image:  rec.Image,
			Amount: rec.Amount,
		})
	}
	cart, err := domain.NewCart(items)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return cart, nil
}
