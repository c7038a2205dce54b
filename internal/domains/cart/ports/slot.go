package ports

import (
	"context"
	"errors"
)

// DefaultSlotKey is the key the cart snapshot is stored under.
const DefaultSlotKey = "@RocketShoes:cart"

// ErrSlotEmpty is returned by Load when nothing has been stored yet.
var ErrSlotEmpty = errors.New("cart slot is empty")

// Slot is a single durable key-value slot holding the serialized cart.
// Store overwrites the slot wholesale.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, payload []byte) error
}
