package types

// UpdateProductAmountInput sets the absolute quantity of a product already in the cart.
type UpdateProductAmountInput struct {
	ProductID int64
	Amount    int
}
