package shop

import (
	shopclient "github.com/Apurer/rocketshoes-cart/internal/clients/http/shop"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// ToStockRecord converts the shop stock payload into the domain reading.
func ToStockRecord(payload shopclient.StockPayload) domain.StockRecord {
	return domain.StockRecord{ID: payload.ID, Amount: payload.Amount}
}

// ToProductDetails converts the shop product payload into catalog details.
func ToProductDetails(payload shopclient.ProductPayload) domain.ProductDetails {
	return domain.ProductDetails{
		ID:    payload.ID,
		Title: payload.Title,
		Price: payload.Price,
		Image: payload.Image,
	}
}
