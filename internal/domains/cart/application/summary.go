package application

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	carttypes "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application/types"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// Default display settings for prices.
const (
	DefaultLocale   = "pt-BR"
	DefaultCurrency = "BRL"
)

// PriceFormatter renders amounts in a currency for a locale.
type PriceFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewPriceFormatter parses a BCP 47 locale and an ISO 4217 currency code.
func NewPriceFormatter(locale, isoCurrency string) (PriceFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return PriceFormatter{}, fmt.Errorf("locale[%s] is not valid: %w", locale, err)
	}
	unit, err := currency.ParseISO(isoCurrency)
	if err != nil {
		return PriceFormatter{}, fmt.Errorf("currency[%s] is not valid: %w", isoCurrency, err)
	}
	return PriceFormatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// Format renders amount with the currency symbol. The zero formatter prints two decimals.
func (f PriceFormatter) Format(amount decimal.Decimal) string {
	if f.printer == nil {
		return amount.StringFixed(2)
	}
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount.InexactFloat64())))
}

// Summarize builds the display read model of cart.
func Summarize(cart domain.Cart, formatter PriceFormatter) carttypes.CartSummary {
	summary := carttypes.CartSummary{
		Size:    cart.Size(),
		Lines:   make([]carttypes.SummaryLine, 0, len(cart.Items)),
		Amounts: make(map[int64]int, len(cart.Items)),
		Total:   cart.Total(),
	}
	for _, item := range cart.Items {
		subtotal := item.Subtotal()
		summary.Lines = append(summary.Lines, carttypes.SummaryLine{
			Product:           item,
			PriceFormatted:    formatter.Format(item.Price),
			Subtotal:          subtotal,
			SubtotalFormatted: formatter.Format(subtotal),
		})
		summary.Amounts[item.ID] = item.Amount
	}
	summary.TotalFormatted = formatter.Format(summary.Total)
	return summary
}
