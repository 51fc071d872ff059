package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders a price with thousands grouping and two decimal
// places, prefixed with its currency code, e.g. "GBP 12,345.60".
func FormatMoney(v decimal.Decimal, currency string) string {
	f, _ := v.Float64()
	if currency == "" {
		return printer.Sprintf("%v", number.Decimal(f, number.Scale(2)))
	}
	return printer.Sprintf("%s %v", currency, number.Decimal(f, number.Scale(2)))
}

// FormatRate renders an exchange rate to four decimal places.
func FormatRate(v decimal.Decimal) string {
	f, _ := v.Float64()
	return printer.Sprintf("%v", number.Decimal(f, number.Scale(4)))
}
