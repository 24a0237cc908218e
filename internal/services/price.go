package services

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/confreg/confreg/internal/models"
)

// Price is the total cost of a registration: base price plus the manual
// adjustment plus every data entry's charge, never below zero. Requires
// Data (with Field) to be loaded.
func Price(reg *models.Registration) decimal.Decimal {
	total := reg.BasePrice.Add(reg.PriceAdjustment)
	for i := range reg.Data {
		total = total.Add(EntryPrice(&reg.Data[i]))
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// decimalFromFloat goes through the shortest string form so we get the
// decimal the user typed ("10.1"), not the nearest binary float
// (10.099999999999999...).
func decimalFromFloat(f float64) decimal.Decimal {
	d, err := decimal.NewFromString(strconv.FormatFloat(f, 'f', -1, 64))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func RenderPrice(reg *models.Registration) string {
	return FormatCurrency(Price(reg), reg.Currency)
}

func RenderBasePrice(reg *models.Registration) string {
	return FormatCurrency(reg.BasePrice, reg.Currency)
}

func RenderPriceAdjustment(reg *models.Registration) string {
	return FormatCurrency(reg.PriceAdjustment, reg.Currency)
}

// FormatCurrency renders an amount with its currency symbol, keeping the
// number in decimal form end to end. Unknown codes fall back to
// "<amount> <code>".
func FormatCurrency(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2) + " " + code
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v %s", currency.Symbol(unit), amount.StringFixed(2))
}
