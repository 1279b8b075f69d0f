package extraction

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"draftwise/internal/domain"
)

// arithmeticTolerance is the largest difference accepted between a stated
// amount and the amount derived from its inputs.
var arithmeticTolerance = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// formatMoney renders an amount with two decimals. Values that do not parse
// are returned unchanged.
func formatMoney(s string) (string, bool) {
	d, ok := parseDecimal(s)
	if !ok {
		return s, false
	}
	return d.StringFixed(2), true
}

// formatNatural renders a decimal at its own scale without trailing zeros.
func formatNatural(s string) (string, bool) {
	d, ok := parseDecimal(s)
	if !ok {
		return s, false
	}
	return d.String(), true
}

// normalizeItem rewrites the numeric fields of item in canonical form and
// returns a warning for every field that is not a decimal.
func normalizeItem(item *domain.ExtractedLineItem, path string) []string {
	var warnings []string
	apply := func(name string, v *string, format func(string) (string, bool)) {
		if *v == "" {
			return
		}
		out, ok := format(*v)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s.%s is not a decimal: %q", path, name, *v))
			return
		}
		*v = out
	}
	apply("quantity", &item.Quantity, formatNatural)
	apply("unitPrice", &item.UnitPrice, formatMoney)
	apply("taxRate", &item.TaxRate, formatNatural)
	apply("subtotal", &item.Subtotal, formatMoney)
	apply("taxAmount", &item.TaxAmount, formatMoney)
	apply("total", &item.Total, formatMoney)
	return warnings
}

// Recalculate derives subtotal, tax amount and total from quantity, unit price
// and tax rate. Fields that do not parse leave the item unchanged; without a
// tax rate the tax amount is cleared.
func Recalculate(item domain.ExtractedLineItem) domain.ExtractedLineItem {
	qty, ok := parseDecimal(item.Quantity)
	if !ok {
		return item
	}
	price, ok := parseDecimal(item.UnitPrice)
	if !ok {
		return item
	}
	subtotal := qty.Mul(price).Round(2)
	tax := decimal.Zero
	if rate, ok := parseDecimal(item.TaxRate); ok {
		tax = subtotal.Mul(rate).Div(hundred).Round(2)
		item.TaxAmount = tax.StringFixed(2)
	} else {
		item.TaxAmount = ""
	}
	item.Subtotal = subtotal.StringFixed(2)
	item.Total = subtotal.Add(tax).StringFixed(2)
	return item
}

// Totals sums the line items and applies the document discount. Items whose
// amounts do not parse contribute nothing.
func Totals(r *domain.ParseResult) *domain.DocumentTotals {
	subtotal, tax := decimal.Zero, decimal.Zero
	for _, item := range r.Items {
		sub, ok := parseDecimal(item.Subtotal)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(sub)
		if total, ok := parseDecimal(item.Total); ok {
			tax = tax.Add(total.Sub(sub))
		}
	}
	discount, _ := parseDecimal(r.Document.Discount)
	return &domain.DocumentTotals{
		Subtotal: subtotal.StringFixed(2),
		Tax:      tax.StringFixed(2),
		Discount: discount.StringFixed(2),
		Total:    subtotal.Add(tax).Sub(discount).StringFixed(2),
	}
}

// CheckArithmetic reports line items whose stated subtotal or total disagree
// with their quantity, unit price and tax rate. The result is advisory.
func CheckArithmetic(r *domain.ParseResult) []string {
	var warnings []string
	for i, item := range r.Items {
		qty, okQty := parseDecimal(item.Quantity)
		price, okPrice := parseDecimal(item.UnitPrice)
		sub, okSub := parseDecimal(item.Subtotal)
		if !okQty || !okPrice || !okSub {
			continue
		}
		if expected := qty.Mul(price); !approxEqual(sub, expected) {
			warnings = append(warnings, mismatch(i, "subtotal", expected, sub))
		}

		total, okTotal := parseDecimal(item.Total)
		if !okTotal {
			continue
		}
		rate, okRate := parseDecimal(item.TaxRate)
		if !okRate {
			rate = decimal.Zero
		}
		expected := sub.Add(sub.Mul(rate).Div(hundred))
		if !okRate {
			// without a rate the total may include any tax, but never less than the subtotal
			if total.LessThan(sub.Sub(arithmeticTolerance)) {
				warnings = append(warnings, mismatch(i, "total", sub, total))
			}
			continue
		}
		if !approxEqual(total, expected) {
			warnings = append(warnings, mismatch(i, "total", expected, total))
		}
	}
	return warnings
}

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(arithmeticTolerance)
}

func mismatch(i int, fieldName string, expected, actual decimal.Decimal) string {
	return fmt.Sprintf("items[%d].%s mismatch (expected %s, got %s)", i, fieldName, expected.StringFixed(2), actual.StringFixed(2))
}
