// Package pricing computes cart totals under per-line discounts and a flat
// GST rate. Arithmetic runs on decimals and is returned as float64.
package pricing

import (
	"pharmacy-pos/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ApplyDiscount returns price * (1 - discountPercent/100).
// Percentages outside [0, 100] are not clamped.
func ApplyDiscount(price, discountPercent float64) float64 {
	return applyDiscount(decimal.NewFromFloat(price), decimal.NewFromFloat(discountPercent)).InexactFloat64()
}

func applyDiscount(price, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
}

// CategorySubtotal sums unit price times quantity over the lines of one kind.
func CategorySubtotal(lines []models.CartLine, kind models.Kind, withDiscount bool) (float64, error) {
	sub, err := categorySubtotal(lines, kind, withDiscount)
	if err != nil {
		return 0, err
	}
	return sub.InexactFloat64(), nil
}

func categorySubtotal(lines []models.CartLine, kind models.Kind, withDiscount bool) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		if line.Type != kind {
			continue
		}
		qty, err := line.Quantity.Float64()
		if err != nil {
			return decimal.Zero, err
		}

		unit := decimal.NewFromFloat(line.Price)
		if withDiscount {
			unit = applyDiscount(unit, decimal.NewFromFloat(line.Discount))
		}
		total = total.Add(unit.Mul(decimal.NewFromFloat(qty)))
	}
	return total, nil
}

// TaxAmount returns subtotal * gstRate / 100.
func TaxAmount(subtotal, gstRate float64) float64 {
	return taxAmount(decimal.NewFromFloat(subtotal), decimal.NewFromFloat(gstRate)).InexactFloat64()
}

func taxAmount(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Div(hundred)
}

// GrandTotal applies GST to each category's discounted subtotal and sums the
// GST-inclusive category totals.
func GrandTotal(lines []models.CartLine, gstRate float64) (float64, error) {
	s, err := Summarize(lines, gstRate)
	if err != nil {
		return 0, err
	}
	return s.GrandTotal, nil
}

// Category is the priced view of one stock kind.
type Category struct {
	Kind     models.Kind       `json:"kind"`
	Lines    []models.CartLine `json:"lines"`
	Gross    float64           `json:"gross"`
	Subtotal float64           `json:"subtotal"`
	Total    float64           `json:"total"`
}

// Summary is everything a receipt or cart screen shows.
type Summary struct {
	GSTRate    float64    `json:"gst_rate"`
	Categories []Category `json:"categories"`
	Subtotal   float64    `json:"subtotal"`
	TaxAmount  float64    `json:"tax_amount"`
	GrandTotal float64    `json:"grand_total"`
}

// Summarize prices every category of the cart.
func Summarize(lines []models.CartLine, gstRate float64) (Summary, error) {
	rate := decimal.NewFromFloat(gstRate)
	combined := decimal.Zero
	grand := decimal.Zero

	summary := Summary{GSTRate: gstRate, Categories: make([]Category, 0, len(models.Kinds))}
	for _, kind := range models.Kinds {
		gross, err := categorySubtotal(lines, kind, false)
		if err != nil {
			return Summary{}, err
		}
		net, err := categorySubtotal(lines, kind, true)
		if err != nil {
			return Summary{}, err
		}
		total := net.Add(taxAmount(net, rate))

		combined = combined.Add(net)
		grand = grand.Add(total)
		summary.Categories = append(summary.Categories, Category{
			Kind:     kind,
			Lines:    LinesOf(lines, kind),
			Gross:    gross.InexactFloat64(),
			Subtotal: net.InexactFloat64(),
			Total:    total.InexactFloat64(),
		})
	}

	summary.Subtotal = combined.InexactFloat64()
	summary.TaxAmount = taxAmount(combined, rate).InexactFloat64()
	summary.GrandTotal = grand.InexactFloat64()
	return summary, nil
}

// Category returns the priced category for kind.
func (s Summary) Category(kind models.Kind) Category {
	for _, c := range s.Categories {
		if c.Kind == kind {
			return c
		}
	}
	return Category{Kind: kind}
}

// CombinedTotal applies GST once to the combined subtotal. It agrees with
// GrandTotal up to rounding for a flat rate.
func (s Summary) CombinedTotal() float64 {
	sub := decimal.NewFromFloat(s.Subtotal)
	return sub.Add(taxAmount(sub, decimal.NewFromFloat(s.GSTRate))).InexactFloat64()
}

// LinesOf filters lines of one kind, keeping their order.
func LinesOf(lines []models.CartLine, kind models.Kind) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Type == kind {
			out = append(out, line)
		}
	}
	return out
}
