package pricing

import (
	"testing"

	"pharmacy-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name string, kind models.Kind, price float64, qty int, discount float64) models.CartLine {
	return models.CartLine{Name: name, Type: kind, Price: price, Quantity: models.QuantityOf(qty), Discount: discount}
}

func TestApplyDiscount(t *testing.T) {
	t.Run("zero discount keeps price", func(t *testing.T) {
		assert.Equal(t, 12.5, ApplyDiscount(12.5, 0))
	})

	t.Run("full discount is free", func(t *testing.T) {
		assert.Equal(t, 0.0, ApplyDiscount(12.5, 100))
	})

	t.Run("ten percent", func(t *testing.T) {
		assert.Equal(t, 9.0, ApplyDiscount(10, 10))
	})

	t.Run("out of range values are not clamped", func(t *testing.T) {
		assert.Equal(t, -10.0, ApplyDiscount(10, 200))
		assert.Equal(t, 15.0, ApplyDiscount(10, -50))
	})
}

func TestCategorySubtotal(t *testing.T) {
	lines := []models.CartLine{
		line("Paracetamol", models.KindMedicines, 10, 5, 10),
		line("Cough Syrup", models.KindMedicines, 80, 1, 0),
		line("Soap", models.KindGeneralItems, 25, 2, 20),
	}

	sub, err := CategorySubtotal(lines, models.KindMedicines, true)
	require.NoError(t, err)
	assert.Equal(t, 125.0, sub)

	sub, err = CategorySubtotal(lines, models.KindMedicines, false)
	require.NoError(t, err)
	assert.Equal(t, 130.0, sub)

	sub, err = CategorySubtotal(lines, models.KindGeneralItems, true)
	require.NoError(t, err)
	assert.Equal(t, 40.0, sub)
}

func TestCategorySubtotalIsLinearInQuantity(t *testing.T) {
	lines := []models.CartLine{
		line("a", models.KindMedicines, 3.3, 3, 7.5),
		line("b", models.KindMedicines, 19.99, 2, 0),
	}
	doubled := make([]models.CartLine, len(lines))
	for i, l := range lines {
		q, _ := l.Quantity.Float64()
		l.Quantity = models.QuantityOf(int(q) * 2)
		doubled[i] = l
	}

	single, err := CategorySubtotal(lines, models.KindMedicines, true)
	require.NoError(t, err)
	double, err := CategorySubtotal(doubled, models.KindMedicines, true)
	require.NoError(t, err)
	assert.InDelta(t, 2*single, double, 1e-9)
}

func TestCategorySubtotalRejectsNonNumericQuantity(t *testing.T) {
	lines := []models.CartLine{{Name: "x", Type: models.KindMedicines, Price: 1, Quantity: "two"}}

	_, err := CategorySubtotal(lines, models.KindMedicines, true)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = GrandTotal(lines, 5)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
}

func TestTaxAmount(t *testing.T) {
	assert.Equal(t, 2.25, TaxAmount(45, 5))
	assert.Equal(t, 0.0, TaxAmount(45, 0))
}

func TestParacetamolScenario(t *testing.T) {
	lines := []models.CartLine{line("Paracetamol", models.KindMedicines, 10, 5, 10)}

	assert.Equal(t, 9.0, ApplyDiscount(10, 10))

	sub, err := CategorySubtotal(lines, models.KindMedicines, true)
	require.NoError(t, err)
	assert.Equal(t, 45.0, sub)

	total, err := GrandTotal(lines, 5)
	require.NoError(t, err)
	assert.Equal(t, 47.25, total)
}

func TestSummarize(t *testing.T) {
	lines := []models.CartLine{
		line("Paracetamol", models.KindMedicines, 10, 5, 10),
		line("Soap", models.KindGeneralItems, 25, 2, 20),
	}

	s, err := Summarize(lines, 12)
	require.NoError(t, err)

	med := s.Category(models.KindMedicines)
	assert.Len(t, med.Lines, 1)
	assert.Equal(t, 50.0, med.Gross)
	assert.Equal(t, 45.0, med.Subtotal)
	assert.InDelta(t, 50.4, med.Total, 1e-9)

	gen := s.Category(models.KindGeneralItems)
	assert.Equal(t, 40.0, gen.Subtotal)
	assert.InDelta(t, 44.8, gen.Total, 1e-9)

	assert.Equal(t, 85.0, s.Subtotal)
	assert.InDelta(t, 10.2, s.TaxAmount, 1e-9)
	assert.InDelta(t, 95.2, s.GrandTotal, 1e-9)
	assert.InDelta(t, s.GrandTotal, s.CombinedTotal(), 1e-9)
}

func TestSummarizeEmptyCart(t *testing.T) {
	s, err := Summarize(nil, 18)
	require.NoError(t, err)
	assert.Zero(t, s.GrandTotal)
	assert.Len(t, s.Categories, 2)
	assert.Empty(t, s.Category(models.KindMedicines).Lines)
}
