package service

import (
	"context"
	"testing"

	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lines := []models.CartLine{paracetamol(), soap()}
	require.NoError(t, f.carts.Put(ctx, "City Pharma", lines))

	got, err := f.carts.Get(ctx, "City Pharma")
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestCartMissingIsEmpty(t *testing.T) {
	f := newFixture(t)

	got, err := f.carts.Get(context.Background(), "City Pharma")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCartMalformedPayloadIsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, payload := range []string{`{"name":"x"}`, `not json`, `null`} {
		require.NoError(t, f.store.ApplyEntries(ctx,
			map[string][]byte{tenant.CartKey("City Pharma"): []byte(payload)}, nil))

		got, err := f.carts.Get(ctx, "City Pharma")
		require.NoError(t, err, payload)
		assert.Empty(t, got, payload)
	}
}

func TestCartKeyUsesDisplayName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddLine(ctx, "City Pharma", paracetamol())
	require.NoError(t, err)

	other, err := f.carts.Get(ctx, "city pharma")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddLineValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := paracetamol()
	bad.Quantity = "ten"
	_, err := f.carts.AddLine(ctx, "City Pharma", bad)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	bad = paracetamol()
	bad.Type = "vaccines"
	_, err = f.carts.AddLine(ctx, "City Pharma", bad)
	assert.ErrorIs(t, err, models.ErrInvalidKind)

	got, err := f.carts.Get(ctx, "City Pharma")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLineEditsAddressLinesWithinKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ibuprofen := paracetamol()
	ibuprofen.Name = "Ibuprofen"
	require.NoError(t, f.carts.Put(ctx, "City Pharma", []models.CartLine{paracetamol(), soap(), ibuprofen}))

	lines, err := f.carts.SetQuantity(ctx, "City Pharma", models.KindMedicines, 1, models.QuantityOf(3))
	require.NoError(t, err)
	assert.Equal(t, models.QuantityOf(3), lines[2].Quantity)
	assert.Equal(t, models.QuantityOf(10), lines[0].Quantity)

	lines, err = f.carts.SetDiscount(ctx, "City Pharma", models.KindGeneralItems, 0, 25)
	require.NoError(t, err)
	assert.Equal(t, 25.0, lines[1].Discount)

	lines, err = f.carts.RemoveLine(ctx, "City Pharma", models.KindMedicines, 0)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Soap", lines[0].Name)
	assert.Equal(t, "Ibuprofen", lines[1].Name)

	stored, err := f.carts.Get(ctx, "City Pharma")
	require.NoError(t, err)
	assert.Equal(t, lines, stored)
}

func TestLineEditsOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Put(ctx, "City Pharma", []models.CartLine{paracetamol()}))

	_, err := f.carts.RemoveLine(ctx, "City Pharma", models.KindGeneralItems, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.carts.SetDiscount(ctx, "City Pharma", models.KindMedicines, 1, 5)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.carts.SetQuantity(ctx, "City Pharma", models.KindMedicines, 0, "")
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
}

func TestClearCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Put(ctx, "City Pharma", []models.CartLine{paracetamol()}))

	require.NoError(t, f.carts.Clear(ctx, "City Pharma"))

	got, err := f.carts.Get(ctx, "City Pharma")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCartSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	line := models.CartLine{Name: "Paracetamol", Type: models.KindMedicines, Price: 10, Quantity: models.QuantityOf(5), Discount: 10}
	_, err := f.carts.AddLine(ctx, "City Pharma", line)
	require.NoError(t, err)

	summary, err := f.carts.Summary(ctx, "City Pharma", 5)
	require.NoError(t, err)
	assert.InDelta(t, 45.0, summary.Category(models.KindMedicines).Subtotal, 1e-9)
	assert.InDelta(t, 47.25, summary.GrandTotal, 1e-9)
	assert.InDelta(t, 2.25, summary.TaxAmount, 1e-9)
}

func TestCartWriteFailureIsPersistenceError(t *testing.T) {
	f := newFixture(t)
	carts := NewCartService(failingBackend{Backend: f.backend})

	_, err := carts.AddLine(context.Background(), "City Pharma", paracetamol())
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestPutRejectsUnpriceableLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Put(ctx, "City Pharma", []models.CartLine{paracetamol()}))

	snacks := models.CartLine{Name: "Chips", Type: "snacks", Quantity: "2", Price: 10}
	err := f.carts.Put(ctx, "City Pharma", []models.CartLine{soap(), snacks})
	assert.ErrorIs(t, err, models.ErrInvalidKind)

	bad := soap()
	bad.Quantity = "abc"
	err = f.carts.Put(ctx, "City Pharma", []models.CartLine{bad})
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	got, err := f.carts.Get(ctx, "City Pharma")
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{paracetamol()}, got)
}

func TestEditLineAppliesBothFieldsInOneWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Put(ctx, "City Pharma", []models.CartLine{soap(), paracetamol()}))

	qty := models.QuantityOf(7)
	discount := 15.0
	lines, err := f.carts.EditLine(ctx, "City Pharma", models.KindMedicines, 0, LineEdit{Quantity: &qty, Discount: &discount})
	require.NoError(t, err)
	assert.Equal(t, qty, lines[1].Quantity)
	assert.Equal(t, 15.0, lines[1].Discount)

	stored, err := f.carts.Get(ctx, "City Pharma")
	require.NoError(t, err)
	assert.Equal(t, lines, stored)
}

func TestEditLineRejectsWithoutWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Put(ctx, "City Pharma", []models.CartLine{paracetamol()}))

	bad := models.Quantity("lots")
	discount := 50.0
	_, err := f.carts.EditLine(ctx, "City Pharma", models.KindMedicines, 0, LineEdit{Quantity: &bad, Discount: &discount})
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = f.carts.EditLine(ctx, "City Pharma", models.KindMedicines, 3, LineEdit{Discount: &discount})
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := f.carts.Get(ctx, "City Pharma")
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{paracetamol()}, got)
}
