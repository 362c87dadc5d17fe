package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityDecodesNumbersAndStrings(t *testing.T) {
	var lines []CartLine
	payload := `[{"name":"a","type":"medicines","quantity":5,"price":1},
		{"name":"b","type":"general_items","quantity":"2.5","price":1},
		{"name":"c","type":"medicines","quantity":"ten","price":1}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &lines))

	assert.Equal(t, Quantity("5"), lines[0].Quantity)
	assert.Equal(t, Quantity("2.5"), lines[1].Quantity)
	assert.Equal(t, Quantity("ten"), lines[2].Quantity)
	assert.Zero(t, lines[0].Discount)
}

func TestQuantityFloat64(t *testing.T) {
	v, err := Quantity("4").Float64()
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	for _, bad := range []Quantity{"", "ten", "NaN", "Inf", "3 boxes"} {
		_, err := bad.Float64()
		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %q", bad)
	}
}

func TestQuantityEncodesNumericAsNumber(t *testing.T) {
	out, err := json.Marshal(CartLine{Name: "a", Type: KindMedicines, Quantity: QuantityOf(3), Price: 2})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"quantity":3`)

	out, err = json.Marshal(CartLine{Name: "a", Quantity: "a few"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"quantity":"a few"`)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("medicines")
	require.NoError(t, err)
	assert.Equal(t, KindMedicines, k)

	_, err = ParseKind("snacks")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
