package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Quantity is a cart quantity as it was staged. It decodes from a JSON
// number or string and encodes back as a number whenever it is one.
type Quantity string

// QuantityOf formats an integer quantity
func QuantityOf(n int) Quantity {
	return Quantity(strconv.Itoa(n))
}

// Float64 parses the quantity, failing with ErrInvalidQuantity
func (q Quantity) Float64() (float64, error) {
	v, err := strconv.ParseFloat(string(q), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, string(q))
	}
	return v, nil
}

// MarshalJSON implements json.Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	if jsonNumber.MatchString(string(q)) {
		return []byte(q), nil
	}
	return json.Marshal(string(q))
}

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*q = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a number or string: %w", err)
	}
	*q = Quantity(n.String())
	return nil
}
