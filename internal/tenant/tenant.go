// Package tenant derives storage names from a pharmacy's display name.
//
// Relation names use the normalized name, while staging and ledger keys use
// the display name exactly as entered. Two spellings that normalize to the
// same identifier share inventory but keep separate carts and order lists.
package tenant

import (
	"regexp"
	"strings"
)

const (
	cartKeyPrefix   = "cartItems_"
	ordersKeyPrefix = "orders_"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lower-cases the trimmed name and replaces whitespace runs with "_".
func Normalize(displayName string) string {
	trimmed := strings.TrimSpace(displayName)
	return whitespaceRun.ReplaceAllString(strings.ToLower(trimmed), "_")
}

// Relation returns the relation name for a stock kind, e.g. "medicines_city_pharma".
func Relation(displayName, kind string) string {
	return kind + "_" + Normalize(displayName)
}

// CartKey returns the staging key holding the tenant's in-progress cart.
func CartKey(displayName string) string {
	return cartKeyPrefix + displayName
}

// OrdersKey returns the staging key holding the tenant's committed orders.
func OrdersKey(displayName string) string {
	return ordersKeyPrefix + displayName
}
