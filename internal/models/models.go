package models

import "fmt"

// Kind identifies one of the two stock relations a pharmacy owns.
type Kind string

// Stock kinds
const (
	KindMedicines    Kind = "medicines"
	KindGeneralItems Kind = "general_items"
)

// Kinds lists the stock kinds in receipt order.
var Kinds = []Kind{KindMedicines, KindGeneralItems}

// ParseKind validates a kind coming from the transport layer
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindMedicines, KindGeneralItems:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// StockItem is a medicine or general item row.
// Quantity is kept as text; the store persists whatever it is given.
type StockItem struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Type       string  `db:"type" json:"type,omitempty"`
	Quantity   string  `db:"quantity" json:"quantity"`
	ExpiryDate string  `db:"expiry_date" json:"expiry_date"`
	BatchNo    string  `db:"batch_no" json:"batch_no"`
	Price      float64 `db:"price" json:"price"`
}

// StockFields holds the editable fields of a stock item
type StockFields struct {
	Name       string  `json:"name"`
	Type       string  `json:"type,omitempty"`
	Quantity   string  `json:"quantity"`
	ExpiryDate string  `json:"expiry_date"`
	BatchNo    string  `json:"batch_no"`
	Price      float64 `json:"price"`
}

// Validate checks the invariants every stored row must satisfy
func (f StockFields) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStockItem)
	}
	if f.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidStockItem)
	}
	return nil
}

// CartLine is one staged line of an in-progress order.
type CartLine struct {
	Name     string   `json:"name"`
	Type     Kind     `json:"type"`
	Quantity Quantity `json:"quantity"`
	Price    float64  `json:"price"`
	Discount float64  `json:"discount"`
	BatchNo  string   `json:"batch_no,omitempty"`
}

// Order is a committed cart snapshot. It is never updated after append.
type Order struct {
	OrderCode    string     `json:"orderCode"`
	PatientName  string     `json:"patientName"`
	DoctorName   string     `json:"doctorName"`
	PharmacyName string     `json:"pharmacyName"`
	GSTNo        string     `json:"gstNo"`
	GSTRate      float64    `json:"gstRate"`
	Date         string     `json:"date"`
	Items        []CartLine `json:"items"`
	Total        float64    `json:"total"`
}
