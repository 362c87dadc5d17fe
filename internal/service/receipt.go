package service

import (
	"encoding/json"

	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/pricing"
)

// Receipt is the read-only view a document renderer needs. It carries the
// priced categories so renderers never recompute totals.
type Receipt struct {
	order   models.Order
	summary pricing.Summary
}

// ReceiptFromOrder prices a committed or previewed order
func ReceiptFromOrder(order models.Order) (*Receipt, error) {
	summary, err := pricing.Summarize(order.Items, order.GSTRate)
	if err != nil {
		return nil, err
	}
	return &Receipt{order: order, summary: summary}, nil
}

func (r *Receipt) OrderCode() string    { return r.order.OrderCode }
func (r *Receipt) PharmacyName() string { return r.order.PharmacyName }
func (r *Receipt) DoctorName() string   { return r.order.DoctorName }
func (r *Receipt) PatientName() string  { return r.order.PatientName }
func (r *Receipt) GSTNo() string        { return r.order.GSTNo }
func (r *Receipt) GSTRate() float64     { return r.order.GSTRate }
func (r *Receipt) Date() string         { return r.order.Date }

// Lines returns the lines of one kind in cart order
func (r *Receipt) Lines(kind models.Kind) []models.CartLine {
	return r.summary.Category(kind).Lines
}

// Subtotal is the discounted subtotal of one kind, before GST
func (r *Receipt) Subtotal(kind models.Kind) float64 {
	return r.summary.Category(kind).Subtotal
}

// Subtotals is the discounted subtotal over all kinds
func (r *Receipt) Subtotals() float64 {
	return r.summary.Subtotal
}

func (r *Receipt) TaxAmount() float64 {
	return r.summary.TaxAmount
}

func (r *Receipt) GrandTotal() float64 {
	return r.summary.GrandTotal
}

type receiptJSON struct {
	OrderCode    string          `json:"orderCode,omitempty"`
	PharmacyName string          `json:"pharmacyName"`
	DoctorName   string          `json:"doctorName"`
	PatientName  string          `json:"patientName"`
	GSTNo        string          `json:"gstNo"`
	Date         string          `json:"date"`
	Pricing      pricing.Summary `json:"pricing"`
}

// MarshalJSON implements json.Marshaler
func (r *Receipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(receiptJSON{
		OrderCode:    r.order.OrderCode,
		PharmacyName: r.order.PharmacyName,
		DoctorName:   r.order.DoctorName,
		PatientName:  r.order.PatientName,
		GSTNo:        r.order.GSTNo,
		Date:         r.order.Date,
		Pricing:      r.summary,
	})
}
