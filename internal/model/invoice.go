package model

import (
	"math"
	"time"
)

// InvoiceStatus follows DRAFT -> PENDING -> APPROVED -> PAID, with
// REJECTED reachable from PENDING.
type InvoiceStatus string

const (
	InvoiceDraft    InvoiceStatus = "DRAFT"
	InvoicePending  InvoiceStatus = "PENDING"
	InvoiceApproved InvoiceStatus = "APPROVED"
	InvoicePaid     InvoiceStatus = "PAID"
	InvoiceRejected InvoiceStatus = "REJECTED"
)

// TaxRate is applied to the subtotal at creation time and trusted thereafter.
const TaxRate = 0.08

type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	VendorID      string        `json:"vendorId"`
	CompanyID     string        `json:"companyId"`
	WorkOrderID   string        `json:"workOrderId"`
	Status        InvoiceStatus `json:"status"`
	Items         []InvoiceItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	TaxAmount     float64       `json:"taxAmount"`
	TotalAmount   float64       `json:"totalAmount"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	PaidDate      *time.Time    `json:"paidDate,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (i Invoice) EntityID() string { return i.ID }

// ComputeTotals fills each item's line total and returns subtotal, tax and
// grand total, rounded to cents.
func ComputeTotals(items []InvoiceItem) (subtotal, tax, total float64) {
	for idx := range items {
		items[idx].Total = roundCents(items[idx].Quantity * items[idx].UnitPrice)
		subtotal += items[idx].Total
	}
	subtotal = roundCents(subtotal)
	tax = roundCents(subtotal * TaxRate)
	total = roundCents(subtotal + tax)
	return subtotal, tax, total
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
