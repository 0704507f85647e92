package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// Recurrence is the optional repeat cadence of an invoice. The empty string
// means the invoice does not recur.
type Recurrence string

const (
	RecurrenceNone      Recurrence = ""
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
)

// Valid reports whether r is a known recurrence cadence.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

// NextIssueDate returns from advanced by one recurrence period.
// For RecurrenceNone it returns from unchanged.
func (r Recurrence) NextIssueDate(from time.Time) time.Time {
	switch r {
	case RecurrenceMonthly:
		return from.AddDate(0, 1, 0)
	case RecurrenceQuarterly:
		return from.AddDate(0, 3, 0)
	case RecurrenceYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// LineItem is one billed row on an invoice.
type LineItem struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// Amount is the derived line total, quantity × unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Price)
}

// Invoice is a client invoice owned by a user. Subtotal and Total are stored
// but always recomputed and verified server-side:
// subtotal = Σ item amounts, total = subtotal + tax.
type Invoice struct {
	ID            string
	UserID        string
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
	ClientAddress string
	IssueDate     time.Time
	DueDate       time.Time
	Items         []LineItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Status        InvoiceStatus
	Recurrence    Recurrence
	Notes         string
	StorageKey    string
	CreatedAt     time.Time
}

// ComputeTotals recalculates Subtotal and Total from the line items and tax.
func (inv *Invoice) ComputeTotals() {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount())
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal.Add(inv.Tax)
}
