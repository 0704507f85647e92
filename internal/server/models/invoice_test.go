package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestComputeTotals(t *testing.T) {
	inv := &Invoice{
		Items: []LineItem{
			{Quantity: decimal.NewFromFloat(2.5), Price: decimal.NewFromInt(100)},
			{Quantity: decimal.NewFromInt(3), Price: decimal.NewFromFloat(19.99)},
		},
		Tax: decimal.NewFromFloat(24.75),
	}
	inv.ComputeTotals()

	wantSubtotal := decimal.NewFromFloat(309.97) // 250 + 59.97
	if !inv.Subtotal.Equal(wantSubtotal) {
		t.Errorf("subtotal = %s, want %s", inv.Subtotal, wantSubtotal)
	}
	wantTotal := decimal.NewFromFloat(334.72)
	if !inv.Total.Equal(wantTotal) {
		t.Errorf("total = %s, want %s", inv.Total, wantTotal)
	}
}

func TestComputeTotals_NoItems(t *testing.T) {
	inv := &Invoice{Tax: decimal.NewFromInt(5)}
	inv.ComputeTotals()
	if !inv.Subtotal.IsZero() {
		t.Errorf("subtotal = %s, want 0", inv.Subtotal)
	}
	if !inv.Total.Equal(decimal.NewFromInt(5)) {
		t.Errorf("total = %s, want 5", inv.Total)
	}
}

func TestLineItemAmount(t *testing.T) {
	item := LineItem{Quantity: decimal.NewFromFloat(0.5), Price: decimal.NewFromInt(80)}
	if !item.Amount().Equal(decimal.NewFromInt(40)) {
		t.Errorf("amount = %s, want 40", item.Amount())
	}
}

func TestRecurrenceNextIssueDate(t *testing.T) {
	from := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		r    Recurrence
		want time.Time
	}{
		{RecurrenceMonthly, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)}, // Jan 31 + 1 month normalizes past Feb
		{RecurrenceQuarterly, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{RecurrenceYearly, time.Date(2027, time.January, 31, 0, 0, 0, 0, time.UTC)},
		{RecurrenceNone, from},
	}
	for _, tt := range tests {
		if got := tt.r.NextIssueDate(from); !got.Equal(tt.want) {
			t.Errorf("%q.NextIssueDate = %v, want %v", tt.r, got, tt.want)
		}
	}
}
