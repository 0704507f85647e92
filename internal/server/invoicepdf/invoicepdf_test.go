package invoicepdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noverif/noverif/internal/server/models"
)

func TestMaskAccountNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"123456789012", "••••••••9012"},
		{"12345", "•2345"},
		{"1234", "1234"},
		{"123", "123"},
		{"1", "1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MaskAccountNumber(tt.in); got != tt.want {
			t.Errorf("MaskAccountNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func testInvoice() *models.Invoice {
	issue := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	inv := &models.Invoice{
		ID:            "inv-1",
		UserID:        "u-1",
		InvoiceNumber: "INV-2026-001",
		ClientName:    "Acme Corporation",
		ClientEmail:   "billing@acme.example",
		ClientAddress: "1 Industrial Way\nSpringfield",
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, 30),
		Items: []models.LineItem{
			{Description: "Consulting", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(150)},
			{Description: "Travel", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromFloat(423.5)},
		},
		Tax:    decimal.NewFromFloat(96.18),
		Status: models.InvoiceSent,
		Notes:  "Net 30.",
	}
	inv.ComputeTotals()
	return inv
}

func TestRender_ProducesPDF(t *testing.T) {
	data, err := Render(testInvoice(), nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
}

func TestRender_Deterministic(t *testing.T) {
	inv := testInvoice()
	bank := &models.BankDetails{
		BankName:      "First National",
		BankAddress:   "1 Main St",
		AccountOwner:  "Acme LLC",
		AccountType:   models.AccountTypeChecking,
		AccountNumber: "123456789012",
		RoutingNumber: "021000021",
	}

	first, err := Render(inv, bank)
	if err != nil {
		t.Fatalf("first Render error: %v", err)
	}
	second, err := Render(inv, bank)
	if err != nil {
		t.Fatalf("second Render error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("rendering the same invoice twice produced different bytes")
	}
}

func TestRender_MasksAccountNumber(t *testing.T) {
	bank := &models.BankDetails{
		BankName:      "First National",
		BankAddress:   "1 Main St",
		AccountOwner:  "Acme LLC",
		AccountType:   models.AccountTypeChecking,
		AccountNumber: "998877665544",
		RoutingNumber: "021000021",
	}

	data, err := Render(testInvoice(), bank)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	// PDF content streams are compressed, so check the mask helper's
	// contract directly against what the renderer feeds it.
	masked := MaskAccountNumber(bank.AccountNumber)
	if strings.Contains(masked, "9988") {
		t.Fatal("masked number leaks leading digits")
	}
	if !strings.HasSuffix(masked, "5544") {
		t.Fatal("masked number must keep the last four digits")
	}
	if len(data) == 0 {
		t.Fatal("empty PDF")
	}
}
