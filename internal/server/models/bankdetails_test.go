package models

import (
	"strings"
	"testing"
)

func validBankDetails() *BankDetails {
	return &BankDetails{
		BankName:      "First National",
		BankAddress:   "1 Main St",
		AccountOwner:  "Acme LLC",
		AccountType:   AccountTypeChecking,
		AccountNumber: "123456789012",
		RoutingNumber: "021000021",
	}
}

func TestBankDetailsValidate_OK(t *testing.T) {
	if err := validBankDetails().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := validBankDetails()
	b.AccountType = AccountTypeSavings
	b.SwiftCode = "CHASUS33"
	if err := b.Validate(); err != nil {
		t.Fatalf("unexpected error with swift code: %v", err)
	}
}

func TestBankDetailsValidate_Nil(t *testing.T) {
	var b *BankDetails
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for nil details")
	}
}

func TestBankDetailsValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BankDetails)
		substr string
	}{
		{"missing bank name", func(b *BankDetails) { b.BankName = "  " }, "bank name"},
		{"missing bank address", func(b *BankDetails) { b.BankAddress = "" }, "bank address"},
		{"missing owner", func(b *BankDetails) { b.AccountOwner = "" }, "account owner"},
		{"bad account type", func(b *BankDetails) { b.AccountType = "money-market" }, "account type"},
		{"missing account number", func(b *BankDetails) { b.AccountNumber = "" }, "account number"},
		{"routing too short", func(b *BankDetails) { b.RoutingNumber = "12345678" }, "routing number"},
		{"routing too long", func(b *BankDetails) { b.RoutingNumber = "1234567890" }, "routing number"},
		{"routing non-digit", func(b *BankDetails) { b.RoutingNumber = "02100002a" }, "routing number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBankDetails()
			tt.mutate(b)
			err := b.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Fatalf("error %q does not mention %q", err, tt.substr)
			}
		})
	}
}
