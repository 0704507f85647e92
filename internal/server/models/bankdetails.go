package models

import (
	"fmt"
	"regexp"
	"strings"
)

// AccountType is the kind of receiving account behind a virtual bank account.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

var routingNumberRe = regexp.MustCompile(`^\d{9}$`)

// BankDetails describes the receiving account an admin attaches to an ACH
// application. All fields except SwiftCode are required.
type BankDetails struct {
	BankName      string      `json:"bankName"`
	BankAddress   string      `json:"bankAddress"`
	AccountOwner  string      `json:"accountOwner"`
	AccountType   AccountType `json:"accountType"`
	AccountNumber string      `json:"accountNumber"`
	RoutingNumber string      `json:"routingNumber"`
	SwiftCode     string      `json:"swiftCode,omitempty"`
}

// Validate checks every required field and the routing-number format
// (exactly 9 digits). It returns the first problem found.
func (b *BankDetails) Validate() error {
	if b == nil {
		return fmt.Errorf("bank details required")
	}
	if strings.TrimSpace(b.BankName) == "" {
		return fmt.Errorf("bank name required")
	}
	if strings.TrimSpace(b.BankAddress) == "" {
		return fmt.Errorf("bank address required")
	}
	if strings.TrimSpace(b.AccountOwner) == "" {
		return fmt.Errorf("account owner required")
	}
	if b.AccountType != AccountTypeChecking && b.AccountType != AccountTypeSavings {
		return fmt.Errorf("account type must be checking or savings")
	}
	if strings.TrimSpace(b.AccountNumber) == "" {
		return fmt.Errorf("account number required")
	}
	if !routingNumberRe.MatchString(b.RoutingNumber) {
		return fmt.Errorf("routing number must be exactly 9 digits")
	}
	return nil
}
