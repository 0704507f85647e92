// Package models defines the server-side record types and status enums
// persisted by the repositories. Statuses are validated at the store
// boundary so no loosely-typed document shapes leak into the services.
package models

import "time"

// Role distinguishes the two authenticated surfaces.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// VirtualBankStatus mirrors the user's ACH application progress on the
// profile. The empty string means the user never applied.
type VirtualBankStatus string

const (
	VirtualBankNone       VirtualBankStatus = ""
	VirtualBankInProgress VirtualBankStatus = "in_progress"
	VirtualBankCompleted  VirtualBankStatus = "completed"
	VirtualBankRejected   VirtualBankStatus = "rejected"
)

// User is a registered account. Sign-up requires no identity verification;
// the profile accumulates optional contact fields, the virtual-bank mirror
// written by the application workflow, and bank details copied from a
// completed application.
type User struct {
	ID                     string
	Email                  string
	PasswordHash           []byte
	Name                   string
	Phone                  string
	Address                string
	Role                   Role
	Suspended              bool
	VirtualBankStatus      VirtualBankStatus
	VirtualBankCreatedAt   *time.Time
	VirtualBankCompletedAt *time.Time
	BankDetails            *BankDetails
	CreatedAt              time.Time
}
