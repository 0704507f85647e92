package models

import "time"

// Wallet is a cryptocurrency address a user attaches to their profile for
// receiving payments. No private-key custody occurs; only the address and a
// display name are stored.
type Wallet struct {
	ID          string
	UserID      string
	Type        string
	Address     string
	Name        string
	ConnectedAt time.Time
}
