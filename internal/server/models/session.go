package models

import "time"

// Session is a server-side authenticated session. Each session is keyed by
// its own id and carries its role, so user and admin sessions never share
// state even for the same person in the same browser.
//
// LastActivityAt is overwritten on every authenticated request
// (last-writer-wins; the value is monotonic in practice). ExpiresAt is an
// absolute cap independent of activity.
type Session struct {
	ID             string
	UserID         string
	Role           Role
	TokenHash      string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	LastActivityAt time.Time
}

// RefreshToken is a server-stored, single-use token exchanged for a fresh
// token pair. Rotation deletes the old row and inserts the replacement in
// one transaction.
type RefreshToken struct {
	Token   string
	UserID  string
	Expires time.Time
}
