package models

import "time"

// ApplicationStatus is the lifecycle state of an ACH application.
//
// pending → in_progress → completed, with pending and in_progress both able
// to move to rejected. completed and rejected are terminal.
type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationInProgress ApplicationStatus = "in_progress"
	ApplicationCompleted  ApplicationStatus = "completed"
	ApplicationRejected   ApplicationStatus = "rejected"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationInProgress, ApplicationCompleted, ApplicationRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationCompleted || s == ApplicationRejected
}

// CanTransitionTo reports whether the workflow permits moving from s to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case ApplicationPending:
		return next == ApplicationInProgress || next == ApplicationRejected
	case ApplicationInProgress:
		return next == ApplicationCompleted || next == ApplicationRejected
	}
	return false
}

// ACHApplication is a user's request for a virtual bank account.
//
// Invariant: BankDetails is populated exactly when Status is in_progress or
// completed; it is absent while pending and untouched by rejection.
type ACHApplication struct {
	ID           string
	UserID       string
	BusinessName string
	Purpose      string
	Status       ApplicationStatus
	AdminNotes   string
	BankDetails  *BankDetails
	CreatedAt    time.Time
	ApprovedAt   *time.Time
	CompletedAt  *time.Time
	RejectedAt   *time.Time
}
