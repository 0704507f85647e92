package models

import "testing"

func TestApplicationStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{ApplicationPending, ApplicationInProgress, true},
		{ApplicationPending, ApplicationRejected, true},
		{ApplicationPending, ApplicationCompleted, false},
		{ApplicationInProgress, ApplicationCompleted, true},
		{ApplicationInProgress, ApplicationRejected, true},
		{ApplicationInProgress, ApplicationPending, false},
		{ApplicationCompleted, ApplicationRejected, false},
		{ApplicationCompleted, ApplicationInProgress, false},
		{ApplicationRejected, ApplicationPending, false},
		{ApplicationRejected, ApplicationCompleted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestApplicationStatusTerminal(t *testing.T) {
	if ApplicationPending.Terminal() || ApplicationInProgress.Terminal() {
		t.Error("pending/in_progress must not be terminal")
	}
	if !ApplicationCompleted.Terminal() || !ApplicationRejected.Terminal() {
		t.Error("completed/rejected must be terminal")
	}
}

func TestApplicationStatusValid(t *testing.T) {
	for _, s := range []ApplicationStatus{ApplicationPending, ApplicationInProgress, ApplicationCompleted, ApplicationRejected} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if ApplicationStatus("approved").Valid() {
		t.Error("'approved' should not be valid")
	}
	if ApplicationStatus("").Valid() {
		t.Error("empty status should not be valid")
	}
}
