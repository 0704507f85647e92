package session

import (
	"testing"
	"time"
)

func TestStateFor(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	timeout := 15 * time.Minute

	tests := []struct {
		name          string
		lastActivity  time.Time
		wantState     State
		wantRemaining time.Duration
	}{
		{"fresh activity", now, StateActive, 15 * time.Minute},
		{"mid-session", now.Add(-5 * time.Minute), StateActive, 10 * time.Minute},
		{"just outside warning", now.Add(-timeout + WarningWindow + time.Second), StateActive, WarningWindow + time.Second},
		{"warning boundary", now.Add(-timeout + WarningWindow), StateWarning, WarningWindow},
		{"deep in warning", now.Add(-timeout + 10*time.Second), StateWarning, 10 * time.Second},
		{"exactly expired", now.Add(-timeout), StateExpired, 0},
		{"long expired", now.Add(-time.Hour), StateExpired, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, remaining := StateFor(tt.lastActivity, now, timeout)
			if state != tt.wantState {
				t.Errorf("state = %s, want %s", state, tt.wantState)
			}
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
		})
	}
}

func TestStateFor_ZeroActivityFailsOpen(t *testing.T) {
	state, remaining := StateFor(time.Time{}, time.Now(), 5*time.Minute)
	if state != StateActive {
		t.Fatalf("state = %s, want ACTIVE", state)
	}
	if remaining != 5*time.Minute {
		t.Fatalf("remaining = %v, want full timeout", remaining)
	}
}

func TestStateFor_RemainingNeverNegative(t *testing.T) {
	_, remaining := StateFor(time.Now().Add(-2*time.Hour), time.Now(), time.Minute)
	if remaining < 0 {
		t.Fatalf("remaining = %v, want >= 0", remaining)
	}
}
