// Package session implements idle-session tracking: the state machine the
// API reports to clients and the background monitor that force-signs-out
// idle sessions.
package session

import "time"

// State is the client-visible session state.
type State string

const (
	StateActive  State = "ACTIVE"
	StateWarning State = "WARNING"
	StateExpired State = "EXPIRED"
)

// WarningWindow is how long before expiry a session reports WARNING so the
// client can offer to extend it.
const WarningWindow = time.Minute

// StateFor derives the session state from its last activity timestamp.
// remaining is how much idle time is left; it is never negative.
//
// A zero lastActivity means the activity write has not landed yet; the
// session is treated as fully fresh for that cycle rather than expired.
func StateFor(lastActivity, now time.Time, timeout time.Duration) (State, time.Duration) {
	if lastActivity.IsZero() {
		return StateActive, timeout
	}

	remaining := timeout - now.Sub(lastActivity)
	switch {
	case remaining <= 0:
		return StateExpired, 0
	case remaining <= WarningWindow:
		return StateWarning, remaining
	}
	return StateActive, remaining
}
