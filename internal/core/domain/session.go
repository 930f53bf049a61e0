package domain

// SessionState is the authentication state of the running process.
type SessionState string

const (
	Unauthenticated SessionState = "unauthenticated"
	AwaitingUnlock  SessionState = "awaiting_unlock"
	Active          SessionState = "active"
)

// LockState tells whether a PIN is registered on this device.
type LockState string

const (
	NoLock  LockState = "no_lock"
	HasLock LockState = "has_lock"
)

// SessionStatus is a point-in-time copy of the session.
type SessionStatus struct {
	State         SessionState `json:"state"`
	Lock          LockState    `json:"lock"`
	ActiveAccount *Account     `json:"activeAccount,omitempty"`
}
