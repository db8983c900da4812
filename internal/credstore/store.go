// Package credstore owns the persisted credential slot shared by every
// process of the voting-system front. The slot holds exactly one token
// under the fixed key "token"; all identity checks read through it and
// logout destroys it.
package credstore

import (
	"errors"
	"time"
)

// Key is the name of the credential slot, mirrored in the file name and
// the keyring entry.
const Key = "token"

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = time.Hour

// ErrNoCredential is returned by Get when no live token is stored.
// Absent, expired and unreadable entries all look the same to callers.
var ErrNoCredential = errors.New("credstore: no credential stored")

// Store is the persisted credential slot. Implementations must treat an
// expired entry as absent.
type Store interface {
	// Set persists token for ttl and announces the change on the
	// store's bus so in-process observers resynchronize.
	Set(token string, ttl time.Duration) error
	// Get returns the stored token, or ErrNoCredential.
	Get() (string, error)
	// Remove destroys the credential. Removing an absent credential is
	// not an error.
	Remove() error
}

// envelope is the persisted form: the opaque token plus the slot-level
// expiry (the cookie-expiry analog; the token carries its own exp claim
// on top of this).
type envelope struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e envelope) expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
