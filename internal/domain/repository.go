package domain

import "context"

// SessionStore defines access to per-user session state. Implementations must
// make Update an atomic read-modify-write: the mutation fn runs against a
// private copy under the store's per-key exclusion, and an error from fn
// aborts the write with no state change. Sessions for different users are
// independent.
type SessionStore interface {
	// GetOrCreate returns the stored session or inserts one with
	// first-contact defaults.
	GetOrCreate(ctx context.Context, userID string) (*Session, error)
	// Get returns the stored session or ErrNotFound.
	Get(ctx context.Context, userID string) (*Session, error)
	// Update applies fn to the session (creating it with defaults first if
	// absent) and persists the result.
	Update(ctx context.Context, userID string, fn func(*Session) error) (*Session, error)
	// List returns a snapshot of all sessions.
	List(ctx context.Context) ([]*Session, error)
}
