package memstore

import (
	"context"
	"sync"
	"time"

	"tutorbot/internal/domain"
)

// Store keeps sessions in process memory. It is the baseline backend and the
// one used by tests. Update serializes per user, so two concurrent messages
// for the same user cannot both pass a quota check before either commits;
// different users never contend.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	locks    map[string]*sync.Mutex
	now      func() time.Time
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		locks:    make(map[string]*sync.Mutex),
		now:      time.Now,
	}
}

// WithClock overrides the store's clock. Tests use this to cross day
// boundaries.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) keyLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// GetOrCreate returns the stored session or inserts defaults for first
// contact.
func (s *Store) GetOrCreate(ctx context.Context, userID string) (*domain.Session, error) {
	l := s.keyLock(userID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = domain.NewSession(userID, s.now())
		s.sessions[userID] = sess
	}
	return sess.Clone(), nil
}

// Get returns the stored session or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sess.Clone(), nil
}

// Update runs fn against a private copy under the user's lock and commits the
// result. An error from fn leaves the stored session untouched.
func (s *Store) Update(ctx context.Context, userID string, fn func(*domain.Session) error) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := s.keyLock(userID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = domain.NewSession(userID, s.now())
	}
	working := sess.Clone()
	s.mu.Unlock()

	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.sessions[userID] = working
	s.mu.Unlock()
	return working.Clone(), nil
}

// List returns a snapshot of every session.
func (s *Store) List(ctx context.Context) ([]*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	return out, nil
}

var _ domain.SessionStore = (*Store)(nil)
