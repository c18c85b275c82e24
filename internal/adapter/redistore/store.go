package redistore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tutorbot/internal/domain"
)

const keyPrefix = "session:"

// maxRetries bounds the optimistic-lock loop in Update.
const maxRetries = 16

// Store keeps sessions in Redis as JSON values. Update uses WATCH so the
// read-modify-write is a compare-and-swap: a concurrent writer invalidates
// the transaction and the loop retries against the fresh state.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// Options configures the Redis session store.
type Options struct {
	URL      string
	Password string
	DB       int
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, opts Options) (*Store, error) {
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("redistore: invalid redis url: %w", err)
	}
	if opts.Password != "" {
		redisOpts.Password = opts.Password
	}
	if opts.DB > 0 {
		redisOpts.DB = opts.DB
	}
	redisOpts.DialTimeout = 5 * time.Second
	redisOpts.ReadTimeout = 3 * time.Second
	redisOpts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redistore: connect: %w", err)
	}
	return &Store{client: client, now: time.Now}, nil
}

// NewWithClient wraps an existing client. Tests pass a client pointed at
// miniredis.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// WithClock overrides the store's clock.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func sessionKey(userID string) string {
	return keyPrefix + userID
}

func decodeSession(data []byte) (*domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("redistore: decode session: %w", err)
	}
	return &sess, nil
}

// GetOrCreate returns the stored session, inserting defaults on first
// contact. The insert uses SETNX so a concurrent first contact wins exactly
// once.
func (s *Store) GetOrCreate(ctx context.Context, userID string) (*domain.Session, error) {
	key := sessionKey(userID)
	data, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		return decodeSession(data)
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redistore: get session: %w", err)
	}

	fresh := domain.NewSession(userID, s.now())
	payload, err := json.Marshal(fresh)
	if err != nil {
		return nil, fmt.Errorf("redistore: encode session: %w", err)
	}
	created, err := s.client.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("redistore: create session: %w", err)
	}
	if created {
		return fresh, nil
	}
	// Lost the race; read whatever the winner stored.
	data, err = s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("redistore: reread session: %w", err)
	}
	return decodeSession(data)
}

// Get returns the stored session or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redistore: get session: %w", err)
	}
	return decodeSession(data)
}

// Update applies fn inside a WATCH transaction, retrying on write conflicts.
func (s *Store) Update(ctx context.Context, userID string, fn func(*domain.Session) error) (*domain.Session, error) {
	key := sessionKey(userID)
	var updated *domain.Session

	txn := func(tx *redis.Tx) error {
		var sess *domain.Session
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			sess = domain.NewSession(userID, s.now())
		case err != nil:
			return fmt.Errorf("redistore: get session: %w", err)
		default:
			if sess, err = decodeSession(data); err != nil {
				return err
			}
		}

		if err := fn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = s.now().UTC()

		payload, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("redistore: encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = sess
		return nil
	}

	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("redistore: update contention on user %s", userID)
}

// List scans all session keys and returns a snapshot.
func (s *Store) List(ctx context.Context) ([]*domain.Session, error) {
	var out []*domain.Session
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redistore: list sessions: %w", err)
		}
		sess, err := decodeSession(data)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redistore: scan sessions: %w", err)
	}
	return out, nil
}

var _ domain.SessionStore = (*Store)(nil)
