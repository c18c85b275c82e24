package redistore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"tutorbot/internal/domain"
	"tutorbot/internal/quota"
)

func setupStoreTest(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewWithClient(client)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestGetOrCreatePersistsDefaults(t *testing.T) {
	store, _ := setupStoreTest(t)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if sess.Plan != domain.PlanFree || sess.Language != domain.LanguageSpanish {
		t.Fatalf("unexpected defaults: %+v", sess)
	}

	loaded, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get after create: %v", err)
	}
	if loaded.UserID != "u1" || !loaded.CreatedAt.Equal(sess.CreatedAt) {
		t.Fatalf("round-trip mismatch: %+v vs %+v", loaded, sess)
	}
}

func TestGetMissingSession(t *testing.T) {
	store, _ := setupStoreTest(t)
	if _, err := store.Get(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get(ghost) = %v, want ErrNotFound", err)
	}
}

func TestUpdateCreatesAndCommits(t *testing.T) {
	store, _ := setupStoreTest(t)
	ctx := context.Background()

	sess, err := store.Update(ctx, "u1", func(s *domain.Session) error {
		s.Plan = domain.PlanPro
		s.Usage.MessagesUsed = 2
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if sess.Plan != domain.PlanPro {
		t.Fatalf("Plan = %s, want pro", sess.Plan)
	}

	loaded, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.Plan != domain.PlanPro || loaded.Usage.MessagesUsed != 2 {
		t.Fatalf("commit not persisted: %+v", loaded)
	}
}

func TestUpdateAbortsOnError(t *testing.T) {
	store, _ := setupStoreTest(t)
	ctx := context.Background()

	if _, err := store.Update(ctx, "u1", func(s *domain.Session) error {
		s.Usage.TokensUsed = 100
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errors.New("boom")
	if _, err := store.Update(ctx, "u1", func(s *domain.Session) error {
		s.Usage.TokensUsed = 999
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("Update = %v, want boom", err)
	}

	loaded, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.Usage.TokensUsed != 100 {
		t.Fatalf("aborted update leaked: %+v", loaded.Usage)
	}
}

func TestUpdateEnforcesQuotaSequentially(t *testing.T) {
	store, _ := setupStoreTest(t)
	enforcer := quota.NewEnforcer(domain.DefaultCatalog())
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	allowed := 0
	for i := 0; i < 25; i++ {
		denied := false
		if _, err := store.Update(ctx, "u1", func(s *domain.Session) error {
			if consumeErr := enforcer.Consume(s, 10, now); consumeErr != nil {
				denied = true
			}
			return nil
		}); err != nil {
			t.Fatalf("Update %d: %v", i, err)
		}
		if !denied {
			allowed++
		}
	}
	if allowed != 20 {
		t.Fatalf("allowed = %d, want 20", allowed)
	}
}

func TestListScansSessions(t *testing.T) {
	store, _ := setupStoreTest(t)
	ctx := context.Background()
	for _, id := range []string{"u1", "u2", "u3"} {
		if _, err := store.GetOrCreate(ctx, id); err != nil {
			t.Fatalf("GetOrCreate(%s): %v", id, err)
		}
	}
	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("List returned %d sessions, want 3", len(sessions))
	}
}
