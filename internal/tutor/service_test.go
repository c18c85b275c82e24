package tutor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tutorbot/internal/adapter/memstore"
	"tutorbot/internal/domain"
)

type fakeCompleter struct {
	prompts []string
	answer  string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestService(t *testing.T, completer Completer, now time.Time) (*Service, *memstore.Store) {
	t.Helper()
	store := memstore.New().WithClock(func() time.Time { return now })
	svc := NewService(store, domain.DefaultCatalog(), completer, FixedTokenEstimator(100), zerolog.New(io.Discard)).
		WithClock(func() time.Time { return now })
	return svc, store
}

func TestHandleIncomingSuccess(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	completer := &fakeCompleter{answer: "Entropy measures disorder."}
	svc, store := newTestService(t, completer, now)
	ctx := context.Background()

	reply, err := svc.HandleIncoming(ctx, "u1", "@ana", "What is entropy?")
	if err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}
	if reply.Denied || reply.Failed {
		t.Fatalf("unexpected flags on success: %+v", reply)
	}
	if reply.Text != "Entropy measures disorder." {
		t.Fatalf("Text = %q", reply.Text)
	}
	if reply.RemainingMessages != 19 || reply.RemainingTokens != 400 {
		t.Fatalf("remaining = %d msgs / %d tokens, want 19/400", reply.RemainingMessages, reply.RemainingTokens)
	}

	sess, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Username != "ana" {
		t.Fatalf("Username = %q, want ana", sess.Username)
	}
	if sess.Usage.MessagesUsed != 1 || sess.Usage.TokensUsed != 100 {
		t.Fatalf("usage = %+v", sess.Usage)
	}
}

func TestHandleIncomingAppliesModeToPrompt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	completer := &fakeCompleter{answer: "ok"}
	svc, store := newTestService(t, completer, now)
	ctx := context.Background()

	if _, err := store.Update(ctx, "u1", func(s *domain.Session) error {
		s.Mode = domain.ModeExplain
		s.Style = domain.StyleDetailed
		s.Language = domain.LanguageEnglish
		return nil
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if _, err := svc.HandleIncoming(ctx, "u1", "", "gravity"); err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}
	if len(completer.prompts) != 1 {
		t.Fatalf("completer called %d times, want 1", len(completer.prompts))
	}
	want := "Explain the following topic in a detailed style, in English, for a university-level student: gravity"
	if completer.prompts[0] != want {
		t.Fatalf("prompt = %q, want %q", completer.prompts[0], want)
	}
}

func TestHandleIncomingDenialSkipsCompletion(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	completer := &fakeCompleter{answer: "ok"}
	svc, store := newTestService(t, completer, now)
	ctx := context.Background()

	// Free tier: 500 tokens/day at 100 per request allows five messages.
	for i := 0; i < 5; i++ {
		if _, err := svc.HandleIncoming(ctx, "u1", "", "q"); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	reply, err := svc.HandleIncoming(ctx, "u1", "", "one more")
	if err != nil {
		t.Fatalf("denied request: %v", err)
	}
	if !reply.Denied {
		t.Fatalf("expected denial, got %+v", reply)
	}
	if reply.Text != "Has alcanzado tu límite diario de tokens." {
		t.Fatalf("denial text = %q", reply.Text)
	}
	if reply.RemainingTokens != 0 {
		t.Fatalf("RemainingTokens = %d, want 0", reply.RemainingTokens)
	}
	if len(completer.prompts) != 5 {
		t.Fatalf("completer called %d times, want 5", len(completer.prompts))
	}

	sess, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Usage.MessagesUsed != 5 || sess.Usage.TokensUsed != 500 {
		t.Fatalf("denied request mutated usage: %+v", sess.Usage)
	}
}

func TestHandleIncomingDenialCommitsRollover(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	completer := &fakeCompleter{answer: "ok"}
	svc, store := newTestService(t, completer, day1)
	ctx := context.Background()

	if _, err := store.Update(ctx, "u1", func(s *domain.Session) error {
		s.Usage.MessagesUsed = 20
		s.Usage.TokensUsed = 500
		s.Usage.LastReset = day1.AddDate(0, 0, -1)
		return nil
	}); err != nil {
		t.Fatalf("seed exhausted usage: %v", err)
	}

	// Yesterday's counters roll over before the check, so the request passes.
	reply, err := svc.HandleIncoming(ctx, "u1", "", "hello")
	if err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}
	if reply.Denied {
		t.Fatalf("stale usage denied a fresh day: %+v", reply)
	}

	sess, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Usage.MessagesUsed != 1 || sess.Usage.TokensUsed != 100 {
		t.Fatalf("usage after rollover = %+v", sess.Usage)
	}
}

func TestHandleIncomingCompletionFailureKeepsCharge(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	completer := &fakeCompleter{err: errors.New("upstream 503")}
	svc, store := newTestService(t, completer, now)
	ctx := context.Background()

	reply, err := svc.HandleIncoming(ctx, "u1", "", "hello")
	if err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}
	if !reply.Failed || reply.Denied {
		t.Fatalf("unexpected flags: %+v", reply)
	}
	if !strings.Contains(reply.Text, "Error al procesar") {
		t.Fatalf("failure text = %q", reply.Text)
	}

	sess, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Usage.MessagesUsed != 1 || sess.Usage.TokensUsed != 100 {
		t.Fatalf("failed attempt should stay charged: %+v", sess.Usage)
	}
}

func TestHandleIncomingRejectsEmptyInput(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &fakeCompleter{answer: "ok"}, now)
	ctx := context.Background()

	if _, err := svc.HandleIncoming(ctx, "", "", "hello"); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("empty user id: err = %v", err)
	}
	if _, err := svc.HandleIncoming(ctx, "u1", "", "   "); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("blank text: err = %v", err)
	}
}

func TestGreet(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, &fakeCompleter{answer: "ok"}, now)
	ctx := context.Background()

	greeting, err := svc.Greet(ctx, "u1", "@ana")
	if err != nil {
		t.Fatalf("Greet: %v", err)
	}
	if !strings.Contains(greeting, "ana") || !strings.Contains(greeting, "Free") {
		t.Fatalf("greeting = %q", greeting)
	}

	sess, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Username != "ana" {
		t.Fatalf("Username = %q", sess.Username)
	}
}
