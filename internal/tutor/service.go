package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tutorbot/internal/domain"
	"tutorbot/internal/infra"
	"tutorbot/internal/quota"
)

// Completer is the remote completion collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TokenEstimator predicts the token cost of a request before it is made.
type TokenEstimator func(text string) int

// FixedTokenEstimator charges a flat cost per request.
func FixedTokenEstimator(cost int) TokenEstimator {
	return func(string) int { return cost }
}

// Reply is the outgoing message handed back to the transport.
type Reply struct {
	Text              string `json:"text"`
	Denied            bool   `json:"denied,omitempty"`
	Failed            bool   `json:"failed,omitempty"`
	RemainingMessages int    `json:"remaining_messages"`
	RemainingTokens   int    `json:"remaining_tokens"`
}

// Service orchestrates inbound messages: session lookup, quota gate, prompt
// construction, and the external completion call.
type Service struct {
	store    domain.SessionStore
	enforcer *quota.Enforcer
	catalog  *domain.Catalog
	complete Completer
	estimate TokenEstimator
	logger   infra.Logger
	now      func() time.Time
}

// NewService wires the orchestrator.
func NewService(store domain.SessionStore, catalog *domain.Catalog, completer Completer, estimate TokenEstimator, logger infra.Logger) *Service {
	if estimate == nil {
		estimate = FixedTokenEstimator(100)
	}
	return &Service{
		store:    store,
		enforcer: quota.NewEnforcer(catalog),
		catalog:  catalog,
		complete: completer,
		estimate: estimate,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// HandleIncoming runs one user message end to end. The quota check and its
// commit happen inside the store update; the completion call happens after
// the update returns, so a slow remote call never holds the session lock.
// Usage charged for an attempt is not refunded when the remote call fails.
func (s *Service) HandleIncoming(ctx context.Context, userID, username, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if userID == "" || text == "" {
		return Reply{}, domain.ErrInvalidOption
	}

	now := s.now()
	cost := s.estimate(text)

	var denied error
	sess, err := s.store.Update(ctx, userID, func(sess *domain.Session) error {
		if username != "" {
			sess.Username = strings.TrimPrefix(username, "@")
		}
		if consumeErr := s.enforcer.Consume(sess, cost, now); consumeErr != nil {
			if domain.IsQuotaExceeded(consumeErr) {
				// Commit the daily rollover, skip the increments.
				denied = consumeErr
				return nil
			}
			return consumeErr
		}
		return nil
	})
	if err != nil {
		return Reply{}, fmt.Errorf("update session: %w", err)
	}

	remMsgs, remTokens, err := s.enforcer.Remaining(sess, now)
	if err != nil {
		return Reply{}, err
	}

	if denied != nil {
		s.logger.Info().
			Str("user_id", userID).
			Err(denied).
			Msg("request denied by quota")
		return Reply{
			Text:              QuotaNotice(sess.Language, denied),
			Denied:            true,
			RemainingMessages: remMsgs,
			RemainingTokens:   remTokens,
		}, nil
	}

	prompt := BuildPrompt(sess.Mode, sess.Level, sess.Style, sess.Language, text)
	answer, err := s.complete.Complete(ctx, prompt)
	if err != nil {
		// Downgraded to a generic notice; the charged usage stands.
		s.logger.Error().
			Str("user_id", userID).
			Err(err).
			Msg("completion call failed")
		return Reply{
			Text:              FailureNotice(sess.Language),
			Failed:            true,
			RemainingMessages: remMsgs,
			RemainingTokens:   remTokens,
		}, nil
	}

	return Reply{
		Text:              answer,
		RemainingMessages: remMsgs,
		RemainingTokens:   remTokens,
	}, nil
}

// Greet registers first contact and returns the start summary for the
// transport to render.
func (s *Service) Greet(ctx context.Context, userID, username string) (string, error) {
	sess, err := s.store.Update(ctx, userID, func(sess *domain.Session) error {
		if username != "" {
			sess.Username = strings.TrimPrefix(username, "@")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	plan, err := s.catalog.ByID(sess.Plan)
	if err != nil {
		return "", err
	}
	return StartSummary(sess, plan), nil
}
