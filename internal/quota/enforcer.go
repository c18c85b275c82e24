package quota

import (
	"time"

	"tutorbot/internal/domain"
)

// Enforcer gates session consumption against the plan catalog's daily limits.
type Enforcer struct {
	catalog *domain.Catalog
}

// NewEnforcer creates an Enforcer over the given catalog.
func NewEnforcer(catalog *domain.Catalog) *Enforcer {
	return &Enforcer{catalog: catalog}
}

// Consume performs the daily rollover, checks both limits, and commits the
// increments. It must run inside SessionStore.Update so the check and the
// commit are one atomic unit per session. Denials come back as
// domain.ErrMessageLimitExceeded or domain.ErrTokenLimitExceeded and leave
// the counters untouched; the rollover itself is a precondition and sticks
// even when the request is denied.
func (e *Enforcer) Consume(sess *domain.Session, estimatedTokens int, now time.Time) error {
	sess.RolloverUsage(now)

	plan, err := e.catalog.ByID(sess.Plan)
	if err != nil {
		return err
	}
	if !plan.Unmetered() && sess.Usage.MessagesUsed >= plan.DailyMessageLimit {
		return domain.ErrMessageLimitExceeded
	}
	if sess.Usage.TokensUsed+estimatedTokens > plan.DailyTokenLimit {
		return domain.ErrTokenLimitExceeded
	}

	sess.Usage.MessagesUsed++
	sess.Usage.TokensUsed += estimatedTokens
	return nil
}

// Remaining reports the message and token headroom left today, after applying
// the rollover to a copy. Messages is domain.UnlimitedMessages for unmetered
// plans.
func (e *Enforcer) Remaining(sess *domain.Session, now time.Time) (messages, tokens int, err error) {
	cp := sess.Clone()
	cp.RolloverUsage(now)

	plan, err := e.catalog.ByID(cp.Plan)
	if err != nil {
		return 0, 0, err
	}
	tokens = plan.DailyTokenLimit - cp.Usage.TokensUsed
	if tokens < 0 {
		tokens = 0
	}
	if plan.Unmetered() {
		return domain.UnlimitedMessages, tokens, nil
	}
	messages = plan.DailyMessageLimit - cp.Usage.MessagesUsed
	if messages < 0 {
		messages = 0
	}
	return messages, tokens, nil
}
