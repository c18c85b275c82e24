package prefs

import (
	"context"
	"fmt"

	"tutorbot/internal/domain"
)

// Target names a configurable session field.
type Target string

const (
	TargetLevel    Target = "level"
	TargetStyle    Target = "style"
	TargetLanguage Target = "language"
	TargetMode     Target = "mode"
)

// Option is a validated configuration change: one target, one value. Wire
// option keys are parsed into this closed type once, at the boundary, instead
// of being dispatched on string prefixes downstream.
type Option struct {
	Target Target
	Value  string
}

// ParseOption validates a target/value pair against its enum domain.
func ParseOption(target, value string) (Option, error) {
	switch Target(target) {
	case TargetLevel:
		if _, err := domain.ParseEducationLevel(value); err != nil {
			return Option{}, err
		}
	case TargetStyle:
		if _, err := domain.ParseResponseStyle(value); err != nil {
			return Option{}, err
		}
	case TargetLanguage:
		if _, err := domain.ParseReplyLanguage(value); err != nil {
			return Option{}, err
		}
	case TargetMode:
		if _, err := domain.ParseMode(value); err != nil {
			return Option{}, err
		}
	default:
		return Option{}, domain.ErrInvalidOption
	}
	return Option{Target: Target(target), Value: value}, nil
}

// Manager validates and applies per-user configuration changes.
type Manager struct {
	store   domain.SessionStore
	catalog *domain.Catalog
}

// NewManager creates a Manager over the given store and catalog.
func NewManager(store domain.SessionStore, catalog *domain.Catalog) *Manager {
	return &Manager{store: store, catalog: catalog}
}

// Apply routes a parsed option to its setter.
func (m *Manager) Apply(ctx context.Context, userID string, opt Option) (*domain.Session, error) {
	switch opt.Target {
	case TargetLevel:
		return m.SetEducationLevel(ctx, userID, opt.Value)
	case TargetStyle:
		return m.SetResponseStyle(ctx, userID, opt.Value)
	case TargetLanguage:
		return m.SetReplyLanguage(ctx, userID, opt.Value)
	case TargetMode:
		return m.SetMode(ctx, userID, opt.Value)
	}
	return nil, domain.ErrInvalidOption
}

// SetEducationLevel validates and applies the level. Invalid input leaves the
// prior value in place.
func (m *Manager) SetEducationLevel(ctx context.Context, userID, raw string) (*domain.Session, error) {
	level, err := domain.ParseEducationLevel(raw)
	if err != nil {
		return nil, err
	}
	return m.store.Update(ctx, userID, func(s *domain.Session) error {
		s.Level = level
		return nil
	})
}

// SetResponseStyle validates and applies the style.
func (m *Manager) SetResponseStyle(ctx context.Context, userID, raw string) (*domain.Session, error) {
	style, err := domain.ParseResponseStyle(raw)
	if err != nil {
		return nil, err
	}
	return m.store.Update(ctx, userID, func(s *domain.Session) error {
		s.Style = style
		return nil
	})
}

// SetReplyLanguage validates and applies the reply language.
func (m *Manager) SetReplyLanguage(ctx context.Context, userID, raw string) (*domain.Session, error) {
	lang, err := domain.ParseReplyLanguage(raw)
	if err != nil {
		return nil, err
	}
	return m.store.Update(ctx, userID, func(s *domain.Session) error {
		s.Language = lang
		return nil
	})
}

// SetMode validates and applies the active conversation mode.
func (m *Manager) SetMode(ctx context.Context, userID, raw string) (*domain.Session, error) {
	mode, err := domain.ParseMode(raw)
	if err != nil {
		return nil, err
	}
	return m.store.Update(ctx, userID, func(s *domain.Session) error {
		s.Mode = mode
		return nil
	})
}

// SetPlan overwrites the session's tier after a catalog check. Usage counters
// are unchanged.
func (m *Manager) SetPlan(ctx context.Context, userID string, plan domain.PlanID) (*domain.Session, error) {
	if _, err := m.catalog.ByID(plan); err != nil {
		return nil, err
	}
	return m.store.Update(ctx, userID, func(s *domain.Session) error {
		s.Plan = plan
		return nil
	})
}

// ResetUsage zeroes the counters immediately. LastReset stays put, so the
// next natural day rollover still fires.
func (m *Manager) ResetUsage(ctx context.Context, userID string) (*domain.Session, error) {
	sess, err := m.store.Update(ctx, userID, func(s *domain.Session) error {
		s.ResetUsage()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reset usage: %w", err)
	}
	return sess, nil
}
