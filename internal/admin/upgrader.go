package admin

import (
	"context"
	"strings"

	"tutorbot/internal/domain"
)

// UsernameResolver maps a user id to the username the transport knows them
// by. The transport is the source of truth; StoreResolver is the default
// implementation reading the handle reported on inbound messages.
type UsernameResolver interface {
	Username(ctx context.Context, userID string) (string, error)
}

// StoreResolver resolves usernames from the session store.
type StoreResolver struct {
	Store domain.SessionStore
}

func (r StoreResolver) Username(ctx context.Context, userID string) (string, error) {
	sess, err := r.Store.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return sess.Username, nil
}

// Upgrader performs privileged out-of-band plan changes.
type Upgrader struct {
	store       domain.SessionStore
	catalog     *domain.Catalog
	resolver    UsernameResolver
	adminUserID string
}

// NewUpgrader creates an Upgrader. adminUserID is the one identity allowed to
// call UpgradePlan.
func NewUpgrader(store domain.SessionStore, catalog *domain.Catalog, resolver UsernameResolver, adminUserID string) *Upgrader {
	return &Upgrader{store: store, catalog: catalog, resolver: resolver, adminUserID: adminUserID}
}

// UpgradePlan sets the plan of the session whose username matches
// targetUsername. Any requester other than the configured admin gets
// domain.ErrUnauthorized with no state change and no hint about whether the
// target exists. An unresolvable username yields domain.ErrNotFound.
func (u *Upgrader) UpgradePlan(ctx context.Context, requesterID, targetUsername string, plan domain.PlanID) (*domain.Session, error) {
	if u.adminUserID == "" || requesterID != u.adminUserID {
		return nil, domain.ErrUnauthorized
	}
	if _, err := u.catalog.ByID(plan); err != nil {
		return nil, err
	}

	target := strings.TrimPrefix(strings.TrimSpace(targetUsername), "@")
	if target == "" {
		return nil, domain.ErrNotFound
	}

	sessions, err := u.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		name, err := u.resolver.Username(ctx, sess.UserID)
		if err != nil {
			continue
		}
		if !strings.EqualFold(name, target) {
			continue
		}
		return u.store.Update(ctx, sess.UserID, func(s *domain.Session) error {
			s.Plan = plan
			return nil
		})
	}
	return nil, domain.ErrNotFound
}
