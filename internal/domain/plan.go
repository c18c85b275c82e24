package domain

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlanID enumerates subscription tiers.
type PlanID string

const (
	PlanFree      PlanID = "free"
	PlanBasic     PlanID = "basic"
	PlanPro       PlanID = "pro"
	PlanUnlimited PlanID = "unlimited"
)

// UnlimitedMessages marks a plan without a daily message bound.
const UnlimitedMessages = -1

// Plan is an immutable catalog entry describing a tier's price and limits.
type Plan struct {
	ID                PlanID
	PriceCents        int
	DailyMessageLimit int
	DailyTokenLimit   int
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the tier id in title case for user-facing text.
func (p Plan) DisplayName() string {
	return titleCaser.String(string(p.ID))
}

// Unmetered reports whether the plan has no daily message bound.
func (p Plan) Unmetered() bool {
	return p.DailyMessageLimit == UnlimitedMessages
}

// Catalog is the fixed set of plans known at startup. Adding a tier is a
// catalog edit; nothing else changes.
type Catalog struct {
	plans map[PlanID]Plan
	order []PlanID
}

// NewCatalog builds a catalog from the given plans, preserving order.
func NewCatalog(plans ...Plan) *Catalog {
	c := &Catalog{plans: make(map[PlanID]Plan, len(plans))}
	for _, p := range plans {
		if _, ok := c.plans[p.ID]; !ok {
			c.order = append(c.order, p.ID)
		}
		c.plans[p.ID] = p
	}
	return c
}

// DefaultCatalog returns the production tier table.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Plan{ID: PlanFree, PriceCents: 0, DailyMessageLimit: 20, DailyTokenLimit: 500},
		Plan{ID: PlanBasic, PriceCents: 499, DailyMessageLimit: 200, DailyTokenLimit: 2000},
		Plan{ID: PlanPro, PriceCents: 999, DailyMessageLimit: 500, DailyTokenLimit: 5000},
		Plan{ID: PlanUnlimited, PriceCents: 1999, DailyMessageLimit: UnlimitedMessages, DailyTokenLimit: 15000},
	)
}

// ByID looks up a plan, returning ErrUnknownPlan on a catalog miss.
func (c *Catalog) ByID(id PlanID) (Plan, error) {
	p, ok := c.plans[id]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return p, nil
}

// All returns the catalog entries in declaration order.
func (c *Catalog) All() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// ParsePlanID validates a raw tier identifier.
func ParsePlanID(raw string) (PlanID, error) {
	switch PlanID(raw) {
	case PlanFree, PlanBasic, PlanPro, PlanUnlimited:
		return PlanID(raw), nil
	}
	return "", ErrUnknownPlan
}
