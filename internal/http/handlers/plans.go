package handlers

import "net/http"

type planDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	PriceCents        int    `json:"price_cents"`
	DailyMessageLimit int    `json:"daily_message_limit"`
	DailyTokenLimit   int    `json:"daily_token_limit"`
}

// Plans lists the tier catalog.
func (a *App) Plans(w http.ResponseWriter, r *http.Request) {
	plans := a.Catalog.All()
	out := make([]planDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, planDTO{
			ID:                string(p.ID),
			Name:              p.DisplayName(),
			PriceCents:        p.PriceCents,
			DailyMessageLimit: p.DailyMessageLimit,
			DailyTokenLimit:   p.DailyTokenLimit,
		})
	}
	a.json(w, http.StatusOK, out)
}
