package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tutorbot/internal/domain"
)

type planUpgradeRequest struct {
	Username string `json:"username"`
	Plan     string `json:"plan,omitempty"`
}

// PlanUpgrade changes a user's tier out of band. Only the configured admin
// identity may call it; everyone else gets an opaque 403.
func (a *App) PlanUpgrade(w http.ResponseWriter, r *http.Request) {
	requesterID := r.Header.Get("X-Admin-User-ID")

	var req planUpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Username == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "username required")
		return
	}
	plan := domain.PlanBasic
	if req.Plan != "" {
		parsed, err := domain.ParsePlanID(req.Plan)
		if err != nil {
			a.error(w, http.StatusBadRequest, "unknown_plan", "unrecognized plan")
			return
		}
		plan = parsed
	}

	sess, err := a.Admin.UpgradePlan(r.Context(), requesterID, req.Username, plan)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusForbidden, "unauthorized", "forbidden")
		return
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	case errors.Is(err, domain.ErrUnknownPlan):
		a.error(w, http.StatusBadRequest, "unknown_plan", "unrecognized plan")
		return
	case err != nil:
		a.Logger.Error().Str("username", req.Username).Err(err).Msg("plan upgrade failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to upgrade plan")
		return
	}
	a.json(w, http.StatusOK, sessionView(sess, a.Enforcer))
}
