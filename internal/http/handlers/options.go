package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tutorbot/internal/domain"
	"tutorbot/internal/prefs"
	"tutorbot/internal/tutor"
)

type optionRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Options handles interactive selection events from the transport's menus.
// Raw keys are parsed into a closed option type here, once; nothing
// downstream dispatches on strings.
func (a *App) Options(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.UserID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id required")
		return
	}

	switch req.Action {
	case "set":
		opt, err := prefs.ParseOption(req.Target, req.Value)
		if err != nil {
			a.error(w, http.StatusBadRequest, "invalid_option", "unrecognized option")
			return
		}
		sess, err := a.Prefs.Apply(r.Context(), req.UserID, opt)
		if err != nil {
			a.optionError(w, req.UserID, err)
			return
		}
		a.json(w, http.StatusOK, sessionView(sess, a.Enforcer))

	case "reset_usage":
		sess, err := a.Prefs.ResetUsage(r.Context(), req.UserID)
		if err != nil {
			a.optionError(w, req.UserID, err)
			return
		}
		a.json(w, http.StatusOK, sessionView(sess, a.Enforcer))

	case "plans":
		a.json(w, http.StatusOK, map[string]string{"text": tutor.PlanOverview(a.Catalog)})

	case "plan_detail":
		id, err := domain.ParsePlanID(req.Value)
		if err != nil {
			a.error(w, http.StatusBadRequest, "unknown_plan", "unrecognized plan")
			return
		}
		plan, err := a.Catalog.ByID(id)
		if err != nil {
			a.error(w, http.StatusBadRequest, "unknown_plan", "unrecognized plan")
			return
		}
		a.json(w, http.StatusOK, map[string]string{"text": tutor.PlanDetail(plan, a.PayPalEmail)})

	default:
		a.error(w, http.StatusBadRequest, "invalid_option", "unrecognized action")
	}
}

func (a *App) optionError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidOption):
		a.error(w, http.StatusBadRequest, "invalid_option", "unrecognized option")
	case errors.Is(err, domain.ErrUnknownPlan):
		a.error(w, http.StatusBadRequest, "unknown_plan", "unrecognized plan")
	default:
		a.Logger.Error().Str("user_id", userID).Err(err).Msg("option handling failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to apply option")
	}
}
