package handlers

import (
	"encoding/json"
	"net/http"

	"tutorbot/internal/domain"
)

type inboundMessage struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text"`
}

// Messages handles one inbound user message: quota gate, prompt build,
// completion call. A quota denial is a normal outcome and still returns the
// outgoing notice for the transport to render.
func (a *App) Messages(w http.ResponseWriter, r *http.Request) {
	var req inboundMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.UserID == "" || req.Text == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id and text required")
		return
	}

	reply, err := a.Tutor.HandleIncoming(r.Context(), req.UserID, req.Username, req.Text)
	if err != nil {
		if err == domain.ErrUnknownPlan {
			// Catalog miss is a config fault; fail loudly.
			a.Logger.Error().Str("user_id", req.UserID).Err(err).Msg("session references unknown plan")
			a.error(w, http.StatusInternalServerError, "unknown_plan", "session references an unknown plan")
			return
		}
		a.Logger.Error().Str("user_id", req.UserID).Err(err).Msg("message handling failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to handle message")
		return
	}
	a.json(w, http.StatusOK, reply)
}

type startRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// Start registers first contact and returns the greeting summary.
func (a *App) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.UserID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id required")
		return
	}
	text, err := a.Tutor.Greet(r.Context(), req.UserID, req.Username)
	if err != nil {
		a.Logger.Error().Str("user_id", req.UserID).Err(err).Msg("greeting failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to start session")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"text": text})
}
