package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tutorbot/internal/domain"
	"tutorbot/internal/quota"
)

type sessionDTO struct {
	UserID            string `json:"user_id"`
	Username          string `json:"username,omitempty"`
	Plan              string `json:"plan"`
	MessagesUsed      int    `json:"messages_used"`
	TokensUsed        int    `json:"tokens_used"`
	RemainingMessages int    `json:"remaining_messages"`
	RemainingTokens   int    `json:"remaining_tokens"`
	EducationLevel    string `json:"education_level"`
	ResponseStyle     string `json:"response_style"`
	ReplyLanguage     string `json:"reply_language"`
	Mode              string `json:"mode,omitempty"`
}

func sessionView(sess *domain.Session, enforcer *quota.Enforcer) sessionDTO {
	remMsgs, remTokens, err := enforcer.Remaining(sess, time.Now())
	if err != nil {
		remMsgs, remTokens = 0, 0
	}
	return sessionDTO{
		UserID:            sess.UserID,
		Username:          sess.Username,
		Plan:              string(sess.Plan),
		MessagesUsed:      sess.Usage.MessagesUsed,
		TokensUsed:        sess.Usage.TokensUsed,
		RemainingMessages: remMsgs,
		RemainingTokens:   remTokens,
		EducationLevel:    string(sess.Level),
		ResponseStyle:     string(sess.Style),
		ReplyLanguage:     string(sess.Language),
		Mode:              string(sess.Mode),
	}
}

// GetSession returns the stored session state with today's remaining quota.
func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id required")
		return
	}
	sess, err := a.Store.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		a.Logger.Error().Str("user_id", userID).Err(err).Msg("session lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load session")
		return
	}
	a.json(w, http.StatusOK, sessionView(sess, a.Enforcer))
}
