package handlers

import (
	"encoding/json"
	"net/http"

	"tutorbot/internal/admin"
	"tutorbot/internal/domain"
	"tutorbot/internal/infra"
	"tutorbot/internal/prefs"
	"tutorbot/internal/quota"
	"tutorbot/internal/tutor"
)

// App bundles the handler dependencies.
type App struct {
	Logger      infra.Logger
	Tutor       *tutor.Service
	Prefs       *prefs.Manager
	Admin       *admin.Upgrader
	Store       domain.SessionStore
	Enforcer    *quota.Enforcer
	Catalog     *domain.Catalog
	PayPalEmail string
}

func NewApp(logger infra.Logger, tutorSvc *tutor.Service, prefsMgr *prefs.Manager, upgrader *admin.Upgrader, store domain.SessionStore, catalog *domain.Catalog, paypalEmail string) *App {
	return &App{
		Logger:      logger,
		Tutor:       tutorSvc,
		Prefs:       prefsMgr,
		Admin:       upgrader,
		Store:       store,
		Enforcer:    quota.NewEnforcer(catalog),
		Catalog:     catalog,
		PayPalEmail: paypalEmail,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
