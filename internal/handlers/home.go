package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"weaponwheel/internal/wheel"
)

type HomeHandler struct {
	store     *wheel.Store
	defaultID string
	log       *zap.Logger
}

func NewHomeHandler(store *wheel.Store, defaultID string, log *zap.Logger) *HomeHandler {
	return &HomeHandler{store: store, defaultID: defaultID, log: log}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/wheels", h.createWheel)
	r.Get("/healthz", h.healthz)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/wheel/"+h.defaultID, http.StatusSeeOther)
}

func (h *HomeHandler) createWheel(w http.ResponseWriter, r *http.Request) {
	instance, err := h.store.CreateWheel("", nil)
	if err != nil {
		h.log.Error("failed to create wheel", zap.Error(err))
		http.Error(w, "failed to create wheel", http.StatusInternalServerError)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, map[string]string{"id": instance.ID})
		return
	}
	http.Redirect(w, r, "/wheel/"+instance.ID, http.StatusSeeOther)
}

func (h *HomeHandler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
