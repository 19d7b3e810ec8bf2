package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"weaponwheel/internal/viewmodel"
	"weaponwheel/internal/wheel"
	"weaponwheel/views/components"
	"weaponwheel/views/pages"
)

const (
	requestTimeout    = 15 * time.Second
	keepAliveInterval = 25 * time.Second
)

type WheelHandler struct {
	store   *wheel.Store
	log     *zap.Logger
	baseURL string
}

func NewWheelHandler(store *wheel.Store, log *zap.Logger, baseURL string) *WheelHandler {
	return &WheelHandler{store: store, log: log, baseURL: baseURL}
}

func (h *WheelHandler) RegisterRoutes(r chi.Router) {
	r.Route("/wheel/{id}", func(r chi.Router) {
		// The stream outlives any request timeout.
		r.Get("/stream", h.stream)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/", h.wheelPage)
			r.Post("/spin", h.spin)
			r.Get("/state", h.state)
			r.Get("/result", h.resultFragment)
		})
	})
}

func (h *WheelHandler) wheelPage(w http.ResponseWriter, r *http.Request) {
	wheelID := chi.URLParam(r, "id")
	instance, ok := h.store.GetWheel(wheelID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	snapshot := instance.Snapshot()
	slices := toSlices(snapshot.Options)
	data := viewmodel.WheelPage{
		Title:     "MONSTER HUNTER WEAPON WHEEL",
		WheelID:   wheelID,
		InviteURL: h.buildInviteURL(r, wheelID),
		SpinURL:   "/wheel/" + wheelID + "/spin",
		StreamURL: "/wheel/" + wheelID + "/stream",
		StateURL:  "/wheel/" + wheelID + "/state",
		Wheel:     viewmodel.BuildWheel(slices, snapshot.Rotation),
		Legend:    viewmodel.BuildLegend(slices),
		Result:    buildResultFragment(snapshot),
		Wheels:    h.store.IDs(),
	}
	render(w, r, pages.WheelPage(data))
}

type spinResponse struct {
	WheelID string `json:"wheel_id"`
	SpinID  string `json:"spin_id"`
}

func (h *WheelHandler) spin(w http.ResponseWriter, r *http.Request) {
	wheelID := chi.URLParam(r, "id")
	log := h.log.With(
		zap.String("wheel_id", wheelID),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)

	spinID, err := h.store.Spin(wheelID)
	switch {
	case errors.Is(err, wheel.ErrWheelNotFound):
		writeError(w, http.StatusNotFound, "wheel not found")
		return
	case errors.Is(err, wheel.ErrAlreadySpinning):
		log.Debug("spin request rejected")
		if !wantsJSON(r) {
			http.Redirect(w, r, "/wheel/"+wheelID, http.StatusSeeOther)
			return
		}
		writeError(w, http.StatusConflict, "spin already in progress")
		return
	case err != nil:
		log.Error("failed to spin", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to spin")
		return
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, "/wheel/"+wheelID, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, spinResponse{WheelID: wheelID, SpinID: spinID})
}

type stateResponse struct {
	ID       string         `json:"id"`
	Rotation float64        `json:"rotation"`
	Spinning bool           `json:"spinning"`
	SpinID   string         `json:"spin_id,omitempty"`
	Options  []wheel.Option `json:"options"`
	Last     *wheel.Winner  `json:"last,omitempty"`
}

func (h *WheelHandler) state(w http.ResponseWriter, r *http.Request) {
	wheelID := chi.URLParam(r, "id")
	instance, ok := h.store.GetWheel(wheelID)
	if !ok {
		writeError(w, http.StatusNotFound, "wheel not found")
		return
	}
	writeJSON(w, http.StatusOK, buildState(wheelID, instance.Snapshot()))
}

func (h *WheelHandler) resultFragment(w http.ResponseWriter, r *http.Request) {
	wheelID := chi.URLParam(r, "id")
	instance, ok := h.store.GetWheel(wheelID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, r, components.ResultFragment(buildResultFragment(instance.Snapshot())))
}

func (h *WheelHandler) stream(w http.ResponseWriter, r *http.Request) {
	wheelID := chi.URLParam(r, "id")
	instance, ok := h.store.GetWheel(wheelID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, ok := h.store.Broadcaster(wheelID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	initial, _ := json.Marshal(buildState(wheelID, instance.Snapshot()))
	writeSSE(w, "state", string(initial))
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.log.Error("failed to encode event", zap.String("wheel_id", wheelID), zap.Error(err))
				continue
			}
			writeSSE(w, event.Kind, string(payload))
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func (h *WheelHandler) buildInviteURL(r *http.Request, wheelID string) string {
	if h.baseURL != "" {
		return strings.TrimRight(h.baseURL, "/") + "/wheel/" + wheelID
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/wheel/" + wheelID
}

func buildState(wheelID string, snapshot wheel.Snapshot) stateResponse {
	resp := stateResponse{
		ID:       wheelID,
		Rotation: snapshot.Rotation,
		Spinning: snapshot.Spinning,
		SpinID:   snapshot.SpinID,
		Options:  snapshot.Options,
	}
	if snapshot.Last != nil {
		resp.Last = &wheel.Winner{
			Index:   snapshot.Last.Index,
			Label:   snapshot.Last.Option.Label,
			Color:   snapshot.Last.Option.Color,
			Message: snapshot.Last.Option.Message,
		}
	}
	return resp
}

func buildResultFragment(snapshot wheel.Snapshot) viewmodel.ResultFragment {
	data := viewmodel.ResultFragment{Spinning: snapshot.Spinning}
	if snapshot.Last != nil {
		data.HasResult = true
		data.Label = snapshot.Last.Option.Label
		data.Color = snapshot.Last.Option.Color
		data.Message = snapshot.Last.Option.Message
	}
	return data
}

func toSlices(options []wheel.Option) []viewmodel.Slice {
	out := make([]viewmodel.Slice, 0, len(options))
	for _, opt := range options {
		out = append(out, viewmodel.Slice{Label: opt.Label, Color: opt.Color})
	}
	return out
}
