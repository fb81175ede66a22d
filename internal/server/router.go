// Package server exposes a running world over HTTP: JSON snapshots, a
// msgpack websocket stream and Prometheus metrics.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/olivierh59500/particlelife/internal/life"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source is the read-only view of a world the server needs.
// *life.World implements it.
type Source interface {
	Snapshot(dst []life.Particle) []life.Particle
	Tick() uint64
	Bounds() (width, height float64)
	Matrix() *life.ForceMatrix
	GridStats() life.GridStats
}

// RouterConfig contains the dependencies of NewRouter.
type RouterConfig struct {
	// Source is the world being served (required).
	Source Source

	// Hub serves /ws. Nil disables the websocket route.
	Hub *Hub

	// Gatherer backs /metrics. Nil disables the metrics route.
	Gatherer prometheus.Gatherer

	// CORSOrigins defaults to localhost origins when nil.
	CORSOrigins []string

	// DisableLogging drops the request logger middleware.
	DisableLogging bool
}

type routerHandlers struct {
	src Source
}

// NewRouter builds the HTTP router. It starts no goroutines and opens no
// listeners, so it is safe to wrap in httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &routerHandlers{src: cfg.Source}
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/matrix", h.handleGetMatrix)
		r.Get("/stats", h.handleGetStats)
	})

	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleWebSocket)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	ps := h.src.Snapshot(nil)
	width, height := h.src.Bounds()
	view := StateView{
		Tick:      h.src.Tick(),
		Width:     width,
		Height:    height,
		Particles: make([]ParticleView, len(ps)),
	}
	for i, p := range ps {
		view.Particles[i] = ParticleView{X: p.X, Y: p.Y, Type: uint8(p.Type)}
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *routerHandlers) handleGetMatrix(w http.ResponseWriter, r *http.Request) {
	m := h.src.Matrix()
	names := make([]string, m.Types())
	for i := range names {
		names[i] = life.ParticleType(i).String()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"types":  names,
		"matrix": m.Rows(),
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	gs := h.src.GridStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"tick":           h.src.Tick(),
		"totalCells":     gs.TotalCells,
		"nonEmptyCells":  gs.NonEmptyCells,
		"particles":      gs.TotalParticles,
		"maxInCell":      gs.MaxInCell,
		"avgPerNonEmpty": gs.AvgPerNonEmpty,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
