// Package server exposes a classified tract map over HTTP: the paint
// scheme, the annotated GeoJSON, per-tract info cards and the shared
// hover/selection state.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
	"github.com/sells-group/tract-choropleth/internal/dataset"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	Timeout     time.Duration
}

// Server serves one immutable Map. Selection transitions run one at a time.
type Server struct {
	m      *choropleth.Map
	mu     sync.Mutex
	sel    *choropleth.Selection
	router chi.Router
}

// New builds the router for m.
func New(m *choropleth.Map, opts Options) *Server {
	s := &Server{m: m, sel: choropleth.NewSelection()}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/classification", s.classification)
		ar.Get("/features", s.features)
		ar.Get("/tracts", s.tracts)
		ar.Get("/tracts/{id}", s.tract)
		ar.Route("/selection", func(sr chi.Router) {
			sr.Get("/", s.selection)
			sr.Post("/hover/{id}", s.hover)
			sr.Post("/unhover", s.transition(func(sel *choropleth.Selection) { sel.OnUnhover() }))
			sr.Post("/select/{id}", s.selectTract)
			sr.Post("/clear", s.transition(func(sel *choropleth.Selection) { sel.OnBackgroundClick() }))
			sr.Post("/escape", s.transition(func(sel *choropleth.Selection) { sel.OnEscapeKey() }))
		})
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Selection returns a snapshot of the current hover and selection state.
func (s *Server) Selection() choropleth.SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.State()
}

type classificationResponse struct {
	Scale       choropleth.Scale         `json:"scale"`
	Policy      choropleth.Policy        `json:"policy"`
	Breaks      []float64                `json:"breaks"`
	Colors      choropleth.Ramp          `json:"colors"`
	Legend      []choropleth.LegendEntry `json:"legend"`
	BinProperty string                   `json:"bin_property"`
	FillColor   []any                    `json:"fill_color"`
	Features    int                      `json:"features"`
}

type tractResponse struct {
	choropleth.DisplayRecord
	Bin   int              `json:"bin"`
	Color choropleth.Color `json:"color"`
	Label string           `json:"label"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) classification(w http.ResponseWriter, _ *http.Request) {
	scheme := s.m.Scheme()
	respondJSON(w, http.StatusOK, classificationResponse{
		Scale:       s.m.Scale(),
		Policy:      scheme.Policy,
		Breaks:      scheme.Breaks,
		Colors:      scheme.Colors,
		Legend:      scheme.Legend,
		BinProperty: choropleth.BinProperty,
		FillColor:   scheme.StepExpression(choropleth.BinProperty),
		Features:    s.m.Len(),
	})
}

func (s *Server) features(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/geo+json")
	if err := dataset.EncodeGeoJSON(w, s.m.Annotated()); err != nil {
		zap.L().Error("server: encode features", zap.Error(err))
	}
}

func (s *Server) tracts(w http.ResponseWriter, _ *http.Request) {
	classes := s.m.Classes()
	records := s.m.Records()
	scheme := s.m.Scheme()

	out := make([]tractResponse, 0, len(classes))
	for i, cls := range classes {
		out = append(out, tractResponse{
			DisplayRecord: records[i],
			Bin:           cls.Bin,
			Color:         cls.Color,
			Label:         scheme.Labels[cls.Bin],
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) tract(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	_, cls, ok := s.m.Lookup(id)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown tract "+id)
		return
	}
	rec, _ := s.m.Present(id)
	respondJSON(w, http.StatusOK, tractResponse{
		DisplayRecord: rec,
		Bin:           cls.Bin,
		Color:         cls.Color,
		Label:         s.m.Scheme().Labels[cls.Bin],
	})
}

func (s *Server) selection(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.Selection())
}

func (s *Server) hover(w http.ResponseWriter, r *http.Request) {
	s.withTract(w, r, func(sel *choropleth.Selection, id string) { sel.OnHover(id) })
}

func (s *Server) selectTract(w http.ResponseWriter, r *http.Request) {
	s.withTract(w, r, func(sel *choropleth.Selection, id string) { sel.OnSelect(id) })
}

// withTract applies fn for a known tract id and responds with the new state.
func (s *Server) withTract(w http.ResponseWriter, r *http.Request, fn func(*choropleth.Selection, string)) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if _, _, ok := s.m.Lookup(id); !ok {
		respondError(w, http.StatusNotFound, "unknown tract "+id)
		return
	}

	s.mu.Lock()
	fn(s.sel, id)
	state := s.sel.State()
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) transition(fn func(*choropleth.Selection)) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		fn(s.sel)
		state := s.sel.State()
		s.mu.Unlock()

		respondJSON(w, http.StatusOK, state)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs each request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
