// Package web provides the HTTP server for the workshop API: spreadsheet
// import endpoints, progress channels and the vehicle, mechanic and
// assignment records.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/JonMunkholm/taller/internal/config"
	"github.com/JonMunkholm/taller/internal/core"
	"github.com/JonMunkholm/taller/internal/metrics"
	"github.com/JonMunkholm/taller/internal/session"
	webmw "github.com/JonMunkholm/taller/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Server is the HTTP server for the workshop API.
type Server struct {
	service  *core.Service
	sessions *session.Registry
	cfg      *config.Config
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	checks   map[string]HealthCheck
	upgrader websocket.Upgrader
	router   *chi.Mux
	server   *http.Server
	limiter  *rateLimiter
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics instruments requests with m and serves g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithHealthCheck adds a named dependency check to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

// NewServer creates a Server.
func NewServer(service *core.Service, sessions *session.Registry, cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		service:  service,
		sessions: sessions,
		cfg:      cfg,
		checks:   make(map[string]HealthCheck),
		router:   chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.setupMiddleware()
	s.setupRoutes()

	sc := cfg.Server
	s.server = &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.router,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(webmw.Observe(s.metrics))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.StripSlashes)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key", "Authorization", "HX-Request"},
		ExposedHeaders:   []string{"X-Job-ID", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.limiter = newRateLimiter(s.cfg.Rate.Requests, s.cfg.Rate.Window)
		s.router.Use(s.limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	auth := webmw.APIKeyAuth(s.cfg.Security)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		s.router.Handle("/metrics", metrics.Handler(s.gatherer))
	}

	// Progress channels
	s.router.Get("/ws/{sessionID}", s.handleWebSocket)

	s.router.Route("/excel", func(r chi.Router) {
		r.Get("/ws/{sessionID}", s.handleWebSocket)
		r.Get("/progreso/{sessionID}", s.handleProgressStream)
		r.Get("/trabajos/{jobID}", s.handleJob)
		r.Get("/columnas", s.handleColumns)
		r.Get("/listar", s.handleListVehicles)

		r.Post("/validar", s.handleValidate)
		r.Post("/preview", s.handlePreview)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/cargar", s.handleImport)
			r.Post("/cargar_directo", s.handleImportDirect)
			r.Delete("/limpiar", s.handleClearVehicles)
		})
	})

	s.router.Get("/vehiculos", s.handleListVehicleRecords)
	s.router.Get("/mecanicos", s.handleListMechanics)
	s.router.Get("/asignaciones", s.handleListAssignments)

	s.router.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/vehiculos", s.handleCreateVehicle)
		r.Post("/mecanicos", s.handleCreateMechanic)
		r.Post("/asignaciones", s.handleCreateAssignment)
		r.Patch("/asignaciones/{id}", s.handleUpdateAssignment)
		r.Delete("/asignaciones/{id}", s.handleDeleteAssignment)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	slog.Info("server starting", "addr", ln.Addr().String())
	return s.server.Serve(ln)
}

// Shutdown stops accepting connections and waits for running imports so
// they can push their last event. It then closes every progress channel,
// which ends the WebSocket and SSE handlers http.Server would otherwise
// wait on. ctx bounds the whole sequence.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}

	done := make(chan error, 1)
	go func() { done <- s.server.Shutdown(ctx) }()

	if status := s.service.LimiterStatus(); status.Active > 0 {
		slog.Info("waiting for imports to complete", "active", status.Active)
	}
	if err := s.service.Drain(ctx); err != nil {
		slog.Warn("imports did not complete in time", "error", err)
	}
	s.sessions.CloseAll()

	return <-done
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// checkOrigin accepts WebSocket upgrades without an Origin header (non
// browser clients) or from a configured CORS origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.CORS.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// rateLimiter is a fixed window limiter keyed by client IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
	done     chan struct{}
	once     sync.Once
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		done:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup drops visitors idle for two windows until stop is called.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}

// allow consumes a token for ip if one is left in the current window.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[ip]
	if !ok || now.Sub(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: now}
		return true
	}
	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", retryAfter(rl.window))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Demasiadas solicitudes, intente de nuevo en unos segundos",
				"code":  "RATE001",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
