package api

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pipedesk/assist/internal/log"
	"github.com/pipedesk/assist/internal/tools"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger     log.Logger
	Registry   *tools.Registry // Required
	Pool       *pgxpool.Pool   // Optional: nil disables database check in /ready
	RateRPS    float64         // Tokens refilled per second per IP (0 = default 10)
	RateBurst  int             // Rate limiter burst size per IP (0 = default 20)
	TrustProxy bool            // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("tool registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	th := &toolsHandler{registry: cfg.Registry, logger: logger}
	eh := &enhanceHandler{logger: logger}

	mux := http.NewServeMux()

	// Tool discovery and execution
	mux.HandleFunc("GET /api/v1/tools", th.listTools)
	mux.HandleFunc("POST /api/v1/tools/{name}", th.executeTool)

	// Response enhancement
	mux.HandleFunc("POST /api/v1/enhance", eh.enhanceResponse)

	// Rate limiter: per-IP token bucket
	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}
	rl := newRateLimiter(rps, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log
	// attributes.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Use a top-level mux to separate health probes from middleware stack
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Pool))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
