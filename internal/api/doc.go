// Package api implements the JSON HTTP surface of the assist service.
//
// Routes:
//
//	GET  /api/v1/tools          list registered tool definitions
//	POST /api/v1/tools/{name}   execute one tool
//	POST /api/v1/enhance        parse an assistant response into UI enhancements
//	GET  /health                liveness probe
//	GET  /ready                 readiness probe (checks the database pool)
//
// Middleware stack (outermost first):
//
//	Recovery → RequestID → Logging → RateLimit → Routes
//
// Health probes are mounted outside the middleware stack so orchestrator
// probes are never rate limited.
package api
