// Package httpapi wires the HTTP transport (Gin) to the upstream mission
// client, middleware, and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, logging, panic recovery,
// metrics, CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mbraack/missiondeck/internal/backend"
	"github.com/mbraack/missiondeck/internal/config"
	"github.com/mbraack/missiondeck/internal/http/handlers"
	"github.com/mbraack/missiondeck/internal/http/middleware"
	"github.com/mbraack/missiondeck/internal/switcher"
	"github.com/mbraack/missiondeck/internal/sysutil"
)

// NewRouter builds a production engine wired to the orchestrator named in
// cfg. Callers that need to inject a different upstream (tests, embedding)
// use RegisterRoutes directly.
func NewRouter(cfg config.Config) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	src := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log.Logger)
	RegisterRoutes(r, src, cfg)
	return r
}

// NewSwitcherSession builds a debounced switcher session tuned from cfg, for
// embedders that keep an interactive session open instead of calling the
// synchronous search endpoint per keystroke. remote is typically the same
// backend client the router is wired to; nil keeps scoring local.
func NewSwitcherSession(cfg config.Config, remote switcher.RemoteSearcher) *switcher.Session {
	return switcher.NewSession(remote,
		switcher.WithDebounce(cfg.Search.Debounce),
		switcher.WithRemoteLimit(cfg.Search.RemoteLimit),
		switcher.WithCacheCapacity(cfg.Search.CacheCapacity),
		switcher.WithLogger(log.Logger),
	)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under /api/v*.
//
// src is the upstream mission source (normally backend.New; tests inject a
// fake).
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression for large listings
//  7. Metrics
//  8. Rate limiter (per IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, src handlers.MissionSource, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// Process-wide log level, console writer in dev when LOG_PRETTY is set.
	sysutil.SetLogLevel(cfg.LogLevel)
	sysutil.SetupConsoleWriter(cfg.LogPretty)

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(sysutil.FirstNonEmpty(cfg.OTEL.ServiceName, "missiondeck")))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB); every endpoint is a GET but a cap
	// keeps misbehaving clients cheap.
	r.Use(limitBody(1 << 20))

	// 6) Compress JSON listings (mission pages get large)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: handlers ← upstream source + search tuning
	h := handlers.New(src, handlers.SearchSettings{
		CandidateLimit: cfg.Search.CandidateLimit,
		RemoteLimit:    cfg.Search.RemoteLimit,
		RemoteTimeout:  cfg.Search.RemoteTimeout,
		CacheCapacity:  cfg.Search.CacheCapacity,
	})

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Missions
		api.GET("/missions", h.ListMissions)
		api.GET("/missions/running", h.ListRunning)

		// Workspaces
		api.GET("/workspaces", h.ListWorkspaces)

		// Switcher
		api.GET("/switcher/search", h.Search)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
