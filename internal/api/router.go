package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/api/handlers"
	mw "github.com/Harshitk-cp/arbiter/internal/api/middleware"
	"github.com/Harshitk-cp/arbiter/internal/config"
	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/service"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the arbitration engine for lifecycle management.
type App struct {
	Router       *chi.Mux
	Engine       *service.DecisionService
	Bus          *service.EventBus
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(logger *zap.Logger) *App {
	// Stores
	reliabilityStore := store.NewReliabilityStore()
	historyStore := store.NewHistoryStore(config.HistoryLimit())
	patternStore := store.NewPatternStore()

	// Services
	bus := service.NewEventBus(logger)
	reliabilitySvc := service.NewReliabilityService(reliabilityStore, logger)
	historySvc := service.NewHistoryService(historyStore, logger)
	patternSvc := service.NewPatternService(patternStore, logger)
	engine := service.NewDecisionService(reliabilitySvc, historySvc, patternSvc, bus, logger)
	engine.Threshold = config.DefaultThreshold()
	engine.Timeout = time.Duration(config.DefaultTimeoutMs()) * time.Millisecond

	// Handlers
	decisionHandler := handlers.NewDecisionHandler(engine, historySvc)
	reliabilityHandler := handlers.NewReliabilityHandler(reliabilitySvc)
	patternHandler := handlers.NewPatternHandler(patternSvc)

	r := chi.NewRouter()

	// Initialize app with metrics tracking
	app := &App{
		Router:    r,
		Engine:    engine,
		Bus:       bus,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	// Health
	r.Get("/health", app.healthHandler())

	// Runtime metrics
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Decisions
		r.Route("/decisions", func(r chi.Router) {
			r.Post("/", decisionHandler.Request)
			r.Get("/", decisionHandler.History)
			r.Get("/metrics", decisionHandler.Metrics)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", decisionHandler.Get)
				r.Get("/wait", decisionHandler.Wait)
				r.Post("/votes", decisionHandler.SubmitVote)
				r.Post("/resolve", decisionHandler.Resolve)
			})
		})

		// Agent reliability
		r.Route("/reliability", func(r chi.Router) {
			r.Get("/", reliabilityHandler.List)
			r.Route("/{agentId}", func(r chi.Router) {
				r.Get("/", reliabilityHandler.Get)
				r.Post("/", reliabilityHandler.Update)
			})
		})

		// Decision patterns
		r.Route("/patterns", func(r chi.Router) {
			r.Post("/", patternHandler.Register)
			r.Get("/", patternHandler.List)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that manage lifecycle
// themselves.
func NewRouter(logger *zap.Logger) *chi.Mux {
	return NewApp(logger).Router
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":            "ok",
			"pending_decisions": app.Engine.PendingCount(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds":    uptime.Seconds(),
			"uptime_human":      uptime.Round(time.Second).String(),
			"request_count":     app.requestCount.Load(),
			"error_count":       app.errorCount.Load(),
			"pending_decisions": app.Engine.PendingCount(),
			"goroutines":        runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.ReliabilityStore = (*store.ReliabilityStore)(nil)
	_ domain.HistoryStore     = (*store.HistoryStore)(nil)
	_ domain.PatternStore     = (*store.PatternStore)(nil)
)
