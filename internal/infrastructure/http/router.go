package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	Projects    *handlers.ProjectsHandler
	Tasks       *handlers.TasksHandler
	Sessions    *handlers.SessionsHandler
	Brands      *handlers.LabelsHandler
	Milestones  *handlers.LabelsHandler
	Auth        *handlers.AuthHandler
	Users       *handlers.UsersHandler
	GoogleTasks *handlers.GoogleTasksHandler
	Health      *handlers.HealthHandler
	Identity    *middleware.IdentityResolver

	OAuthBegin    http.HandlerFunc // GET /api/auth/google/begin
	OAuthCallback http.HandlerFunc // GET /api/auth/google/callback

	Log            zerolog.Logger
	Secure         func(http.Handler) http.Handler
	CORS           func(http.Handler) http.Handler
	IPRateLimit    func(http.Handler) http.Handler
	ScopeRateLimit func(http.Handler) http.Handler
	Metrics        bool   // expose /metrics
	APIVersion     string // X-API-Version on /api responses
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	r.Use(chimid.AllowContentType("application/json"))
	r.Use(chimid.SetHeader("Content-Type", "application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	scopeLimit := cfg.ScopeRateLimit
	if scopeLimit == nil {
		scopeLimit = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIVersion(cfg.APIVersion))

		// user-id or session-id
		r.Group(func(r chi.Router) {
			r.Use(cfg.Identity.Handler)
			r.Use(scopeLimit)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", cfg.Projects.List)
				r.Post("/", cfg.Projects.Create)
				r.Patch("/", cfg.Projects.Update)
				r.Delete("/", cfg.Projects.Delete)
			})
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", cfg.Tasks.List)
				r.Post("/", cfg.Tasks.Create)
				r.Patch("/", cfg.Tasks.Update)
				r.Delete("/", cfg.Tasks.Delete)
				r.Patch("/reorder", cfg.Tasks.Reorder)
				r.Patch("/move", cfg.Tasks.Move)
			})
			r.Get("/brands", cfg.Brands.List)
			r.Post("/brands", cfg.Brands.Create)
			r.Get("/milestones", cfg.Milestones.List)
			r.Post("/milestones", cfg.Milestones.Create)
		})

		// user-id only
		r.Group(func(r chi.Router) {
			r.Use(cfg.Identity.RequireUser)
			r.Use(scopeLimit)

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", cfg.Sessions.List)
				r.Post("/", cfg.Sessions.Create)
				r.Get("/week/{week}", cfg.Sessions.Week)
				r.Get("/month/{year}/{month}", cfg.Sessions.Month)
				r.Get("/year/{year}", cfg.Sessions.Year)
			})
			r.Post("/auth/google-reauth", cfg.Auth.GoogleReauth)
			r.Post("/auth/refresh-token", cfg.Auth.RefreshGoogleToken)
			r.Get("/google-tasks", cfg.GoogleTasks.List)
			r.Get("/users/me", cfg.Users.Me)
		})

		r.Post("/auth", cfg.Auth.Issue)
		r.Put("/auth", cfg.Auth.Rotate)
		r.Delete("/auth", cfg.Auth.Logout)
		r.Post("/auth/google", cfg.Auth.Google)
		if cfg.OAuthBegin != nil {
			r.Get("/auth/google/begin", cfg.OAuthBegin)
		}
		if cfg.OAuthCallback != nil {
			r.Get("/auth/google/callback", cfg.OAuthCallback)
		}
		r.Post("/users", cfg.Users.Upsert)
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Msg("request")
		})
	}
}
