package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/auth"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/googletasks"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/label"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/project"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/session"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/task"
	"github.com/amirhosseinghanipour/pomotrack/internal/config"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	infraauth "github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/auth"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/google"
	httprouter "github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/memory"
	redisledger "github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/redis"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/queue"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/webhook"
)

// apiVersion is reported in X-API-Version.
const apiVersion = "1"

func storeOptions(cfg *config.Config) persistence.Options {
	return persistence.Options{
		Backend:       cfg.Storage.Backend,
		DatabaseURL:   cfg.Storage.DatabaseURL,
		MongoURI:      cfg.Storage.MongoURI,
		MongoDatabase: cfg.Storage.MongoDatabase,
	}
}

func migrate(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := persistence.Open(ctx, storeOptions(cfg))
	if err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.Storage.Backend, err)
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("schema up to date")
	return store.Close(ctx)
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := persistence.Open(ctx, storeOptions(cfg))
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("backend", cfg.Storage.Backend).Msg("store ready")

	health := map[string]ports.Pinger{"database": store.Pinger}

	var ledger ports.RefreshLedger = memory.NewRefreshLedger()
	var events ports.EventEnqueuer = queue.NewNoopEnqueuer()
	var worker *queue.Worker
	if cfg.Redis.URL != "" {
		opt, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		redisClient := goredis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; refresh ledger and events stay in-process")
		} else {
			redisLedger := redisledger.NewRefreshLedger(redisClient)
			ledger = redisLedger
			health["redis"] = redisLedger

			asynqOpt := asynq.RedisClientOpt{Addr: opt.Addr, Username: opt.Username, Password: opt.Password, DB: opt.DB}
			enq := queue.NewAsynqEnqueuer(asynqOpt, log)
			defer enq.Close()
			events = enq

			var emitter ports.WebhookEmitter = webhook.NewNoopEmitter()
			if cfg.Webhook.URL != "" {
				emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL)
			}
			worker = queue.NewWorker(asynqOpt, emitter, log)
			go func() {
				if err := worker.Run(); err != nil {
					log.Warn().Err(err).Msg("asynq worker stopped")
				}
			}()
		}
	}

	key, ephemeral, err := infraauth.LoadSigningKey(cfg.JWT.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("load JWT signing key: %w", err)
	}
	if ephemeral {
		log.Warn().Msg("JWT_PRIVATE_KEY_PATH not set; using an ephemeral signing key")
	}
	issuer := infraauth.NewTokenIssuer(key, cfg.JWT.Issuer, cfg.JWT.Audience)

	googleClient := google.NewClient(google.Options{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
	})

	issueTokens := auth.NewIssueTokens(issuer, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	linker := auth.NewGoogleLinker(store.Users, issueTokens, events)
	refreshGoogle := auth.NewRefreshGoogleToken(store.Users, googleClient)
	cookie := handlers.RefreshCookie{
		Secure: cfg.JWT.CookieSecure,
		MaxAge: time.Duration(cfg.JWT.RefreshExpiry) * time.Second,
	}
	identity := middleware.NewIdentityResolver(issuer, cfg.Identity.RequireToken)

	routerCfg := httprouter.RouterConfig{
		Projects: handlers.NewProjectsHandler(
			project.NewCreateProject(store.Projects),
			project.NewListProjects(store.Projects),
			project.NewUpdateColor(store.Projects),
			project.NewDeleteProject(store.Projects, store.Tasks, events),
			log,
		),
		Tasks: handlers.NewTasksHandler(
			task.NewCreateTask(store.Tasks),
			task.NewListTasks(store.Tasks),
			task.NewSetCompleted(store.Tasks),
			task.NewReorder(store.Tasks),
			task.NewMoveTask(store.Tasks),
			task.NewDeleteTask(store.Tasks),
			log,
		),
		Sessions: handlers.NewSessionsHandler(
			session.NewRecordSession(store.Sessions, events),
			session.NewListSessions(store.Sessions, store.Users),
			session.NewQueryRange(store.Sessions, store.Users, session.NewCalendar()),
			log,
		),
		Brands:     handlers.NewLabelsHandler(domain.LabelBrand, label.NewCreateLabel(store.Labels), label.NewListLabels(store.Labels), log),
		Milestones: handlers.NewLabelsHandler(domain.LabelMilestone, label.NewCreateLabel(store.Labels), label.NewListLabels(store.Labels), log),
		Auth: handlers.NewAuthHandler(
			issueTokens,
			auth.NewRefresh(issuer, ledger, issueTokens),
			auth.NewGoogleSignIn(googleClient, linker),
			auth.NewGoogleReauth(store.Users),
			refreshGoogle,
			cookie,
			identity,
			log,
		),
		Users:       handlers.NewUsersHandler(auth.NewUpsertUser(store.Users), store.Users, log),
		GoogleTasks: handlers.NewGoogleTasksHandler(googletasks.NewListTasks(store.Users, googleClient, refreshGoogle), log),
		Health:      handlers.NewHealthHandler(health),
		Identity:    identity,
		Log:         log,
		Secure:      middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment)),
		CORS:        middleware.CORS(cfg.CORS.AllowedOrigins, nil, nil),
		Metrics:     true,
		APIVersion:  apiVersion,
	}
	if handlers.InitOAuthProviders(cfg.OAuth.CallbackBaseURL, cfg.OAuth.SessionSecret, cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.JWT.CookieSecure) {
		routerCfg.OAuthBegin = handlers.OAuthBegin()
		routerCfg.OAuthCallback = handlers.OAuthCallback(auth.NewOAuthCallback(linker), cookie, cfg.OAuth.RedirectURL, log)
	}
	if routerCfg.IPRateLimit, err = middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP); err != nil {
		return fmt.Errorf("create IP rate limiter: %w", err)
	}
	if routerCfg.ScopeRateLimit, err = middleware.NewScopeRateLimiter(cfg.RateLimit.RatePerScope); err != nil {
		return fmt.Errorf("create scope rate limiter: %w", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httprouter.NewRouter(routerCfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if worker != nil {
		worker.Shutdown()
	}
	log.Info().Msg("server stopped")
	return nil
}
