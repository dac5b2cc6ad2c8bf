package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/practicedesk/internal/api"
	"github.com/lalith-99/practicedesk/internal/config"
	"github.com/lalith-99/practicedesk/internal/intake"
	"github.com/lalith-99/practicedesk/internal/middleware"
	"github.com/lalith-99/practicedesk/internal/observ"
	"github.com/lalith-99/practicedesk/internal/repository"
	"github.com/lalith-99/practicedesk/internal/repository/docrepo"
	rediscache "github.com/lalith-99/practicedesk/internal/repository/redis"
	"github.com/lalith-99/practicedesk/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ctx is cancelled on SIGINT/SIGTERM. Startup uses it too, so a
	// deploy that gives up on a slow database connect is not ignored.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 3. Open the document store
	//
	// One client for the whole process, closed when run() returns.
	// ---------------------------------------------------------------
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	// ---------------------------------------------------------------
	// 4. Connect to Redis (optional)
	//
	// Without REDIS_URL every request reads its credential from the
	// store and each instance rate-limits on its own. Both are fine for
	// a single instance.
	// ---------------------------------------------------------------
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info("redis connected")
	}

	// ---------------------------------------------------------------
	// 5. Create repositories
	//
	// We assign to the INTERFACE type so the cache decorator and the
	// plain store are interchangeable.
	// ---------------------------------------------------------------
	var credentials repository.CredentialRepository = docrepo.NewCredentialStore(store.Store)
	if redisClient != nil {
		credentials = rediscache.NewCachedCredentials(credentials, redisClient, cfg.CredentialCacheTTL, logger)
	}
	repos := intake.Repositories{
		Credentials: credentials,
		Profiles:    docrepo.NewProfileStore(store.Store),
		Firms:       docrepo.NewFirmStore(store.Store),
		Tasks:       docrepo.NewTaskStore(store.Store),
		Notes:       docrepo.NewNoteStore(store.Store),
	}

	// ---------------------------------------------------------------
	// 6. Create the intake service
	// ---------------------------------------------------------------
	metrics := observ.NewMetrics()
	svc := intake.NewService(repos, intake.Options{
		AuthMode:     intake.AuthMode(cfg.AuthMode),
		WriteTimeout: cfg.WriteTimeout,
		Metrics:      metrics,
	}, logger)

	// ---------------------------------------------------------------
	// 7. Set up HTTP server
	// ---------------------------------------------------------------
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimit, err := middleware.RateLimit(cfg.RateLimit, redisClient, logger)
	if err != nil {
		return err
	}

	router, err := api.NewRouter(api.RouterConfig{
		Intake:         svc,
		Authenticator:  svc,
		Health:         store.Health,
		Metrics:        metrics.Handler(),
		RateLimit:      rateLimit,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		// Longer than the detached write so a slow store still answers.
		WriteTimeout: cfg.WriteTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting siri intake",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("store", cfg.StoreBackend),
		zap.String("auth_mode", cfg.AuthMode),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// ---------------------------------------------------------------
	// 8. Wait for a signal, then drain
	//
	// Shutdown stops accepting connections and waits for in-flight
	// requests, so a task being written when the deploy starts still
	// lands and its shortcut still gets an answer.
	// ---------------------------------------------------------------
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
