package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/shikshachain/api"
	"github.com/sahilchouksey/shikshachain/config"
	"github.com/sahilchouksey/shikshachain/database"
	"github.com/sahilchouksey/shikshachain/router"
	"github.com/sahilchouksey/shikshachain/services"
	"github.com/sahilchouksey/shikshachain/services/cron"
	"github.com/sahilchouksey/shikshachain/services/storage"
	"github.com/sahilchouksey/shikshachain/utils/auth"
	"github.com/sahilchouksey/shikshachain/utils/cache"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
	"github.com/sahilchouksey/shikshachain/utils/middleware"
	"github.com/sahilchouksey/shikshachain/utils/validation"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Application owns every long-lived resource of the process
type Application struct {
	env     *config.EnvironmentVariable
	server  *api.APIServer
	store   database.Storage
	cache   *cache.RedisCache
	cron    *cron.CronManager
	metrics *metrics.Metrics
}

// New opens the store and optional backends and mounts the routes.
// It does not start the scheduler or the listener.
func New(ctx context.Context, env *config.EnvironmentVariable) (*Application, error) {
	store, err := database.Open(env)
	if err != nil {
		if env.DBDriver != config.DriverMemory {
			log.Warn("Check whether the Postgres is running or not")
		}
		return nil, err
	}

	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	if env.SeedDemoData {
		if err := database.NewSeeder(store).SeedAll(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	a := &Application{
		env:     env,
		store:   store,
		metrics: metrics.New(),
	}

	var verificationCache services.VerificationCache
	if env.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(env.RedisURL)
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Verification cache disabled.", err)
		} else {
			a.cache = redisCache
			verificationCache = redisCache
		}
	}

	var documents storage.DocumentStorage
	if env.SpacesEnabled() {
		spaces, err := storage.NewSpacesClient(storage.ConfigFromEnv(env))
		if err != nil {
			log.Warnf("Spaces unavailable: %v. Degree PDFs will not be uploaded.", err)
		} else {
			documents = spaces
		}
	}

	var issuerAuth *middleware.IssuerAuth
	if env.IssuerJWTSecret != "" {
		issuerAuth = middleware.NewIssuerAuth(auth.NewJWTManager(IssuerJWTConfig(env)))
	}

	registry := services.NewRegistryService(store, a.metrics)
	deps := router.Dependencies{
		APIPrefix: env.APIPrefix,
		Registry:  registry,
		Degrees: services.NewDegreeService(services.DegreeServiceConfig{
			Store:     store,
			Registry:  registry,
			Documents: documents,
			Metrics:   a.metrics,
			APIPrefix: env.APIPrefix,
		}),
		Verification: services.NewVerificationService(store, verificationCache, env.VerificationCacheTTL, a.metrics),
		Identity:     services.NewIdentityService(validation.NewValidator(), a.metrics),
		IssuerAuth:   issuerAuth,
		Metrics:      a.metrics,
	}

	a.server = api.NewAPIServer(fmt.Sprintf(":%d", env.Port))
	engine := a.server.GetEngine()
	middleware.SetupSecurity(engine, middleware.SecurityConfig{
		AllowedOrigins:    env.AllowedOrigins,
		RateLimitRequests: env.RateLimitRequests,
		RateLimitWindow:   env.RateLimitWindow,
	})
	router.SetupRoutes(engine, deps)

	if env.CronEnabled {
		a.cron = cron.NewCronManager(store, a.metrics)
	}

	return a, nil
}

// IssuerJWTConfig maps the issuer settings onto the JWT manager config
func IssuerJWTConfig(env *config.EnvironmentVariable) auth.JWTConfig {
	return auth.JWTConfig{
		Secret: env.IssuerJWTSecret,
		Expiry: env.IssuerTokenTTL,
		Issuer: env.IssuerJWTIssuer,
	}
}

// Server exposes the HTTP server, mainly for tests
func (a *Application) Server() *api.APIServer {
	return a.server
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
func (a *Application) Run(ctx context.Context) error {
	if a.cron != nil {
		if err := a.cron.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	a.Close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close stops the scheduler and releases the cache and store
func (a *Application) Close() {
	if a.cron != nil {
		a.cron.Stop()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Warnf("Failed to close Redis: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		log.Warnf("Failed to close store: %v", err)
	}
}

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := New(ctx, env)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}
