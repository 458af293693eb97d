// @title RafikiPets API
// @version 1.0
// @description Marketplace veterinario: cuentas, vets, turnos, emergencias, chat y pagos.
// @BasePath /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rafikipets-api/internal/adapters/checkout/stripe"
	"rafikipets-api/internal/adapters/identity/emergent"
	mdb "rafikipets-api/internal/adapters/storage/mongodb"
	pg "rafikipets-api/internal/adapters/storage/postgres"
	rds "rafikipets-api/internal/adapters/storage/redis"
	"rafikipets-api/internal/platform/config"
	"rafikipets-api/internal/platform/logger"
	"rafikipets-api/internal/ports/checkout"
	"rafikipets-api/internal/ports/identity"
	"rafikipets-api/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("config load failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": err.Error()})
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	var idp identity.Provider
	if c, err := emergent.NewClient(emergent.Config{BaseURL: cfg.IdentityBaseURL, Timeout: cfg.IdentityTimeout}); err == nil {
		idp = c
	} else {
		log.Warn("identity provider disabled", map[string]any{"err": err.Error()})
	}

	var payments checkout.Provider
	if p, err := stripe.New(stripe.Config{APIKey: cfg.StripeAPIKey, WebhookSecret: cfg.StripeWebhookSecret}); err == nil {
		payments = p
	} else {
		log.Warn("checkout provider disabled", map[string]any{"err": err.Error()})
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Log:            log,
			Stores:         stores,
			Identity:       idp,
			Checkout:       payments,
			AllowedOrigins: cfg.AllowedOrigins(),
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStores: MONGO_URL > DB_DSN > in-memory. REDIS_URL mueve solo las sesiones.
func openStores(ctx context.Context, cfg config.Config, log logger.Logger) (router.Stores, func(), error) {
	var (
		stores  router.Stores
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch {
	case cfg.MongoURL != "":
		client, err := mdb.Connect(ctx, cfg.MongoURL)
		if err != nil {
			return stores, nil, err
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })

		db := client.Database(cfg.DBName)
		if err := mdb.EnsureIndexes(ctx, db); err != nil {
			closeAll()
			return stores, nil, err
		}
		stores = router.MongoStores(db)
		log.Info("storage: mongodb", map[string]any{"db": cfg.DBName})

	case cfg.PostgresDSN != "":
		if err := pg.Migrate(cfg.PostgresDSN); err != nil {
			return stores, nil, err
		}
		db, err := pg.Open(cfg.PostgresDSN)
		if err != nil {
			return stores, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
		stores = router.PostgresStores(db)
		log.Info("storage: postgres", nil)

	default:
		stores = router.MemoryStores()
		log.Warn("storage: in-memory (data is lost on restart)", nil)
	}

	if cfg.RedisURL != "" {
		c, err := rds.Connect(ctx, cfg.RedisURL)
		if err != nil {
			closeAll()
			return stores, nil, err
		}
		closers = append(closers, func() { _ = c.Close() })
		stores = stores.WithRedisSessions(c)
		log.Info("sessions: redis", nil)
	}

	return stores, closeAll, nil
}
