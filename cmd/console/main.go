// @title           CRM Console
// @version         1.0
// @description     Single-operator console over the CRM REST backend. Every screen is served as a JSON view; navigation is a 303 redirect.
// @host            localhost:8090
// @BasePath        /
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

	"github.com/rs/zerolog"

	"github.com/nimblecrm/crm-console/internal/api"
	"github.com/nimblecrm/crm-console/internal/core/ports"
	"github.com/nimblecrm/crm-console/internal/core/service"
	"github.com/nimblecrm/crm-console/internal/infrastructure/credstore"
	"github.com/nimblecrm/crm-console/internal/infrastructure/crmapi"
	mongostore "github.com/nimblecrm/crm-console/internal/infrastructure/db/mongo"
	redisstore "github.com/nimblecrm/crm-console/internal/infrastructure/db/redis"
	"github.com/nimblecrm/crm-console/internal/infrastructure/http/handlers"
	"github.com/nimblecrm/crm-console/internal/infrastructure/notify"
	"github.com/nimblecrm/crm-console/internal/infrastructure/queue"
	"github.com/nimblecrm/crm-console/internal/pkg/config"
	"github.com/nimblecrm/crm-console/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	feedCapacity    = 50
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "crm-console",
	})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("console stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.APIURLDefaulted() {
		log.Warn().Str("url", cfg.APIURL()).Msg("CRM_API_URL not set, using default backend")
	}

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := crmapi.New(crmapi.Config{
		BaseURL: cfg.APIURL(),
		Timeout: cfg.API.Timeout,
	}, store, logger.Component("crmapi"))
	if err != nil {
		return err
	}

	feed := notify.NewFeed(feedCapacity, logger.Component("notify"))
	session := service.NewSession(client, store, feed, logger.Component("session"))
	defer session.Close()

	writes := queue.NewSerializer(cfg.WriteWorkers, logger.Component("queue"))
	writes.Start(ctx)

	go func() {
		if err := session.Bootstrap(ctx); err != nil {
			log.Warn().Err(err).Msg("session bootstrap finished without a user")
		}
	}()

	e := api.NewRouter(api.Deps{
		Session: session,
		API:     client,
		Writes:  writes,
		Feed:    feed,
		Readiness: []handlers.Dependency{
			{Name: "crm_api", Check: client.Reachable},
			{Name: "credential_store", Check: store.Ping},
		},
		Log: logger.Component("api"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", client.BaseURL()).Msg("console listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore selects the credential backend named by CREDENTIAL_STORE. The
// returned func releases any connection the backend holds.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.CredentialStore, func(), error) {
	noop := func() {}

	switch cfg.Credentials.Store {
	case config.StoreMemory:
		log.Info().Msg("credentials kept in memory only")
		return credstore.NewMemoryStore(), noop, nil

	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("credentials stored in redis")
		return redisstore.NewCredentialStore(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Str("profile", cfg.Credentials.Profile).Msg("credentials stored in mongo")
		closeFn := func() { _ = mongostore.Disconnect(client, shutdownTimeout) }
		return mongostore.NewCredentialStore(db, cfg.Credentials.Profile), closeFn, nil

	default:
		path := cfg.Credentials.File
		if path == "" {
			p, err := credstore.DefaultPath()
			if err != nil {
				return nil, nil, fmt.Errorf("resolve credentials path: %w", err)
			}
			path = p
		}
		fs, err := credstore.NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", fs.Path()).Msg("credentials stored on disk")
		return fs, noop, nil
	}
}
