// Command api serves the BluePay clientes REST API.
//
//go:generate swag init -g cmd/api/main.go -d ../../ -o ../../docs
//
// @title                       BluePay Clientes API
// @version                     1.0
// @description                 CRUD de clientes protegido por token Bearer.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token: "Bearer {jwt}"
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/api"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/api/handler"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/service"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/validation"
	mongostore "github.com/BlusDevsoftware/clientes-api-bluepay/internal/infrastructure/db/mongo"
	pgstore "github.com/BlusDevsoftware/clientes-api-bluepay/internal/infrastructure/db/postgres"
	rediscache "github.com/BlusDevsoftware/clientes-api-bluepay/internal/infrastructure/db/redis"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/pkg/config"
	"github.com/BlusDevsoftware/clientes-api-bluepay/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "clientes-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  logger.PrettyFor(cfg.Env),
		Service: "clientes-api",
	})

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	health := map[string]handler.Pinger{cfg.StoreDriver: st.ping}

	credentials := service.NewCredentialValidator(st.users, cfg.JWTSecret, log)
	if cfg.Redis.CacheEnabled() {
		client, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("auth cache disabled: redis unavailable")
		} else {
			defer client.Close()
			credentials = credentials.WithCache(rediscache.NewUserCache(client), cfg.Redis.CacheTTL)
			health["redis"] = handler.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			})
			log.Info().Dur("ttl", cfg.Redis.CacheTTL).Msg("auth cache enabled")
		}
	}

	customers := service.NewCustomerService(
		st.customers,
		validation.NewCustomerValidator(cfg.Profile()),
		log.With().Str("component", "customers").Logger(),
	)

	e := api.NewRouter(api.Deps{
		Customers:         customers,
		Credentials:       credentials,
		Health:            health,
		Logger:            log,
		AllowOrigin:       cfg.FrontendURL,
		ExposeStoreErrors: cfg.ExposeStoreErrors,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Str("profile", string(cfg.Profile())).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type store struct {
	customers ports.CustomerRepository
	users     ports.UserRepository
	ping      handler.Pinger
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	log := logger.Get()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		ms, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		customers := mongostore.NewCustomerRepository(ms.DB)
		if err := customers.EnsureIndexes(ctx, cfg.Profile()); err != nil {
			_ = ms.Close(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &store{
			customers: customers,
			users:     mongostore.NewUserRepository(ms.DB),
			ping:      ms,
			close:     func() { closeLogged(log, ms.Close(context.Background())) },
		}, nil

	default:
		pool, err := pgstore.Connect(ctx, pgstore.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := pgstore.Migrate(ctx, pool, cfg.Profile()); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("postgres schema applied")
		}
		log.Info().Msg("connected to postgres")
		return &store{
			customers: pgstore.NewCustomerRepository(pool),
			users:     pgstore.NewUserRepository(pool),
			ping:      pool,
			close:     pool.Close,
		}, nil
	}
}

func closeLogged(log zerolog.Logger, err error) {
	if err != nil {
		log.Warn().Err(err).Msg("store close")
	}
}
