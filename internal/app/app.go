// Package app wires configuration, storage, services and the HTTP router
// into a runnable server and owns its shutdown sequence.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/task-tracker/internal/api"
	"github.com/99minutos/task-tracker/internal/api/handler"
	"github.com/99minutos/task-tracker/internal/core/ports"
	"github.com/99minutos/task-tracker/internal/core/service"
	"github.com/99minutos/task-tracker/internal/infrastructure/db/mongo"
	"github.com/99minutos/task-tracker/internal/infrastructure/db/postgres"
	"github.com/99minutos/task-tracker/internal/infrastructure/db/redis"
	"github.com/99minutos/task-tracker/internal/pkg/config"
)

type App struct {
	cfg  *config.Config
	log  zerolog.Logger
	echo *echo.Echo

	closers []func(context.Context) error
}

// stores is the persistence selected by STORE_DRIVER.
type stores struct {
	users ports.UserRepository
	tasks ports.TaskRepository
	check handler.DependencyCheck
}

// New connects every configured backend and builds the router. Connections
// opened before a failure are released.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	st, err := a.openStores(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	checks := []handler.DependencyCheck{st.check}

	var idem ports.IdempotencyStore
	if cfg.RedisEnabled() {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		checks = append(checks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		idem = redis.NewIdempotencyStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected, idempotent task creation enabled")
	}

	sessions := service.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.echo = api.NewRouter(api.Dependencies{
		AuthService: service.NewAuthService(st.users, sessions, cfg.Auth.BcryptCost, log),
		TaskService: service.NewTaskService(st.tasks, idem, log),
		Sessions:    sessions,
		Checks:      checks,
		Registry:    reg,
		Log:         log,
	})
	return a, nil
}

func (a *App) openStores(ctx context.Context) (*stores, error) {
	switch a.cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      a.cfg.Mongo.URI,
			Database: a.cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)

		users := mongo.NewUserRepository(db)
		tasks := mongo.NewTaskRepository(db)
		if err := mongo.EnsureIndexes(ctx, users, tasks); err != nil {
			return nil, err
		}
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("mongo connected")
		return &stores{users: users, tasks: tasks, check: mongoCheck(client)}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:             a.cfg.Postgres.DSN,
			MaxOpenConns:    a.cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    a.cfg.Postgres.MaxIdleConns,
			ConnMaxIdleTime: a.cfg.Postgres.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })

		if a.cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return nil, err
			}
		}
		a.log.Info().Msg("postgres connected")
		return &stores{
			users: postgres.NewUserRepository(db),
			tasks: postgres.NewTaskRepository(db),
			check: postgresCheck(db),
		}, nil
	}
}

func postgresCheck(db *sql.DB) handler.DependencyCheck {
	return handler.DependencyCheck{Name: "postgres", Ping: db.PingContext}
}

func mongoCheck(client *mongodriver.Client) handler.DependencyCheck {
	return handler.DependencyCheck{
		Name: "mongo",
		Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout and releases every connection.
func (a *App) Run(ctx context.Context) error {
	addr := net.JoinHostPort("", a.cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Str("env", a.cfg.Env).Msg("server listening")
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.close(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	a.log.Info().Dur("timeout", a.cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	err := a.echo.Shutdown(shutdownCtx)
	a.close(shutdownCtx)
	if err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	a.log.Info().Msg("server stopped")
	return nil
}

// close releases connections in reverse order of acquisition.
func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("closing connection")
		}
	}
	a.closers = nil
}
