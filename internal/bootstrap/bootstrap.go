// Package bootstrap connects the infrastructure shared by the server and the
// command line tool.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearguard-backend/internal/api/handlers"
	"gearguard-backend/internal/api/routes"
	"gearguard-backend/internal/config"
	"gearguard-backend/internal/database"
	"gearguard-backend/internal/maintenance"
	"gearguard-backend/internal/metrics"
	"gearguard-backend/internal/notify"

	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const connectTimeout = 5 * time.Second

// Infra holds the open connections behind the services
type Infra struct {
	Deps  *routes.Dependencies
	redis *redis.Client
	nats  *nats.Conn
}

// Options tune what Open connects to
type Options struct {
	SkipMigrations bool
}

// Open connects the database, the reminder ledger and the notifier. Redis and
// NATS are optional: without an address the in-memory ledger and the log
// notifier are used.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Infra, error) {
	db, err := database.Initialize(cfg.DatabaseURL, &database.Options{SkipMigrations: opts.SkipMigrations})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	infra := &Infra{Deps: &routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Metrics:  metrics.New(),
		Notifier: notify.NewLogNotifier(),
		Ledger:   notify.NewMemoryLedger(),
		Clock:    maintenance.SystemClock{},
	}}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			infra.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		infra.redis = client
		infra.Deps.Ledger = notify.NewRedisLedger(client)
		infra.Deps.Checks = append(infra.Deps.Checks, handlers.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		logrus.WithField("addr", cfg.RedisAddr).Info("Reminder ledger backed by redis")
	}

	if cfg.NATSURL != "" {
		conn, err := notify.Connect(cfg.NATSURL)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.nats = conn
		infra.Deps.Notifier = notify.NewNATSNotifier(conn)
		infra.Deps.Checks = append(infra.Deps.Checks, handlers.HealthCheck{
			Name: "nats",
			Check: func(context.Context) error {
				if !conn.IsConnected() {
					return errors.New(conn.Status().String())
				}
				return nil
			},
		})
		logrus.WithField("url", conn.ConnectedUrlRedacted()).Info("Publishing notifications to NATS")
	}

	return infra, nil
}

// Close drains NATS and closes redis and the database
func (i *Infra) Close() {
	if i.nats != nil {
		if err := i.nats.Drain(); err != nil {
			logrus.WithError(err).Warn("Failed to drain NATS connection")
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close redis client")
		}
	}
	if i.Deps != nil && i.Deps.DB != nil {
		if sqlDB, err := i.Deps.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
