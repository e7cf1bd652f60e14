package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hydroguide/internal/config"
	"hydroguide/internal/database"
	"hydroguide/internal/database/migration"
	dbpostgres "hydroguide/internal/database/postgres"
	"hydroguide/internal/database/seeder"
	"hydroguide/internal/infrastructure/cache"
	"hydroguide/internal/ws"
	"hydroguide/migrations"
)

// Container owns the process-wide resources: the database pool, the Redis
// cache and the realtime hub.
type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		r := migrationRunner(cfg.Database, logger)
		if err := r.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	if cfg.Database.SeedDemo {
		r := seeder.Runner{Seeders: seeder.Defaults(cfg.Database, cfg.App.Location()), Logger: logger}
		if err := r.Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	hub := ws.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	return &Container{
		Config:  cfg,
		DB:      db,
		Cache:   cache.NewRedis(cfg.Redis, logger),
		Hub:     hub,
		Logger:  logger,
		stopHub: stopHub,
	}, nil
}

// migrationRunner reads MigrationsDir when set and the embedded schema
// otherwise.
func migrationRunner(cfg config.DatabaseConfig, logger *log.Logger) migration.Runner {
	r := migration.Runner{Dir: strings.TrimSpace(cfg.MigrationsDir), Logger: logger}
	if r.Dir == "" {
		r.FS = migrations.FS
	}
	return r
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
