package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/voyagen/videoswitch/internal/config"
	"github.com/voyagen/videoswitch/internal/feed"
	"github.com/voyagen/videoswitch/internal/server"
	"github.com/voyagen/videoswitch/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Optional config file path (YAML); else use env DATABASE_URL / DB_*")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	log.Info("videoswitch started")

	ctx := context.Background()

	if cfg.AutoMigrate {
		if err := migrate(cfg); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	dsn, err := cfg.StoreDSN()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	var appStore store.Store
	switch cfg.Driver() {
	case config.DriverMySQL:
		my, err := store.NewMySQL(ctx, dsn)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer my.Close()
		appStore = my
	default:
		pg, err := store.NewPostgres(ctx, dsn)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pg.Close()
		appStore = pg
	}

	// Publish detail events to Redis if REDIS_URL is configured.
	if cfg.RedisURL != "" {
		rds, err := feed.New(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rds.Close()

		if err := rds.Ping(ctx); err != nil {
			log.Fatalf("redis ping: %v", err)
		}

		appStore = store.NewNotifyingStore(appStore, rds)
		log.Infof("redis connected (detail events on %s)", feed.DefaultQueue)
	} else {
		log.Info("redis disabled (REDIS_URL not set)")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(appStore, cfg)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Errorf("server: %v", err)
		os.Exit(1)
	}
}

// migrate applies the schema migrations for the configured driver.
func migrate(cfg *config.Config) error {
	absMigrations, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		absMigrations = cfg.MigrationsDir
	}
	if _, err := os.Stat(absMigrations); err != nil {
		if exe, e := os.Executable(); e == nil {
			absMigrations = filepath.Join(filepath.Dir(exe), cfg.MigrationsDir)
		}
	}

	if cfg.Driver() == config.DriverPostgres {
		dsn, err := cfg.StoreDSN()
		if err != nil {
			return err
		}
		if err := store.EnsureSchemaAccess(dsn); err != nil {
			return fmt.Errorf("preflight: %w", err)
		}
	}

	migrationsPath := "file://" + filepath.Join(absMigrations, cfg.Driver())
	return store.RunMigrations(cfg.MigrateURL(), migrationsPath)
}

// setupLogging points the global logger at the configured append-only file
// (stderr when none) and applies the level. The returned file, if any, must be closed.
func setupLogging(cfg *config.Config) (*os.File, error) {
	log.SetHeader("${time_rfc3339} ${level}")
	log.SetLevel(parseLevel(cfg.LogLevel))
	if cfg.LogFile == "" {
		log.SetOutput(os.Stderr)
		return nil, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f, nil
}

func parseLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
