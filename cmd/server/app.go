package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/slotboard/internal/backup"
	"github.com/rpggio/slotboard/internal/config"
	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/rpggio/slotboard/internal/postgres"
	"github.com/rpggio/slotboard/internal/sqlite"
)

// queue is what the commands need from either backup queue.
type queue interface {
	backup.Queue
	Close() error
}

// app owns the resources opened for one command invocation.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	closers []func()
}

// newApp loads configuration and builds the logger. Logs go to stderr unless
// logToStdout reports otherwise for the loaded config, so command output on
// stdout stays clean.
func newApp(logToStdout func(config.Config) bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	a := &app{cfg: cfg}
	toStdout := logToStdout != nil && logToStdout(cfg)

	logWriter := io.Writer(os.Stderr)
	if toStdout {
		logWriter = os.Stdout
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, func() { _ = file.Close() })
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return a, nil
}

// openRepository opens the configured store and applies its schema.
func (a *app) openRepository(ctx context.Context) (project.Repository, error) {
	switch a.cfg.DB.Driver {
	case "postgres":
		pool, err := postgres.Connect(ctx, a.cfg.DB.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		if err := postgres.AutoMigrate(ctx, pool); err != nil {
			return nil, err
		}
		a.logger.Info("using postgres store")
		return postgres.NewProjectRepository(pool), nil
	default:
		if err := ensureDBDir(a.cfg.DB.Path); err != nil {
			return nil, fmt.Errorf("failed to prepare database path: %w", err)
		}
		db, err := sqlite.New(a.cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		if err := db.RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.logger.Info("using sqlite store", "path", a.cfg.DB.Path)
		return sqlite.NewProjectRepository(db), nil
	}
}

// openQueue opens the configured backup queue.
func (a *app) openQueue(ctx context.Context) (queue, error) {
	switch a.cfg.Queue.Driver {
	case "redis":
		opts, err := redis.ParseURL(a.cfg.Queue.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		q := backup.NewRedisQueue(rdb, a.cfg.Queue.Key)
		a.closers = append(a.closers, func() { _ = q.Close() })
		return q, nil
	default:
		q := backup.NewMemoryQueue(backup.DefaultMemoryCapacity)
		a.closers = append(a.closers, func() { _ = q.Close() })
		return q, nil
	}
}

// projectService opens the store and queue and wires the service over them.
func (a *app) projectService(ctx context.Context) (*project.Service, queue, error) {
	repo, err := a.openRepository(ctx)
	if err != nil {
		return nil, nil, err
	}
	q, err := a.openQueue(ctx)
	if err != nil {
		return nil, nil, err
	}
	return project.NewService(repo, q, a.logger), q, nil
}

// close releases resources in reverse order of opening.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
