package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/slotboard/internal/auth"
	"github.com/rpggio/slotboard/internal/backup"
	"github.com/rpggio/slotboard/internal/config"
	"github.com/rpggio/slotboard/internal/mcp"
	"github.com/rpggio/slotboard/internal/transport"
	"github.com/spf13/cobra"
)

var version = "dev"

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	var withWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and MCP tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// stdout carries JSON-RPC in stdio mode
			a, err := newApp(func(cfg config.Config) bool {
				return cfg.Transport.Mode == "http"
			})
			if err != nil {
				return err
			}
			defer a.close()

			svc, q, err := a.projectService(ctx)
			if err != nil {
				return err
			}

			if a.cfg.Queue.Driver == "memory" && !withWorker {
				a.logger.Warn("memory queue without an in-process worker; backups will stay processing")
			}

			workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
			var wg sync.WaitGroup
			if withWorker {
				worker := backup.NewWorker(q, svc, a.cfg.Queue.Delay, a.logger)
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := worker.Run(workerCtx); err != nil {
						a.logger.Error("backup worker failed", "error", err)
					}
				}()
			}
			defer func() {
				stopWorker()
				wg.Wait()
			}()

			var resolver transport.OwnerResolver
			if a.cfg.Auth.Enabled {
				resolver = auth.NewJWTResolver(a.cfg.Auth.JWTSecret)
			}
			mcpServer := mcp.NewServer(mcp.Config{
				Projects:      svc,
				Resolver:      resolver,
				AuthEnabled:   a.cfg.Auth.Enabled,
				DefaultOwner:  a.cfg.Auth.DefaultOwner,
				TransportMode: a.cfg.Transport.Mode,
				Version:       version,
				Logger:        a.logger,
			})

			if a.cfg.Transport.Mode == "stdio" {
				return runStdio(ctx, a.logger, mcpServer)
			}

			ownerMiddleware := transport.HeaderOwnerMiddleware(a.cfg.Auth.DefaultOwner)
			if resolver != nil {
				ownerMiddleware = transport.AuthMiddleware(resolver)
			}
			handler := transport.NewServer(transport.Options{
				Projects: svc,
				Auth:     ownerMiddleware,
				MCP:      mcp.NewHTTPHandler(mcpServer),
				Logger:   a.logger,
			})
			addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
			return runHTTP(ctx, a.logger, addr, handler)
		},
	}

	cmd.Flags().BoolVar(&withWorker, "worker", true, "Run the backup worker in this process")
	return cmd
}

func runStdio(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")
	if err := mcp.ServeStdio(ctx, server); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
