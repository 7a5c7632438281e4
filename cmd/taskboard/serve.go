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

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/httpapi"
	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfigFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logging.New(cfg)
		defer log.Sync()

		st, err := store.Open(cfg, log)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		server := httpapi.NewServer(st, cfg, log)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: server.Router(),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infow("server listening", "port", cfg.Port, "environment", cfg.Environment)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case sig := <-quit:
			log.Infow("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		log.Infow("server stopped")
		return nil
	},
}
