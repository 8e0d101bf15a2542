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

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/config"
	"github.com/eventplanner/eventplanner-api/internal/logger"
	"github.com/eventplanner/eventplanner-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:          "eventplanner",
		Short:        "Event planning REST API",
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, l, st, err := setup()
			if err != nil {
				return err
			}
			defer st.Close() // nolint: errcheck

			if err := st.Migrate(ctx); err != nil {
				return err
			}
			return serve(ctx, cfg, st, l)
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, l, st, err := setup()
			if err != nil {
				return err
			}
			defer st.Close() // nolint: errcheck

			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			l.Info("database migrated")
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level, SQL included")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration, builds the logger and opens the store.
func setup() (*config.Config, *log.Logger, *store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.DB.Debug = true
	}

	l := logger.New(cfg.Log).With("service", cfg.Name)
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.Open(cfg.DB, l)
	if err != nil {
		return nil, nil, nil, err
	}
	l.Info("database connected", "driver", cfg.DB.Driver)
	return cfg, l, st, nil
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, cfg *config.Config, st *store.Store, l *log.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.ListenAddr,
		Handler:           NewRouter(cfg, NewAPI(cfg, st, l), l),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		l.Info("server running", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
