package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coffeeintel/catalog"
	"coffeeintel/dashboard"
	"coffeeintel/mockdata"
)

var (
	verbose      bool
	snapshotSeed int64
	logger       *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coffeeintel",
	Short: "Coffee estate intelligence dashboard (simulated data)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose || os.Getenv("LOG_LEVEL") == "debug")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one overview as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSnapshot(cmd.Context(), snapshotSeed)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	snapshotCmd.Flags().Int64Var(&snapshotSeed, "seed", 1, "generator seed (0 = time seeded)")
	rootCmd.AddCommand(serveCmd, snapshotCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.LogLevel == "debug" && !verbose {
		if l, err := newLogger(true); err == nil {
			logger = l
		}
	}

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	shutdownCtx := context.WithoutCancel(ctx)
	defer app.close(shutdownCtx)
	go app.reap(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("coffeeintel API listening", zap.String("addr", srv.Addr), zap.String("catalog", cfg.Catalog))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, scancel := context.WithTimeout(shutdownCtx, 10*time.Second)
	defer scancel()
	return srv.Shutdown(sctx)
}

// runSnapshot renders one overview from a seeded generator and prints it.
func runSnapshot(ctx context.Context, seed int64) error {
	fx, err := catalog.LoadFixtures()
	if err != nil {
		return err
	}
	d := dashboard.New(ctx, "snapshot", dashboard.Deps{
		Fixtures:  fx,
		Generator: mockdata.New(seed),
		Logger:    logger,
	})
	defer d.Close()

	st, err := d.State(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dashboard.Overview(st))
}
