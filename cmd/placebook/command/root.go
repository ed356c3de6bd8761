// Package command provides the placebook CLI. The root command starts the
// HTTP API; sub-commands prepare the store and print build metadata.
//
//	./placebook [-c /path/to/config.yaml]          # start the API server
//	./placebook indexes [-c /path/to/config.yaml]  # create tag indexes and exit
//	./placebook version
//
// Without -c the config is read from CONFIG_FILE, then from config/{ENV}.yaml.
package command

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
	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/app"
	"github.com/kailas-cloud/placebook/internal/config"
	logpkg "github.com/kailas-cloud/placebook/internal/logger"
	"github.com/kailas-cloud/placebook/internal/version"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "placebook",
	Short: "Places, reviews and blog API with AI tag search",
	Long: `placebook serves a REST API over places, blogs, ratings, testimonials,
users, chat history, favorites, collections, prompt history and content pages.
When an AI provider key is configured, free-text prompts are turned into tags
and matched against places.`,
	SilenceUsage: true,
	RunE:         runServer,
}

// Execute parses CLI arguments and runs the selected command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
	rootCmd.AddCommand(indexesCmd, versionCmd)
}

// fixConfigPath takes the path from the CONFIG_FILE environment variable
// when -c is not given. An empty path selects config/{ENV}.yaml.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	cfgPath = os.Getenv("CONFIG_FILE")
}

func loadConfig(env string) (config.Config, error) {
	if cfgPath != "" {
		return config.LoadFile(cfgPath)
	}
	return config.Load(env)
}

// bootstrap loads config and builds the logger shared by every command.
func bootstrap() (config.Config, *zap.Logger, string, error) {
	env := config.GetEnv()
	cfg, err := loadConfig(env)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.New(env, cfg.Logging)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, env, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, logger, env, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting placebook API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.EnsureIndexes(ctx); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Handler(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
