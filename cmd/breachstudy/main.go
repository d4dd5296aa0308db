package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ts2427/breachstudy/internal/classifier"
	"github.com/ts2427/breachstudy/internal/config"
	"github.com/ts2427/breachstudy/internal/store"
	"github.com/ts2427/breachstudy/internal/taxonomy"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     "breachstudy",
	Short:   "Breach narrative classification and validation engine",
	Version: fmt.Sprintf("%s (built %s)", version, buildTime),
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to configuration file")
	cobra.CheckErr(rootCmd.Execute())
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	return ctx, cancel
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// buildClassifier loads the configured taxonomy, or falls back to the
// built-in study taxonomy. A malformed taxonomy file is fatal here, before
// any record is classified.
func buildClassifier(cfg *config.Config) (*classifier.Classifier, error) {
	tax := taxonomy.Default()
	if cfg.Classifier.TaxonomyPath != "" {
		loaded, err := taxonomy.LoadFile(cfg.Classifier.TaxonomyPath)
		if err != nil {
			return nil, err
		}
		tax = loaded
	}
	return classifier.NewWithThreshold(tax, cfg.Classifier.HighSeverityThreshold), nil
}

// openStore connects to Postgres when persistence is enabled; returns nil
// otherwise.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	s, err := store.New(store.Config{
		DSN:          cfg.Database.DSN(),
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
