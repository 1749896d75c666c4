package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/contacts/pkg/cache"
	"github.com/DeBrosOfficial/contacts/pkg/client"
	"github.com/DeBrosOfficial/contacts/pkg/config"
	"github.com/DeBrosOfficial/contacts/pkg/logging"
	"github.com/DeBrosOfficial/contacts/pkg/olric"
)

// Global flag values.
var (
	flagConfig string
	flagAPIURL string
	flagJSON   bool
)

// Set by PersistentPreRunE for every command but version.
var (
	cfg    *config.Config
	logger *logging.ColoredLogger
)

var rootCmd = &cobra.Command{
	Use:           "contacts",
	Short:         "Contacts is a client for the Remote Contact Service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ~/.contacts/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Remote Contact Service base URL (overrides "+config.EnvVar+")")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
}

// setup loads and validates the config, then builds the logger. The
// terminal screen owns stdout, so tui logs to a file.
func setup(cmd *cobra.Command) error {
	path := flagConfig
	if path == "" {
		p, err := config.DefaultPath("")
		if err != nil {
			return err
		}
		path = p
	}

	c, err := config.Load(path, flagAPIURL)
	if err != nil {
		return err
	}
	if errs := c.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
		return fmt.Errorf("invalid configuration (%d errors)", len(errs))
	}
	cfg = c

	level := logging.ParseLevel(cfg.Logging.Level)
	if cmd.Name() == tuiCmd.Name() {
		logPath, err := config.LogPath(cfg.Logging.File)
		if err != nil {
			return err
		}
		logger, err = logging.NewFileLogger(logging.ComponentTUI, logPath, level, false)
		return err
	}
	logger = logging.NewLogger(os.Stderr, level, cfg.Logging.Colors)
	return nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newClient() (*client.Client, error) {
	if err := cfg.ValidateBaseURL(); err != nil {
		return nil, err
	}
	return client.New(&client.ClientConfig{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.API.Timeout,
		Fields:     cfg.API.Fields,
		SearchPath: cfg.API.SearchPath,
		Logger:     logger.For(logging.ComponentClient),
	})
}

func newOlricClient() (*olric.Client, error) {
	return olric.NewClient(olric.Config{
		Servers: cfg.Cache.OlricServers,
		Timeout: cfg.Cache.OlricTimeout,
	}, logger.For(logging.ComponentCache))
}

// newPageCache builds the page cache on the configured backend. The
// returned func releases the backend.
func newPageCache(ctx context.Context) (*cache.PageCache, func(), error) {
	cacheLogger := logger.For(logging.ComponentCache)

	if cfg.Cache.Backend != config.CacheBackendOlric {
		return cache.New(nil, cache.WithLogger(cacheLogger)), func() {}, nil
	}

	oc, err := newOlricClient()
	if err != nil {
		return nil, nil, err
	}
	if err := oc.Health(ctx); err != nil {
		_ = oc.Close(context.Background())
		return nil, nil, fmt.Errorf("olric cache unavailable: %w", err)
	}
	pages, err := oc.PageStore(cfg.Cache.DMap)
	if err != nil {
		_ = oc.Close(context.Background())
		return nil, nil, err
	}

	logger.ComponentInfo(logging.ComponentCache, "Using olric page cache")
	pc := cache.New(pages, cache.WithLogger(cacheLogger), cache.WithStoreTimeout(cfg.Cache.OlricTimeout))
	return pc, func() { _ = oc.Close(context.Background()) }, nil
}
