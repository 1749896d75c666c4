package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/logging"
	"github.com/DeBrosOfficial/contacts/pkg/server"
	"github.com/DeBrosOfficial/contacts/pkg/store"
)

var serveFlags struct {
	listen string
	store  string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a development contact service",
	Long: `Run a contact service speaking the same HTTP/JSON protocol the client
uses, backed by memory, SQLite or rqlite (server.store).

Example:
  contacts serve --listen :8080 --store sqlite
  CONTACTS_API_URL=http://localhost:8080 contacts tui`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "listen address (default: server.listen_addr)")
	serveCmd.Flags().StringVar(&serveFlags.store, "store", "", "memory | sqlite | rqlite (default: server.store)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	sc := cfg.Server
	if serveFlags.listen != "" {
		sc.ListenAddr = serveFlags.listen
	}
	if serveFlags.store != "" {
		sc.Store = serveFlags.store
	}

	st, err := store.Open(ctx, store.Options{
		Backend:    sc.Store,
		SQLitePath: sc.SQLitePath,
		RQLiteURL:  sc.RQLiteURL,
		Logger:     logger.For(logging.ComponentStore),
	})
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", sc.Store, err)
	}
	defer st.Close()

	if sc.Seed {
		n, err := store.Seed(ctx, st)
		if err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
		if n > 0 {
			logger.ComponentInfo(logging.ComponentStore, "Seeded sample contacts", zap.Int("count", n))
		}
	}

	return server.New(st, server.Config{
		ListenAddr:   sc.ListenAddr,
		WriteTimeout: sc.WriteTimeout,
	}, logger).Start(ctx)
}
