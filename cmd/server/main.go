package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notesapi/internal/config"
	"notesapi/internal/db"
	"notesapi/internal/logging"
	mcpserver "notesapi/internal/mcp"
	"notesapi/internal/metrics"
	"notesapi/internal/middleware"
	"notesapi/internal/notes"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "notes-server",
	Short: "Notes API with filtering, search and pagination",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, logger)
	},
	SilenceUsage: true,
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes for the notes collection and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		database, err := db.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return err
		}
		defer database.Client().Disconnect(context.Background())

		if err := notes.NewRepo(database).EnsureIndexes(ctx); err != nil {
			return err
		}
		logger.Info("indexes created", "database", cfg.MongoDB.Database)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(indexesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, ping, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Wire dependencies
	noteSvc := notes.NewService(store)
	noteHandler := notes.NewHandler(noteSvc, logger)
	mcpSrv := mcpserver.NewServer(noteSvc)

	mux := http.NewServeMux()
	notes.RegisterRoutes(mux, noteHandler, ping, cfg.Environment)
	mux.Handle("GET /metrics", metrics.Handler())

	// MCP uses POST for requests and GET for SSE streams
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv)
	mux.Handle("POST /mcp", mcpHTTP)
	mux.Handle("GET /mcp", mcpHTTP)
	mux.Handle("DELETE /mcp", mcpHTTP)

	mux.HandleFunc("/", noteHandler.NotFound)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      middleware.Logging(logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		logger.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.HTTP.Port, "store", cfg.Store.Driver)
	logger.Info("endpoints available",
		"api", "http://localhost:"+cfg.HTTP.Port+"/api",
		"web", "http://localhost:"+cfg.HTTP.Port,
		"mcp", "http://localhost:"+cfg.HTTP.Port+"/mcp",
	)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (notes.Store, notes.Pinger, func(), error) {
	if cfg.Store.Driver == config.DriverMemory {
		logger.Warn("using in-memory store, notes are lost on restart")
		return notes.NewMemStore(), nil, func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logger.Info("connecting to MongoDB", "uri", cfg.MongoDB.URI)
	database, err := db.Connect(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB", "database", cfg.MongoDB.Database)

	repo := notes.NewRepo(database)
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		logger.Warn("failed to ensure indexes", "error", err)
	}

	closeFn := func() {
		if err := database.Client().Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect", "error", err)
		}
	}
	return repo, db.Ping(database), closeFn, nil
}
