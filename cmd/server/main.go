package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timestudy/internal/config"
	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/study"
	"github.com/rpggio/timestudy/internal/eventloop"
	"github.com/rpggio/timestudy/internal/logging"
	"github.com/rpggio/timestudy/internal/mcp"
	"github.com/rpggio/timestudy/internal/media"
	"github.com/rpggio/timestudy/internal/sqlite"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := logging.OpenFile(cfg.Log.Path, logging.DefaultMaxBytes, logging.DefaultKeepBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := logging.New(logWriter, cfg.Log.Level)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		if fw, ok := logWriter.(*logging.FileWriter); ok {
			fw.Close()
		}
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := migrate(db, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The loop outlives the transports so shutdown can still reach the session.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loop := eventloop.New(logger)
	go loop.Run(loopCtx)

	probe := media.NewFFProbe(logger)
	studySvc := study.NewService(study.Deps{
		Loop:     loop,
		Player:   media.NewVirtualPlayer(probe, cfg.Media.CaptureTimeout, nil),
		Probe:    probe,
		Capture:  media.NewFrameGrabber(cfg.Media.ThumbnailWidth, cfg.Media.ThumbnailHeight, cfg.Media.JPEGQuality, logger),
		Projects: project.NewService(sqlite.NewProjectRepository(db), logger),
		Activity: activity.NewService(sqlite.NewActivityRepository(db), logger),
	}, cfg.StudyOptions(), logger)
	if err := studySvc.Start(ctx); err != nil {
		return fmt.Errorf("start study: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := studySvc.Close(closeCtx); err != nil {
			logger.Warn("study close", "error", err)
		}
	}()

	mcpServer := mcp.NewServer(mcp.Config{
		Study:         studySvc,
		AuthToken:     cfg.Server.AuthToken,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}
	return runHTTPMode(ctx, logger, mcpServer, cfg.Server.Host, cfg.Server.Port, cfg.Server.AuthToken != "")
}

func migrate(db *sqlite.DB, logger *slog.Logger) error {
	migrated, err := db.Migrated()
	if err != nil {
		return err
	}
	if migrated {
		return nil
	}
	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("database schema created", "schema", sqlite.InitialSchema)
	return nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "version", version)

	// Run blocks until stdin closes or the context is canceled.
	err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int, auth bool) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mcp.NewHTTPHandler(mcpServer, 30*time.Minute),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", auth, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
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
