// Command stardust-mcp serves the Stardust graph-RAG retrieval engine
// over the Model Context Protocol, on stdio or streamable HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/stardustdb/stardust-mcp/client"
	"github.com/stardustdb/stardust-mcp/internal/api"
	"github.com/stardustdb/stardust-mcp/internal/config"
	"github.com/stardustdb/stardust-mcp/internal/mcp"
	"github.com/stardustdb/stardust-mcp/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Optional; a missing .env is not an error.
	godotenv.Load() //nolint:errcheck

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}
	configureLogger(log, cfg)

	var opts []client.Option
	if cfg.StardustAPIKey.Value() != "" {
		opts = append(opts, client.WithAPIKey(cfg.StardustAPIKey.Value()))
	}
	store := service.NewRemoteStore(client.New(cfg.StardustURL, opts...))

	embedder, err := service.NewEmbeddingService(cfg.OllamaURL, cfg.EmbeddingModel)
	if err != nil {
		log.WithError(err).Fatal("creating embedding service")
	}

	retriever := service.NewRetrievalService(
		service.NewGraphService(store, log),
		store,
		embedder,
		service.NewSessionStore(),
		cfg.VectorTag,
		log,
	)

	server := mcp.NewServer(retriever, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportStdio:
		runStdio(ctx, log, server)
	case config.TransportHTTP:
		runHTTP(ctx, log, cfg, store, server)
	}
}

func configureLogger(log *logrus.Logger, cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}

func runStdio(ctx context.Context, log *logrus.Logger, server *sdk.Server) {
	// Stdout carries the protocol; logs must stay on stderr.
	log.SetOutput(os.Stderr)
	log.Info("serving MCP on stdio")

	if err := server.Run(ctx, &sdk.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("stdio transport failed")
	}
}

func runHTTP(ctx context.Context, log *logrus.Logger, cfg *config.Config, store *service.RemoteStore, server *sdk.Server) {
	handler := sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, nil)

	router := api.NewRouter(&api.RouterDeps{
		Log:         log,
		Health:      store,
		MCPHandler:  handler,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr()).Info("serving MCP over HTTP")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
