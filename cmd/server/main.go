package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/sprig-core/internal/api"
	"github.com/mcoot/sprig-core/internal/config"
	"github.com/mcoot/sprig-core/internal/factory"
	"github.com/mcoot/sprig-core/internal/mail"
	"github.com/mcoot/sprig-core/internal/services/logincode"
	mongostorage "github.com/mcoot/sprig-core/internal/storage/mongo"
	redisstorage "github.com/mcoot/sprig-core/internal/storage/redis"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	factoryCfg := factory.Config{
		Logger:          logger,
		StorageType:     cfg.StorageType,
		LoginCodeConfig: logincode.Config{CodeTTL: cfg.LoginCodeTTL},
	}

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	case factory.StorageTypeMongo:
		mongoCfg := mongostorage.DefaultConfig()
		mongoCfg.URI = cfg.MongoURI
		mongoCfg.Database = cfg.MongoDB
		factoryCfg.MongoConfig = &mongoCfg
	}

	if cfg.SESFromEmail != "" {
		factoryCfg.SESConfig = &mail.SESConfig{
			Region:    cfg.SESRegion,
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}
	} else {
		logger.Info("SES_FROM_EMAIL not set; login codes will be logged")
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create application factory
	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Identity:   app.Identity,
		Sessions:   app.Sessions,
		LoginCodes: app.LoginCodes,
		Games:      app.Games,
		Snapshots:  app.Snapshots,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	logger.Info("starting sprig server",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
	)

	// Serve until SIGINT/SIGTERM
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}

	logger.Info("server stopped")
}
