package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/barachat/gateway/internal/auth"
	"github.com/barachat/gateway/internal/directory"
	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/gateway"
	"github.com/barachat/gateway/internal/infrastructure/configs"
	"github.com/barachat/gateway/internal/infrastructure/logging"
	"github.com/barachat/gateway/internal/infrastructure/messaging"
	"github.com/barachat/gateway/internal/infrastructure/metrics"
	"github.com/barachat/gateway/internal/infrastructure/tracing"
	"github.com/barachat/gateway/internal/persistence/db"
	"github.com/barachat/gateway/internal/persistence/repository"
	"github.com/barachat/gateway/internal/presentation/api"
	"github.com/barachat/gateway/internal/presentation/handler/health"
	"github.com/barachat/gateway/internal/presentation/handler/socket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const serviceName = "barachat-gateway"

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	appLogger := zap.Must(zap.NewProduction()).Sugar()
	defer appLogger.Sync()

	logger := logging.NewLogger(logging.NewDefaultConfig())

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	mongoClient, err := db.NewMongoClient(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.DisconnectMongo(ctx, mongoClient)

	database := db.GetDatabase(mongoClient, cfg.Mongo)
	store := domain.Store{
		Users:    repository.NewUserRepository(database),
		Servers:  repository.NewServerRepository(database),
		Channels: repository.NewChannelRepository(database),
		Members:  repository.NewMemberRepository(database),
	}

	dir, err := directory.NewRedisDirectory(cfg.Redis, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer dir.Close()

	// "memory" skips the broker for single-node development; fanout then
	// only reaches this process's own sockets.
	var bus messaging.Bus
	if cfg.RabbitMQ.URI == "memory" {
		bus = messaging.NewMemoryBus()
	} else {
		bus, err = messaging.NewRabbitMQ(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer bus.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	gw := gateway.New(cfg.Gateway, store, dir, bus, verifier, logger, m)
	if err := gw.Start(); err != nil {
		log.Fatal(err)
	}

	socketHandler := socket.NewHandler(gw, cfg.HTTP.AllowedOrigins, logger)
	healthHandler := health.NewHandler()

	app := api.NewApplication(*cfg, socketHandler, healthHandler, registry, appLogger)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	appLogger.Fatal(app.Run(mux))
}
