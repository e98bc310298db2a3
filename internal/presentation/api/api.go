package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/barachat/gateway/internal/infrastructure/configs"
	healthHandler "github.com/barachat/gateway/internal/presentation/handler/health"
	socketHandler "github.com/barachat/gateway/internal/presentation/handler/socket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Application struct {
	config        configs.Config
	socketHandler *socketHandler.Handler
	healthHandler *healthHandler.Handler
	registry      *prometheus.Registry
	logger        *zap.SugaredLogger
}

func NewApplication(
	config configs.Config,
	socket *socketHandler.Handler,
	health *healthHandler.Handler,
	registry *prometheus.Registry,
	logger *zap.SugaredLogger,
) *Application {
	return &Application{
		config:        config,
		socketHandler: socket,
		healthHandler: health,
		registry:      registry,
		logger:        logger,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// No chi timeout middleware on /ws: websocket connections are
	// long-lived by definition.
	r.Get("/ws", app.socketHandler.ServeWS)

	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	return otelhttp.NewHandler(r, "gateway")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:     mux,
		ReadTimeout: app.config.HTTP.ReadTimeout,
		// WriteTimeout stays unset: it would sever long-lived sockets.
		IdleTimeout: time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", srv.Addr)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", srv.Addr)

	return nil
}
