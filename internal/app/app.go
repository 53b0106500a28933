package app

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

	"github.com/entrega-app/entrega/internal/dal/postgres"
	"github.com/entrega-app/entrega/internal/dal/rabbitmq"
	redisclient "github.com/entrega-app/entrega/internal/dal/redis"
	catalogrepo "github.com/entrega-app/entrega/internal/dal/repositories/catalog/postgres"
	outboxrepo "github.com/entrega-app/entrega/internal/dal/repositories/outbox/postgres"
	ratingcache "github.com/entrega-app/entrega/internal/dal/repositories/rating/redis"
	reviewrepo "github.com/entrega-app/entrega/internal/dal/repositories/review/postgres"
	sessionrepo "github.com/entrega-app/entrega/internal/dal/repositories/session/redis"
	userrepo "github.com/entrega-app/entrega/internal/dal/repositories/user/postgres"
	"github.com/entrega-app/entrega/internal/otel"
	"github.com/entrega-app/entrega/internal/service/services/authsvc"
	"github.com/entrega-app/entrega/internal/service/services/cartsvc"
	"github.com/entrega-app/entrega/internal/service/services/catalogsvc"
	"github.com/entrega-app/entrega/internal/service/services/ordersvc"
	"github.com/entrega-app/entrega/internal/service/services/reviewsvc"
	httptransport "github.com/entrega-app/entrega/internal/transport/http"
	outboxworker "github.com/entrega-app/entrega/internal/worker/outbox"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	redisClient := redisclient.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()
	if err := outboxworker.DeclareQueues(rabbitMqClient); err != nil {
		panic(fmt.Sprintf("Failed to declare outbox queues: %v", err))
	}

	catalogRepository := catalogrepo.NewPostgresCatalogRepository(postgresClient.Pool())
	userRepository := userrepo.NewPostgresUserRepository(postgresClient.Pool())
	reviewRepository := reviewrepo.NewPostgresReviewRepository(postgresClient.Pool())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())
	sessionRepository := sessionrepo.NewRedisSessionRepository(redisClient)

	ratingTTL := time.Duration(viper.GetInt("redis.rating_ttl_seconds")) * time.Second
	if ratingTTL == 0 {
		ratingTTL = 5 * time.Minute
	}
	ratingCache := ratingcache.NewRedisRatingCache(redisClient, ratingTTL)

	authSvc := authsvc.MustNewAuthService(
		authsvc.WithUserRepository(userRepository),
		authsvc.WithSessionRepository(sessionRepository),
		authsvc.WithSigningSecret([]byte(os.Getenv("ENTREGA_JWT_SECRET"))),
	)

	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithCatalogRepository(catalogRepository),
	)

	cartSvc := cartsvc.MustNewCartService(
		cartsvc.WithCatalogRepository(catalogRepository),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)

	reviewSvc := reviewsvc.MustNewReviewService(
		reviewsvc.WithReviewRepository(reviewRepository),
		reviewsvc.WithOrderService(orderSvc),
		reviewsvc.WithRatingCache(ratingCache),
	)

	transport := httptransport.NewHTTPTransport(authSvc, catalogSvc, cartSvc, orderSvc, reviewSvc)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(groupCtx)

		return nil
	})

	select {
	case <-stop:
		slog.Info("Shutdown signal received")
	case <-groupCtx.Done():
		slog.Error("Component failed, shutting down")
	}
	cancel()

	a.gracefulShutdown()

	if err := group.Wait(); err != nil {
		slog.Error("Component error", "error", err)
	}
}

// gracefulShutdown shuts components down sequentially: outbox worker, HTTP
// server, RabbitMQ, PostgreSQL and the trace provider.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	} else {
		slog.Info("Otel trace provider closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
