// @title           ShareBnB API
// @version         1.0
// @description     Space-rental marketplace: listings, bookings and direct messages.
// @host            localhost:3001
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sharebnb/sharebnb-api/internal/api"
	"github.com/sharebnb/sharebnb-api/internal/api/handler"
	"github.com/sharebnb/sharebnb-api/internal/core/auth"
	"github.com/sharebnb/sharebnb-api/internal/core/service"
	"github.com/sharebnb/sharebnb-api/internal/infrastructure/db/mongo"
	"github.com/sharebnb/sharebnb-api/internal/infrastructure/db/postgres"
	"github.com/sharebnb/sharebnb-api/internal/infrastructure/db/redis"
	"github.com/sharebnb/sharebnb-api/internal/infrastructure/queue"
	"github.com/sharebnb/sharebnb-api/internal/pkg/config"
	"github.com/sharebnb/sharebnb-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "sharebnb-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(cfg.Postgres.DSN); err != nil {
		return err
	}
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info().Msg("postgres connected")

	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	messageRepo := mongo.NewMessageRepository(mongoDB, cfg.Mongo.MessagesCollection)
	if err := messageRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	photos, err := mongo.NewPhotoStore(mongoDB, cfg.Blob.Bucket, cfg.Blob.URLBase)
	if err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	cache := redis.NewListingCache(rdb, cfg.Redis.CacheTTL)
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// Workers outlive the signal context so in-flight requests can still
	// queue releases; once cancelled they drain what is queued.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Release.Workers, photos, log)
	dispatcher.Start(workerCtx)

	userRepo := postgres.NewUserRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	ledger := service.NewBookingLedger(postgres.NewBookingStore(pool), log)

	router := api.NewRouter(api.Deps{
		Log:       log,
		Resolver:  auth.NewResolver(cfg.JWTSecret),
		Auth:      service.NewAuthService(userRepo, auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), cfg.BcryptCost, log),
		Listings:  service.NewListingService(listingRepo, ledger, photos, dispatcher, cache, log),
		Owners:    listingRepo,
		Users:     service.NewUserService(userRepo, listingRepo, messageRepo, dispatcher, cache, log),
		Messages:  service.NewMessageService(messageRepo, userRepo, log),
		Photos:    service.NewPhotoService(photos),
		BodyLimit: cfg.BodyLimit,
		Health: map[string]handler.Pinger{
			"postgres": pool,
			"mongo":    handler.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
			"redis":    handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		cancelWorkers()
		dispatcher.Wait()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	cancelWorkers()
	dispatcher.Wait()
	log.Info().Msg("stopped")
	return nil
}
