package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/inventory-api/internal/alert"
	"github.com/rogerio-castellano/inventory-api/internal/config"
	"github.com/rogerio-castellano/inventory-api/internal/db"
	apihttp "github.com/rogerio-castellano/inventory-api/internal/http"
	"github.com/rogerio-castellano/inventory-api/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-api/internal/http/ratelimit"
	"github.com/rogerio-castellano/inventory-api/internal/logging"
	"github.com/rogerio-castellano/inventory-api/internal/repo"
	"github.com/rogerio-castellano/inventory-api/internal/stock"
)

// @title Inventory API
// @version 1.0
// @description REST API for managing inventory products and stock levels.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(cfg.App.Env, cfg.App.LogLevel)

	database, err := db.Open(cfg.DB.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	products := repo.NewPostgresProductRepository(database)

	var notifier alert.Notifier = alert.Nop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("could not connect to Redis")
		}
		defer rdb.Close()

		redisLog := alert.NewRedisLog(rdb, alert.SMTPConfig{
			From:     cfg.Alert.From,
			To:       cfg.Alert.To,
			Server:   cfg.Alert.SMTPServer,
			Port:     cfg.Alert.SMTPPort,
			User:     cfg.Alert.SMTPUser,
			Password: cfg.Alert.SMTPPassword,
		}, log)
		notifier = redisLog

		interval, err := time.ParseDuration(cfg.Alert.SummaryInterval)
		if err != nil {
			interval = 24 * time.Hour
		}
		go redisLog.StartSummaryLoop(ctx, interval)
	}

	engine := stock.NewEngine(products, notifier, log)
	h := handlers.New(products, engine, log)

	routerCfg := apihttp.RouterConfig{Logger: log}
	if cfg.HTTP.RateLimitEnabled {
		limiter := ratelimit.NewVisitorLimiter(10, 20)
		go limiter.StartCleanupLoop(ctx.Done())
		routerCfg.Limiter = limiter
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      apihttp.NewRouter(h, routerCfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTP.Port).Msg("server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
