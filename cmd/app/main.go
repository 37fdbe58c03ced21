package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fapshi-payment-facade/internal/config"
	payAdapters "fapshi-payment-facade/internal/infra/adapters/payment"
	"fapshi-payment-facade/internal/infra/logging"
	"fapshi-payment-facade/internal/infra/metrics"
	red "fapshi-payment-facade/internal/infra/redis"
	"fapshi-payment-facade/internal/infra/web"
	"fapshi-payment-facade/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted fields)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	// ---- Startup banner ----
	logger.Info().
		Str("mode", cfg.Gateway.Mode()).
		Str("base_url", cfg.Gateway.BaseURL).
		Str("api_user", logging.Redact(cfg.Gateway.APIUser, false)).
		Str("api_key", logging.Redact(cfg.Gateway.APIKey, false)).
		Msg("gateway configuration")
	if cfg.Gateway.Live() {
		logger.Warn().Msg("LIVE mode: real money will be charged")
	}

	metrics.MustRegister()

	// ---- Redis (optional; enables the rate limiter) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Info().Msg("redis.url not set; rate limiting disabled")
	}

	// ---- Gateway ----
	gateway, err := payAdapters.NewFapshiGateway(cfg.Gateway)
	if err != nil {
		log.Fatalf("fapshi gateway: %v", err)
	}

	// ---- Use cases ----
	paymentUC := usecase.NewPaymentUseCase(gateway, logger, cfg.Runtime.Dev)

	// ---- HTTP server ----
	srv := web.NewServer(paymentUC, limiter, cfg.RateLimit.PerMinute, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}
	cancel()
}
