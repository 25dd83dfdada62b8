package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ygangat/coaching-platform/internal/api/router"
	"github.com/ygangat/coaching-platform/internal/booking"
	appconfig "github.com/ygangat/coaching-platform/internal/config"
	"github.com/ygangat/coaching-platform/internal/notify"
	"github.com/ygangat/coaching-platform/internal/observability/metrics"
	"github.com/ygangat/coaching-platform/internal/payments"
	"github.com/ygangat/coaching-platform/internal/presale"
	"github.com/ygangat/coaching-platform/internal/session"
	"github.com/ygangat/coaching-platform/internal/wizard"
	"github.com/ygangat/coaching-platform/pkg/logging"
)

func main() {
	// .env is optional; environment variables win.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting coaching-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	bookingMetrics := metrics.NewBookingMetrics(nil)

	stores := buildSnapshotStores(ctx, cfg, logger)
	registry := booking.NewRegistry(stores, bookingMetrics)

	gateway := payments.NewStripeIntentService(cfg.StripeSecretKey, logger)
	if cfg.StripeDryRun {
		gateway = gateway.WithDryRun(true)
	}

	handoff := wizard.HandoffConfig{
		ProviderName:    cfg.ProviderName,
		MailtoAddress:   cfg.ProviderEmail,
		TransferAddress: cfg.TransferEmail,
	}

	emailSender := buildEmailSender(ctx, cfg, logger)
	dispatcher := notify.NewDispatcher(emailSender, notify.DispatcherConfig{
		ProviderName:  cfg.ProviderName,
		ProviderEmail: cfg.ProviderEmail,
		TransferEmail: cfg.TransferEmail,
	}, logger)

	bookingHandler := booking.NewHandler(booking.HandlerConfig{
		Registry:   registry,
		Gateway:    gateway,
		Dispatcher: dispatcher,
		Handoff:    handoff,
		Currency:   cfg.Currency,
		Metrics:    bookingMetrics,
	}, logger)

	presaleStore := presale.NewConfigStore(cfg.PresaleConfigPath, logger)
	presaleService := presale.NewService(presaleStore, dispatcher, bookingMetrics, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		BookingHandler:     bookingHandler,
		PaymentsHandler:    payments.NewIntentHandler(gateway, logger),
		PresaleHandler:     presale.NewHandler(presaleStore, presaleService, logger),
		MetricsHandler:     promhttp.Handler(),
		AdminJWTSecret:     cfg.AdminJWTSecret,
		AdminAllowEmails:   cfg.AdminAllowEmails,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}

// buildSnapshotStores picks the snapshot backend. A redis that cannot
// be reached degrades to in-memory storage rather than blocking
// startup.
func buildSnapshotStores(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) booking.SnapshotStores {
	if cfg.SessionStore != "redis" || strings.TrimSpace(cfg.RedisAddr) == "" {
		logger.Info("using in-memory session snapshots")
		return session.NewMemoryStore()
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis not available, falling back to in-memory snapshots", "error", err)
		return session.NewMemoryStore()
	}

	logger.Info("session snapshots backed by redis", "addr", cfg.RedisAddr)
	return session.NewRedisStore(client, nil)
}

// buildEmailSender picks the email provider. Missing credentials fall
// back to the stub sender so the wizard keeps working without email.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender != nil {
			logger.Info("email delivery via sendgrid", "from", cfg.SendGridFromEmail)
			return sender
		}
		logger.Warn("sendgrid selected but no API key configured, using stub sender")
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("failed to load AWS config, using stub sender", "error", err)
			break
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
		if sender != nil {
			logger.Info("email delivery via SES", "from", cfg.SESFromEmail, "region", cfg.AWSRegion)
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}
