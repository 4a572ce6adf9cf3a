package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhiya492/ecommerce-api/internal/api"
	"github.com/abhiya492/ecommerce-api/internal/api/metrics"
	"github.com/abhiya492/ecommerce-api/internal/core/service"
	"github.com/abhiya492/ecommerce-api/internal/infrastructure/cache"
	"github.com/abhiya492/ecommerce-api/internal/infrastructure/db/mongo"
	"github.com/abhiya492/ecommerce-api/internal/infrastructure/images"
	"github.com/abhiya492/ecommerce-api/internal/infrastructure/mail"
	"github.com/abhiya492/ecommerce-api/internal/infrastructure/payment"
	"github.com/abhiya492/ecommerce-api/internal/pkg/config"
	"github.com/abhiya492/ecommerce-api/internal/token"
	"github.com/abhiya492/ecommerce-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	userRepo := mongo.NewUserRepository(db)
	productRepo := mongo.NewProductRepository(db)
	couponRepo := mongo.NewCouponRepository(db)
	orderRepo := mongo.NewOrderRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	store := cache.New(ctx, cache.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
		OnFallback: func(reason string) {
			metrics.CacheFallbackTotal.Inc()
		},
	}, log)
	defer store.Close()

	issuer, err := token.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer setup failed")
	}

	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	})
	dispatcher := mail.NewDispatcher(0, mailer, log)
	dispatcher.OnFailure = func(err error) {
		metrics.MailFailuresTotal.Inc()
	}
	dispatcher.Start(ctx)

	sessions := service.NewSessionStore(store)
	authService := service.NewAuthService(userRepo, sessions, issuer, mailer, dispatcher, cfg.OTPEnabled, log)
	productService := service.NewProductService(productRepo, store, images.NewPassthrough(), log, func(err error) {
		metrics.CacheRefreshFailuresTotal.Inc()
	})
	cartService := service.NewCartService(userRepo, productRepo)
	couponService := service.NewCouponService(couponRepo)
	checkoutService := service.NewCheckoutService(productRepo, couponRepo, orderRepo, payment.NewOfflineProvider(), couponService, log)
	analyticsService := service.NewAnalyticsService(userRepo, productRepo, orderRepo)

	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Products:      productService,
		Cart:          cartService,
		Coupons:       couponService,
		Checkout:      checkoutService,
		Analytics:     analyticsService,
		Users:         userRepo,
		Verifier:      issuer,
		DB:            mongo.NewPinger(client),
		Cache:         store,
		SecureCookies: cfg.IsProduction(),
		Log:           log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
