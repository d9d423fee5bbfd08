// @title        Salon Booking API
// @version      1.0
// @description  Appointment booking for a hair salon: catalog, available slots, bookings and staff accounts.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	goredis "github.com/redis/go-redis/v9"

	_ "github.com/belleallure/salon-api/docs"
	"github.com/belleallure/salon-api/internal/api"
	"github.com/belleallure/salon-api/internal/api/middleware"
	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
	"github.com/belleallure/salon-api/internal/core/service"
	mongodb "github.com/belleallure/salon-api/internal/infrastructure/db/mongo"
	redisdb "github.com/belleallure/salon-api/internal/infrastructure/db/redis"
	"github.com/belleallure/salon-api/internal/infrastructure/notify"
	"github.com/belleallure/salon-api/internal/infrastructure/queue"
	"github.com/belleallure/salon-api/internal/pkg/config"
	"github.com/belleallure/salon-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "salon-api", Output: os.Stderr})
		bootLog.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "salon-api",
	})

	loc, err := time.LoadLocation(cfg.Salon.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Salon.Timezone).Msg("invalid salon timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB (required) ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "salon-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	// --- Redis (optional) ---
	var (
		rdb       *goredis.Client
		slotCache ports.SlotCache
		limiter   middleware.Counter
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without slot cache and rate limiter")
			rdb = nil
		} else {
			defer rdb.Close()
			slotCache = redisdb.NewSlotCache(rdb, cfg.Redis.SlotTTL)
			limiter = redisdb.NewWindowCounter(rdb, cfg.RateLimit.Window, "rl")
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		}
	}

	// --- Notifications ---
	var sender notify.Sender = notify.NewLogSender(logger.Component("mailer"))
	if cfg.SMTP.Host != "" {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, sender, cfg.Salon.Name, logger.Component("notifications"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	// --- Core services ---
	catalog := domain.DefaultCatalog()
	schedule := domain.DefaultSchedule(loc)
	appointmentRepo := mongodb.NewAppointmentRepository(db)

	calendarOpts := []service.CalendarOption{}
	if slotCache != nil {
		calendarOpts = append(calendarOpts, service.WithSlotCache(slotCache))
	}
	calendar := service.NewSlotCalendar(appointmentRepo, catalog, schedule, logger.Component("slots"), calendarOpts...)
	appointments := service.NewAppointmentService(
		appointmentRepo,
		calendar,
		slotCache,
		dispatcher,
		catalog,
		service.BookingPolicy{
			AutoConfirm:  cfg.Salon.AutoConfirm,
			SalonName:    cfg.Salon.Name,
			SalonAddress: cfg.Salon.Address,
		},
		logger.Component("booking"),
	)
	auth := service.NewAuthService(mongodb.NewAuthRepository(db), catalog, cfg.JWTSecret, cfg.JWTTTL)

	e := api.NewRouter(api.Deps{
		Logger:       logger.Component("http"),
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		RateLimit:    cfg.RateLimit.Limit,
		Catalog:      catalog,
		Schedule:     schedule,
		Appointments: appointments,
		Slots:        calendar,
		Auth:         auth,
		Limiter:      limiter,
		DB:           db,
		Redis:        rdb,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	dispatcher.Close()
	log.Info().Msg("stopped")
}
