package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reefcrew/seabooking/config"
	"github.com/reefcrew/seabooking/internal/bootstrap"
	"github.com/reefcrew/seabooking/internal/cache"
	"github.com/reefcrew/seabooking/internal/kafka"
	"github.com/reefcrew/seabooking/internal/payment"
	"github.com/reefcrew/seabooking/internal/promo"
	"github.com/reefcrew/seabooking/internal/repository"
	"github.com/reefcrew/seabooking/internal/service/booking"
	"github.com/reefcrew/seabooking/internal/service/trips"
	"github.com/reefcrew/seabooking/internal/slots"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SlotsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	gateway := payment.NewStripeGateway(cfg.Stripe.APIKey, cfg.Stripe.BaseURL, time.Duration(cfg.Stripe.TimeoutSeconds)*time.Second)

	activityRepo := repository.NewActivityRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	generator := slots.NewGenerator(repository.NewStoreOccupancy(slotRepo))
	tripService := trips.NewTripService(activityRepo, bookingRepo, generator, redisCache, cfg.Booking.DaysAhead)
	bookingService := booking.NewBookingService(
		bookingRepo,
		slotRepo,
		activityRepo,
		gateway,
		promo.NewEngine(promo.DefaultCodes()),
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		time.Duration(cfg.Stripe.TimeoutSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMaxSeatsPerBooking(cfg.Booking.MaxSeatsPerBooking),
		booking.WithShareTTL(time.Duration(cfg.Booking.ShareTTLHours)*time.Hour),
		booking.WithSuccessURL(cfg.Stripe.SuccessURL),
	)

	if err := bootstrap.Run(ctx, cfg, tripService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
