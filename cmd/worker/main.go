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
	"github.com/reefcrew/seabooking/internal/cache"
	"github.com/reefcrew/seabooking/internal/email"
	"github.com/reefcrew/seabooking/internal/kafka"
	"github.com/reefcrew/seabooking/internal/payment"
	"github.com/reefcrew/seabooking/internal/promo"
	"github.com/reefcrew/seabooking/internal/repository"
	"github.com/reefcrew/seabooking/internal/service/booking"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SlotsCacheTTL)*time.Second)
	gateway := payment.NewStripeGateway(cfg.Stripe.APIKey, cfg.Stripe.BaseURL, time.Duration(cfg.Stripe.TimeoutSeconds)*time.Second)

	activityRepo := repository.NewActivityRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
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
		booking.WithShareTTL(time.Duration(cfg.Booking.ShareTTLHours)*time.Hour),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.ConsumeBookingEvents(ctx, emailSender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			expired, err := bookingService.ExpireUnpaidShares(ctx)
			if err != nil {
				log.Printf("expire unpaid shares error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("marked %d unpaid shares as failed", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
