package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/gurupratap-matharu/falcon-sub000/internal/booking"
	"github.com/gurupratap-matharu/falcon-sub000/internal/config"
	"github.com/gurupratap-matharu/falcon-sub000/internal/database"
	"github.com/gurupratap-matharu/falcon-sub000/internal/handler"
	"github.com/gurupratap-matharu/falcon-sub000/internal/inventory"
	"github.com/gurupratap-matharu/falcon-sub000/internal/queue"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
	"github.com/gurupratap-matharu/falcon-sub000/internal/router"
	queue_publisher "github.com/gurupratap-matharu/falcon-sub000/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient() // nil disables the projection cache
	if rdb == nil {
		logger.Warn("redis unavailable, projection cache disabled")
	}

	tripRepo := repository.NewTripRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	couponRepo := repository.NewCouponRepo(db)

	cache := inventory.NewCache(rdb, time.Duration(cfg.CacheTTLSec)*time.Second)
	manager := inventory.NewManager(tripRepo, seatRepo, cache)
	publisher := queue_publisher.NewPublisher(logger)
	service := booking.NewService(orderRepo, tripRepo, couponRepo, manager, logger)
	orchestrator := booking.NewOrchestrator(orderRepo, tripRepo, couponRepo, manager, publisher, logger)

	// Drain confirmation events for the downstream ticket/notification
	// collaborators.
	go func() {
		if err := queue.StartOrderConsumer(logger); err != nil {
			logger.WithError(err).Error("order consumer stopped")
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewTripHandler(manager),
		handler.NewInventoryHandler(manager),
		handler.NewOrderHandler(service, orchestrator),
		handler.NewCouponHandler(couponRepo))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
