package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/dmunteanu/shop-orders/internal/cache"
	"github.com/dmunteanu/shop-orders/internal/config"
	"github.com/dmunteanu/shop-orders/internal/es"
	"github.com/dmunteanu/shop-orders/internal/handlers"
	"github.com/dmunteanu/shop-orders/internal/logging"
	"github.com/dmunteanu/shop-orders/internal/middleware/loggingmw"
	"github.com/dmunteanu/shop-orders/internal/mykafka"
	"github.com/dmunteanu/shop-orders/internal/repo"
	"github.com/dmunteanu/shop-orders/internal/service/order"
	httpserver "github.com/dmunteanu/shop-orders/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
	}

	var productCache *cache.ProductCache
	if configuration.REDIS_ADDR != "" {
		rdb := redis.NewClient(&redis.Options{Addr: configuration.REDIS_ADDR})
		productCache = cache.NewProductCache(rdb)
	}

	orderSvc := order.NewService(repo.NewGormStore(db))

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		OrderHandler: &handlers.OrderHandler{Svc: orderSvc, Producer: producer},
		ProductHandler: &handlers.ProductHandler{
			DB:       db,
			Producer: producer,
			Cache:    productCache,
			ES:       esClient,
			Index:    "product",
		},
		SearchHandler: handlers.NewSearchHandler(esClient, "product"),
		JWTSecret:     jwtSecret,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
