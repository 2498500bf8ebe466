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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/order"
	"storefront/internal/repository"
	"storefront/internal/routes"
)

func main() {
	config.Load()
	if err := config.AppEnv.Validate(); err != nil {
		log.Fatal(err)
	}

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}

	redisClient, err := database.ConnectRedis(config.AppEnv.RedisAddr, config.AppEnv.RedisPassword, config.AppEnv.RedisDB)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	log.Println("Redis connected to:", config.AppEnv.RedisAddr)

	var orders order.Repository
	switch config.AppEnv.OrderStore {
	case config.OrderStorePostgres:
		pg, err := database.ConnectPostgres(config.AppEnv.Postgres)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := database.RunMigrations(pg, config.AppEnv.Postgres.MigrationsPath); err != nil {
			log.Fatal(err)
		}
		orders = repository.NewPostgresOrderRepository(pg)
	default:
		if err := database.EnsureOrderIndexes(db); err != nil {
			log.Printf("order index warning: %v", err)
		}
		orders = repository.NewMongoOrderRepository(db)
	}
	log.Println("Order store:", config.AppEnv.OrderStore)

	var publisher order.Publisher
	if len(config.AppEnv.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(config.AppEnv.KafkaBrokers, config.AppEnv.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Println("Order events published to:", config.AppEnv.KafkaTopic)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	products := catalog.NewService(repository.NewProductRepository(db))
	users := repository.NewUserRepository(db)
	carts := cart.NewRedisStore(redisClient, config.AppEnv.SessionTTL)
	selections := checkout.NewRedisStore(redisClient, config.AppEnv.SessionTTL)

	placer := order.NewService(order.Dependencies{
		Catalog:    products,
		Repository: orders,
		Carts:      carts,
		Selections: selections,
		Publisher:  publisher,
		Metrics:    m,
	})

	gin.SetMode(config.AppEnv.GinMode)
	r := gin.Default()

	routes.Register(r, routes.Deps{
		Catalog:        products,
		Carts:          carts,
		Checkout:       checkout.NewStager(selections, users),
		Orders:         placer,
		OrderStore:     orders,
		Profiles:       users,
		Sessions:       middleware.NewCookieStore(config.AppEnv.SessionSecret, config.AppEnv.SessionTTL),
		JWTSecret:      config.AppEnv.JWTSecret,
		CORSOrigins:    config.AppEnv.CORSOrigins,
		Metrics:        m,
		MetricsHandler: metrics.Handler(reg),
		HealthChecks: map[string]handlers.HealthCheck{
			"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:              ":" + config.AppEnv.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("Listening on", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
