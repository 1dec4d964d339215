package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apiclient"
	"storefront/internal/config"
	"storefront/internal/controller"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/rabbit"
	"storefront/internal/repository"
	"storefront/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET (o JWT_SECRET_FILE) es obligatorio")
	}

	l := logger.NewLogger(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		l.Error("connecting to MongoDB failed", "error", err)
		os.Exit(1)
	}
	db := mongoClient.Database(cfg.MongoDBName)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		l.Error("connecting to RabbitMQ failed", "error", err)
		os.Exit(1)
	}
	ch, err := conn.Channel()
	if err != nil {
		l.Error("opening RabbitMQ channel failed", "error", err)
		os.Exit(1)
	}
	if err := rabbit.DeclareExchanges(ch, cfg.OrderPlacedExchange, cfg.StatusChangedExchange); err != nil {
		l.Error("declaring exchanges failed", "error", err)
		os.Exit(1)
	}

	// Cliente del backend; cada request usa el token del usuario
	client := apiclient.NewClient(cfg.BackendURL, nil, cfg.RequestTimeout, l)
	backendFor := func(token string) service.Backend {
		return client.WithToken(apiclient.StaticToken(token))
	}

	// Repositorios y servicios
	drafts := repository.NewMongoDraftRepository(db)
	events := repository.NewMongoEventRepository(db)
	feed := notify.NewFeed(0)

	authService := service.NewAuthService(cfg.JWTSecret)
	trackingService := service.NewTrackingService(backendFor, l)
	ownerService := service.NewOwnerService(backendFor, l)
	checkoutService := service.NewCheckoutService(backendFor, drafts, rabbit.NewOrderPlacedPublisher(ch, cfg.OrderPlacedExchange), l)
	notificationService := service.NewNotificationService(backendFor, feed, events, l)

	consumeCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()
	consumer := rabbit.NewStatusChangedConsumer(notificationService, l)
	if err := rabbit.SetupConsumers(consumeCtx, ch, consumer, cfg.StatusQueue, cfg.StatusChangedExchange, l); err != nil {
		os.Exit(1)
	}

	// Router
	r := controller.NewRouter(authService, controller.Controllers{
		Orders:        controller.NewOrderController(trackingService, ownerService),
		Checkout:      controller.NewCheckoutController(checkoutService),
		Notifications: controller.NewNotificationController(notificationService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		l.Info("storefront BFF listening", "port", cfg.Port, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Apagado ordenado
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info("shutting down")

	stopConsumers()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server forced to shutdown", "error", err)
	}
	ch.Close()
	conn.Close()
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		l.Error("disconnecting MongoDB failed", "error", err)
	}
	l.Info("server exiting")
}
