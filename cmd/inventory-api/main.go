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
	"github.com/ohalko/inventory-api/internal/auth"
	"github.com/ohalko/inventory-api/internal/config"
	httpAPI "github.com/ohalko/inventory-api/internal/http"
	"github.com/ohalko/inventory-api/internal/http/controller"
	"github.com/ohalko/inventory-api/internal/logger"
	"github.com/ohalko/inventory-api/internal/metrics"
	reposql "github.com/ohalko/inventory-api/internal/repository/sql"
	"github.com/ohalko/inventory-api/internal/service"
	sqspkg "github.com/ohalko/inventory-api/internal/sqs"
	"github.com/ohalko/inventory-api/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.InitJSONLogger()

	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := reposql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)

	// Create repositories
	productRepository := reposql.NewProductRepository(db)
	eventRepository := reposql.NewEventRepository(db)
	transactionalRepository := reposql.NewTransactionalRepository(db)

	// Image object storage
	s3Client, err := storage.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
	handleErr("loading AWS config", err)
	uploader := storage.NewS3Uploader(s3Client, conf.AWS.S3Bucket, conf.AWS.S3PublicURL)

	// Product-change message publishing
	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
	handleErr("creating SQS client", err)
	sqsPublisher := sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)

	productService := service.NewProductService(productRepository, transactionalRepository, uploader)

	// Start outbox worker to publish pending events every 2 seconds
	outboxWorker := service.NewOutboxWorker(eventRepository, sqsPublisher, 2*time.Second)
	go outboxWorker.Start(ctx)

	// Auth gate for the single static admin identity
	tokens := auth.NewTokenManager(conf.JWTSecret)

	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctr := controller.New(conf)
	authCtr := controller.NewAuthController(conf.Admin, tokens)
	productCtr := controller.NewProductController(productService)
	engine := httpAPI.InitRouter(gin.New(), tokens, ctr, authCtr, productCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server starting on port %s", conf.HTTPServer.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down gracefully...")

	outboxWorker.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("error during HTTP server shutdown: %v", err)
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
