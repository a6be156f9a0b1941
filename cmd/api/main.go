package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/liquidsuites/launch-api/internal/config"
	"github.com/liquidsuites/launch-api/internal/infrastructure/dynamo"
	s3infra "github.com/liquidsuites/launch-api/internal/infrastructure/s3"
	"github.com/liquidsuites/launch-api/internal/infrastructure/sms"
	"github.com/liquidsuites/launch-api/internal/infrastructure/sns"
	"github.com/liquidsuites/launch-api/internal/observability/metrics"
	transporthttp "github.com/liquidsuites/launch-api/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// SMS gateway (optional — subscriptions still persist without one).
	var gateway sms.Gateway
	switch cfg.SMSProvider {
	case "sns":
		if sender, err := sns.NewSender(cfg); err == nil {
			gateway = sender
		} else {
			log.Printf("WARN: SNS gateway not available: %v", err)
		}
	default:
		if client, err := sms.NewTwilioClient(cfg); err == nil {
			gateway = client
		} else {
			log.Printf("WARN: Twilio gateway not available: %v", err)
		}
	}

	// S3 store for roster exports.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	registry := prometheus.NewRegistry()

	deps := &transporthttp.Deps{
		SubscriberRepo: dynamo.NewSubscriberRepo(dynamoClient, cfg.DynamoTables.Subscribers),
		BroadcastRepo:  dynamo.NewBroadcastRepo(dynamoClient, cfg.DynamoTables.Broadcasts),
		ObjectStore:    s3Store,
		Gateway:        gateway,
		Metrics:        metrics.New(registry),
		Registry:       registry,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
