package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/config"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/app"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	config := config.CreateNewConfig()
	app.SetupLogger(config.LogLevel)

	db, err := mongodb.ConnectToMongoDB(context.Background(), config.MongoDBConfig.URI, config.MongoDBConfig.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := db.Close(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()

	var publisher service.EventPublisher = kafka.NoopProducer{}
	if config.KafkaConfig.BrokerAddress != "" {
		publisher = kafka.CreateKafkaProducer(kafka.CreateKafkaWriter(config), nil)
	} else {
		log.Warn().Msg("BROKER_ADDRESS is not set, product events are disabled")
	}

	application := &app.App{
		DB:        db,
		Config:    config,
		Publisher: publisher,
	}

	if err := application.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up service")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Server stopped unexpectedly")
		}
	}

	if err := application.StopServer(); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
