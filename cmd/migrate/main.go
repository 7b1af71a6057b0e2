package main

import (
	"os"

	"github.com/alimikegami/point-of-sales/product-catalog-service/config"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/app"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	config := config.CreateNewConfig()
	app.SetupLogger(config.LogLevel)

	if err := cli.NewRootCommand(config, cli.ConnectMongoDB).Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
