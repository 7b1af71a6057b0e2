// Package cli implements the catalog maintenance command.
package cli

import (
	"context"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/config"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository"
	"github.com/spf13/cobra"
)

const commandTimeout = time.Minute

// Store is what the commands operate on. Close releases the connection.
type Store struct {
	Products   repository.ProductRepository
	Migrations repository.MigrationRepository
	Close      func(ctx context.Context) error
}

type Connector func(ctx context.Context, cfg *config.Config) (*Store, error)

func ConnectMongoDB(ctx context.Context, cfg *config.Config) (*Store, error) {
	db, err := mongodb.ConnectToMongoDB(ctx, cfg.MongoDBConfig.URI, cfg.MongoDBConfig.Database)
	if err != nil {
		return nil, err
	}

	return &Store{
		Products:   repository.CreateNewMongoDBRepository(db.DB),
		Migrations: repository.CreateNewMongoDBMigrationRepository(db.DB),
		Close:      db.Close,
	}, nil
}

func NewRootCommand(cfg *config.Config, connect Connector) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Catalog database maintenance",
		Long:          "Applies catalog migrations, reports their status and lists stored products",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.MongoDBConfig.URI, "mongodb-uri", cfg.MongoDBConfig.URI, "MongoDB connection URI")
	rootCmd.PersistentFlags().StringVar(&cfg.MongoDBConfig.Database, "database", cfg.MongoDBConfig.Database, "MongoDB database name")

	rootCmd.AddCommand(
		newUpCommand(cfg, connect),
		newStatusCommand(cfg, connect),
		newProductsCommand(cfg, connect),
	)

	return rootCmd
}

// withStore opens the store for one command run and closes it afterwards.
func withStore(cmd *cobra.Command, cfg *config.Config, connect Connector, fn func(ctx context.Context, store *Store) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	store, err := connect(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		if store.Close != nil {
			store.Close(context.Background())
		}
	}()

	return fn(ctx, store)
}
