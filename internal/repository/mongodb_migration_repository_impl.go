package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const migrationsCollection = "migrations"

type MongoDBMigrationRepositoryImpl struct {
	db  *mongo.Database
	now func() time.Time
}

func CreateNewMongoDBMigrationRepository(db *mongo.Database) MigrationRepository {
	return &MongoDBMigrationRepositoryImpl{db: db, now: time.Now}
}

func (r *MongoDBMigrationRepositoryImpl) collection() *mongo.Collection {
	return r.db.Collection(migrationsCollection)
}

func (r *MongoDBMigrationRepositoryImpl) EnsureIndexes(ctx context.Context) (err error) {
	_, err = r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "migrationName", Value: 1}},
		Options: options.Index().SetName("uniq_migration_name").SetUnique(true),
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "EnsureMigrationIndexes").Msg("")
		return fmt.Errorf("create migrationName index: %w", err)
	}

	return nil
}

func (r *MongoDBMigrationRepositoryImpl) GetMigrations(ctx context.Context) (data []domain.Migration, err error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateApplied", Value: 1}})

	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetMigrations").Msg("")
		return
	}

	data = []domain.Migration{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetMigrations").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *MongoDBMigrationRepositoryImpl) IsApplied(ctx context.Context, name string) (applied bool, err error) {
	count, err := r.collection().CountDocuments(ctx, bson.D{{Key: "migrationName", Value: name}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "IsApplied").Msg("")
		return
	}

	return count > 0, nil
}

func (r *MongoDBMigrationRepositoryImpl) RecordMigration(ctx context.Context, name string) (err error) {
	_, err = r.collection().InsertOne(ctx, domain.Migration{
		Name:        name,
		DateApplied: r.now().UTC().Truncate(time.Millisecond),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: migration %s", errs.ErrConflict, name)
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "RecordMigration").Msg("")
		return err
	}

	return nil
}
