package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCollection = "products"

type MongoDBProductRepositoryImpl struct {
	db  *mongo.Database
	now func() time.Time
}

func CreateNewMongoDBRepository(db *mongo.Database) ProductRepository {
	return &MongoDBProductRepositoryImpl{db: db, now: time.Now}
}

func (r *MongoDBProductRepositoryImpl) collection() *mongo.Collection {
	return r.db.Collection(productsCollection)
}

func (r *MongoDBProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (product domain.Product, err error) {
	if strings.TrimSpace(data.Name) == "" {
		return product, fmt.Errorf("%w: productName is required", errs.ErrValidation)
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	data.ID = primitive.NilObjectID
	data.CreatedAt = now
	data.UpdatedAt = now

	result, err := r.collection().InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	data.ID = result.InsertedID.(primitive.ObjectID)

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := parseObjectID(id)
	if err != nil {
		return
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	err = r.collection().FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return product, err
	}

	return product, nil
}

func (r *MongoDBProductRepositoryImpl) GetProductsByName(ctx context.Context, name string) (data []domain.Product, err error) {
	filter := bson.D{{Key: "productName", Value: name}}

	return r.find(ctx, "GetProductsByName", filter)
}

func (r *MongoDBProductRepositoryImpl) GetProducts(ctx context.Context) (data []domain.Product, err error) {
	return r.find(ctx, "GetProducts", bson.D{})
}

func (r *MongoDBProductRepositoryImpl) find(ctx context.Context, component string, filter bson.D) (data []domain.Product, err error) {
	cursor, err := r.collection().Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	data = []domain.Product{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return nil, err
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) UpdateProduct(ctx context.Context, id string, data domain.ProductUpdate) (product domain.Product, err error) {
	productID, err := parseObjectID(id)
	if err != nil {
		return
	}

	set := bson.D{}
	if data.Name != nil {
		if strings.TrimSpace(*data.Name) == "" {
			return product, fmt.Errorf("%w: productName cannot be empty", errs.ErrValidation)
		}
		set = append(set, bson.E{Key: "productName", Value: *data.Name})
	}
	if data.Price != nil {
		set = append(set, bson.E{Key: "productPrice", Value: *data.Price})
	}
	if data.Description != nil {
		set = append(set, bson.E{Key: "productDescription", Value: *data.Description})
	}
	if data.Image != nil {
		set = append(set, bson.E{Key: "productImage", Value: *data.Image})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: r.now().UTC().Truncate(time.Millisecond)})

	filter := bson.D{{Key: "_id", Value: productID}}
	update := bson.D{{Key: "$set", Value: set}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = r.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("Failed to update product")
		return product, err
	}

	return product, nil
}

func (r *MongoDBProductRepositoryImpl) DeleteProduct(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := parseObjectID(id)
	if err != nil {
		return
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	err = r.collection().FindOneAndDelete(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return product, err
	}

	return product, nil
}

func (r *MongoDBProductRepositoryImpl) GetImageReferences(ctx context.Context) (images map[string]struct{}, err error) {
	filter := bson.D{{Key: "productImage", Value: bson.D{{Key: "$type", Value: "string"}}}}
	opts := options.Find().SetProjection(bson.D{{Key: "productImage", Value: 1}})

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetImageReferences").Msg("")
		return
	}
	defer cursor.Close(ctx)

	images = make(map[string]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			Image string `bson:"productImage"`
		}
		if err = cursor.Decode(&doc); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "GetImageReferences").Msg("")
			return nil, err
		}

		if doc.Image != "" {
			images[doc.Image] = struct{}{}
		}
	}

	if err = cursor.Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetImageReferences").Msg("")
		return nil, err
	}

	return images, nil
}

func (r *MongoDBProductRepositoryImpl) EnsureIndexes(ctx context.Context) (err error) {
	_, err = r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "productName", Value: 1}},
		Options: options.Index().SetName("idx_product_name"),
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "EnsureIndexes").Msg("")
		return fmt.Errorf("create productName index: %w", err)
	}

	return nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", errs.ErrInvalidID, id)
	}

	return objectID, nil
}
