package repository

import (
	"context"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
)

type ProductRepository interface {
	AddProduct(ctx context.Context, data domain.Product) (product domain.Product, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	GetProductsByName(ctx context.Context, name string) (data []domain.Product, err error)
	GetProducts(ctx context.Context) (data []domain.Product, err error)
	UpdateProduct(ctx context.Context, id string, data domain.ProductUpdate) (product domain.Product, err error)
	DeleteProduct(ctx context.Context, id string) (product domain.Product, err error)
	GetImageReferences(ctx context.Context) (images map[string]struct{}, err error)
	EnsureIndexes(ctx context.Context) (err error)
}

type MigrationRepository interface {
	EnsureIndexes(ctx context.Context) (err error)
	GetMigrations(ctx context.Context) (data []domain.Migration, err error)
	IsApplied(ctx context.Context, name string) (applied bool, err error)
	// RecordMigration returns errs.ErrConflict when name is already recorded.
	RecordMigration(ctx context.Context, name string) (err error)
}
