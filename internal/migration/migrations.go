package migration

import (
	"context"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository"
)

const (
	CreateProductIndexes = "create-product-indexes"
	AddProducts          = "add-products"
)

// SampleProduct is seeded by the add-products migration.
var SampleProduct = domain.Product{
	Name:        "Produto Exemplo",
	Price:       99.99,
	Description: "Este é um produto de exemplo",
}

// Catalog returns the registered catalog migrations in application order.
func Catalog(products repository.ProductRepository) []Migration {
	return []Migration{
		{
			Name: CreateProductIndexes,
			Up:   products.EnsureIndexes,
		},
		{
			Name: AddProducts,
			Up: func(ctx context.Context) error {
				_, err := products.AddProduct(ctx, SampleProduct)
				return err
			},
		},
	}
}

func NewCatalogRunner(migrations repository.MigrationRepository, products repository.ProductRepository) *Runner {
	return NewRunner(migrations, Catalog(products)...)
}
