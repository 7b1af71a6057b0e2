package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/dto"
)

type ProductService interface {
	AddProduct(ctx context.Context, data dto.ProductRequest) (resp dto.ProductResponse, err error)
	UpdateProduct(ctx context.Context, data dto.UpdateProductRequest) (resp dto.ProductResponse, err error)
	GetProductByID(ctx context.Context, id string) (resp dto.ProductResponse, err error)
	GetProductsByName(ctx context.Context, name string) (resp []dto.ProductResponse, err error)
	GetProducts(ctx context.Context) (resp []dto.ProductResponse, err error)
	DeleteProduct(ctx context.Context, id string) (resp dto.ProductResponse, err error)
}

// EventPublisher delivers product lifecycle events. Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, key string, message any) error
	Close() error
}
