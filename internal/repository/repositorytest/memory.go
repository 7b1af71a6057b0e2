// Package repositorytest provides in-memory repositories with the same
// error semantics as the MongoDB implementations.
package repositorytest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.MigrationRepository = (*MigrationRepository)(nil)
)

type ProductRepository struct {
	mu       sync.Mutex
	products []domain.Product

	// AddErr, when set, is returned by AddProduct without storing anything.
	AddErr error
}

func NewProductRepository(seed ...domain.Product) *ProductRepository {
	r := &ProductRepository{}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.products = append(r.products, p)
	}

	return r
}

func (r *ProductRepository) AddProduct(ctx context.Context, data domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.AddErr != nil {
		return domain.Product{}, r.AddErr
	}

	if strings.TrimSpace(data.Name) == "" {
		return domain.Product{}, fmt.Errorf("%w: productName is required", errs.ErrValidation)
	}

	now := time.Now().UTC()
	data.ID = primitive.NewObjectID()
	data.CreatedAt = now
	data.UpdatedAt = now
	r.products = append(r.products, data)

	return data, nil
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.indexOf(id)
	if err != nil {
		return domain.Product{}, err
	}

	return r.products[i], nil
}

func (r *ProductRepository) GetProductsByName(ctx context.Context, name string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := []domain.Product{}
	for _, p := range r.products {
		if p.Name == name {
			data = append(data, p)
		}
	}

	return data, nil
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]domain.Product, len(r.products))
	copy(data, r.products)

	return data, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, id string, data domain.ProductUpdate) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.indexOf(id)
	if err != nil {
		return domain.Product{}, err
	}

	p := r.products[i]
	if data.Name != nil {
		if strings.TrimSpace(*data.Name) == "" {
			return domain.Product{}, fmt.Errorf("%w: productName cannot be empty", errs.ErrValidation)
		}
		p.Name = *data.Name
	}
	if data.Price != nil {
		p.Price = *data.Price
	}
	if data.Description != nil {
		p.Description = *data.Description
	}
	if data.Image != nil {
		image := *data.Image
		p.Image = &image
	}
	p.UpdatedAt = time.Now().UTC()
	r.products[i] = p

	return p, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.indexOf(id)
	if err != nil {
		return domain.Product{}, err
	}

	p := r.products[i]
	r.products = append(r.products[:i], r.products[i+1:]...)

	return p, nil
}

func (r *ProductRepository) GetImageReferences(ctx context.Context) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	images := make(map[string]struct{})
	for _, p := range r.products {
		if name := p.ImageName(); name != "" {
			images[name] = struct{}{}
		}
	}

	return images, nil
}

func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *ProductRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.products)
}

func (r *ProductRepository) indexOf(id string) (int, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1, fmt.Errorf("%w: %q", errs.ErrInvalidID, id)
	}

	for i, p := range r.products {
		if p.ID == objectID {
			return i, nil
		}
	}

	return -1, errs.ErrNotFound
}

type MigrationRepository struct {
	mu      sync.Mutex
	records []domain.Migration
}

func NewMigrationRepository() *MigrationRepository {
	return &MigrationRepository{}
}

func (r *MigrationRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *MigrationRepository) GetMigrations(ctx context.Context) ([]domain.Migration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]domain.Migration, len(r.records))
	copy(data, r.records)

	return data, nil
}

func (r *MigrationRepository) IsApplied(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.records {
		if m.Name == name {
			return true, nil
		}
	}

	return false, nil
}

func (r *MigrationRepository) RecordMigration(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.records {
		if m.Name == name {
			return fmt.Errorf("%w: migration %s", errs.ErrConflict, name)
		}
	}

	r.records = append(r.records, domain.Migration{Name: name, DateApplied: time.Now().UTC()})

	return nil
}
