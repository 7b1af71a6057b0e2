package service

import (
	"context"
	"errors"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/filestore"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "product-catalog-service/service"

type ProductServiceImpl struct {
	repo      repository.ProductRepository
	images    filestore.ImageStore
	publisher EventPublisher
	tracer    trace.Tracer
}

func CreateProductService(repo repository.ProductRepository, images filestore.ImageStore, publisher EventPublisher) ProductService {
	return &ProductServiceImpl{
		repo:      repo,
		images:    images,
		publisher: publisher,
		tracer:    otel.Tracer(tracerName),
	}
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, data dto.ProductRequest) (resp dto.ProductResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "AddProduct")
	defer span.End()

	if data.Image == nil {
		return resp, errs.ErrImageRequired
	}

	if data.Price == nil {
		return resp, errs.ErrValidation
	}

	imageName, err := s.images.Store(ctx, data.Image)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("failed to store image")
		return
	}

	product, err := s.repo.AddProduct(ctx, domain.Product{
		Name:        data.Name,
		Price:       *data.Price,
		Description: data.Description,
		Image:       &imageName,
	})
	if err != nil {
		s.deleteImage(ctx, "AddProduct", imageName)
		return
	}

	span.SetAttributes(attribute.String("product.id", product.ID.Hex()))

	resp = dto.NewProductResponse(product)
	s.publish(ctx, dto.EventAddProduct, resp)

	return resp, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, data dto.UpdateProductRequest) (resp dto.ProductResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "UpdateProduct", trace.WithAttributes(attribute.String("product.id", data.ID)))
	defer span.End()

	existing, err := s.repo.GetProductByID(ctx, data.ID)
	if err != nil {
		return
	}

	update := domain.ProductUpdate{
		Name:        data.Name,
		Price:       data.Price,
		Description: data.Description,
	}

	// nothing to change: no write, no event
	if data.Image == nil && update.IsEmpty() {
		return dto.NewProductResponse(existing), nil
	}

	var newImage string
	if data.Image != nil {
		newImage, err = s.images.Store(ctx, data.Image)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("failed to store image")
			return
		}
		update.Image = &newImage
	}

	product, err := s.repo.UpdateProduct(ctx, data.ID, update)
	if err != nil {
		if newImage != "" {
			s.deleteImage(ctx, "UpdateProduct", newImage)
		}
		return
	}

	if oldImage := existing.ImageName(); newImage != "" && oldImage != "" && oldImage != newImage {
		s.deleteImage(ctx, "UpdateProduct", oldImage)
	}

	resp = dto.NewProductResponse(product)
	s.publish(ctx, dto.EventUpdateProduct, resp)

	return resp, nil
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id string) (resp dto.ProductResponse, err error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	return dto.NewProductResponse(product), nil
}

func (s *ProductServiceImpl) GetProductsByName(ctx context.Context, name string) (resp []dto.ProductResponse, err error) {
	products, err := s.repo.GetProductsByName(ctx, name)
	if err != nil {
		return
	}

	return dto.NewProductResponses(products), nil
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context) (resp []dto.ProductResponse, err error) {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return
	}

	return dto.NewProductResponses(products), nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id string) (resp dto.ProductResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	product, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return
	}

	if image := product.ImageName(); image != "" {
		s.deleteImage(ctx, "DeleteProduct", image)
	}

	resp = dto.NewProductResponse(product)
	s.publish(ctx, dto.EventDeleteProduct, resp)

	return resp, nil
}

// deleteImage is best-effort: failures are logged and never returned.
func (s *ProductServiceImpl) deleteImage(ctx context.Context, component string, name string) {
	if err := s.images.Delete(ctx, name); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Str("image", name).Msg("failed to delete image")
	}
}

func (s *ProductServiceImpl) publish(ctx context.Context, eventType string, data dto.ProductResponse) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, data.ID, dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Ctx(ctx).Warn().Err(err).Str("component", "publish").Str("event_type", eventType).Msg("event not delivered")
	}
}
