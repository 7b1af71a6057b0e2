package dto

import (
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
)

const ImageRoutePrefix = "/images/"

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"productName"`
	Price       float64   `json:"productPrice"`
	Description string    `json:"productDescription"`
	Image       *string   `json:"productImage"`
	ImageURL    *string   `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewProductResponse(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if p.Image != nil && *p.Image != "" {
		url := ImageRoutePrefix + *p.Image
		resp.ImageURL = &url
	}

	return resp
}

func NewProductResponses(products []domain.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, NewProductResponse(p))
	}

	return resp
}
