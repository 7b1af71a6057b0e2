package dto

import "mime/multipart"

type ProductRequest struct {
	Name        string                `form:"productName" validate:"required,notblank"`
	Price       *float64              `form:"productPrice" validate:"required,gte=0"`
	Description string                `form:"productDescription" validate:"required,notblank"`
	Image       *multipart.FileHeader `form:"-" validate:"-"`
}

// UpdateProductRequest is a partial update; absent form fields stay nil.
type UpdateProductRequest struct {
	ID          string                `param:"id" validate:"required"`
	Name        *string               `form:"productName" validate:"omitnil,notblank"`
	Price       *float64              `form:"productPrice" validate:"omitnil,gte=0"`
	Description *string               `form:"productDescription" validate:"omitnil,notblank"`
	Image       *multipart.FileHeader `form:"-" validate:"-"`
}
