package controller

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/service"
	pkgdto "github.com/alimikegami/point-of-sales/product-catalog-service/pkg/dto"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/response"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	fieldName        = "productName"
	fieldPrice       = "productPrice"
	fieldDescription = "productDescription"
	fieldImage       = "productImage"
)

const deletedMessage = "Produto excluído com sucesso"

type Controller struct {
	service service.ProductService
}

func CreateProductController(e *echo.Group, service service.ProductService) {
	c := Controller{
		service: service,
	}
	e.POST("/produto", c.AddProduct)
	e.PUT("/produto/:id", c.UpdateProduct)
	e.GET("/produto", c.GetProductsByName)
	e.GET("/produto/:id", c.GetProductByID)
	e.GET("/produtos", c.GetProducts)
	e.DELETE("/produto/:id", c.DeleteProduct)
}

func (c *Controller) AddProduct(e echo.Context) error {
	image, err := formFile(e)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "AddProduct").Msg("")
		return response.WriteErrorResponse(e, err, nil)
	}

	if image == nil {
		return response.WriteErrorResponse(e, errs.ErrImageRequired, nil)
	}

	payload := dto.ProductRequest{
		Name:        e.FormValue(fieldName),
		Description: e.FormValue(fieldDescription),
		Image:       image,
	}

	if raw := e.FormValue(fieldPrice); raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return response.WriteErrorResponse(e, errs.ErrValidation, []response.ValidationError{{Field: fieldPrice, Tag: "number"}})
		}
		payload.Price = &price
	}

	if err := e.Validate(payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrValidation, validator.ToValidationErrors(err))
	}

	resp, err := c.service.AddProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteDataResponse(e, http.StatusCreated, resp)
}

func (c *Controller) UpdateProduct(e echo.Context) error {
	image, err := formFile(e)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return response.WriteErrorResponse(e, err, nil)
	}

	form, err := e.FormParams()
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return response.WriteErrorResponse(e, uploadError(err), nil)
	}

	payload := dto.UpdateProductRequest{
		ID:          e.Param("id"),
		Name:        optionalValue(form, fieldName),
		Description: optionalValue(form, fieldDescription),
		Image:       image,
	}

	if raw := optionalValue(form, fieldPrice); raw != nil {
		price, err := parsePrice(*raw)
		if err != nil {
			return response.WriteErrorResponse(e, errs.ErrValidation, []response.ValidationError{{Field: fieldPrice, Tag: "number"}})
		}
		payload.Price = &price
	}

	if err := e.Validate(payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrValidation, validator.ToValidationErrors(err))
	}

	resp, err := c.service.UpdateProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteDataResponse(e, http.StatusOK, resp)
}

func (c *Controller) GetProductsByName(e echo.Context) error {
	payload := pkgdto.Filter{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "GetProductsByName").Msg("")
	}

	// blank names are rejected; anything else is matched exactly as sent
	if err := e.Validate(payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrValidation, validator.ToValidationErrors(err))
	}

	resp, err := c.service.GetProductsByName(e.Request().Context(), payload.ProductName)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteDataResponse(e, http.StatusOK, resp)
}

func (c *Controller) GetProductByID(e echo.Context) error {
	resp, err := c.service.GetProductByID(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteDataResponse(e, http.StatusOK, resp)
}

func (c *Controller) GetProducts(e echo.Context) error {
	resp, err := c.service.GetProducts(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteDataResponse(e, http.StatusOK, resp)
}

func (c *Controller) DeleteProduct(e echo.Context) error {
	_, err := c.service.DeleteProduct(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteMessageResponse(e, deletedMessage)
}

// formFile returns the uploaded image, or nil when the request carries none.
func formFile(e echo.Context) (*multipart.FileHeader, error) {
	file, err := e.FormFile(fieldImage)
	if err == nil {
		return file, nil
	}

	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}

	return nil, uploadError(err)
}

func uploadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	var httpErr *echo.HTTPError
	if errors.As(err, &maxBytesErr) || errors.Is(err, multipart.ErrMessageTooLarge) ||
		(errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge) {
		return errs.ErrImageTooLarge
	}

	return fmt.Errorf("%w: %v", errs.ErrClient, err)
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("price %q is not a finite number", raw)
	}

	return price, nil
}

func optionalValue(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}

	v := form.Get(key)
	return &v
}
