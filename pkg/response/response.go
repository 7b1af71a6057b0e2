package response

import (
	"errors"
	"net/http"

	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/labstack/echo/v4"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors"`
}

// WriteDataResponse writes data as the bare JSON body.
func WriteDataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

func WriteMessageResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// WriteErrorResponse maps err to its status code. Only known sentinel
// messages reach the client; anything else is reported as a generic 500.
func WriteErrorResponse(c echo.Context, err error, errors interface{}) error {
	statusCode := errs.GetErrorStatusCode(err)
	resp := ErrorResponse{}
	resp.Status = "error"
	resp.Message = errs.PublicError(err).Error()
	resp.Errors = errors

	return c.JSON(statusCode, resp)
}

// HTTPErrorHandler renders errors that escape handlers, such as router 404s
// and body limit rejections, in the same body format as WriteErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	statusCode := errs.GetErrorStatusCode(err)
	message := errs.PublicError(err).Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		statusCode = httpErr.Code
		switch {
		case statusCode == http.StatusRequestEntityTooLarge:
			message = errs.ErrImageTooLarge.Error()
		case statusCode >= http.StatusInternalServerError:
			message = errs.ErrInternalServer.Error()
		default:
			message = http.StatusText(statusCode)
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		}
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(statusCode)
		return
	}

	c.JSON(statusCode, ErrorResponse{Status: "error", Message: message})
}
