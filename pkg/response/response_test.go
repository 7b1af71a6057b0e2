package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()

	return e.NewContext(httptest.NewRequest(method, "/", nil), rec), rec
}

func TestWriteErrorResponse(t *testing.T) {
	type TestCase struct {
		Name            string
		Err             error
		ExpectedStatus  int
		ExpectedMessage string
	}

	testCases := []TestCase{
		{Name: "Sentinel", Err: errs.ErrNotFound, ExpectedStatus: http.StatusNotFound, ExpectedMessage: "Produto não encontrado"},
		{Name: "Wrapped sentinel", Err: fmt.Errorf("%w: %q", errs.ErrInvalidID, "abc"), ExpectedStatus: http.StatusBadRequest, ExpectedMessage: "ID do produto inválido"},
		{Name: "Unknown error is hidden", Err: fmt.Errorf("mongo: connection refused"), ExpectedStatus: http.StatusInternalServerError, ExpectedMessage: "Erro interno do servidor"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet)

			require.NoError(t, WriteErrorResponse(c, tc.Err, nil))
			assert.Equal(t, tc.ExpectedStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tc.ExpectedMessage, resp.Message)
			assert.Nil(t, resp.Errors)
		})
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	type TestCase struct {
		Name            string
		Err             error
		ExpectedStatus  int
		ExpectedMessage string
	}

	testCases := []TestCase{
		{Name: "Router not found", Err: echo.ErrNotFound, ExpectedStatus: http.StatusNotFound, ExpectedMessage: "Not Found"},
		{Name: "Body too large", Err: echo.ErrStatusRequestEntityTooLarge, ExpectedStatus: http.StatusRequestEntityTooLarge, ExpectedMessage: errs.ErrImageTooLarge.Error()},
		{Name: "Service error", Err: errs.ErrConflict, ExpectedStatus: http.StatusConflict, ExpectedMessage: errs.ErrConflict.Error()},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet)

			HTTPErrorHandler(tc.Err, c)
			assert.Equal(t, tc.ExpectedStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.ExpectedMessage, resp.Message)
		})
	}
}

func TestWriteMessageResponse(t *testing.T) {
	c, rec := newContext(http.MethodDelete)

	require.NoError(t, WriteMessageResponse(c, "Produto excluído com sucesso"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Produto excluído com sucesso"}`, rec.Body.String())
}
