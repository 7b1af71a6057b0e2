package validator

import (
	"testing"

	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `form:"productName" validate:"required,notblank"`
	Price *float64 `form:"productPrice" validate:"required,gte=0"`
	Note  *string  `form:"productDescription" validate:"omitnil,notblank"`
}

func TestValidate(t *testing.T) {
	cv := NewCustomValidator()
	negative := -1.0
	blank := "   "
	zero := 0.0

	type TestCase struct {
		Name     string
		Input    sample
		Expected []response.ValidationError
	}

	testCases := []TestCase{
		{
			Name:     "Valid with zero price",
			Input:    sample{Name: "Produto", Price: &zero},
			Expected: nil,
		},
		{
			Name:  "Missing fields",
			Input: sample{},
			Expected: []response.ValidationError{
				{Field: "productName", Tag: "required"},
				{Field: "productPrice", Tag: "required"},
			},
		},
		{
			Name:  "Negative price and blank optional",
			Input: sample{Name: "Produto", Price: &negative, Note: &blank},
			Expected: []response.ValidationError{
				{Field: "productPrice", Tag: "gte"},
				{Field: "productDescription", Tag: "notblank"},
			},
		},
		{
			Name:     "Blank name",
			Input:    sample{Name: " \t ", Price: &zero},
			Expected: []response.ValidationError{{Field: "productName", Tag: "notblank"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := cv.Validate(tc.Input)
			if tc.Expected == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tc.Expected, ToValidationErrors(err))
		})
	}
}

func TestToValidationErrors_NotValidatorError(t *testing.T) {
	assert.Nil(t, ToValidationErrors(assert.AnError))
}
