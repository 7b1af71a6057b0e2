package dto

type Filter struct {
	ProductName string `query:"productName" validate:"required,notblank"`
}
