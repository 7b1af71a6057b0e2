package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"productName" json:"productName"`
	Price       float64            `bson:"productPrice" json:"productPrice"`
	Description string             `bson:"productDescription" json:"productDescription"`
	Image       *string            `bson:"productImage" json:"productImage"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductUpdate carries a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Price       *float64
	Description *string
	Image       *string
}

// IsEmpty reports whether the update changes no field.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.Description == nil && u.Image == nil
}

// ImageName returns the stored image filename or "" when none is referenced.
func (p Product) ImageName() string {
	if p.Image == nil {
		return ""
	}

	return *p.Image
}
