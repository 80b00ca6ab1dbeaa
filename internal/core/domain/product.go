package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrCategoryNotFound = errors.New("category not found")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrInvalidPrice = errors.New("invalid price")

// Product is a sellable catalog entry owned by one seller.
type Product struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	SellerID      string    `json:"seller_id" bson:"seller_id"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description" bson:"description"`
	Category      string    `json:"category" bson:"category"`
	Price         float64   `json:"price" bson:"price"`
	DiscountPrice *float64  `json:"discount_price,omitempty" bson:"discount_price,omitempty"`
	Stock         int       `json:"stock" bson:"stock"`
	ImageURL      string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Rating        float64   `json:"rating" bson:"rating"`
	ReviewCount   int       `json:"review_count" bson:"review_count"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// EffectivePrice is the price a buyer pays: the discount price when one
// is set, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// Category groups products for browsing.
type Category struct {
	Name        string `json:"name" bson:"_id"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}
