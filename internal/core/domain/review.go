package domain

import (
	"errors"
	"time"
)

var ErrDuplicateReview = errors.New("product already reviewed")
var ErrReviewNotFound = errors.New("review not found")

// Review is one customer's rating of a product. One review per user per
// product, enforced by a unique index on the pair.
type Review struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ProductID string    `json:"product_id" bson:"product_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// WishlistItem marks a product a user wants to keep an eye on. Adding is
// idempotent; the (user, product) pair is unique.
type WishlistItem struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	ProductID string    `json:"product_id" bson:"product_id"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}
