package domain

import (
	"errors"
	"time"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// CartItem is one cart line. Name, prices and image are denormalized
// snapshots taken when the item was added; stock is re-checked against
// the live product on every mutation and again at checkout.
type CartItem struct {
	ProductID     string    `json:"product_id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Quantity      int       `json:"quantity"`
	AddedAt       time.Time `json:"added_at"`
}

// UnitPrice is the price charged per unit: the discount price when one
// was captured, the list price otherwise.
func (it CartItem) UnitPrice() float64 {
	if it.DiscountPrice != nil {
		return *it.DiscountPrice
	}
	return it.Price
}

// Cart is a user's pending selection. It is not a stock reservation.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// Remove drops the line holding productID if present.
func (c *Cart) Remove(productID string) {
	if i := c.Find(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// Total is the sum of unit price times quantity across all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.UnitPrice() * float64(it.Quantity)
	}
	return total
}

// Count is the total number of units in the cart.
func (c *Cart) Count() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
