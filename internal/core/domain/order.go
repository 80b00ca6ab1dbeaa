package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPaid       OrderStatus = "paid"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderTransitions defines the allowed order status transitions.
// Cancellation is reachable from every non-terminal status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderPaid, OrderCancelled},
	OrderPaid:       {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidOrderStatus reports whether the value is a member of the enum.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderPaid, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// DeliveryStatus tracks the courier side of an order, separately from the
// seller-driven fulfilment status.
type DeliveryStatus string

const (
	DeliveryPending  DeliveryStatus = "pending"
	DeliveryAssigned DeliveryStatus = "assigned"
	DeliveryComplete DeliveryStatus = "delivered"
)

// deliveryTransitions is forward-only: pending -> assigned -> delivered.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:  {DeliveryAssigned},
	DeliveryAssigned: {DeliveryComplete},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotFound = errors.New("order not found")
var ErrOrderNotAvailable = errors.New("order not available for delivery")
var ErrEmptyCart = errors.New("cart is empty")

// ShippingAddress is the destination captured at checkout.
type ShippingAddress struct {
	Recipient string `json:"recipient" bson:"recipient"`
	Phone     string `json:"phone" bson:"phone"`
	Address   string `json:"address" bson:"address"`
	City      string `json:"city" bson:"city"`
	ZipCode   string `json:"zip_code" bson:"zip_code"`
}

// OrderItem is a purchased line. Name and unit price are snapshots taken
// at checkout so later catalog edits do not rewrite history.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	SellerID  string  `json:"seller_id" bson:"seller_id"`
	Name      string  `json:"name" bson:"name"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	ImageURL  string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// Order is the purchase aggregate. Reference is the human-facing id used
// in APIs and by couriers; ID stays internal.
type Order struct {
	ID             string          `json:"id" bson:"_id,omitempty"`
	Reference      string          `json:"reference" bson:"reference"`
	CustomerID     string          `json:"customer_id" bson:"customer_id"`
	Items          []OrderItem     `json:"items" bson:"items"`
	Total          float64         `json:"total" bson:"total"`
	ShippingFee    float64         `json:"shipping_fee" bson:"shipping_fee"`
	Shipping       ShippingAddress `json:"shipping" bson:"shipping"`
	PaymentMethod  string          `json:"payment_method" bson:"payment_method"`
	Status         OrderStatus     `json:"status" bson:"status"`
	DeliveryStatus DeliveryStatus  `json:"delivery_status" bson:"delivery_status"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at"`
}

// SellerItems returns the order lines belonging to one seller.
func (o *Order) SellerItems(sellerID string) []OrderItem {
	var items []OrderItem
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			items = append(items, it)
		}
	}
	return items
}

// InvolvesSeller reports whether any line of the order belongs to the seller.
func (o *Order) InvolvesSeller(sellerID string) bool {
	return len(o.SellerItems(sellerID)) > 0
}
