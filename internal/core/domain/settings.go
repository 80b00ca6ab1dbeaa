package domain

import "time"

// StoreSettings is the singleton storefront configuration managed by admins.
type StoreSettings struct {
	StoreName             string    `json:"store_name" bson:"store_name"`
	SupportEmail          string    `json:"support_email" bson:"support_email"`
	Currency              string    `json:"currency" bson:"currency"`
	ShippingFee           float64   `json:"shipping_fee" bson:"shipping_fee"`
	FreeShippingThreshold float64   `json:"free_shipping_threshold" bson:"free_shipping_threshold"`
	MaintenanceMode       bool      `json:"maintenance_mode" bson:"maintenance_mode"`
	UpdatedAt             time.Time `json:"updated_at" bson:"updated_at"`
}

// DefaultStoreSettings are the values used until an admin edits the store.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		StoreName:             "Cart Galaxy",
		SupportEmail:          "support@cartgalaxy.example",
		Currency:              "USD",
		ShippingFee:           4.99,
		FreeShippingThreshold: 50,
	}
}
