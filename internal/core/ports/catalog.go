package ports

import (
	"context"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// ProductFilter carries the query parameters for listing products.
type ProductFilter struct {
	Category string // optional: exact category name
	SellerID string // optional: scope to one seller's catalog
	Query    string // optional: free-text search on name/description
	Page     int    // 1-based
	Limit    int    // capped at 100 by the service
}

// ProductRepository defines persistence for the product catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs returns the products matching ids, preserving the input
	// order and skipping missing ids.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
	Count(ctx context.Context) (int64, error)
	// ApplyReview folds a new rating into the product's cached average.
	ApplyReview(ctx context.Context, productID string, rating int) error
}

// CategoryRepository defines persistence for browse categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Upsert(ctx context.Context, c *domain.Category) error
}

// SearchIndex is the optional full-text index over products. Implementations
// must be safe to skip: catalog reads fall back to the repository when the
// index is unavailable.
type SearchIndex interface {
	Index(ctx context.Context, p *domain.Product) error
	Remove(ctx context.Context, productID string) error
	// Search returns matching product ids ranked by relevance.
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// ProductInput carries seller-submitted product fields.
type ProductInput struct {
	SellerID      string
	Name          string
	Description   string
	Category      string
	Price         float64
	DiscountPrice *float64
	Stock         int
	ImageURL      string
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ReviewInput carries a customer's product review.
type ReviewInput struct {
	ProductID string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
}

// CatalogService defines catalog use cases for buyers and sellers.
type CatalogService interface {
	ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)

	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id, sellerID string) error

	ListReviews(ctx context.Context, productID string) ([]*domain.Review, error)
	AddReview(ctx context.Context, input ReviewInput) (*domain.Review, error)

	Wishlist(ctx context.Context, userID string) ([]*domain.Product, error)
	AddToWishlist(ctx context.Context, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
}

// ReviewRepository defines persistence for product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
}

// WishlistRepository defines persistence for wishlist entries.
type WishlistRepository interface {
	Add(ctx context.Context, item *domain.WishlistItem) error
	Remove(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.WishlistItem, error)
}
