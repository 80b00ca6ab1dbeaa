package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

const maxPageLimit = 100

// CatalogService implements product browsing, seller catalog management,
// reviews and wishlists. The search index is optional: when absent or
// failing, text queries fall back to the repository.
type CatalogService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	reviews    ports.ReviewRepository
	wishlists  ports.WishlistRepository
	search     ports.SearchIndex
	logger     zerolog.Logger
}

func NewCatalogService(
	products ports.ProductRepository,
	categories ports.CategoryRepository,
	reviews ports.ReviewRepository,
	wishlists ports.WishlistRepository,
	search ports.SearchIndex,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		reviews:    reviews,
		wishlists:  wishlists,
		search:     search,
		logger:     logger,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ListProducts returns a catalog page. A text query tries the search
// index first and degrades to the repository filter on any index error.
func (s *CatalogService) ListProducts(ctx context.Context, filter ports.ProductFilter) (*ports.ProductPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	if filter.Query != "" && s.search != nil {
		ids, err := s.search.Search(ctx, filter.Query, filter.Limit)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", filter.Query).Msg("search index unavailable, falling back to repository")
		} else {
			items, err := s.products.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &ports.ProductPage{
				Items:      items,
				Total:      int64(len(items)),
				Page:       1,
				Limit:      filter.Limit,
				TotalPages: 1,
			}, nil
		}
	}

	items, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ProductPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// CreateProduct adds a product to the seller's catalog and indexes it.
func (s *CatalogService) CreateProduct(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	if err := validatePricing(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            uuid.NewString(),
		SellerID:      input.SellerID,
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Stock:         input.Stock,
		ImageURL:      input.ImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.indexProduct(ctx, product)
	s.logger.Info().Str("product_id", product.ID).Str("seller_id", product.SellerID).Msg("product created")
	return product, nil
}

// UpdateProduct rewrites the seller's product. Only the owner may mutate.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ports.ProductInput) (*domain.Product, error) {
	if err := validatePricing(input); err != nil {
		return nil, err
	}

	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.SellerID != input.SellerID {
		return nil, domain.ErrForbidden
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Category = input.Category
	existing.Price = input.Price
	existing.DiscountPrice = input.DiscountPrice
	existing.Stock = input.Stock
	if input.ImageURL != "" {
		existing.ImageURL = input.ImageURL
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.indexProduct(ctx, existing)
	return existing, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id, sellerID string) error {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.SellerID != sellerID {
		return domain.ErrForbidden
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.Remove(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("product_id", id).Msg("failed to remove product from search index")
		}
	}
	s.logger.Info().Str("product_id", id).Str("seller_id", sellerID).Msg("product deleted")
	return nil
}

func (s *CatalogService) ListReviews(ctx context.Context, productID string) ([]*domain.Review, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviews.ListByProduct(ctx, productID)
}

// AddReview stores one review per user per product and folds the rating
// into the product's cached average.
func (s *CatalogService) AddReview(ctx context.Context, input ports.ReviewInput) (*domain.Review, error) {
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.NewString(),
		ProductID: input.ProductID,
		UserID:    input.UserID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.products.ApplyReview(ctx, input.ProductID, input.Rating); err != nil {
		s.logger.Warn().Err(err).Str("product_id", input.ProductID).Msg("failed to update rating cache")
	}

	return review, nil
}

func (s *CatalogService) Wishlist(ctx context.Context, userID string) ([]*domain.Product, error) {
	entries, err := s.wishlists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	return s.products.FindByIDs(ctx, ids)
}

// AddToWishlist is idempotent: re-adding an existing entry is a no-op.
func (s *CatalogService) AddToWishlist(ctx context.Context, userID, productID string) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.wishlists.Add(ctx, &domain.WishlistItem{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now().UTC(),
	})
}

func (s *CatalogService) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	return s.wishlists.Remove(ctx, userID, productID)
}

// indexProduct pushes the product to the search index, logging instead of
// failing when the index is down.
func (s *CatalogService) indexProduct(ctx context.Context, p *domain.Product) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(ctx, p); err != nil {
		s.logger.Warn().Err(err).Str("product_id", p.ID).Msg("failed to index product")
	}
}

func validatePricing(input ports.ProductInput) error {
	if input.Price <= 0 {
		return domain.ErrInvalidPrice
	}
	if input.DiscountPrice != nil && (*input.DiscountPrice <= 0 || *input.DiscountPrice >= input.Price) {
		return domain.ErrInvalidPrice
	}
	return nil
}
