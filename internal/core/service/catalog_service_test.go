package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

type catalogTestEnv struct {
	svc       *CatalogService
	products  *stubProductRepo
	reviews   *stubReviewRepo
	wishlists *stubWishlistRepo
	search    *stubSearchIndex
}

func newCatalogTestEnv() *catalogTestEnv {
	products := newStubProductRepo()
	reviews := newStubReviewRepo()
	wishlists := newStubWishlistRepo()
	search := &stubSearchIndex{}
	svc := NewCatalogService(products, &stubCategoryRepo{}, reviews, wishlists, search, discardLogger)
	return &catalogTestEnv{svc: svc, products: products, reviews: reviews, wishlists: wishlists, search: search}
}

func (e *catalogTestEnv) seedCatalog() {
	e.products.seed(&domain.Product{ID: "p-1", SellerID: "s-1", Name: "Walnut Desk", Category: "furniture", Price: 400, Stock: 3})
	e.products.seed(&domain.Product{ID: "p-2", SellerID: "s-1", Name: "Desk Lamp", Category: "lighting", Price: 35, Stock: 12})
	e.products.seed(&domain.Product{ID: "p-3", SellerID: "s-2", Name: "Floor Lamp", Category: "lighting", Price: 80, Stock: 7})
}

// ---------------------------------------------------------------------------
// ListProducts
// ---------------------------------------------------------------------------

func TestCatalogService_ListProducts_Filters(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()

	page, err := env.svc.ListProducts(context.Background(), ports.ProductFilter{Category: "lighting"})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(page.Items) != 2 || page.Total != 2 {
		t.Fatalf("page = %+v, want both lighting products", page)
	}

	page, err = env.svc.ListProducts(context.Background(), ports.ProductFilter{SellerID: "s-2"})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "p-3" {
		t.Fatalf("page = %+v, want only s-2's product", page)
	}
}

func TestCatalogService_ListProducts_UsesSearchIndex(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()
	env.search.results = []string{"p-3", "p-2"}

	page, err := env.svc.ListProducts(context.Background(), ports.ProductFilter{Query: "lamp"})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(env.search.queries) != 1 || env.search.queries[0] != "lamp" {
		t.Fatalf("search queries = %v, want the index consulted", env.search.queries)
	}
	// Result order follows index relevance, not repository order.
	if len(page.Items) != 2 || page.Items[0].ID != "p-3" || page.Items[1].ID != "p-2" {
		t.Fatalf("items = %+v, want index ranking preserved", page.Items)
	}
}

func TestCatalogService_ListProducts_SearchFallsBackToRepository(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()
	env.search.searchErr = errors.New("elasticsearch down")

	page, err := env.svc.ListProducts(context.Background(), ports.ProductFilter{Query: "lamp"})
	if err != nil {
		t.Fatalf("ListProducts() error = %v, want repository fallback", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %+v, want both lamps via repository match", page.Items)
	}
}

func TestCatalogService_ListProducts_CapsLimit(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()

	page, err := env.svc.ListProducts(context.Background(), ports.ProductFilter{Page: -3, Limit: 10_000})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if page.Page != 1 || page.Limit != maxPageLimit {
		t.Fatalf("page/limit = %d/%d, want normalized to 1/%d", page.Page, page.Limit, maxPageLimit)
	}
}

// ---------------------------------------------------------------------------
// Product CRUD
// ---------------------------------------------------------------------------

func TestCatalogService_CreateProduct(t *testing.T) {
	env := newCatalogTestEnv()

	p, err := env.svc.CreateProduct(context.Background(), ports.ProductInput{
		SellerID: "s-1",
		Name:     "Ceramic Vase",
		Category: "decor",
		Price:    25,
		Stock:    10,
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated product id")
	}
	if env.products.byID[p.ID] == nil {
		t.Fatal("product not persisted")
	}
	if len(env.search.indexed) != 1 || env.search.indexed[0] != p.ID {
		t.Fatalf("indexed = %v, want the new product indexed", env.search.indexed)
	}
}

func TestCatalogService_CreateProduct_InvalidPricing(t *testing.T) {
	env := newCatalogTestEnv()

	cases := []struct {
		name  string
		input ports.ProductInput
	}{
		{"zero price", ports.ProductInput{SellerID: "s-1", Name: "X", Price: 0, Stock: 1}},
		{"negative price", ports.ProductInput{SellerID: "s-1", Name: "X", Price: -5, Stock: 1}},
		{"discount above price", ports.ProductInput{SellerID: "s-1", Name: "X", Price: 10, DiscountPrice: ptrFloat(12), Stock: 1}},
		{"discount equals price", ports.ProductInput{SellerID: "s-1", Name: "X", Price: 10, DiscountPrice: ptrFloat(10), Stock: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.svc.CreateProduct(context.Background(), tc.input); !errors.Is(err, domain.ErrInvalidPrice) {
				t.Fatalf("CreateProduct() error = %v, want ErrInvalidPrice", err)
			}
		})
	}
}

func TestCatalogService_UpdateProduct_OwnershipEnforced(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()

	_, err := env.svc.UpdateProduct(context.Background(), "p-1", ports.ProductInput{
		SellerID: "s-2",
		Name:     "Hijacked Desk",
		Price:    1,
		Stock:    1,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("UpdateProduct() error = %v, want ErrForbidden", err)
	}
	if env.products.byID["p-1"].Name != "Walnut Desk" {
		t.Fatal("foreign update must not change the product")
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	env := newCatalogTestEnv()
	env.products.seed(&domain.Product{ID: "p-1", SellerID: "s-1", Name: "Walnut Desk", Category: "furniture", Price: 400, Stock: 3, ImageURL: "https://img.example/desk.jpg"})

	updated, err := env.svc.UpdateProduct(context.Background(), "p-1", ports.ProductInput{
		SellerID: "s-1",
		Name:     "Walnut Desk XL",
		Category: "furniture",
		Price:    450,
		Stock:    2,
	})
	if err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	if updated.Name != "Walnut Desk XL" || updated.Price != 450 {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.ImageURL != "https://img.example/desk.jpg" {
		t.Fatal("empty image input must keep the stored image")
	}
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()

	if err := env.svc.DeleteProduct(context.Background(), "p-1", "s-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("DeleteProduct(foreign) error = %v, want ErrForbidden", err)
	}

	if err := env.svc.DeleteProduct(context.Background(), "p-1", "s-1"); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}
	if _, ok := env.products.byID["p-1"]; ok {
		t.Fatal("product still stored after delete")
	}
	if len(env.search.removed) != 1 || env.search.removed[0] != "p-1" {
		t.Fatalf("removed from index = %v, want p-1", env.search.removed)
	}
}

// ---------------------------------------------------------------------------
// Reviews
// ---------------------------------------------------------------------------

func TestCatalogService_AddReview_FoldsRating(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()

	if _, err := env.svc.AddReview(context.Background(), ports.ReviewInput{
		ProductID: "p-1", UserID: "u-1", UserName: "One", Rating: 5, Comment: "solid",
	}); err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}
	if _, err := env.svc.AddReview(context.Background(), ports.ReviewInput{
		ProductID: "p-1", UserID: "u-2", UserName: "Two", Rating: 3,
	}); err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	p := env.products.byID["p-1"]
	if p.ReviewCount != 2 || p.Rating != 4 {
		t.Fatalf("product rating = %v over %d reviews, want 4 over 2", p.Rating, p.ReviewCount)
	}

	reviews, err := env.svc.ListReviews(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("ListReviews() error = %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("reviews = %d, want 2", len(reviews))
	}
}

func TestCatalogService_AddReview_OnePerCustomer(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()

	if _, err := env.svc.AddReview(context.Background(), ports.ReviewInput{ProductID: "p-1", UserID: "u-1", Rating: 5}); err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}
	_, err := env.svc.AddReview(context.Background(), ports.ReviewInput{ProductID: "p-1", UserID: "u-1", Rating: 1})
	if !errors.Is(err, domain.ErrDuplicateReview) {
		t.Fatalf("second AddReview() error = %v, want ErrDuplicateReview", err)
	}
}

func TestCatalogService_AddReview_UnknownProduct(t *testing.T) {
	env := newCatalogTestEnv()

	_, err := env.svc.AddReview(context.Background(), ports.ReviewInput{ProductID: "ghost", UserID: "u-1", Rating: 4})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("AddReview() error = %v, want ErrProductNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Wishlist
// ---------------------------------------------------------------------------

func TestCatalogService_Wishlist(t *testing.T) {
	env := newCatalogTestEnv()
	env.seedCatalog()

	if err := env.svc.AddToWishlist(context.Background(), "u-1", "p-2"); err != nil {
		t.Fatalf("AddToWishlist() error = %v", err)
	}
	if err := env.svc.AddToWishlist(context.Background(), "u-1", "p-3"); err != nil {
		t.Fatalf("AddToWishlist() error = %v", err)
	}

	got, err := env.svc.Wishlist(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Wishlist() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("wishlist = %d products, want 2", len(got))
	}

	if err := env.svc.RemoveFromWishlist(context.Background(), "u-1", "p-2"); err != nil {
		t.Fatalf("RemoveFromWishlist() error = %v", err)
	}
	got, err = env.svc.Wishlist(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Wishlist() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "p-3" {
		t.Fatalf("wishlist = %+v, want only p-3", got)
	}
}

func TestCatalogService_AddToWishlist_UnknownProduct(t *testing.T) {
	env := newCatalogTestEnv()

	err := env.svc.AddToWishlist(context.Background(), "u-1", "ghost")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("AddToWishlist() error = %v, want ErrProductNotFound", err)
	}
}
