package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/rs/zerolog"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// user repository stub
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	order     []string
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (s *stubUserRepo) seed(u *domain.User) {
	s.byID[u.ID] = cloneUser(u)
	s.order = append(s.order, u.ID)
}

func (s *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	s.byID[u.ID] = cloneUser(u)
	s.order = append(s.order, u.ID)
	return cloneUser(u), nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := s.byID[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (s *stubUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	start := (page - 1) * limit
	if start > len(s.order) {
		start = len(s.order)
	}
	end := start + limit
	if end > len(s.order) {
		end = len(s.order)
	}
	out := make([]*domain.User, 0, end-start)
	for _, id := range s.order[start:end] {
		out = append(out, cloneUser(s.byID[id]))
	}
	return out, int64(len(s.order)), nil
}

func (s *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.byID)), nil
}

func (s *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

// ---------------------------------------------------------------------------
// role repository stub
// ---------------------------------------------------------------------------

type stubRoleRepo struct {
	roles     map[string]domain.Role
	getErr    error
	failGets  int
	getCalls  int
	upsertErr error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]domain.Role)}
}

func (s *stubRoleRepo) Get(_ context.Context, userID string) (domain.Role, error) {
	s.getCalls++
	if s.failGets > 0 {
		s.failGets--
		return domain.RoleUnresolved, fmt.Errorf("role lookup unavailable")
	}
	if s.getErr != nil {
		return domain.RoleUnresolved, s.getErr
	}
	role, ok := s.roles[userID]
	if !ok {
		return domain.RoleUnresolved, nil
	}
	return role, nil
}

func (s *stubRoleRepo) Upsert(_ context.Context, userID string, role domain.Role) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.roles[userID] = role
	return nil
}

func (s *stubRoleRepo) GetMany(_ context.Context, userIDs []string) (map[string]domain.Role, error) {
	out := make(map[string]domain.Role, len(userIDs))
	for _, id := range userIDs {
		if role, ok := s.roles[id]; ok {
			out[id] = role
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// profile repository stub
// ---------------------------------------------------------------------------

type stubProfileRepo struct {
	byUser    map[string]*domain.Profile
	upsertErr error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byUser: make(map[string]*domain.Profile)}
}

func (s *stubProfileRepo) Upsert(_ context.Context, p *domain.Profile) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	cp := *p
	s.byUser[p.UserID] = &cp
	return nil
}

func (s *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := s.byUser[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProfileRepo) FindByUserIDs(_ context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	out := make(map[string]*domain.Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.byUser[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *stubProfileRepo) SetOnline(_ context.Context, userID string, online bool) error {
	p, ok := s.byUser[userID]
	if !ok {
		p = &domain.Profile{UserID: userID}
		s.byUser[userID] = p
	}
	p.Online = online
	return nil
}

// ---------------------------------------------------------------------------
// product repository stub
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	byID      map[string]*domain.Product
	order     []string
	listErr   error
	reviewed  []string
	createErr error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (s *stubProductRepo) seed(p *domain.Product) {
	s.byID[p.ID] = cloneProduct(p)
	s.order = append(s.order, p.ID)
}

func (s *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.byID[p.ID] = cloneProduct(p)
	s.order = append(s.order, p.ID)
	return nil
}

func (s *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := s.byID[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	s.byID[p.ID] = cloneProduct(p)
	return nil
}

func (s *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.byID, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (s *stubProductRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (s *stubProductRepo) List(_ context.Context, filter ports.ProductFilter) ([]*domain.Product, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	matched := make([]*domain.Product, 0)
	for _, id := range s.order {
		p := s.byID[id]
		if !matchesFilter(p, filter) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}
	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.byID)), nil
}

func (s *stubProductRepo) ApplyReview(_ context.Context, productID string, rating int) error {
	p, ok := s.byID[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	total := p.Rating*float64(p.ReviewCount) + float64(rating)
	p.ReviewCount++
	p.Rating = total / float64(p.ReviewCount)
	s.reviewed = append(s.reviewed, productID)
	return nil
}

func matchesFilter(p *domain.Product, filter ports.ProductFilter) bool {
	if filter.Category != "" && p.Category != filter.Category {
		return false
	}
	if filter.SellerID != "" && p.SellerID != filter.SellerID {
		return false
	}
	if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
		return false
	}
	return true
}

func cloneProduct(p *domain.Product) *domain.Product {
	cp := *p
	if p.DiscountPrice != nil {
		v := *p.DiscountPrice
		cp.DiscountPrice = &v
	}
	return &cp
}

// ---------------------------------------------------------------------------
// category, review and wishlist stubs
// ---------------------------------------------------------------------------

type stubCategoryRepo struct {
	categories []*domain.Category
}

func (s *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c *domain.Category) error {
	for i, existing := range s.categories {
		if existing.Name == c.Name {
			cp := *c
			s.categories[i] = &cp
			return nil
		}
	}
	cp := *c
	s.categories = append(s.categories, &cp)
	return nil
}

type stubReviewRepo struct {
	byProduct map[string][]domain.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{byProduct: make(map[string][]domain.Review)}
}

func (s *stubReviewRepo) Create(_ context.Context, r *domain.Review) error {
	for _, existing := range s.byProduct[r.ProductID] {
		if existing.UserID == r.UserID {
			return domain.ErrDuplicateReview
		}
	}
	s.byProduct[r.ProductID] = append(s.byProduct[r.ProductID], *r)
	return nil
}

func (s *stubReviewRepo) ListByProduct(_ context.Context, productID string) ([]*domain.Review, error) {
	out := make([]*domain.Review, 0, len(s.byProduct[productID]))
	for _, r := range s.byProduct[productID] {
		cp := r
		out = append(out, &cp)
	}
	return out, nil
}

type stubWishlistRepo struct {
	byUser map[string][]string
}

func newStubWishlistRepo() *stubWishlistRepo {
	return &stubWishlistRepo{byUser: make(map[string][]string)}
}

func (s *stubWishlistRepo) Add(_ context.Context, item *domain.WishlistItem) error {
	for _, id := range s.byUser[item.UserID] {
		if id == item.ProductID {
			return nil
		}
	}
	s.byUser[item.UserID] = append(s.byUser[item.UserID], item.ProductID)
	return nil
}

func (s *stubWishlistRepo) Remove(_ context.Context, userID, productID string) error {
	ids := s.byUser[userID]
	for i, id := range ids {
		if id == productID {
			s.byUser[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubWishlistRepo) ListByUser(_ context.Context, userID string) ([]*domain.WishlistItem, error) {
	out := make([]*domain.WishlistItem, 0, len(s.byUser[userID]))
	for _, id := range s.byUser[userID] {
		out = append(out, &domain.WishlistItem{UserID: userID, ProductID: id})
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// search index stub
// ---------------------------------------------------------------------------

type stubSearchIndex struct {
	results   []string
	searchErr error
	queries   []string
	indexed   []string
	removed   []string
}

func (s *stubSearchIndex) Index(_ context.Context, p *domain.Product) error {
	s.indexed = append(s.indexed, p.ID)
	return nil
}

func (s *stubSearchIndex) Remove(_ context.Context, productID string) error {
	s.removed = append(s.removed, productID)
	return nil
}

func (s *stubSearchIndex) Search(_ context.Context, query string, limit int) ([]string, error) {
	s.queries = append(s.queries, query)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if len(s.results) > limit {
		return s.results[:limit], nil
	}
	return s.results, nil
}

// ---------------------------------------------------------------------------
// cart store stub
// ---------------------------------------------------------------------------

type stubCartStore struct {
	carts   map[string]*domain.Cart
	saveErr error
	deleted []string
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[string]*domain.Cart)}
}

func (s *stubCartStore) Get(_ context.Context, userID string) (*domain.Cart, error) {
	c, ok := s.carts[userID]
	if !ok {
		return &domain.Cart{UserID: userID}, nil
	}
	return cloneCart(c), nil
}

func (s *stubCartStore) Save(_ context.Context, c *domain.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.carts[c.UserID] = cloneCart(c)
	return nil
}

func (s *stubCartStore) Delete(_ context.Context, userID string) error {
	delete(s.carts, userID)
	s.deleted = append(s.deleted, userID)
	return nil
}

func cloneCart(c *domain.Cart) *domain.Cart {
	cp := *c
	cp.Items = make([]domain.CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	for i := range cp.Items {
		if c.Items[i].DiscountPrice != nil {
			v := *c.Items[i].DiscountPrice
			cp.Items[i].DiscountPrice = &v
		}
	}
	return &cp
}

// ---------------------------------------------------------------------------
// order repository stub
//
// Shares the product stub so stock deduction behaves like the transactional
// repository: all lines are checked before any stock is touched.
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	products  *stubProductRepo
	byRef     map[string]*domain.Order
	refs      []string
	createErr error
	listErr   error
	listCalls int
	failLists int
}

func newStubOrderRepo(products *stubProductRepo) *stubOrderRepo {
	return &stubOrderRepo{products: products, byRef: make(map[string]*domain.Order)}
}

func (s *stubOrderRepo) seed(o *domain.Order) {
	s.byRef[o.Reference] = cloneOrder(o)
	s.refs = append(s.refs, o.Reference)
}

func (s *stubOrderRepo) CreateWithStockDeduction(_ context.Context, o *domain.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, it := range o.Items {
		p, ok := s.products.byID[it.ProductID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if p.Stock < it.Quantity {
			return fmt.Errorf("product %q: %w", it.Name, domain.ErrInsufficientStock)
		}
	}
	for _, it := range o.Items {
		s.products.byID[it.ProductID].Stock -= it.Quantity
	}
	s.byRef[o.Reference] = cloneOrder(o)
	s.refs = append(s.refs, o.Reference)
	return nil
}

func (s *stubOrderRepo) FindByReference(_ context.Context, reference string) (*domain.Order, error) {
	o, ok := s.byRef[reference]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (s *stubOrderRepo) ListByCustomer(_ context.Context, customerID string, page, limit int) ([]*domain.Order, int64, error) {
	matched := make([]*domain.Order, 0)
	for _, ref := range s.refs {
		if o := s.byRef[ref]; o.CustomerID == customerID {
			matched = append(matched, cloneOrder(o))
		}
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *stubOrderRepo) ListBySeller(_ context.Context, sellerID string, status domain.OrderStatus) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0)
	for _, ref := range s.refs {
		o := s.byRef[ref]
		if !o.InvolvesSeller(sellerID) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (s *stubOrderRepo) ListAvailableForDelivery(_ context.Context) ([]*domain.Order, error) {
	s.listCalls++
	if s.failLists > 0 {
		s.failLists--
		return nil, fmt.Errorf("orders unavailable")
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*domain.Order, 0)
	for _, ref := range s.refs {
		o := s.byRef[ref]
		if o.Status == domain.OrderPaid && o.DeliveryStatus == domain.DeliveryPending {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (s *stubOrderRepo) List(_ context.Context, page, limit int) ([]*domain.Order, int64, error) {
	total := int64(len(s.refs))
	start := (page - 1) * limit
	if start > len(s.refs) {
		start = len(s.refs)
	}
	end := start + limit
	if end > len(s.refs) {
		end = len(s.refs)
	}
	out := make([]*domain.Order, 0, end-start)
	for _, ref := range s.refs[start:end] {
		out = append(out, cloneOrder(s.byRef[ref]))
	}
	return out, total, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, reference string, status domain.OrderStatus) error {
	o, ok := s.byRef[reference]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (s *stubOrderRepo) UpdateDeliveryStatus(_ context.Context, reference string, status domain.DeliveryStatus) error {
	o, ok := s.byRef[reference]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.DeliveryStatus = status
	return nil
}

func (s *stubOrderRepo) CountByStatus(_ context.Context) (map[domain.OrderStatus]int64, error) {
	out := make(map[domain.OrderStatus]int64)
	for _, o := range s.byRef {
		out[o.Status]++
	}
	return out, nil
}

func (s *stubOrderRepo) Revenue(_ context.Context) (float64, error) {
	var total float64
	for _, o := range s.byRef {
		if o.Status == domain.OrderPending || o.Status == domain.OrderCancelled {
			continue
		}
		total += o.Total
	}
	return total, nil
}

func (s *stubOrderRepo) Recent(_ context.Context, limit int) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, limit)
	for i := len(s.refs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneOrder(s.byRef[s.refs[i]]))
	}
	return out, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = make([]domain.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

// ---------------------------------------------------------------------------
// assignment repository stub
//
// Shares the order stub so Claim and UpdateStatus mirror the transactional
// contract: claiming flips the order to assigned, delivering propagates the
// delivered state, and conflicts leave both sides untouched.
// ---------------------------------------------------------------------------

type stubAssignmentRepo struct {
	orders    *stubOrderRepo
	byID      map[string]*domain.DeliveryAssignment
	ids       []string
	claimErr  error
	updateErr error
}

func newStubAssignmentRepo(orders *stubOrderRepo) *stubAssignmentRepo {
	return &stubAssignmentRepo{orders: orders, byID: make(map[string]*domain.DeliveryAssignment)}
}

func (s *stubAssignmentRepo) Claim(_ context.Context, a *domain.DeliveryAssignment) error {
	if s.claimErr != nil {
		return s.claimErr
	}
	for _, existing := range s.byID {
		if existing.OrderReference == a.OrderReference {
			return domain.ErrOrderAlreadyAssigned
		}
	}
	o, ok := s.orders.byRef[a.OrderReference]
	if !ok || o.Status != domain.OrderPaid || o.DeliveryStatus != domain.DeliveryPending {
		return domain.ErrOrderNotAvailable
	}
	cp := *a
	s.byID[a.ID] = &cp
	s.ids = append(s.ids, a.ID)
	o.DeliveryStatus = domain.DeliveryAssigned
	return nil
}

func (s *stubAssignmentRepo) FindByID(_ context.Context, id string) (*domain.DeliveryAssignment, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *stubAssignmentRepo) FindByOrderReference(_ context.Context, reference string) (*domain.DeliveryAssignment, error) {
	for _, a := range s.byID {
		if a.OrderReference == reference {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAssignmentNotFound
}

func (s *stubAssignmentRepo) ListByCourier(_ context.Context, courierID string) ([]*domain.DeliveryAssignment, error) {
	out := make([]*domain.DeliveryAssignment, 0)
	for _, id := range s.ids {
		if a := s.byID[id]; a.CourierID == courierID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *stubAssignmentRepo) UpdateStatus(_ context.Context, id string, status domain.AssignmentStatus, notes string, deliveredAt *time.Time) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	a, ok := s.byID[id]
	if !ok {
		return domain.ErrAssignmentNotFound
	}
	a.Status = status
	if notes != "" {
		a.Notes = notes
	}
	if deliveredAt != nil {
		a.DeliveredAt = deliveredAt
	}
	if status == domain.AssignmentDelivered {
		if o, ok := s.orders.byRef[a.OrderReference]; ok {
			o.DeliveryStatus = domain.DeliveryComplete
		}
	}
	return nil
}

func (s *stubAssignmentRepo) CountByStatus(_ context.Context, courierID string) (map[domain.AssignmentStatus]int64, error) {
	out := make(map[domain.AssignmentStatus]int64)
	for _, a := range s.byID {
		if courierID != "" && a.CourierID != courierID {
			continue
		}
		out[a.Status]++
	}
	return out, nil
}

func (s *stubAssignmentRepo) RecentDelivered(_ context.Context, courierID string, limit int) ([]*domain.DeliveryAssignment, error) {
	delivered := make([]*domain.DeliveryAssignment, 0)
	for _, id := range s.ids {
		a := s.byID[id]
		if a.Status != domain.AssignmentDelivered {
			continue
		}
		if courierID != "" && a.CourierID != courierID {
			continue
		}
		cp := *a
		delivered = append(delivered, &cp)
	}
	sort.Slice(delivered, func(i, j int) bool {
		ti, tj := delivered[i].DeliveredAt, delivered[j].DeliveredAt
		if ti == nil || tj == nil {
			return tj == nil
		}
		return ti.After(*tj)
	})
	if len(delivered) > limit {
		delivered = delivered[:limit]
	}
	return delivered, nil
}

func (s *stubAssignmentRepo) ListWithPendingOrders(_ context.Context) ([]*domain.DeliveryAssignment, error) {
	out := make([]*domain.DeliveryAssignment, 0)
	for _, id := range s.ids {
		a := s.byID[id]
		o, ok := s.orders.byRef[a.OrderReference]
		if !ok {
			continue
		}
		if o.DeliveryStatus == domain.DeliveryPending {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// application and settings stubs
// ---------------------------------------------------------------------------

type stubApplicationRepo struct {
	byID      map[string]*domain.RoleApplication
	ids       []string
	createErr error
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{byID: make(map[string]*domain.RoleApplication)}
}

func (s *stubApplicationRepo) seed(a *domain.RoleApplication) {
	cp := *a
	s.byID[a.ID] = &cp
	s.ids = append(s.ids, a.ID)
}

func (s *stubApplicationRepo) Create(_ context.Context, a *domain.RoleApplication) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.byID {
		if existing.UserID == a.UserID && existing.Status == domain.ApplicationPending {
			return domain.ErrApplicationExists
		}
	}
	cp := *a
	s.byID[a.ID] = &cp
	s.ids = append(s.ids, a.ID)
	return nil
}

func (s *stubApplicationRepo) FindByID(_ context.Context, id string) (*domain.RoleApplication, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *stubApplicationRepo) ListByStatus(_ context.Context, status domain.ApplicationStatus) ([]*domain.RoleApplication, error) {
	out := make([]*domain.RoleApplication, 0)
	for _, id := range s.ids {
		if a := s.byID[id]; a.Status == status {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *stubApplicationRepo) SetStatus(_ context.Context, id string, status domain.ApplicationStatus, reviewedBy string, reviewedAt time.Time) error {
	a, ok := s.byID[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	a.Status = status
	a.ReviewedBy = reviewedBy
	a.ReviewedAt = &reviewedAt
	return nil
}

type stubSettingsRepo struct {
	settings *domain.StoreSettings
	getErr   error
}

func (s *stubSettingsRepo) Get(_ context.Context) (*domain.StoreSettings, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.settings == nil {
		def := domain.DefaultStoreSettings()
		return &def, nil
	}
	cp := *s.settings
	return &cp, nil
}

func (s *stubSettingsRepo) Update(_ context.Context, settings *domain.StoreSettings) error {
	cp := *settings
	s.settings = &cp
	return nil
}

// ---------------------------------------------------------------------------
// event pipeline stubs
// ---------------------------------------------------------------------------

type stubEventRepo struct {
	inserted  []domain.OrderEvent
	insertErr error
}

func (s *stubEventRepo) Insert(_ context.Context, e *domain.OrderEvent) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, *e)
	return nil
}

func (s *stubEventRepo) ListByReference(_ context.Context, reference string, limit int) ([]*domain.OrderEvent, error) {
	out := make([]*domain.OrderEvent, 0)
	for _, e := range s.inserted {
		if e.OrderReference == reference {
			cp := e
			out = append(out, &cp)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubDedup struct {
	seen    map[string]bool
	dupErr  error
	markErr error
	marked  []string
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (s *stubDedup) IsDuplicate(_ context.Context, eventID string) (bool, error) {
	if s.dupErr != nil {
		return false, s.dupErr
	}
	return s.seen[eventID], nil
}

func (s *stubDedup) Mark(_ context.Context, eventID string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.seen[eventID] = true
	s.marked = append(s.marked, eventID)
	return nil
}

type stubPublisher struct {
	events []domain.OrderEvent
}

func (s *stubPublisher) Publish(e domain.OrderEvent) {
	s.events = append(s.events, e)
}

func (s *stubPublisher) byKind(kind domain.EventKind) []domain.OrderEvent {
	out := make([]domain.OrderEvent, 0)
	for _, e := range s.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
