package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// AdminService implements the admin console operations.
type AdminService struct {
	users       ports.UserRepository
	roles       ports.RoleRepository
	profiles    ports.ProfileRepository
	orders      ports.OrderRepository
	products    ports.ProductRepository
	assignments ports.AssignmentRepository
	apps        ports.ApplicationRepository
	settings    ports.SettingsRepository
	delivery    ports.DeliveryService
	logger      zerolog.Logger
}

func NewAdminService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	profiles ports.ProfileRepository,
	orders ports.OrderRepository,
	products ports.ProductRepository,
	assignments ports.AssignmentRepository,
	apps ports.ApplicationRepository,
	settings ports.SettingsRepository,
	delivery ports.DeliveryService,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:       users,
		roles:       roles,
		profiles:    profiles,
		orders:      orders,
		products:    products,
		assignments: assignments,
		apps:        apps,
		settings:    settings,
		delivery:    delivery,
		logger:      logger,
	}
}

// Users lists accounts joined with role and profile. Accounts without a
// role row come back unresolved; the console shows them as such instead
// of pretending they are customers.
func (s *AdminService) Users(ctx context.Context, page, limit int) (*ports.UserAccountPage, error) {
	page, limit = normalizePage(page, limit)
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	roleByID, err := s.roles.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	profileByID, err := s.profiles.FindByUserIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("profile batch lookup failed, listing without profiles")
		profileByID = map[string]*domain.Profile{}
	}

	items := make([]ports.UserAccount, 0, len(users))
	for _, u := range users {
		role, resolved := roleByID[u.ID]
		items = append(items, ports.UserAccount{
			User:         u,
			Role:         role,
			RoleResolved: resolved,
			Profile:      profileByID[u.ID],
		})
	}

	return &ports.UserAccountPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateUserRole upserts the target's role row.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID, role string) error {
	next := domain.Role(role)
	if !next.Assignable() {
		return domain.ErrInvalidRole
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := s.roles.Upsert(ctx, userID, next); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Str("role", role).Msg("user role updated")
	return nil
}

// OrdersWithUsers pages through orders joined with purchaser identity.
func (s *AdminService) OrdersWithUsers(ctx context.Context, page, limit int) (*ports.OrderWithCustomerPage, error) {
	page, limit = normalizePage(page, limit)
	orders, total, err := s.orders.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.CustomerID)
	}
	userByID, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("customer batch lookup failed, listing without identities")
		userByID = map[string]*domain.User{}
	}

	items := make([]ports.OrderWithCustomer, 0, len(orders))
	for _, o := range orders {
		item := ports.OrderWithCustomer{Order: o}
		if u, ok := userByID[o.CustomerID]; ok {
			item.CustomerName = u.Name
			item.CustomerEmail = u.Email
		}
		items = append(items, item)
	}

	return &ports.OrderWithCustomerPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// AssignDelivery dispatches an order to a chosen courier through the same
// atomic claim path couriers use, so the one-assignment invariant holds
// no matter who assigns.
func (s *AdminService) AssignDelivery(ctx context.Context, adminID, orderReference, courierID string) (*domain.DeliveryAssignment, error) {
	role, err := s.roles.Get(ctx, courierID)
	if err != nil {
		return nil, domain.ErrRoleUnavailable
	}
	if role != domain.RoleDelivery {
		return nil, domain.ErrInvalidRole
	}

	return s.delivery.Claim(ctx, courierID, adminID, orderReference)
}

// Applications lists role applications, defaulting to the pending queue.
func (s *AdminService) Applications(ctx context.Context, status string) ([]*domain.RoleApplication, error) {
	st := domain.ApplicationStatus(status)
	if st == "" {
		st = domain.ApplicationPending
	}
	return s.apps.ListByStatus(ctx, st)
}

// ApproveApplication grants the requested role and closes the application.
func (s *AdminService) ApproveApplication(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error) {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, domain.ErrApplicationClosed
	}

	if err := s.roles.Upsert(ctx, app.UserID, app.RequestedRole); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.apps.SetStatus(ctx, app.ID, domain.ApplicationApproved, adminID, now); err != nil {
		// The role is already granted; a re-approve is harmless.
		s.logger.Error().Err(err).Str("application_id", app.ID).Msg("role granted but application not marked approved")
		return nil, err
	}

	app.Status = domain.ApplicationApproved
	app.ReviewedBy = adminID
	app.ReviewedAt = &now
	s.logger.Info().Str("application_id", app.ID).Str("user_id", app.UserID).Str("role", string(app.RequestedRole)).Msg("role application approved")
	return app, nil
}

// RejectApplication closes the application without touching roles.
func (s *AdminService) RejectApplication(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error) {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, domain.ErrApplicationClosed
	}

	now := time.Now().UTC()
	if err := s.apps.SetStatus(ctx, app.ID, domain.ApplicationRejected, adminID, now); err != nil {
		return nil, err
	}

	app.Status = domain.ApplicationRejected
	app.ReviewedBy = adminID
	app.ReviewedAt = &now
	s.logger.Info().Str("application_id", app.ID).Str("user_id", app.UserID).Msg("role application rejected")
	return app, nil
}

// Analytics builds the admin dashboard snapshot.
func (s *AdminService) Analytics(ctx context.Context) (*ports.Analytics, error) {
	out := &ports.Analytics{}

	var err error
	if out.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if out.OrdersByStatus, err = s.orders.CountByStatus(ctx); err != nil {
		return nil, err
	}
	for _, n := range out.OrdersByStatus {
		out.TotalOrders += n
	}
	if out.Revenue, err = s.orders.Revenue(ctx); err != nil {
		return nil, err
	}
	if out.AssignmentsByState, err = s.assignments.CountByStatus(ctx, ""); err != nil {
		return nil, err
	}
	if out.RecentOrders, err = s.orders.Recent(ctx, 5); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AdminService) StoreSettings(ctx context.Context) (*domain.StoreSettings, error) {
	return s.settings.Get(ctx)
}

func (s *AdminService) UpdateStoreSettings(ctx context.Context, input ports.UpdateSettingsInput) (*domain.StoreSettings, error) {
	next := &domain.StoreSettings{
		StoreName:             input.StoreName,
		SupportEmail:          input.SupportEmail,
		Currency:              input.Currency,
		ShippingFee:           input.ShippingFee,
		FreeShippingThreshold: input.FreeShippingThreshold,
		MaintenanceMode:       input.MaintenanceMode,
		UpdatedAt:             time.Now().UTC(),
	}

	if err := s.settings.Update(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info().Str("store_name", next.StoreName).Msg("store settings updated")
	return next, nil
}
