package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// AuthService implements registration, login and account management.
type AuthService struct {
	users     ports.UserRepository
	roles     ports.RoleRepository
	profiles  ports.ProfileRepository
	apps      ports.ApplicationRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	profiles ports.ProfileRepository,
	apps ports.ApplicationRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		roles:     roles,
		profiles:  profiles,
		apps:      apps,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates the account, its role row and its profile. Admin can
// never be self-selected; the role row is written immediately so new
// accounts land on their dashboard without a repair step.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := domain.Role(input.Role)
	if !role.Registerable() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.roles.Upsert(ctx, created.ID, role); err != nil {
		// The account exists but has no role row; the account-issue
		// repair path can finish the job.
		s.logger.Error().Err(err).Str("user_id", created.ID).Msg("failed to write role row at registration")
		return nil, fmt.Errorf("register: assign role: %w", err)
	}

	profile := &domain.Profile{
		UserID:    created.ID,
		Phone:     input.Phone,
		StoreName: input.StoreName,
		Vehicle:   input.Vehicle,
		UpdatedAt: now,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.logger.Warn().Err(err).Str("user_id", created.ID).Msg("failed to write profile at registration")
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a session token. The token
// carries identity only; the role is looked up per request so admin role
// changes apply without re-login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.Get(ctx, user.ID)
	if err != nil {
		// Login still succeeds; routing resolves the role on the next
		// request and owns the retry policy.
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("role lookup failed during login")
		role = domain.RoleUnresolved
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{Token: token, User: user, Role: role}, nil
}

// Account returns the caller's own account view.
func (s *AuthService) Account(ctx context.Context, userID string) (*ports.Account, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account: %w", domain.ErrRoleUnavailable)
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		profile = nil
	}

	return &ports.Account{
		User:         user,
		Role:         role,
		RoleResolved: role.Resolved(),
		Profile:      profile,
	}, nil
}

// UpdatePassword verifies the current password before storing a new hash.
func (s *AuthService) UpdatePassword(ctx context.Context, input ports.UpdatePasswordInput) error {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, input.UserID, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", input.UserID).Msg("password updated")
	return nil
}

// RepairRole writes the customer role for an account that has none. It is
// the explicit action behind the account-issue screen, never an implicit
// default.
func (s *AuthService) RepairRole(ctx context.Context, userID string) error {
	role, err := s.roles.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("repair role: %w", domain.ErrRoleUnavailable)
	}
	if role.Resolved() {
		return domain.ErrRoleAlreadySet
	}

	if err := s.roles.Upsert(ctx, userID, domain.RoleCustomer); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("missing role row repaired to customer")
	return nil
}

// ApplyForRole files a pending seller or delivery application for admin review.
func (s *AuthService) ApplyForRole(ctx context.Context, input ports.ApplyRoleInput) (*domain.RoleApplication, error) {
	requested := domain.Role(input.Role)
	if requested != domain.RoleSeller && requested != domain.RoleDelivery {
		return nil, domain.ErrInvalidRole
	}

	app := &domain.RoleApplication{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		RequestedRole: requested,
		StoreName:     input.StoreName,
		Vehicle:       input.Vehicle,
		Message:       input.Message,
		Status:        domain.ApplicationPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", input.UserID).Str("role", input.Role).Msg("role application filed")
	return app, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
