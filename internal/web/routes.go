package web

import "github.com/ali-ezz/web-cart-galaxy/internal/core/domain"

// Route is one entry in the page table. Roles empty means any
// authenticated caller; EntryPoint marks the pages that bounce an
// already-authenticated visitor to their dashboard.
type Route struct {
	Path         string
	RequiresAuth bool
	Roles        []domain.Role
	EntryPoint   bool
}

// Pages is the full page table served by the shell router.
var Pages = []Route{
	{Path: "/", EntryPoint: true},
	{Path: "/login", EntryPoint: true},
	{Path: "/register", EntryPoint: true},
	{Path: "/welcome"},
	{Path: "/product/:id"},
	{Path: "/category/:category"},
	{Path: "/cart"},
	{Path: "/account", RequiresAuth: true},
	{Path: "/home", RequiresAuth: true, Roles: []domain.Role{domain.RoleCustomer}},
	{Path: "/wishlist", RequiresAuth: true, Roles: []domain.Role{domain.RoleCustomer}},
	{Path: "/seller", RequiresAuth: true, Roles: []domain.Role{domain.RoleSeller}},
	{Path: "/delivery", RequiresAuth: true, Roles: []domain.Role{domain.RoleDelivery}},
	{Path: "/admin", RequiresAuth: true, Roles: []domain.Role{domain.RoleAdmin}},
}

// DashboardPath maps a resolved role to its canonical landing page.
// Unresolved roles land on the neutral welcome page.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin"
	case domain.RoleSeller:
		return "/seller"
	case domain.RoleDelivery:
		return "/delivery"
	case domain.RoleCustomer:
		return "/home"
	}
	return "/welcome"
}

func (r Route) allows(role domain.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if role == allowed {
			return true
		}
	}
	return false
}
