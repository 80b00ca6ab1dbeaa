package web

import (
	"net/url"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// Outcome is the resolver's verdict for one request.
type Outcome int

const (
	// Render serves the requested page.
	Render Outcome = iota
	// Redirect 302s to Decision.Location.
	Redirect
	// AccountIssue renders the account-problem page in place. No
	// redirect: a broken role lookup must not start a redirect loop.
	AccountIssue
)

// RedirectTarget classifies a redirect for metrics.
type RedirectTarget string

const (
	TargetLogin     RedirectTarget = "login"
	TargetWelcome   RedirectTarget = "welcome"
	TargetDashboard RedirectTarget = "dashboard"
)

// Decision is the single routing decision for one (state, route) pair.
type Decision struct {
	Outcome  Outcome
	Location string
	Target   RedirectTarget
}

// Decide applies the redirect policy. It is a pure function of the
// resolved auth state and the route: the same inputs always produce the
// same single decision, so a burst of requests triggered by one state
// change cannot fan out into a redirect storm.
//
// Order matters:
//  1. error state renders the account-issue page in place,
//  2. auth-required routes send guests to login with the origin preserved,
//  3. role-gated routes send wrong or unresolved roles to welcome,
//  4. entry points bounce authenticated visitors to their dashboard,
//  5. everything else renders.
func Decide(state domain.AuthState, route Route, requestPath string) Decision {
	if state.Phase == domain.PhaseError {
		return Decision{Outcome: AccountIssue}
	}

	if route.RequiresAuth && !state.Authenticated {
		return Decision{
			Outcome:  Redirect,
			Location: "/login?next=" + url.QueryEscape(requestPath),
			Target:   TargetLogin,
		}
	}

	if len(route.Roles) > 0 && !route.allows(state.Role) {
		return Decision{Outcome: Redirect, Location: "/welcome", Target: TargetWelcome}
	}

	if route.EntryPoint && state.Authenticated {
		if !state.RoleKnown() {
			return Decision{Outcome: Redirect, Location: "/welcome", Target: TargetWelcome}
		}
		return Decision{Outcome: Redirect, Location: DashboardPath(state.Role), Target: TargetDashboard}
	}

	return Decision{Outcome: Render}
}
