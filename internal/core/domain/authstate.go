package domain

import "errors"

// AuthPhase is the position of a request inside session resolution.
// Resolution always walks Init -> AuthPending -> RoleProbing and
// terminates in Ready or Error; handlers only ever observe the two
// terminal phases.
type AuthPhase int

const (
	PhaseInit AuthPhase = iota
	PhaseAuthPending
	PhaseRoleProbing
	PhaseReady
	PhaseError
)

func (p AuthPhase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseAuthPending:
		return "auth_pending"
	case PhaseRoleProbing:
		return "role_probing"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// ErrRoleUnavailable is returned when the role store keeps failing after
// the bounded retries. It marks an account-issue condition, not a 403.
var ErrRoleUnavailable = errors.New("role temporarily unavailable")

// AuthState is the terminal outcome of resolving one request's session.
// Guests are Ready with Authenticated=false. An authenticated state with
// an unresolved role means the account has no role row, which is a valid
// terminal state and never silently downgraded to customer.
type AuthState struct {
	Phase         AuthPhase
	Authenticated bool
	User          *User
	Role          Role
	Err           error
}

// Guest is the resolved state for requests without a valid session.
func Guest() AuthState {
	return AuthState{Phase: PhaseReady}
}

// Ready builds the resolved state for an authenticated user.
func Ready(u *User, role Role) AuthState {
	return AuthState{Phase: PhaseReady, Authenticated: true, User: u, Role: role}
}

// AccountError marks an authenticated session whose role could not be
// resolved after retries.
func AccountError(u *User, err error) AuthState {
	return AuthState{Phase: PhaseError, Authenticated: true, User: u, Err: err}
}

// RoleKnown reports whether the state carries a concrete role.
func (s AuthState) RoleKnown() bool {
	return s.Phase == PhaseReady && s.Authenticated && s.Role.Resolved()
}

// Is reports whether the state carries exactly the given role.
func (s AuthState) Is(role Role) bool {
	return s.RoleKnown() && s.Role == role
}
