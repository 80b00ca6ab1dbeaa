package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

const (
	roleProbeAttempts = 3
	roleProbeBaseWait = 100 * time.Millisecond
	roleProbeMaxWait  = 2 * time.Second
)

// SessionService resolves bearer tokens into terminal auth states. Token
// verification and the role probe run as one explicit sequence
// (AuthPending then RoleProbing) so no caller can observe a half-resolved
// identity and redirect prematurely.
type SessionService struct {
	roles     ports.RoleRepository
	jwtSecret string
	group     singleflight.Group
	logger    zerolog.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSessionService(roles ports.RoleRepository, jwtSecret string, logger zerolog.Logger) *SessionService {
	return &SessionService{
		roles:     roles,
		jwtSecret: jwtSecret,
		logger:    logger,
		sleep:     sleepCtx,
	}
}

// Resolve walks the session machine for one request. Guests resolve Ready
// and unauthenticated; a missing role row resolves Ready with an
// unresolved role; only a role store that keeps failing resolves Error.
// An invalid or expired token resolves as a guest carrying the parse
// error, letting API middleware reject it while page routes fall back to
// the login redirect.
func (s *SessionService) Resolve(ctx context.Context, token string) domain.AuthState {
	if token == "" {
		return domain.Guest()
	}

	user, err := s.verifyToken(token)
	if err != nil {
		out := domain.Guest()
		out.Err = fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
		return out
	}

	role, err := s.probeRole(ctx, user.ID)
	if err != nil {
		metrics.RoleProbeFailuresTotal.Inc()
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("role resolution exhausted retries")
		return domain.AccountError(user, domain.ErrRoleUnavailable)
	}

	return domain.Ready(user, role)
}

// verifyToken checks the signature and expiry and rebuilds the identity
// from the claims. No database read happens here.
func (s *SessionService) verifyToken(tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = fmt.Errorf("invalid token")
		}
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("missing subject")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &domain.User{ID: sub, Email: email, Name: name}, nil
}

// probeRole queries the role store with bounded retries. Concurrent
// probes for the same user coalesce into a single store query, so a burst
// of requests after one state change produces one lookup and one
// consistent answer.
func (s *SessionService) probeRole(ctx context.Context, userID string) (domain.Role, error) {
	v, err, _ := s.group.Do("role:"+userID, func() (any, error) {
		var lastErr error
		for attempt := 0; attempt < roleProbeAttempts; attempt++ {
			if attempt > 0 {
				metrics.RoleProbeRetriesTotal.Inc()
				if err := s.sleep(ctx, probeBackoff(attempt)); err != nil {
					return domain.RoleUnresolved, err
				}
			}

			role, err := s.roles.Get(ctx, userID)
			if err == nil {
				return role, nil
			}
			lastErr = err
			s.logger.Warn().Err(err).Str("user_id", userID).Int("attempt", attempt+1).Msg("role probe failed")
		}
		return domain.RoleUnresolved, lastErr
	})
	if err != nil {
		return domain.RoleUnresolved, err
	}
	return v.(domain.Role), nil
}

// probeBackoff doubles the base delay per attempt, capped.
func probeBackoff(attempt int) time.Duration {
	d := roleProbeBaseWait << (attempt - 1)
	if d > roleProbeMaxWait {
		return roleProbeMaxWait
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
