package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/logger"
)

type principalKey struct{}

// Principal is the authenticated caller
type Principal struct {
	UserID   uint
	Username string
	Role     string
}

// RoleAdmin passes every role check
const RoleAdmin = auth.RoleAdmin

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored by the auth middleware
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// TokenValidator is satisfied by *auth.TokenManager
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticator guards handlers with bearer tokens
type Authenticator struct {
	tokens TokenValidator
}

func NewAuthenticator(tokens TokenValidator) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate validates the bearer token and stores the principal in the request context
func (a *Authenticator) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			RespondError(w, r, apperror.Unauthorized("authorization header required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			RespondError(w, r, apperror.Unauthorized("invalid authorization header format"))
			return
		}

		claims, err := a.tokens.ValidateToken(parts[1])
		if err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Invalid token")
			RespondError(w, r, apperror.Unauthorized("invalid token"))
			return
		}

		ctx := WithPrincipal(r.Context(), Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRoles authenticates and then admits only the listed roles (admin always passes)
func (a *Authenticator) RequireRoles(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return a.Authenticate(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFrom(r.Context())
			if !hasRole(p.Role, roles) {
				logger.Warn(r.Context()).
					Str("username", p.Username).
					Str("role", p.Role).
					Msg("Access denied")
				RespondError(w, r, apperror.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasRole(role string, allowed []string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
