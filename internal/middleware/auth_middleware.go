package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"social-go/internal/auth"
	"social-go/internal/config"
	"social-go/internal/storage"
)

// contextKey is a private type for context values to avoid key collisions.
type contextKey string

// UserIDKey is the context key holding the authenticated user's ID.
const UserIDKey contextKey = "userID"

// UsernameKey is the context key holding the authenticated user's name.
const UsernameKey contextKey = "username"

// ClaimsKey is the context key holding the verified JWT claims.
const ClaimsKey contextKey = "claims"

// Authenticator verifies bearer tokens and loads the account behind
// them. Its two middlewares differ only in how they treat requests that
// carry no usable identity.
type Authenticator struct {
	userRepo  storage.UserRepository
	blacklist auth.TokenBlacklist
	authCfg   config.AuthConfig
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(userRepo storage.UserRepository, blacklist auth.TokenBlacklist, authCfg config.AuthConfig) *Authenticator {
	return &Authenticator{userRepo: userRepo, blacklist: blacklist, authCfg: authCfg}
}

// resolve extracts and verifies the bearer token and loads its user.
// Returns (nil, nil) when the request simply carries no Authorization
// header, and an error for malformed, invalid, revoked or inactive
// identities.
func (a *Authenticator) resolve(r *http.Request) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return nil, errors.New("authorization header must be of form Bearer {token}")
	}

	claims, err := auth.ValidateToken(r.Context(), headerParts[1], a.authCfg.JWTSecretKey, a.blacklist)
	if err != nil {
		return nil, errors.New("invalid or revoked token")
	}

	user, err := a.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("account no longer exists")
		}
		return nil, errors.New("failed to load account")
	}
	if !user.IsActive {
		return nil, errors.New("account is not activated")
	}

	return claims, nil
}

func withIdentity(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UsernameKey, claims.Username)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// RequireAuth rejects any request without a valid, active identity.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.resolve(r)
		if err != nil {
			writeAuthError(w, err.Error())
			return
		}
		if claims == nil {
			writeAuthError(w, "request is missing the authorization token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
	})
}

// OptionalAuth attaches the identity when a valid token is present and
// lets the request through anonymously otherwise. Invalid, revoked and
// inactive tokens read as anonymous rather than erroring, so public
// reads never fail on a stale token.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.resolve(r)
		if err == nil && claims != nil {
			r = r.WithContext(withIdentity(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext returns the authenticated user's ID, or (0, false)
// for anonymous requests.
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	return userID, ok
}

// GetUsernameFromContext returns the authenticated user's name.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// GetClaimsFromContext returns the verified JWT claims.
func GetClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
