package auth

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes a service client can hold. Each guards one group of routes.
const (
	ScopeInvoke  = "invoke"
	ScopeLink    = "link"
	ScopeReports = "reports"
)

var AllScopes = []string{ScopeInvoke, ScopeLink, ScopeReports}

// Client is a collaborator allowed to call the API, such as the
// conversational agent or the HR portal.
type Client struct {
	ID         string
	SecretHash string
	Scopes     []string
}

// Claims represents the service token claims.
type Claims struct {
	Client string   `json:"client"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Scopes      []string  `json:"scopes"`
}

// TokenGenerator creates and checks service tokens.
type TokenGenerator interface {
	GenerateAccessToken(client string, scopes []string) (AccessToken, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrScopeNotGranted    = errors.New("scope not granted")
	ErrUnknownScope       = errors.New("unknown scope")
)

type claimsKey struct{}

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// ValidScopes reports the first entry of scopes that is not a known scope.
func ValidScopes(scopes []string) error {
	for _, s := range scopes {
		if !slices.Contains(AllScopes, s) {
			return errors.Join(ErrUnknownScope, errors.New(s))
		}
	}
	return nil
}
