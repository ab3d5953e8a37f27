package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service exchanges client credentials for service tokens and checks them.
type Service struct {
	clients        map[string]Client
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(clients []Client, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	byID := make(map[string]Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	return &Service{
		clients:        byID,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

type JWTTokenGenerator struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	clock  clock.Clock
}

func NewJWTTokenGenerator(secret, issuer string, ttl time.Duration, clk clock.Clock) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		Issuer: issuer,
		TTL:    ttl,
		clock:  clk,
	}
}

// Authenticate checks the client secret and issues a token carrying the
// requested scopes, or every granted scope when none are requested.
func (s *Service) Authenticate(dto ClientCredentialsDTO) (AccessToken, error) {
	if err := dto.Validate(); err != nil {
		return AccessToken{}, err
	}

	client, ok := s.clients[dto.ClientID]
	if !ok {
		// Same cost as a wrong secret.
		_ = bcrypt.CompareHashAndPassword(unknownClientHash(), []byte(dto.ClientSecret))
		return AccessToken{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(dto.ClientSecret)); err != nil {
		s.logger.Warn("client authentication failed", "client", client.ID)
		return AccessToken{}, ErrInvalidCredentials
	}

	scopes := dto.Scopes()
	if len(scopes) == 0 {
		scopes = client.Scopes
	}
	for _, scope := range scopes {
		if !slices.Contains(client.Scopes, scope) {
			return AccessToken{}, fmt.Errorf("%w: %s", ErrScopeNotGranted, scope)
		}
	}

	token, err := s.tokenGenerator.GenerateAccessToken(client.ID, scopes)
	if err != nil {
		return AccessToken{}, err
	}
	s.logger.Info("service token issued", "client", client.ID, "scopes", scopes)
	return token, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GenerateAccessToken signs an HS256 token for client.
func (j *JWTTokenGenerator) GenerateAccessToken(client string, scopes []string) (AccessToken, error) {
	if err := ValidScopes(scopes); err != nil {
		return AccessToken{}, err
	}

	now := j.clock.Now()
	expiresAt := now.Add(j.TTL)
	claims := &Claims{
		Client: client,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   client,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return AccessToken{}, err
	}

	return AccessToken{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC(),
		Scopes:      scopes,
	}, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithIssuer(j.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.clock.Now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

var unknownClientHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("unknown-client"), bcrypt.DefaultCost)
	return hash
})

// HashSecret creates the bcrypt hash stored in the client configuration.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateSecret returns a random 32 byte client secret, hex encoded.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
