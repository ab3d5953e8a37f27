package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

const testSecret = "0123456789abcdef0123456789abcdef"

func hashed(secret string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return string(hash)
}

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		clk     *clock.FakeClock
		tokens  *JWTTokenGenerator
		service *Service
	)

	ginkgo.BeforeEach(func() {
		clk = clock.Fake(time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC))
		tokens = NewJWTTokenGenerator(testSecret, "hr-assistant", time.Hour, clk)
		service = NewService([]Client{
			{ID: "agent", SecretHash: hashed("agent-secret"), Scopes: []string{ScopeInvoke}},
			{ID: "portal", SecretHash: hashed("portal-secret"), Scopes: []string{ScopeLink, ScopeReports}},
		}, tokens, logger.Discard())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("issues a token with every granted scope by default", func() {
			token, err := service.Authenticate(ClientCredentialsDTO{ClientID: "portal", ClientSecret: "portal-secret"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(token.TokenType).To(gomega.Equal("Bearer"))
			gomega.Expect(token.ExpiresAt).To(gomega.BeTemporally("==", clk.Now().Add(time.Hour)))

			claims, err := service.ValidateAccessToken(token.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.Client).To(gomega.Equal("portal"))
			gomega.Expect(claims.Subject).To(gomega.Equal("portal"))
			gomega.Expect(claims.Scopes).To(gomega.ConsistOf(ScopeLink, ScopeReports))
		})

		ginkgo.It("narrows the token to the requested scopes", func() {
			token, err := service.Authenticate(ClientCredentialsDTO{ClientID: "portal", ClientSecret: "portal-secret", Scope: "reports"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			claims, err := service.ValidateAccessToken(token.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.HasScope(ScopeReports)).To(gomega.BeTrue())
			gomega.Expect(claims.HasScope(ScopeLink)).To(gomega.BeFalse())
		})

		ginkgo.It("refuses scopes the client was not granted", func() {
			_, err := service.Authenticate(ClientCredentialsDTO{ClientID: "agent", ClientSecret: "agent-secret", Scope: "invoke link"})
			gomega.Expect(errors.Is(err, ErrScopeNotGranted)).To(gomega.BeTrue())
		})

		ginkgo.It("rejects a wrong secret", func() {
			_, err := service.Authenticate(ClientCredentialsDTO{ClientID: "agent", ClientSecret: "portal-secret"})
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
		})

		ginkgo.It("rejects an unknown client the same way", func() {
			_, err := service.Authenticate(ClientCredentialsDTO{ClientID: "intruder", ClientSecret: "agent-secret"})
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
		})

		ginkgo.It("reports every missing field", func() {
			_, err := service.Authenticate(ClientCredentialsDTO{})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeArgument))
			gomega.Expect(appErr.Details.(internal.ValidationErrors).Errors).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("ValidateToken", func() {
		ginkgo.It("rejects expired tokens", func() {
			token, err := tokens.GenerateAccessToken("agent", []string{ScopeInvoke})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			clk.Advance(2 * time.Hour)
			_, err = tokens.ValidateToken(token.AccessToken)
			gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
		})

		ginkgo.It("rejects tokens signed with another secret", func() {
			other := NewJWTTokenGenerator(strings.Repeat("x", 32), "hr-assistant", time.Hour, clk)
			token, err := other.GenerateAccessToken("agent", []string{ScopeInvoke})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = tokens.ValidateToken(token.AccessToken)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("rejects tokens from another issuer", func() {
			other := NewJWTTokenGenerator(testSecret, "someone-else", time.Hour, clk)
			token, err := other.GenerateAccessToken("agent", []string{ScopeInvoke})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = tokens.ValidateToken(token.AccessToken)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("rejects unsigned tokens", func() {
			unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
				Client: "agent",
				Scopes: AllScopes,
				RegisteredClaims: jwt.RegisteredClaims{
					Issuer:    "hr-assistant",
					ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
				},
			})
			raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = tokens.ValidateToken(raw)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("refuses to sign unknown scopes", func() {
			_, err := tokens.GenerateAccessToken("agent", []string{"admin"})
			gomega.Expect(errors.Is(err, ErrUnknownScope)).To(gomega.BeTrue())
		})
	})
})

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		clk    *clock.FakeClock
		tokens *JWTTokenGenerator
		router chi.Router
	)

	ginkgo.BeforeEach(func() {
		clk = clock.Fake(time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC))
		tokens = NewJWTTokenGenerator(testSecret, "hr-assistant", time.Hour, clk)
		service := NewService([]Client{
			{ID: "agent", SecretHash: hashed("agent-secret"), Scopes: []string{ScopeInvoke}},
		}, tokens, logger.Discard())
		h := NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }
		router = chi.NewRouter()
		router.Post("/auth/token", h.Token)
		router.Group(func(pr chi.Router) {
			pr.Use(h.AuthMiddleware)
			pr.Get("/invoke", ok)
		})
	})

	do := func(method, path, body, bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	errorCode := func(rec *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		return body.Error.Code
	}

	ginkgo.It("exchanges credentials for a usable token", func() {
		rec := do(http.MethodPost, "/auth/token", `{"client_id":"agent","client_secret":"agent-secret"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

		var token AccessToken
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &token)).To(gomega.Succeed())
		gomega.Expect(do(http.MethodGet, "/invoke", "", token.AccessToken).Code).To(gomega.Equal(http.StatusNoContent))
	})

	ginkgo.It("answers 401 for bad credentials", func() {
		rec := do(http.MethodPost, "/auth/token", `{"client_id":"agent","client_secret":"nope"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(errorCode(rec)).To(gomega.Equal(string(internal.ErrCodeInvalidCredentials)))
	})

	ginkgo.It("answers 403 for a scope the client does not hold", func() {
		rec := do(http.MethodPost, "/auth/token", `{"client_id":"agent","client_secret":"agent-secret","scope":"reports"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("requires a bearer token", func() {
		rec := do(http.MethodGet, "/invoke", "", "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(errorCode(rec)).To(gomega.Equal(string(internal.ErrCodeMissingToken)))
	})

	ginkgo.It("tells expired tokens apart", func() {
		token, err := tokens.GenerateAccessToken("agent", []string{ScopeInvoke})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		clk.Advance(61 * time.Minute)
		rec := do(http.MethodGet, "/invoke", "", token.AccessToken)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(errorCode(rec)).To(gomega.Equal(string(internal.ErrCodeTokenExpired)))
	})
})
