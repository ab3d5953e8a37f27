package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/hr-assistant/internal/auth"
	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/frahmantamala/hr-assistant/internal/core/store/storetest"
	"github.com/frahmantamala/hr-assistant/internal/dispatch"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/internal/transport/rest"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

type fixedSessions int

func (n fixedSessions) Len() int { return int(n) }

type echoInvoker struct {
	registry *dispatch.Registry
}

func (e echoInvoker) Invoke(_ context.Context, name string, _ dispatch.Arguments, _ string) (*dispatch.Result, error) {
	return &dispatch.Result{Operation: dispatch.Operation(name), Data: map[string]string{"ok": "yes"}}, nil
}

func (e echoInvoker) Registry() *dispatch.Registry { return e.registry }

var _ = Describe("Router", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		tokens *auth.JWTTokenGenerator
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		log := logger.Discard()
		base := transport.NewBaseHandler(log)
		tokens = auth.NewJWTTokenGenerator(strings.Repeat("k", 32), "hr-assistant", time.Hour, clock.Real(time.UTC))
		authService := auth.NewService(nil, tokens, log)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, sqlDB, fixedSessions(3), rest.Handlers{
			Auth:     auth.NewHandler(base, authService),
			Dispatch: dispatch.NewHandler(base, echoInvoker{registry: dispatch.NewRegistry(dispatch.Services{})}, "test"),
		}, "", log)
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	do := func(method, path, body string, scopes ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if scopes != nil {
			token, err := tokens.GenerateAccessToken("agent", scopes)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("answers ping without a token", func() {
		rec := do(http.MethodGet, "/api/v1/ping", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("reports database and session health", func() {
		rec := do(http.MethodGet, "/api/v1/health", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Status).To(Equal(rest.HealthHealthy))
		Expect(body.Components).To(HaveKey("database"))
		Expect(body.Components["sessions"].Details).To(HaveKeyWithValue("active", float64(3)))
	})

	It("serves the OpenAPI document publicly", func() {
		Expect(do(http.MethodGet, "/openapi.json", "").Code).To(Equal(http.StatusOK))
	})

	It("requires a service token to invoke", func() {
		Expect(do(http.MethodPost, "/api/v1/invoke", `{"operation":"get_leave_balance"}`).Code).
			To(Equal(http.StatusUnauthorized))
	})

	It("requires the invoke scope", func() {
		Expect(do(http.MethodPost, "/api/v1/invoke", `{"operation":"get_leave_balance"}`, auth.ScopeReports).Code).
			To(Equal(http.StatusForbidden))
	})

	It("invokes with the right scope", func() {
		rec := do(http.MethodPost, "/api/v1/invoke", `{"operation":"get_leave_balance","session_token":"chat-1"}`, auth.ScopeInvoke)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"operation":"get_leave_balance"`))
	})

	It("lists operations for invoke clients", func() {
		rec := do(http.MethodGet, "/api/v1/operations", "", auth.ScopeInvoke)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("request_leave"))
	})

	It("leaves out routes whose handler is not wired", func() {
		Expect(do(http.MethodGet, "/api/v1/reports/pending", "", auth.ScopeReports).Code).
			To(Equal(http.StatusNotFound))
	})
})
