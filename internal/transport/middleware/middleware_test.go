package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/auth"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

var _ = Describe("RequireScope", func() {
	var handler http.Handler

	BeforeEach(func() {
		handler = RequireScope(transport.NewBaseHandler(logger.Discard()), auth.ScopeReports)(noContent)
	})

	serve := func(claims *auth.Claims) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/pending", nil)
		if claims != nil {
			req = req.WithContext(auth.ContextWithClaims(req.Context(), claims))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	It("passes tokens holding the scope", func() {
		Expect(serve(&auth.Claims{Client: "portal", Scopes: []string{auth.ScopeLink, auth.ScopeReports}}).Code).
			To(Equal(http.StatusNoContent))
	})

	It("forbids tokens without it", func() {
		rec := serve(&auth.Claims{Client: "agent", Scopes: []string{auth.ScopeInvoke}})
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(ContainSubstring(string(internal.ErrCodeInsufficientScope)))
	})

	It("treats a request without claims as unauthenticated", func() {
		Expect(serve(nil).Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("RequestID", func() {
	It("keeps a caller supplied trace id", func() {
		var seen string
		h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = internal.TraceIDFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(seen).To(Equal("trace-123"))
		Expect(rec.Header().Get(TraceHeader)).To(Equal("trace-123"))
	})

	It("generates one when missing", func() {
		h := RequestID(noContent)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into a 500 error body", func() {
		h := RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		var body map[string]map[string]string
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]["message"]).To(Equal("internal server error"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("CORS", func() {
	It("echoes allowed origins and answers preflight", func() {
		h := CORS("https://portal.example.com")(noContent)
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/invoke", nil)
		req.Header.Set("Origin", "https://portal.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://portal.example.com"))
	})

	It("ignores other origins", func() {
		h := CORS("https://portal.example.com")(noContent)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("log filtering", func() {
	It("masks session tokens and secrets in JSON bodies", func() {
		out := filterSensitiveBody([]byte(`{"operation":"get_leave_balance","session_token":"chat-1","arguments":{"client_secret":"s"}}`))
		Expect(out).NotTo(ContainSubstring("chat-1"))
		Expect(out).To(ContainSubstring("get_leave_balance"))

		var decoded map[string]any
		Expect(json.Unmarshal([]byte(out), &decoded)).To(Succeed())
		Expect(decoded["session_token"]).To(Equal("[FILTERED]"))
		Expect(decoded["arguments"]).To(HaveKeyWithValue("client_secret", "[FILTERED]"))
	})

	It("masks authorization headers", func() {
		headers := http.Header{}
		headers.Set("Authorization", "Bearer abc")
		headers.Set("X-Session-Token", "chat-1")
		headers.Set("Accept", "application/json")
		filtered := filterSensitiveHeaders(headers)
		Expect(filtered["Authorization"]).To(Equal("[FILTERED]"))
		Expect(filtered["X-Session-Token"]).To(Equal("[FILTERED]"))
		Expect(filtered["Accept"]).To(Equal("application/json"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	var out *bytes.Buffer

	serve := func(h http.Handler, body string) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoke", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		LoggingMiddleware(logger.New(out, "json", "debug"))(h).ServeHTTP(httptest.NewRecorder(), req)
	}

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	It("logs the request without the session token and keeps the body readable", func() {
		var seen string
		serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var envelope struct {
				SessionToken string `json:"session_token"`
			}
			_ = json.NewDecoder(r.Body).Decode(&envelope)
			seen = envelope.SessionToken
			w.WriteHeader(http.StatusOK)
		}), `{"operation":"get_salary_info","session_token":"chat-42"}`)

		Expect(seen).To(Equal("chat-42"))
		Expect(out.String()).To(ContainSubstring("get_salary_info"))
		Expect(out.String()).NotTo(ContainSubstring("chat-42"))
	})

	It("never logs a successful response body", func() {
		serve(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"current_salary":98765}}`))
		}), `{}`)

		Expect(out.String()).NotTo(ContainSubstring("98765"))
		Expect(out.String()).To(ContainSubstring(`"status_code":200`))
	})

	It("records the error code of a failed response", func() {
		serve(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":{"type":"PAST_DATE","code":"START_DATE_IN_PAST","message":"x"}}`))
		}), `{}`)

		Expect(out.String()).To(ContainSubstring(`"level":"WARN"`))
		Expect(out.String()).To(ContainSubstring(`"error_code":"START_DATE_IN_PAST"`))
	})
})
