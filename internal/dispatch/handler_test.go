package dispatch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/dispatch"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubInvoker struct {
	registry  *dispatch.Registry
	result    *dispatch.Result
	err       error
	operation string
	args      dispatch.Arguments
	token     string
}

func (s *stubInvoker) Invoke(_ context.Context, name string, args dispatch.Arguments, token string) (*dispatch.Result, error) {
	s.operation, s.args, s.token = name, args, token
	return s.result, s.err
}

func (s *stubInvoker) Registry() *dispatch.Registry {
	return s.registry
}

var _ = Describe("Handler", func() {
	var (
		stub   *stubInvoker
		router chi.Router
	)

	BeforeEach(func() {
		stub = &stubInvoker{registry: dispatch.NewRegistry(dispatch.Services{})}
		h := dispatch.NewHandler(transport.NewBaseHandler(logger.Discard()), stub, "test")
		router = chi.NewRouter()
		router.Post("/invoke", h.Invoke)
		router.Get("/operations", h.Operations)
		router.Get("/openapi.json", h.OpenAPI)
	})

	do := func(method, path, body string, header ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for i := 0; i+1 < len(header); i += 2 {
			req.Header.Set(header[i], header[i+1])
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("POST /invoke", func() {
		It("passes the call through and wraps the result", func() {
			stub.result = &dispatch.Result{
				Operation: dispatch.OpGetLeaveBalance,
				Data:      leave.BalanceView{TotalDays: 30, UsedDays: 5, RemainingDays: 25},
			}
			rec := do(http.MethodPost, "/invoke", `{"operation":"get_leave_balance","arguments":{},"session_token":"chat-1"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(stub.operation).To(Equal("get_leave_balance"))
			Expect(stub.token).To(Equal("chat-1"))

			var body struct {
				Operation string            `json:"operation"`
				Data      leave.BalanceView `json:"data"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Operation).To(Equal("get_leave_balance"))
			Expect(body.Data.RemainingDays).To(Equal(25))
		})

		It("takes the session token from the header when the body has none", func() {
			stub.result = &dispatch.Result{Operation: dispatch.OpGetEmployeeInfo}
			rec := do(http.MethodPost, "/invoke", `{"operation":"get_employee_info"}`, "X-Session-Token", "chat-2")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(stub.token).To(Equal("chat-2"))
		})

		It("hands arguments over as decoded JSON", func() {
			stub.result = &dispatch.Result{Operation: dispatch.OpRequestLeave}
			do(http.MethodPost, "/invoke", `{"operation":"request_leave","arguments":{"start_date":"2026-02-15","days":3}}`)
			Expect(stub.args).To(HaveKeyWithValue("start_date", "2026-02-15"))
			Expect(stub.args).To(HaveKeyWithValue("days", float64(3)))
		})

		It("maps typed errors onto their status and body", func() {
			stub.err = internal.NewInsufficientBalanceError(2, 5)
			rec := do(http.MethodPost, "/invoke", `{"operation":"request_leave","session_token":"chat-1"}`)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

			var body struct {
				Error struct {
					Type string `json:"type"`
					Code string `json:"code"`
				} `json:"error"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Error.Type).To(Equal(string(internal.ErrorTypeInsufficientBalance)))
			Expect(body.Error.Code).To(Equal(string(internal.ErrCodeInsufficientBalance)))
		})

		It("rejects malformed bodies without invoking", func() {
			rec := do(http.MethodPost, "/invoke", `{"operation":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(stub.operation).To(BeEmpty())
		})

		It("rejects unknown envelope fields", func() {
			rec := do(http.MethodPost, "/invoke", `{"operation":"get_leave_balance","employee_id":1}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring(string(internal.ErrCodeMalformedBody)))
		})
	})

	It("lists the operation catalog", func() {
		rec := do(http.MethodGet, "/operations", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body struct {
			Operations []struct {
				Name     string `json:"name"`
				ReadOnly bool   `json:"read_only"`
			} `json:"operations"`
			Total int `json:"total"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Total).To(Equal(6))
		Expect(body.Operations[4].Name).To(Equal("request_leave"))
		Expect(body.Operations[4].ReadOnly).To(BeFalse())
		Expect(body.Operations[0].ReadOnly).To(BeTrue())
	})

	It("serves an OpenAPI document describing every operation", func() {
		rec := do(http.MethodGet, "/openapi.json", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var doc struct {
			OpenAPI    string         `json:"openapi"`
			Paths      map[string]any `json:"paths"`
			Components struct {
				Schemas map[string]any `json:"schemas"`
			} `json:"components"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &doc)).To(Succeed())
		Expect(doc.OpenAPI).To(HavePrefix("3."))
		Expect(doc.Paths).To(HaveKey("/api/v1/invoke"))
		Expect(doc.Paths).To(HaveKey("/api/v1/auth/token"))
		Expect(doc.Components.Schemas).To(HaveKey("request_leave_arguments"))
		Expect(doc.Components.Schemas).To(HaveKey("get_employees_on_leave_arguments"))
	})
})

var _ = Describe("Document", func() {
	It("validates as OpenAPI", func() {
		doc := dispatch.Document(dispatch.NewRegistry(dispatch.Services{}), "test")
		Expect(doc.Validate(context.Background())).To(Succeed())
	})
})
