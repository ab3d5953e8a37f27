package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/employee"
	"github.com/frahmantamala/hr-assistant/internal/identity"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubLinker struct {
	result   *identity.LinkResult
	err      error
	removed  bool
	gotToken string
}

func (s *stubLinker) Link(_ context.Context, employeeID int64, token string) (*identity.LinkResult, error) {
	s.gotToken = token
	return s.result, s.err
}

func (s *stubLinker) Unlink(_ context.Context, token string) (bool, error) {
	s.gotToken = token
	return s.removed, s.err
}

var _ = Describe("Handler", func() {
	var (
		stub   *stubLinker
		router chi.Router
	)

	BeforeEach(func() {
		stub = &stubLinker{}
		h := identity.NewHandler(transport.NewBaseHandler(logger.Discard()), stub)
		router = chi.NewRouter()
		router.Post("/links", h.CreateLink)
		router.Delete("/links/{token}", h.DeleteLink)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("answers 201 for a new link", func() {
		stub.result = &identity.LinkResult{
			Link:     &identity.Link{EmployeeID: 4, SessionToken: "chat-4", LinkedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
			Employee: &employee.Employee{ID: 4, FullName: "Dana Cole"},
			Created:  true,
		}
		rec := do(http.MethodPost, "/links", `{"employee_id":4,"session_token":"chat-4"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var body identity.LinkResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.EmployeeName).To(Equal("Dana Cole"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("chat-4"))
	})

	It("answers 200 for an existing link", func() {
		stub.result = &identity.LinkResult{Link: &identity.Link{EmployeeID: 4}, Employee: &employee.Employee{ID: 4}}
		rec := do(http.MethodPost, "/links", `{"employee_id":4,"session_token":"chat-4"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("rejects unknown body fields", func() {
		rec := do(http.MethodPost, "/links", `{"employee_id":4,"session_token":"x","role":"HR"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps conflicts to 409", func() {
		stub.err = internal.NewConflictError("taken", internal.ErrCodeTokenAlreadyLinked)
		rec := do(http.MethodPost, "/links", `{"employee_id":4,"session_token":"chat-4"}`)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(ContainSubstring(string(internal.ErrCodeTokenAlreadyLinked)))
	})

	It("unlinks by path token", func() {
		stub.removed = true
		rec := do(http.MethodDelete, "/links/chat-9", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.gotToken).To(Equal("chat-9"))
		Expect(rec.Body.String()).To(ContainSubstring(`"unlinked":true`))
	})
})
