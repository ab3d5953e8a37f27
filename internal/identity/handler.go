package identity

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Link(ctx context.Context, employeeID int64, token string) (*LinkResult, error)
	Unlink(ctx context.Context, token string) (bool, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// CreateLink handles POST /links. A new link answers 201, an existing
// identical link answers 200.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	result, err := h.Service.Link(r.Context(), req.EmployeeID, req.SessionToken)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, NewLinkResponse(result))
}

// DeleteLink handles DELETE /links/{token}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := ValidateToken(token); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	removed, err := h.Service.Unlink(r.Context(), token)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UnlinkResponse{Unlinked: removed})
}
