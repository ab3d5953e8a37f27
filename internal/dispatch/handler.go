package dispatch

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/getkin/kin-openapi/openapi3"
)

type Invoker interface {
	Invoke(ctx context.Context, name string, args Arguments, token string) (*Result, error)
	Registry() *Registry
}

type InvokeRequest struct {
	Operation    string    `json:"operation"`
	Arguments    Arguments `json:"arguments"`
	SessionToken string    `json:"session_token"`
}

// OperationInfo is the catalog entry of one operation.
type OperationInfo struct {
	Name         Operation        `json:"name" yaml:"name"`
	Summary      string           `json:"summary" yaml:"summary"`
	ReadOnly     bool             `json:"read_only" yaml:"read_only"`
	RequiresAuth bool             `json:"requires_auth" yaml:"requires_auth"`
	Parameters   *openapi3.Schema `json:"parameters" yaml:"parameters"`
}

// Catalog lists every registered operation in registration order.
func Catalog(registry *Registry) []OperationInfo {
	defs := registry.Definitions()
	out := make([]OperationInfo, 0, len(defs))
	for _, def := range defs {
		out = append(out, OperationInfo{
			Name:         def.Operation,
			Summary:      def.Summary,
			ReadOnly:     def.ReadOnly,
			RequiresAuth: def.RequiresAuth,
			Parameters:   def.Parameters,
		})
	}
	return out
}

type Handler struct {
	*transport.BaseHandler
	Invoker Invoker
	doc     *openapi3.T
}

func NewHandler(baseHandler *transport.BaseHandler, invoker Invoker, version string) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Invoker:     invoker,
		doc:         Document(invoker.Registry(), version),
	}
}

// Invoke handles POST /invoke. The session token may come in the body or in
// the X-Session-Token header.
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if req.SessionToken == "" {
		req.SessionToken = r.Header.Get("X-Session-Token")
	}

	result, err := h.Invoker.Invoke(r.Context(), req.Operation, req.Arguments, req.SessionToken)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// Operations handles GET /operations.
func (h *Handler) Operations(w http.ResponseWriter, r *http.Request) {
	ops := Catalog(h.Invoker.Registry())
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"operations": ops,
		"total":      len(ops),
	})
}

// OpenAPI serves the generated API document.
func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.doc)
}
