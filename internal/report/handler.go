package report

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/frahmantamala/hr-assistant/internal/transport"
)

type ServiceAPI interface {
	EmployeesOnLeave(ctx context.Context, date time.Time, departmentID *int64) ([]AbsenceView, error)
	UpcomingLeaves(ctx context.Context, days int) ([]AbsenceView, error)
	PendingRequests(ctx context.Context, departmentID *int64) ([]PendingRequestView, error)
	LowBalances(ctx context.Context, threshold int) ([]LowBalance, error)
	LeaveStatistics(ctx context.Context) (*Statistics, error)
	DepartmentSummaries(ctx context.Context) ([]DepartmentSummary, error)
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

// OnLeave handles GET /reports/on-leave?date=YYYY-MM-DD&department_id=.
func (h *Handler) OnLeave(w http.ResponseWriter, r *http.Request) {
	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := leave.ParseDate(raw)
		if err != nil {
			h.WriteAppError(w, r, internal.NewArgumentFieldError("date", "date must be a calendar date in YYYY-MM-DD format", internal.ErrCodeInvalidDate))
			return
		}
		date = parsed
	}
	departmentID, err := optionalID(r, "department_id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	rows, err := h.Service.EmployeesOnLeave(r.Context(), date, departmentID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": rows,
		"total":     len(rows),
	})
}

// Upcoming handles GET /reports/upcoming?days=.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days, err := optionalInt(r, "days", DefaultUpcomingDays)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	rows, err := h.Service.UpcomingLeaves(r.Context(), days)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"days":   days,
		"leaves": rows,
		"total":  len(rows),
	})
}

// Pending handles GET /reports/pending?department_id=.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	departmentID, err := optionalID(r, "department_id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	rows, err := h.Service.PendingRequests(r.Context(), departmentID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": rows,
		"total":    len(rows),
	})
}

// LowBalance handles GET /reports/low-balance?threshold=.
func (h *Handler) LowBalance(w http.ResponseWriter, r *http.Request) {
	threshold, err := optionalInt(r, "threshold", DefaultLowBalanceThreshold)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	rows, err := h.Service.LowBalances(r.Context(), threshold)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"threshold": threshold,
		"employees": rows,
		"total":     len(rows),
	})
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.LeaveStatistics(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) Departments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.DepartmentSummaries(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"departments": rows,
		"total":       len(rows),
	})
}

func optionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, internal.NewArgumentFieldError(name, name+" must be a positive integer", internal.ErrCodeInvalidType)
	}
	return &id, nil
}

func optionalInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, internal.NewArgumentFieldError(name, name+" must be an integer", internal.ErrCodeInvalidType)
	}
	return n, nil
}
