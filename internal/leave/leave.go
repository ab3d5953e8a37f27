package leave

import (
	"time"

	leaveDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/leave"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

const (
	// MaxPendingRequests caps how many requests an employee may have awaiting
	// approval at once.
	MaxPendingRequests = 2
	// DefaultAnnualLeaveDays is the entitlement given to newly provisioned
	// employees.
	DefaultAnnualLeaveDays = 30
	DefaultReason          = "Personal"
	MaxReasonLength        = 500
)

type Balance struct {
	EmployeeID    int64     `json:"employee_id"`
	TotalDays     int       `json:"total_days"`
	UsedDays      int       `json:"used_days"`
	RemainingDays int       `json:"remaining_days"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewBalance(employeeID int64, totalDays int) *Balance {
	return &Balance{
		EmployeeID:    employeeID,
		TotalDays:     totalDays,
		RemainingDays: totalDays,
	}
}

// Consistent checks the arithmetic the schema also enforces.
func (b *Balance) Consistent() bool {
	return b.UsedDays >= 0 && b.UsedDays <= b.TotalDays && b.RemainingDays == b.TotalDays-b.UsedDays
}

type BalanceView struct {
	TotalDays     int `json:"total_days"`
	UsedDays      int `json:"used_days"`
	RemainingDays int `json:"remaining_days"`
}

func (b *Balance) View() BalanceView {
	return BalanceView{TotalDays: b.TotalDays, UsedDays: b.UsedDays, RemainingDays: b.RemainingDays}
}

type Request struct {
	ID         int64     `json:"request_id"`
	EmployeeID int64     `json:"employee_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Reason     string    `json:"reason"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewRequest(employeeID int64, start, end time.Time, reason string, now time.Time) *Request {
	if reason == "" {
		reason = DefaultReason
	}
	return &Request{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     reason,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (r *Request) DurationDays() int {
	return DurationDays(r.StartDate, r.EndDate)
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

type RequestView struct {
	RequestID    int64  `json:"request_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
	Status       Status `json:"status"`
	Reason       string `json:"reason"`
	CreatedAt    string `json:"created_at"`
}

func (r *Request) View() RequestView {
	return RequestView{
		RequestID:    r.ID,
		StartDate:    FormatDate(r.StartDate),
		EndDate:      FormatDate(r.EndDate),
		DurationDays: r.DurationDays(),
		Status:       r.Status,
		Reason:       r.Reason,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Receipt is returned after a request is accepted.
type Receipt struct {
	RequestID          int64  `json:"request_id"`
	Status             Status `json:"status"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	Reason             string `json:"reason"`
	DurationDays       int    `json:"duration_days"`
	ProjectedRemaining int    `json:"projected_remaining"`
}

func NewReceipt(r *Request, p Preview) *Receipt {
	return &Receipt{
		RequestID:          r.ID,
		Status:             r.Status,
		StartDate:          FormatDate(r.StartDate),
		EndDate:            FormatDate(r.EndDate),
		Reason:             r.Reason,
		DurationDays:       p.DurationDays,
		ProjectedRemaining: p.ProjectedRemaining,
	}
}

func BalanceToDataModel(b *Balance) *leaveDatamodel.Balance {
	return &leaveDatamodel.Balance{
		EmployeeID:    b.EmployeeID,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
		UpdatedAt:     b.UpdatedAt,
	}
}

func BalanceFromDataModel(b *leaveDatamodel.Balance) *Balance {
	return &Balance{
		EmployeeID:    b.EmployeeID,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToDataModel(r *Request) *leaveDatamodel.Request {
	var reason *string
	if r.Reason != "" {
		reason = &r.Reason
	}
	return &leaveDatamodel.Request{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Reason:     reason,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromDataModel(r *leaveDatamodel.Request) *Request {
	out := &Request{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		StartDate:  DateOf(r.StartDate),
		EndDate:    DateOf(r.EndDate),
		Status:     Status(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Reason != nil {
		out.Reason = *r.Reason
	}
	return out
}
