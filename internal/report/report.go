// Package report answers cross-employee questions about leave and staffing.
// Everything here is read-only.
package report

import (
	"time"

	"github.com/frahmantamala/hr-assistant/internal/leave"
)

const (
	DefaultLowBalanceThreshold = 5
	DefaultUpcomingDays        = 30
	MaxUpcomingDays            = 365
)

// Absence is an approved leave seen from the department's side.
type Absence struct {
	RequestID    int64     `db:"leave_id"`
	EmployeeID   int64     `db:"employee_id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	Department   string    `db:"department_name"`
	DepartmentID int64     `db:"department_id"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	Reason       *string   `db:"reason"`
}

type AbsenceView struct {
	RequestID    int64  `json:"request_id"`
	EmployeeID   int64  `json:"employee_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
	Reason       string `json:"reason,omitempty"`
}

// PendingRequest is a request waiting for a decision, with its requester.
type PendingRequest struct {
	Absence
	CreatedAt time.Time `db:"created_at"`
}

func (a Absence) View() AbsenceView {
	v := AbsenceView{
		RequestID:    a.RequestID,
		EmployeeID:   a.EmployeeID,
		Name:         a.FullName,
		Email:        a.Email,
		Department:   a.Department,
		StartDate:    leave.FormatDate(a.StartDate),
		EndDate:      leave.FormatDate(a.EndDate),
		DurationDays: leave.DurationDays(a.StartDate, a.EndDate),
	}
	if a.Reason != nil {
		v.Reason = *a.Reason
	}
	return v
}

type PendingRequestView struct {
	AbsenceView
	CreatedAt string `json:"created_at"`
}

func (p PendingRequest) View() PendingRequestView {
	return PendingRequestView{
		AbsenceView: p.Absence.View(),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type LowBalance struct {
	EmployeeID    int64  `db:"employee_id" json:"employee_id"`
	FullName      string `db:"full_name" json:"name"`
	Department    string `db:"department_name" json:"department"`
	TotalDays     int    `db:"total_days" json:"total_days"`
	UsedDays      int    `db:"used_days" json:"used_days"`
	RemainingDays int    `db:"remaining_days" json:"remaining_days"`
}

type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"request_count"`
}

type BalanceTotals struct {
	Employees        int     `db:"employees"`
	TotalDays        int     `db:"total_days"`
	UsedDays         int     `db:"used_days"`
	AverageRemaining float64 `db:"average_remaining"`
}

// Statistics summarizes requests by status and entitlement usage.
type Statistics struct {
	TotalRequests        int            `json:"total_requests"`
	ByStatus             map[string]int `json:"by_status"`
	EmployeesWithBalance int            `json:"employees_with_balance"`
	TotalEntitledDays    int            `json:"total_entitled_days"`
	TotalUsedDays        int            `json:"total_used_days"`
	AverageRemainingDays float64        `json:"average_remaining_days"`
}

type DepartmentSummary struct {
	ID            int64   `db:"department_id" json:"department_id"`
	Name          string  `db:"department_name" json:"department_name"`
	ManagerID     *int64  `db:"manager_id" json:"manager_id,omitempty"`
	ManagerName   *string `db:"manager_name" json:"manager_name,omitempty"`
	EmployeeCount int     `db:"employee_count" json:"employee_count"`
	AverageSalary float64 `db:"average_salary" json:"average_salary"`
}
