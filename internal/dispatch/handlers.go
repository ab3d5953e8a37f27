package dispatch

import (
	"context"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/events"
	"github.com/frahmantamala/hr-assistant/internal/employee"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/frahmantamala/hr-assistant/internal/report"
)

type LeaveRequestsResult struct {
	Requests []leave.RequestView `json:"requests"`
	Total    int                 `json:"total"`
}

type EmployeesOnLeaveResult struct {
	Date      string               `json:"date"`
	Employees []report.AbsenceView `json:"employees"`
	Total     int                  `json:"total"`
}

type handlers struct {
	svc Services
}

func (h *handlers) getLeaveBalance(ctx context.Context, call *Call, _ GetLeaveBalance) (any, error) {
	b, err := h.svc.Leave.GetBalance(ctx, call.Caller.ID)
	if err != nil {
		return nil, err
	}
	return b.View(), nil
}

func (h *handlers) getEmployeeInfo(ctx context.Context, call *Call, _ GetEmployeeInfo) (any, error) {
	return h.svc.Employees.GetProfile(ctx, call.Caller.ID)
}

func (h *handlers) getSalaryInfo(ctx context.Context, call *Call, _ GetSalaryInfo) (any, error) {
	return h.svc.Salary.GetInfo(ctx, call.Caller.ID)
}

func (h *handlers) getLeaveRequests(ctx context.Context, call *Call, _ GetLeaveRequests) (any, error) {
	requests, err := h.svc.Leave.ListRequests(ctx, call.Caller.ID)
	if err != nil {
		return nil, err
	}
	views := make([]leave.RequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, r.View())
	}
	return LeaveRequestsResult{Requests: views, Total: len(views)}, nil
}

func (h *handlers) requestLeave(ctx context.Context, call *Call, cmd RequestLeave) (any, error) {
	receipt, err := h.svc.Leave.RequestLeave(ctx, call.Caller.ID, leave.RequestLeaveDTO{
		StartDate: cmd.StartDate,
		EndDate:   cmd.EndDate,
		Reason:    cmd.Reason,
	})
	if err != nil {
		return nil, err
	}

	call.Emit(events.NewLeaveRequestedEvent(
		receipt.RequestID,
		call.Caller.ID,
		cmd.StartDate,
		cmd.EndDate,
		receipt.DurationDays,
		receipt.ProjectedRemaining,
	))
	return receipt, nil
}

func (h *handlers) getEmployeesOnLeave(ctx context.Context, call *Call, cmd GetEmployeesOnLeave) (any, error) {
	if !call.Caller.CanViewDepartment(call.Caller.DepartmentID) {
		return nil, internal.NewForbiddenError("only managers and HR can see who is on leave", internal.ErrCodeInsufficientRole)
	}
	var departmentID *int64
	if call.Caller.Role != employee.RoleHR {
		id := call.Caller.DepartmentID
		departmentID = &id
	}

	date := call.Today
	if cmd.Date != nil {
		date = *cmd.Date
	}

	rows, err := h.svc.Reports.EmployeesOnLeave(ctx, date, departmentID)
	if err != nil {
		return nil, err
	}
	return EmployeesOnLeaveResult{Date: leave.FormatDate(date), Employees: rows, Total: len(rows)}, nil
}
