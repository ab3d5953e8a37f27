package dispatch

import (
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/leave"
)

// Operation names a registered command. The set is closed: every value below
// has exactly one Definition in the registry.
type Operation string

const (
	OpGetLeaveBalance     Operation = "get_leave_balance"
	OpGetEmployeeInfo     Operation = "get_employee_info"
	OpGetSalaryInfo       Operation = "get_salary_info"
	OpGetLeaveRequests    Operation = "get_leave_requests"
	OpRequestLeave        Operation = "request_leave"
	OpGetEmployeesOnLeave Operation = "get_employees_on_leave"
)

// Command is a decoded, typed invocation.
type Command interface {
	Operation() Operation
}

type GetLeaveBalance struct{}

func (GetLeaveBalance) Operation() Operation { return OpGetLeaveBalance }

type GetEmployeeInfo struct{}

func (GetEmployeeInfo) Operation() Operation { return OpGetEmployeeInfo }

type GetSalaryInfo struct{}

func (GetSalaryInfo) Operation() Operation { return OpGetSalaryInfo }

type GetLeaveRequests struct{}

func (GetLeaveRequests) Operation() Operation { return OpGetLeaveRequests }

type RequestLeave struct {
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

func (RequestLeave) Operation() Operation { return OpRequestLeave }

// GetEmployeesOnLeave asks who is away on Date; nil means today.
type GetEmployeesOnLeave struct {
	Date *time.Time
}

func (GetEmployeesOnLeave) Operation() Operation { return OpGetEmployeesOnLeave }

// Arguments are the raw named arguments of an invocation as they arrive from
// JSON. They are checked against the operation's schema before decoding.
type Arguments map[string]any

func (a Arguments) String(name string) (string, bool) {
	v, ok := a[name].(string)
	return v, ok
}

// Date reads a required YYYY-MM-DD argument. Strings that match the shape
// but are not calendar dates, like 2026-02-30, fail here.
func (a Arguments) Date(name string) (time.Time, error) {
	raw, ok := a.String(name)
	if !ok {
		return time.Time{}, internal.NewArgumentFieldError(name, name+" is required", internal.ErrCodeMissingArgument)
	}
	t, err := leave.ParseDate(raw)
	if err != nil {
		return time.Time{}, internal.NewArgumentFieldError(name, name+" must be a calendar date in YYYY-MM-DD format", internal.ErrCodeInvalidDate).WithCause(err)
	}
	return t, nil
}

// OptionalDate is Date for arguments that may be absent or null.
func (a Arguments) OptionalDate(name string) (*time.Time, error) {
	if v, ok := a[name]; !ok || v == nil {
		return nil, nil
	}
	t, err := a.Date(name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeNone[C Command](Arguments) (C, error) {
	var cmd C
	return cmd, nil
}

func decodeRequestLeave(args Arguments) (RequestLeave, error) {
	var fieldErrs []internal.ValidationError

	start, err := args.Date("start_date")
	fieldErrs = appendFieldErrors(fieldErrs, err)
	end, err := args.Date("end_date")
	fieldErrs = appendFieldErrors(fieldErrs, err)
	if len(fieldErrs) > 0 {
		return RequestLeave{}, internal.NewArgumentFieldErrors(fieldErrs...)
	}

	reason, _ := args.String("reason")
	return RequestLeave{StartDate: start, EndDate: end, Reason: reason}, nil
}

func decodeEmployeesOnLeave(args Arguments) (GetEmployeesOnLeave, error) {
	date, err := args.OptionalDate("date")
	if err != nil {
		return GetEmployeesOnLeave{}, err
	}
	return GetEmployeesOnLeave{Date: date}, nil
}

func appendFieldErrors(dst []internal.ValidationError, err error) []internal.ValidationError {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return dst
	}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		return append(dst, details.Errors...)
	}
	return append(dst, internal.ValidationError{Message: appErr.Message, Code: string(appErr.Code)})
}
