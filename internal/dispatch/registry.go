package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/hr-assistant/internal/employee"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/frahmantamala/hr-assistant/internal/report"
	"github.com/frahmantamala/hr-assistant/internal/salary"
	"github.com/getkin/kin-openapi/openapi3"
)

type EmployeeService interface {
	GetProfile(ctx context.Context, id int64) (*employee.Profile, error)
}

type LeaveService interface {
	GetBalance(ctx context.Context, employeeID int64) (*leave.Balance, error)
	ListRequests(ctx context.Context, employeeID int64) ([]*leave.Request, error)
	RequestLeave(ctx context.Context, employeeID int64, dto leave.RequestLeaveDTO) (*leave.Receipt, error)
}

type SalaryService interface {
	GetInfo(ctx context.Context, employeeID int64) (*salary.Info, error)
}

type ReportService interface {
	EmployeesOnLeave(ctx context.Context, date time.Time, departmentID *int64) ([]report.AbsenceView, error)
}

// Services are the domain services the built-in operations run on.
type Services struct {
	Employees EmployeeService
	Leave     LeaveService
	Salary    SalaryService
	Reports   ReportService
}

// HandlerFunc executes a decoded command inside the invocation's transaction.
type HandlerFunc[C Command] func(ctx context.Context, call *Call, cmd C) (any, error)

// Definition describes one operation: its parameter schema, how its
// arguments decode into a command and the handler that executes it.
type Definition struct {
	Operation    Operation
	Summary      string
	Parameters   *openapi3.Schema
	RequiresAuth bool
	ReadOnly     bool

	decode func(Arguments) (Command, error)
	handle func(context.Context, *Call, Command) (any, error)
}

// Bind attaches a typed decoder and handler to def.
func Bind[C Command](def Definition, decode func(Arguments) (C, error), handle HandlerFunc[C]) Definition {
	op := def.Operation
	def.decode = func(args Arguments) (Command, error) {
		cmd, err := decode(args)
		if err != nil {
			return nil, err
		}
		return cmd, nil
	}
	def.handle = func(ctx context.Context, call *Call, cmd Command) (any, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("dispatch: %s cannot handle %T", op, cmd)
		}
		return handle(ctx, call, typed)
	}
	return def
}

// Registry is the fixed table of operations, built once at startup.
type Registry struct {
	defs  map[Operation]Definition
	order []Operation
}

func newRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[Operation]Definition, len(defs))}
	for _, def := range defs {
		if _, dup := r.defs[def.Operation]; dup {
			panic(fmt.Sprintf("dispatch: operation %s registered twice", def.Operation))
		}
		if def.decode == nil || def.handle == nil {
			panic(fmt.Sprintf("dispatch: operation %s is not bound", def.Operation))
		}
		r.defs[def.Operation] = def
		r.order = append(r.order, def.Operation)
	}
	return r
}

// NewRegistry registers the built-in operations on svc.
func NewRegistry(svc Services) *Registry {
	h := &handlers{svc: svc}
	return newRegistry(
		Bind(Definition{
			Operation:    OpGetLeaveBalance,
			Summary:      "Leave entitlement of the caller: total, used and remaining days.",
			Parameters:   noParameters(),
			RequiresAuth: true,
			ReadOnly:     true,
		}, decodeNone[GetLeaveBalance], h.getLeaveBalance),
		Bind(Definition{
			Operation:    OpGetEmployeeInfo,
			Summary:      "Profile of the caller.",
			Parameters:   noParameters(),
			RequiresAuth: true,
			ReadOnly:     true,
		}, decodeNone[GetEmployeeInfo], h.getEmployeeInfo),
		Bind(Definition{
			Operation:    OpGetSalaryInfo,
			Summary:      "Current salary of the caller and the size of the salary history.",
			Parameters:   noParameters(),
			RequiresAuth: true,
			ReadOnly:     true,
		}, decodeNone[GetSalaryInfo], h.getSalaryInfo),
		Bind(Definition{
			Operation:    OpGetLeaveRequests,
			Summary:      "Leave requests of the caller, most recent first.",
			Parameters:   noParameters(),
			RequiresAuth: true,
			ReadOnly:     true,
		}, decodeNone[GetLeaveRequests], h.getLeaveRequests),
		Bind(Definition{
			Operation:    OpRequestLeave,
			Summary:      "File a Pending leave request for the caller.",
			Parameters:   requestLeaveParameters(),
			RequiresAuth: true,
		}, decodeRequestLeave, h.requestLeave),
		Bind(Definition{
			Operation:    OpGetEmployeesOnLeave,
			Summary:      "Employees on approved leave on a day. Managers see their department, HR sees everyone.",
			Parameters:   employeesOnLeaveParameters(),
			RequiresAuth: true,
			ReadOnly:     true,
		}, decodeEmployeesOnLeave, h.getEmployeesOnLeave),
	)
}

func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[Operation(name)]
	return def, ok
}

// Definitions returns every operation in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, op := range r.order {
		out = append(out, r.defs[op])
	}
	return out
}
