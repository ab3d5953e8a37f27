package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-assistant/internal/core/events"
	"github.com/frahmantamala/hr-assistant/internal/employee"
)

type EmployeeDirectory interface {
	GetByID(ctx context.Context, id int64) (*employee.Employee, error)
	Manager(ctx context.Context, e *employee.Employee) (*employee.Employee, error)
}

// ManagerNotifier tells the department manager that a request awaits review.
// Delivery to a messaging channel belongs to the transport; here the notice
// is a structured log record the transport tails.
type ManagerNotifier struct {
	directory EmployeeDirectory
	logger    *slog.Logger
}

func NewManagerNotifier(directory EmployeeDirectory, logger *slog.Logger) *ManagerNotifier {
	return &ManagerNotifier{directory: directory, logger: logger}
}

func (n *ManagerNotifier) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLeaveRequested, n.HandleLeaveRequested)
}

func (n *ManagerNotifier) HandleLeaveRequested(ctx context.Context, event events.Event) error {
	requested, ok := event.(*events.LeaveRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	requester, err := n.directory.GetByID(ctx, requested.EmployeeID)
	if err != nil {
		return fmt.Errorf("load requester: %w", err)
	}

	manager, err := n.directory.Manager(ctx, requester)
	if err != nil {
		return fmt.Errorf("load manager: %w", err)
	}
	if manager == nil || manager.ID == requester.ID {
		n.logger.Warn("leave request has no reviewing manager",
			"request_id", requested.RequestID,
			"employee_id", requester.ID,
			"department", requester.DepartmentName())
		return nil
	}

	n.logger.Info("leave request awaiting manager review",
		"request_id", requested.RequestID,
		"employee_id", requester.ID,
		"employee_name", requester.FullName,
		"manager_id", manager.ID,
		"manager_email", manager.Email,
		"start_date", FormatDate(requested.StartDate),
		"end_date", FormatDate(requested.EndDate),
		"duration_days", requested.DurationDays)
	return nil
}
