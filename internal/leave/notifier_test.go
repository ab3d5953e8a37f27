package leave_test

import (
	"bytes"
	"context"
	"errors"

	"github.com/frahmantamala/hr-assistant/internal/core/events"
	"github.com/frahmantamala/hr-assistant/internal/core/store/storetest"
	"github.com/frahmantamala/hr-assistant/internal/employee"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubDirectory struct {
	employees map[int64]*employee.Employee
	managers  map[int64]*employee.Employee
	err       error
}

func (d *stubDirectory) GetByID(_ context.Context, id int64) (*employee.Employee, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.employees[id], nil
}

func (d *stubDirectory) Manager(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	return d.managers[e.DepartmentID], nil
}

var _ = Describe("ManagerNotifier", func() {
	var (
		out       *bytes.Buffer
		directory *stubDirectory
		notifier  *leave.ManagerNotifier
		omar      *employee.Employee
		lina      *employee.Employee
		requested *events.LeaveRequestedEvent
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		omar = &employee.Employee{ID: 1, FullName: "Omar Haddad", DepartmentID: 10, Role: employee.RoleEmployee}
		lina = &employee.Employee{ID: 2, FullName: "Lina Park", Email: "lina@example.com", DepartmentID: 10, Role: employee.RoleManager}
		directory = &stubDirectory{
			employees: map[int64]*employee.Employee{1: omar, 2: lina},
			managers:  map[int64]*employee.Employee{10: lina},
		}
		notifier = leave.NewManagerNotifier(directory, logger.New(out, "json", "debug"))
		requested = events.NewLeaveRequestedEvent(42, omar.ID,
			storetest.Date(2026, 6, 15), storetest.Date(2026, 6, 19), 5, 20)
	})

	It("logs a review notice addressed to the manager", func() {
		Expect(notifier.HandleLeaveRequested(context.Background(), requested)).To(Succeed())
		Expect(out.String()).To(ContainSubstring(`"msg":"leave request awaiting manager review"`))
		Expect(out.String()).To(ContainSubstring(`"manager_email":"lina@example.com"`))
		Expect(out.String()).To(ContainSubstring(`"start_date":"2026-06-15"`))
	})

	It("warns when the requester manages their own department", func() {
		requested.EmployeeID = lina.ID
		Expect(notifier.HandleLeaveRequested(context.Background(), requested)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("leave request has no reviewing manager"))
	})

	It("warns when the department has no manager", func() {
		delete(directory.managers, 10)
		Expect(notifier.HandleLeaveRequested(context.Background(), requested)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("leave request has no reviewing manager"))
	})

	It("fails when the requester cannot be loaded", func() {
		directory.err = errors.New("boom")
		err := notifier.HandleLeaveRequested(context.Background(), requested)
		Expect(err).To(MatchError(ContainSubstring("load requester")))
	})

	It("runs when the bus publishes the event", func() {
		bus := events.NewEventBus(logger.Discard())
		notifier.Register(bus)
		Expect(bus.Publish(context.Background(), requested)).To(Succeed())
		bus.Wait()
		Expect(out.String()).To(ContainSubstring("awaiting manager review"))
	})
})
