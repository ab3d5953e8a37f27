package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveRequested   = "leave.requested"
	EventTypeIdentityLinked   = "identity.linked"
	EventTypeIdentityUnlinked = "identity.unlinked"
)

type LeaveRequestedEvent struct {
	BaseEvent
	RequestID          int64     `json:"request_id"`
	EmployeeID         int64     `json:"employee_id"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	DurationDays       int       `json:"duration_days"`
	ProjectedRemaining int       `json:"projected_remaining"`
}

func NewLeaveRequestedEvent(requestID, employeeID int64, start, end time.Time, duration, projected int) *LeaveRequestedEvent {
	return &LeaveRequestedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveRequested,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"request_id":          requestID,
				"employee_id":         employeeID,
				"start_date":          start.Format(time.DateOnly),
				"end_date":            end.Format(time.DateOnly),
				"duration_days":       duration,
				"projected_remaining": projected,
			},
		},
		RequestID:          requestID,
		EmployeeID:         employeeID,
		StartDate:          start,
		EndDate:            end,
		DurationDays:       duration,
		ProjectedRemaining: projected,
	}
}

type IdentityLinkedEvent struct {
	BaseEvent
	EmployeeID int64 `json:"employee_id"`
}

func NewIdentityLinkedEvent(employeeID int64) *IdentityLinkedEvent {
	return &IdentityLinkedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeIdentityLinked,
			Timestamp: time.Now().UTC(),
			Data:      map[string]interface{}{"employee_id": employeeID},
		},
		EmployeeID: employeeID,
	}
}

type IdentityUnlinkedEvent struct {
	BaseEvent
	EmployeeID int64 `json:"employee_id"`
}

func NewIdentityUnlinkedEvent(employeeID int64) *IdentityUnlinkedEvent {
	return &IdentityUnlinkedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeIdentityUnlinked,
			Timestamp: time.Now().UTC(),
			Data:      map[string]interface{}{"employee_id": employeeID},
		},
		EmployeeID: employeeID,
	}
}
