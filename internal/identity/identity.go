package identity

import (
	"time"

	identityDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/identity"
	"github.com/frahmantamala/hr-assistant/internal/employee"
)

const MaxTokenLength = 128

// Link binds an opaque session token issued by the messaging transport to an
// employee. An employee holds at most one link and a token maps to one employee.
type Link struct {
	EmployeeID      int64     `json:"employee_id"`
	SessionToken    string    `json:"-"`
	LinkedAt        time.Time `json:"linked_at"`
	LastInteraction time.Time `json:"last_interaction"`
}

type LinkResult struct {
	Link     *Link
	Employee *employee.Employee
	// Created is false when the same token was already linked to the same employee.
	Created bool
}

func ToDataModel(l *Link) *identityDatamodel.ChatLink {
	return &identityDatamodel.ChatLink{
		EmployeeID:      l.EmployeeID,
		SessionToken:    l.SessionToken,
		LinkedAt:        l.LinkedAt,
		LastInteraction: l.LastInteraction,
	}
}

func FromDataModel(l *identityDatamodel.ChatLink) *Link {
	return &Link{
		EmployeeID:      l.EmployeeID,
		SessionToken:    l.SessionToken,
		LinkedAt:        l.LinkedAt,
		LastInteraction: l.LastInteraction,
	}
}
