package identity

import (
	"time"

	"github.com/frahmantamala/hr-assistant/internal/core/common/validation"
)

type LinkRequest struct {
	EmployeeID   int64  `json:"employee_id"`
	SessionToken string `json:"session_token"`
}

func (r LinkRequest) Validate() error {
	if err := validation.NewValidator().
		Field("employee_id", r.EmployeeID).Positive().
		Field("session_token", r.SessionToken).Required().MaxLength(MaxTokenLength).NoWhitespace().
		Validate(); err != nil {
		return err
	}
	return nil
}

func ValidateToken(token string) error {
	if err := validation.NewValidator().
		Field("session_token", token).Required().MaxLength(MaxTokenLength).NoWhitespace().
		Validate(); err != nil {
		return err
	}
	return nil
}

type LinkResponse struct {
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Department   string    `json:"department"`
	LinkedAt     time.Time `json:"linked_at"`
	Created      bool      `json:"created"`
}

func NewLinkResponse(res *LinkResult) LinkResponse {
	return LinkResponse{
		EmployeeID:   res.Employee.ID,
		EmployeeName: res.Employee.FullName,
		Department:   res.Employee.DepartmentName(),
		LinkedAt:     res.Link.LinkedAt,
		Created:      res.Created,
	}
}

type UnlinkResponse struct {
	Unlinked bool `json:"unlinked"`
}
