package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/employee"
)

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleHR       Role = "HR"
)

type Department struct {
	ID        int64  `json:"department_id"`
	Name      string `json:"department_name"`
	ManagerID *int64 `json:"manager_id,omitempty"`
}

type Employee struct {
	ID           int64       `json:"employee_id"`
	FullName     string      `json:"full_name"`
	Email        string      `json:"email"`
	DepartmentID int64       `json:"department_id"`
	Department   *Department `json:"department,omitempty"`
	Role         Role        `json:"role"`
	HireDate     time.Time   `json:"hire_date"`
	Salary       float64     `json:"salary"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (e *Employee) DepartmentName() string {
	if e.Department == nil {
		return ""
	}
	return e.Department.Name
}

// CanViewDepartment reports whether e may list records across a department.
func (e *Employee) CanViewDepartment(departmentID int64) bool {
	switch e.Role {
	case RoleHR:
		return true
	case RoleManager:
		return e.DepartmentID == departmentID
	}
	return false
}

// Profile is the read projection returned by get_employee_info.
type Profile struct {
	EmployeeID int64   `json:"employee_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	HireDate   string  `json:"hire_date"`
	Salary     float64 `json:"salary"`
}

func (e *Employee) Profile() Profile {
	return Profile{
		EmployeeID: e.ID,
		Name:       e.FullName,
		Email:      e.Email,
		Department: e.DepartmentName(),
		Position:   string(e.Role),
		HireDate:   e.HireDate.Format(time.DateOnly),
		Salary:     e.Salary,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	out := &Employee{
		ID:           e.ID,
		FullName:     e.FullName,
		Email:        e.Email,
		DepartmentID: e.DepartmentID,
		Role:         Role(e.Role),
		HireDate:     e.HireDate,
		Salary:       e.Salary,
		CreatedAt:    e.CreatedAt,
	}
	if e.Department != nil {
		out.Department = DepartmentFromDataModel(e.Department)
	}
	return out
}

func DepartmentFromDataModel(d *employeeDatamodel.Department) *Department {
	return &Department{ID: d.ID, Name: d.Name, ManagerID: d.ManagerID}
}
