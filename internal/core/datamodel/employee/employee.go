package employee

import "time"

type Department struct {
	ID        int64     `gorm:"column:department_id;primaryKey"`
	Name      string    `gorm:"column:department_name;size:100;uniqueIndex;not null"`
	ManagerID *int64    `gorm:"column:manager_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Department) TableName() string { return "departments" }

type Employee struct {
	ID           int64       `gorm:"column:employee_id;primaryKey"`
	FullName     string      `gorm:"column:full_name;size:150;not null"`
	Email        string      `gorm:"column:email;size:150;uniqueIndex;not null"`
	DepartmentID int64       `gorm:"column:department_id;not null;index"`
	Department   *Department `gorm:"foreignKey:DepartmentID;references:ID"`
	Role         string      `gorm:"column:role;size:20;not null;check:chk_employees_role,role IN ('Employee','Manager','HR')"`
	HireDate     time.Time   `gorm:"column:hire_date;type:date;not null"`
	Salary       float64     `gorm:"column:salary;not null;check:chk_employees_salary,salary >= 0"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string { return "employees" }
