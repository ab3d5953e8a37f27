package postgres

import (
	"context"

	employeeDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements employee.RepositoryAPI using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	err := store.Conn(ctx, r.db).
		Preload("Department").
		Where("employee_id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, store.Translate(err)
	}
	return employee.FromDataModel(&row), nil
}

// UpdateSalary rewrites the denormalized salary column. Callers append the
// matching salary history row in the same transaction.
func (r *EmployeeRepository) UpdateSalary(ctx context.Context, id int64, amount float64) error {
	result := store.Conn(ctx, r.db).
		Model(&employeeDatamodel.Employee{}).
		Where("employee_id = ?", id).
		Update("salary", amount)
	if result.Error != nil {
		return store.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) GetDepartmentByID(ctx context.Context, id int64) (*employee.Department, error) {
	var row employeeDatamodel.Department
	if err := store.Conn(ctx, r.db).Where("department_id = ?", id).First(&row).Error; err != nil {
		return nil, store.Translate(err)
	}
	return employee.DepartmentFromDataModel(&row), nil
}
