package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*Employee, error)
	UpdateSalary(ctx context.Context, id int64, amount float64) error
	GetDepartmentByID(ctx context.Context, id int64) (*Department, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByID loads an employee together with the department name.
func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrEmployeeNotFound().WithCause(err)
		}
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, fmt.Errorf("get employee %d: %w", id, err)
	}
	return e, nil
}

func (s *Service) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := e.Profile()
	return &p, nil
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	d, err := s.repo.GetDepartmentByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound).WithCause(err)
		}
		s.logger.Error("failed to get department", "error", err, "department_id", id)
		return nil, fmt.Errorf("get department %d: %w", id, err)
	}
	return d, nil
}

// Manager returns the manager of the employee's department, or nil when the
// department has none.
func (s *Service) Manager(ctx context.Context, e *Employee) (*Employee, error) {
	dept := e.Department
	if dept == nil {
		var err error
		if dept, err = s.GetDepartment(ctx, e.DepartmentID); err != nil {
			return nil, err
		}
	}
	if dept.ManagerID == nil {
		return nil, nil
	}
	return s.GetByID(ctx, *dept.ManagerID)
}
