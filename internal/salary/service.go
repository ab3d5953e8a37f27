package salary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
)

type RepositoryAPI interface {
	Latest(ctx context.Context, employeeID int64) (*Record, error)
	Count(ctx context.Context, employeeID int64) (int, error)
	History(ctx context.Context, employeeID int64) ([]*Record, error)
	Append(ctx context.Context, r *Record) error
}

// EmployeeSalaryWriter keeps the denormalized salary on the employee row in
// step with the history.
type EmployeeSalaryWriter interface {
	UpdateSalary(ctx context.Context, id int64, amount float64) error
}

type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeSalaryWriter
	tx        TransactionManager
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, employees EmployeeSalaryWriter, tx TransactionManager, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		tx:        tx,
		logger:    logger,
	}
}

// GetInfo returns the most recent salary and how many records the history holds.
func (s *Service) GetInfo(ctx context.Context, employeeID int64) (*Info, error) {
	latest, err := s.repo.Latest(ctx, employeeID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrSalaryNotFound().WithCause(err)
		}
		s.logger.Error("failed to get latest salary", "error", err, "employee_id", employeeID)
		return nil, fmt.Errorf("latest salary: %w", err)
	}

	count, err := s.repo.Count(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to count salary history", "error", err, "employee_id", employeeID)
		return nil, fmt.Errorf("count salary history: %w", err)
	}

	return &Info{
		CurrentSalary: latest.Amount,
		EffectiveDate: latest.EffectiveDate.Format(time.DateOnly),
		HistoryCount:  count,
	}, nil
}

func (s *Service) History(ctx context.Context, employeeID int64) ([]*Record, error) {
	return s.repo.History(ctx, employeeID)
}

// Record appends a salary entry. When it becomes the latest entry the
// employee's current salary is updated in the same transaction.
func (s *Service) Record(ctx context.Context, employeeID int64, amount float64, effective time.Time) (*Record, error) {
	if amount < 0 {
		return nil, internal.NewArgumentFieldError("amount", "amount must not be negative", internal.ErrCodeValidationFailed)
	}

	record := &Record{EmployeeID: employeeID, Amount: amount, EffectiveDate: effective}
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		if err := s.repo.Append(ctx, record); err != nil {
			return fmt.Errorf("append salary: %w", err)
		}
		latest, err := s.repo.Latest(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("latest salary: %w", err)
		}
		if latest.ID != record.ID {
			return nil
		}
		if err := s.employees.UpdateSalary(ctx, employeeID, amount); err != nil {
			if store.IsNotFound(err) {
				return internal.ErrEmployeeNotFound().WithCause(err)
			}
			return fmt.Errorf("update employee salary: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to record salary", "error", err, "employee_id", employeeID)
		return nil, err
	}
	return record, nil
}
