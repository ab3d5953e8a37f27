package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
)

type RepositoryAPI interface {
	GetBalance(ctx context.Context, employeeID int64) (*Balance, error)
	// LockBalance reads the balance row and holds a write lock on it until
	// the surrounding transaction ends.
	LockBalance(ctx context.Context, employeeID int64) (*Balance, error)
	CreateBalance(ctx context.Context, b *Balance) error
	CountPending(ctx context.Context, employeeID int64) (int, error)
	Create(ctx context.Context, r *Request) error
	ListByEmployee(ctx context.Context, employeeID int64) ([]*Request, error)
}

type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type Service struct {
	repo   RepositoryAPI
	tx     TransactionManager
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tx TransactionManager, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		clock:  clk,
		logger: logger,
	}
}

// Today is the business date used for past-date checks.
func (s *Service) Today() time.Time {
	return clock.Today(s.clock)
}

func (s *Service) GetBalance(ctx context.Context, employeeID int64) (*Balance, error) {
	b, err := s.repo.GetBalance(ctx, employeeID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrLeaveBalanceNotFound().WithCause(err)
		}
		s.logger.Error("failed to get leave balance", "error", err, "employee_id", employeeID)
		return nil, fmt.Errorf("get leave balance: %w", err)
	}
	return b, nil
}

// ListRequests returns the employee's requests, most recent first.
func (s *Service) ListRequests(ctx context.Context, employeeID int64) ([]*Request, error) {
	requests, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to list leave requests", "error", err, "employee_id", employeeID)
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return requests, nil
}

// RequestLeave validates and records a Pending request. The balance row is
// locked first so that concurrent requests for the same employee see each
// other's inserts when counting pending requests.
func (s *Service) RequestLeave(ctx context.Context, employeeID int64, dto RequestLeaveDTO) (*Receipt, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var receipt *Receipt
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		balance, err := s.repo.LockBalance(ctx, employeeID)
		if err != nil {
			if store.IsNotFound(err) {
				return internal.ErrLeaveBalanceNotFound().WithCause(err)
			}
			return fmt.Errorf("lock leave balance: %w", err)
		}

		pending, err := s.repo.CountPending(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("count pending requests: %w", err)
		}

		preview, err := Validate(Proposal{
			StartDate:     dto.StartDate,
			EndDate:       dto.EndDate,
			Today:         s.Today(),
			RemainingDays: balance.RemainingDays,
			PendingCount:  pending,
		})
		if err != nil {
			return err
		}

		request := NewRequest(employeeID, DateOf(dto.StartDate), DateOf(dto.EndDate), dto.Reason, s.clock.Now().UTC())
		if err := s.repo.Create(ctx, request); err != nil {
			return fmt.Errorf("create leave request: %w", err)
		}

		receipt = NewReceipt(request, preview)
		return nil
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); !ok {
			s.logger.Error("failed to request leave", "error", err, "employee_id", employeeID)
		}
		return nil, err
	}

	s.logger.Info("leave requested",
		"employee_id", employeeID,
		"request_id", receipt.RequestID,
		"duration_days", receipt.DurationDays)
	return receipt, nil
}

// Provision creates the yearly entitlement for a new employee.
func (s *Service) Provision(ctx context.Context, employeeID int64, totalDays int) (*Balance, error) {
	if totalDays <= 0 {
		totalDays = DefaultAnnualLeaveDays
	}
	b := NewBalance(employeeID, totalDays)
	if err := s.repo.CreateBalance(ctx, b); err != nil {
		return nil, fmt.Errorf("create leave balance: %w", err)
	}
	return b, nil
}
