package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/frahmantamala/hr-assistant/internal/core/events"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/employee"
)

type RepositoryAPI interface {
	GetByToken(ctx context.Context, token string) (*Link, error)
	GetByEmployee(ctx context.Context, employeeID int64) (*Link, error)
	Create(ctx context.Context, l *Link) error
	Touch(ctx context.Context, token string, at time.Time) error
	DeleteByToken(ctx context.Context, token string) error
}

type EmployeeLookup interface {
	GetByID(ctx context.Context, id int64) (*employee.Employee, error)
}

type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeLookup
	tx        TransactionManager
	sessions  *SessionStore
	publisher events.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewService(
	repo RepositoryAPI,
	employees EmployeeLookup,
	tx TransactionManager,
	sessions *SessionStore,
	publisher events.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		tx:        tx,
		sessions:  sessions,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// Resolve maps a session token to its employee. Unknown tokens fail with an
// authentication error before anything is written. On success the link's
// last interaction is refreshed with a single-row update; a failure there is
// logged and does not fail the resolve.
func (s *Service) Resolve(ctx context.Context, token string) (*employee.Employee, error) {
	if token == "" {
		return nil, internal.ErrSessionNotLinked()
	}

	link, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrSessionNotLinked()
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	emp, err := s.employees.GetByID(ctx, link.EmployeeID)
	if err != nil {
		if internal.TypeOf(err) == internal.ErrorTypeNotFound {
			return nil, internal.ErrSessionNotLinked().WithCause(err)
		}
		return nil, fmt.Errorf("resolve employee: %w", err)
	}

	if err := s.repo.Touch(ctx, token, s.clock.Now().UTC()); err != nil {
		s.logger.Warn("failed to record last interaction", "error", err, "employee_id", emp.ID)
	}

	return emp, nil
}

// Link binds token to employeeID. Re-linking the same pair is a no-op that
// reports Created=false. A token owned by another employee, or an employee
// already linked through another token, is a conflict.
func (s *Service) Link(ctx context.Context, employeeID int64, token string) (*LinkResult, error) {
	if err := (LinkRequest{EmployeeID: employeeID, SessionToken: token}).Validate(); err != nil {
		return nil, err
	}

	var result *LinkResult
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		emp, err := s.employees.GetByID(ctx, employeeID)
		if err != nil {
			return err
		}

		existing, err := s.repo.GetByToken(ctx, token)
		switch {
		case err == nil && existing.EmployeeID == employeeID:
			result = &LinkResult{Link: existing, Employee: emp}
			return nil
		case err == nil:
			return internal.NewConflictError("session is already linked to another employee", internal.ErrCodeTokenAlreadyLinked)
		case !store.IsNotFound(err):
			return fmt.Errorf("lookup link by token: %w", err)
		}

		if _, err := s.repo.GetByEmployee(ctx, employeeID); err == nil {
			return internal.NewConflictError("employee is already linked to another session; unlink it first", internal.ErrCodeEmployeeAlreadyLinked)
		} else if !store.IsNotFound(err) {
			return fmt.Errorf("lookup link by employee: %w", err)
		}

		now := s.clock.Now().UTC()
		link := &Link{EmployeeID: employeeID, SessionToken: token, LinkedAt: now, LastInteraction: now}
		if err := s.repo.Create(ctx, link); err != nil {
			return err
		}
		result = &LinkResult{Link: link, Employee: emp, Created: true}
		return nil
	})

	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent link won the race; settle on whatever it stored.
		result, err = s.settleRace(ctx, employeeID, token)
	}
	if err != nil {
		if _, ok := internal.IsAppError(err); !ok {
			s.logger.Error("failed to link session", "error", err, "employee_id", employeeID)
		}
		return nil, err
	}

	s.sessions.Open(token, employeeID)
	if result.Created {
		s.logger.Info("session linked", "employee_id", employeeID)
		if err := s.publisher.Publish(ctx, events.NewIdentityLinkedEvent(employeeID)); err != nil {
			s.logger.Warn("failed to publish link event", "error", err, "employee_id", employeeID)
		}
	}
	return result, nil
}

func (s *Service) settleRace(ctx context.Context, employeeID int64, token string) (*LinkResult, error) {
	existing, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.NewConflictError("employee is already linked to another session; unlink it first", internal.ErrCodeEmployeeAlreadyLinked)
		}
		return nil, fmt.Errorf("lookup link by token: %w", err)
	}
	if existing.EmployeeID != employeeID {
		return nil, internal.NewConflictError("session is already linked to another employee", internal.ErrCodeTokenAlreadyLinked)
	}
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &LinkResult{Link: existing, Employee: emp}, nil
}

// Unlink removes the link for token and evicts its session. Unlinking an
// unknown token is a no-op and reports false.
func (s *Service) Unlink(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	var removed *Link
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		link, err := s.repo.GetByToken(ctx, token)
		if err != nil {
			if store.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("lookup link by token: %w", err)
		}
		if err := s.repo.DeleteByToken(ctx, token); err != nil {
			return fmt.Errorf("delete link: %w", err)
		}
		removed = link
		return nil
	})
	if err != nil {
		s.logger.Error("failed to unlink session", "error", err)
		return false, err
	}

	s.sessions.Evict(token)
	if removed == nil {
		return false, nil
	}

	s.logger.Info("session unlinked", "employee_id", removed.EmployeeID)
	if err := s.publisher.Publish(ctx, events.NewIdentityUnlinkedEvent(removed.EmployeeID)); err != nil {
		s.logger.Warn("failed to publish unlink event", "error", err, "employee_id", removed.EmployeeID)
	}
	return true, nil
}
