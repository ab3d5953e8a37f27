package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/clock"
)

type RepositoryAPI interface {
	// EmployeesOnLeave lists approved leaves covering date. A nil
	// departmentID means every department.
	EmployeesOnLeave(ctx context.Context, date time.Time, departmentID *int64) ([]Absence, error)
	UpcomingLeaves(ctx context.Context, from, to time.Time) ([]Absence, error)
	PendingRequests(ctx context.Context, departmentID *int64) ([]PendingRequest, error)
	LowBalances(ctx context.Context, threshold int) ([]LowBalance, error)
	RequestCounts(ctx context.Context) ([]StatusCount, error)
	BalanceTotals(ctx context.Context) (*BalanceTotals, error)
	DepartmentSummaries(ctx context.Context) ([]DepartmentSummary, error)
}

type Service struct {
	repo   RepositoryAPI
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

func (s *Service) Today() time.Time {
	return clock.Today(s.clock)
}

// EmployeesOnLeave lists who is away on date; the zero date means today.
func (s *Service) EmployeesOnLeave(ctx context.Context, date time.Time, departmentID *int64) ([]AbsenceView, error) {
	if date.IsZero() {
		date = s.Today()
	}
	rows, err := s.repo.EmployeesOnLeave(ctx, clock.DateOf(date), departmentID)
	if err != nil {
		s.logger.Error("failed to list employees on leave", "error", err)
		return nil, fmt.Errorf("employees on leave: %w", err)
	}
	return absenceViews(rows), nil
}

// UpcomingLeaves lists approved leaves starting within the next days days,
// today excluded.
func (s *Service) UpcomingLeaves(ctx context.Context, days int) ([]AbsenceView, error) {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	if days > MaxUpcomingDays {
		return nil, internal.NewArgumentFieldError("days", fmt.Sprintf("days must be at most %d", MaxUpcomingDays), internal.ErrCodeValidationFailed)
	}

	today := s.Today()
	rows, err := s.repo.UpcomingLeaves(ctx, today.AddDate(0, 0, 1), today.AddDate(0, 0, days))
	if err != nil {
		s.logger.Error("failed to list upcoming leaves", "error", err)
		return nil, fmt.Errorf("upcoming leaves: %w", err)
	}
	return absenceViews(rows), nil
}

func (s *Service) PendingRequests(ctx context.Context, departmentID *int64) ([]PendingRequestView, error) {
	rows, err := s.repo.PendingRequests(ctx, departmentID)
	if err != nil {
		s.logger.Error("failed to list pending requests", "error", err)
		return nil, fmt.Errorf("pending requests: %w", err)
	}
	views := make([]PendingRequestView, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.View())
	}
	return views, nil
}

// LowBalances lists employees whose remaining days are at or below threshold.
func (s *Service) LowBalances(ctx context.Context, threshold int) ([]LowBalance, error) {
	if threshold < 0 {
		return nil, internal.NewArgumentFieldError("threshold", "threshold must not be negative", internal.ErrCodeValidationFailed)
	}
	rows, err := s.repo.LowBalances(ctx, threshold)
	if err != nil {
		s.logger.Error("failed to list low balances", "error", err)
		return nil, fmt.Errorf("low balances: %w", err)
	}
	if rows == nil {
		rows = []LowBalance{}
	}
	return rows, nil
}

func (s *Service) LeaveStatistics(ctx context.Context) (*Statistics, error) {
	counts, err := s.repo.RequestCounts(ctx)
	if err != nil {
		s.logger.Error("failed to count leave requests", "error", err)
		return nil, fmt.Errorf("leave statistics: %w", err)
	}
	totals, err := s.repo.BalanceTotals(ctx)
	if err != nil {
		s.logger.Error("failed to total leave balances", "error", err)
		return nil, fmt.Errorf("leave statistics: %w", err)
	}

	stats := &Statistics{
		ByStatus:             map[string]int{"Pending": 0, "Approved": 0, "Rejected": 0},
		EmployeesWithBalance: totals.Employees,
		TotalEntitledDays:    totals.TotalDays,
		TotalUsedDays:        totals.UsedDays,
		AverageRemainingDays: totals.AverageRemaining,
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
		stats.TotalRequests += c.Count
	}
	return stats, nil
}

func (s *Service) DepartmentSummaries(ctx context.Context) ([]DepartmentSummary, error) {
	rows, err := s.repo.DepartmentSummaries(ctx)
	if err != nil {
		s.logger.Error("failed to summarize departments", "error", err)
		return nil, fmt.Errorf("department summaries: %w", err)
	}
	if rows == nil {
		rows = []DepartmentSummary{}
	}
	return rows, nil
}

func absenceViews(rows []Absence) []AbsenceView {
	views := make([]AbsenceView, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.View())
	}
	return views
}
