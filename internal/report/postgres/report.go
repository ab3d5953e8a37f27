package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/report"
	"github.com/jmoiron/sqlx"
)

const absenceColumns = `
	r.leave_id, r.employee_id, e.full_name, e.email, e.department_id,
	d.department_name, r.start_date, r.end_date, r.reason`

const absenceFrom = `
	FROM leave_requests r
	JOIN employees e ON e.employee_id = r.employee_id
	JOIN departments d ON d.department_id = e.department_id`

// ReportRepository implements report.RepositoryAPI with hand-written SQL on sqlx.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) EmployeesOnLeave(ctx context.Context, date time.Time, departmentID *int64) ([]report.Absence, error) {
	q := `SELECT` + absenceColumns + absenceFrom + `
	WHERE r.status = 'Approved' AND r.start_date <= ? AND r.end_date >= ?`
	args := []any{date, date}
	if departmentID != nil {
		q += ` AND e.department_id = ?`
		args = append(args, *departmentID)
	}
	q += ` ORDER BY d.department_name, e.full_name`

	var rows []report.Absence
	if err := store.Select(ctx, r.db, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) UpcomingLeaves(ctx context.Context, from, to time.Time) ([]report.Absence, error) {
	q := `SELECT` + absenceColumns + absenceFrom + `
	WHERE r.status = 'Approved' AND r.start_date >= ? AND r.start_date <= ?
	ORDER BY r.start_date, e.full_name`

	var rows []report.Absence
	if err := store.Select(ctx, r.db, &rows, q, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) PendingRequests(ctx context.Context, departmentID *int64) ([]report.PendingRequest, error) {
	q := `SELECT` + absenceColumns + `, r.created_at` + absenceFrom + `
	WHERE r.status = 'Pending'`
	var args []any
	if departmentID != nil {
		q += ` AND e.department_id = ?`
		args = append(args, *departmentID)
	}
	q += ` ORDER BY r.created_at, r.leave_id`

	var rows []report.PendingRequest
	if err := store.Select(ctx, r.db, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) LowBalances(ctx context.Context, threshold int) ([]report.LowBalance, error) {
	const q = `
	SELECT b.employee_id, e.full_name, d.department_name, b.total_days, b.used_days, b.remaining_days
	FROM leave_balances b
	JOIN employees e ON e.employee_id = b.employee_id
	JOIN departments d ON d.department_id = e.department_id
	WHERE b.remaining_days <= ?
	ORDER BY b.remaining_days, e.full_name`

	var rows []report.LowBalance
	if err := store.Select(ctx, r.db, &rows, q, threshold); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) RequestCounts(ctx context.Context) ([]report.StatusCount, error) {
	const q = `SELECT status, COUNT(*) AS request_count FROM leave_requests GROUP BY status`

	var rows []report.StatusCount
	if err := store.Select(ctx, r.db, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) BalanceTotals(ctx context.Context) (*report.BalanceTotals, error) {
	const q = `
	SELECT COUNT(*) AS employees,
		COALESCE(SUM(total_days), 0) AS total_days,
		COALESCE(SUM(used_days), 0) AS used_days,
		CAST(COALESCE(AVG(remaining_days), 0) AS DOUBLE PRECISION) AS average_remaining
	FROM leave_balances`

	var totals report.BalanceTotals
	if err := store.Get(ctx, r.db, &totals, q); err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *ReportRepository) DepartmentSummaries(ctx context.Context) ([]report.DepartmentSummary, error) {
	const q = `
	SELECT d.department_id, d.department_name, d.manager_id, m.full_name AS manager_name,
		COUNT(e.employee_id) AS employee_count,
		CAST(COALESCE(AVG(e.salary), 0) AS DOUBLE PRECISION) AS average_salary
	FROM departments d
	LEFT JOIN employees e ON e.department_id = d.department_id
	LEFT JOIN employees m ON m.employee_id = d.manager_id
	GROUP BY d.department_id, d.department_name, d.manager_id, m.full_name
	ORDER BY d.department_name`

	var rows []report.DepartmentSummary
	if err := store.Select(ctx, r.db, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}
