package postgres

import (
	"context"

	leaveDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeaveRepository implements leave.RepositoryAPI using GORM
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.RepositoryAPI {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) GetBalance(ctx context.Context, employeeID int64) (*leave.Balance, error) {
	var row leaveDatamodel.Balance
	if err := store.Conn(ctx, r.db).Where("employee_id = ?", employeeID).First(&row).Error; err != nil {
		return nil, store.Translate(err)
	}
	return leave.BalanceFromDataModel(&row), nil
}

// LockBalance issues SELECT ... FOR UPDATE. SQLite has no row locks and the
// dialect drops the clause; there the single connection serializes writers.
func (r *LeaveRepository) LockBalance(ctx context.Context, employeeID int64) (*leave.Balance, error) {
	var row leaveDatamodel.Balance
	err := store.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		First(&row).Error
	if err != nil {
		return nil, store.Translate(err)
	}
	return leave.BalanceFromDataModel(&row), nil
}

func (r *LeaveRepository) CreateBalance(ctx context.Context, b *leave.Balance) error {
	row := leave.BalanceToDataModel(b)
	if err := store.Conn(ctx, r.db).Create(row).Error; err != nil {
		return store.Translate(err)
	}
	b.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *LeaveRepository) CountPending(ctx context.Context, employeeID int64) (int, error) {
	var n int64
	err := store.Conn(ctx, r.db).
		Model(&leaveDatamodel.Request{}).
		Where("employee_id = ? AND status = ?", employeeID, string(leave.StatusPending)).
		Count(&n).Error
	if err != nil {
		return 0, store.Translate(err)
	}
	return int(n), nil
}

func (r *LeaveRepository) Create(ctx context.Context, req *leave.Request) error {
	row := leave.ToDataModel(req)
	if err := store.Conn(ctx, r.db).Create(row).Error; err != nil {
		return store.Translate(err)
	}
	req.ID = row.ID
	req.CreatedAt = row.CreatedAt
	req.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *LeaveRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*leave.Request, error) {
	var rows []*leaveDatamodel.Request
	err := store.Conn(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Order("leave_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, store.Translate(err)
	}
	out := make([]*leave.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, leave.FromDataModel(row))
	}
	return out, nil
}
