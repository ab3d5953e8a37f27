package postgres

import (
	"context"

	salaryDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/salary"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/salary"
	"gorm.io/gorm"
)

// SalaryRepository implements salary.RepositoryAPI using GORM
type SalaryRepository struct {
	db *gorm.DB
}

func NewSalaryRepository(db *gorm.DB) salary.RepositoryAPI {
	return &SalaryRepository{db: db}
}

// Latest picks the record with the newest effective date, breaking ties by
// insertion order.
func (r *SalaryRepository) Latest(ctx context.Context, employeeID int64) (*salary.Record, error) {
	var row salaryDatamodel.Record
	err := store.Conn(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("effective_date DESC").
		Order("salary_id DESC").
		First(&row).Error
	if err != nil {
		return nil, store.Translate(err)
	}
	return salary.FromDataModel(&row), nil
}

func (r *SalaryRepository) Count(ctx context.Context, employeeID int64) (int, error) {
	var n int64
	err := store.Conn(ctx, r.db).
		Model(&salaryDatamodel.Record{}).
		Where("employee_id = ?", employeeID).
		Count(&n).Error
	if err != nil {
		return 0, store.Translate(err)
	}
	return int(n), nil
}

func (r *SalaryRepository) History(ctx context.Context, employeeID int64) ([]*salary.Record, error) {
	var rows []*salaryDatamodel.Record
	err := store.Conn(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("effective_date DESC").
		Order("salary_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, store.Translate(err)
	}
	out := make([]*salary.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, salary.FromDataModel(row))
	}
	return out, nil
}

func (r *SalaryRepository) Append(ctx context.Context, rec *salary.Record) error {
	row := salary.ToDataModel(rec)
	if err := store.Conn(ctx, r.db).Create(row).Error; err != nil {
		return store.Translate(err)
	}
	rec.ID = row.ID
	rec.CreatedAt = row.CreatedAt
	return nil
}
