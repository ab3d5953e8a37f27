package salary

import (
	"time"

	salaryDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/salary"
)

// Record is one entry of an employee's append-only salary history.
type Record struct {
	ID            int64     `json:"salary_id"`
	EmployeeID    int64     `json:"employee_id"`
	Amount        float64   `json:"amount"`
	EffectiveDate time.Time `json:"effective_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// Info is the read projection returned by get_salary_info.
type Info struct {
	CurrentSalary float64 `json:"current_salary"`
	EffectiveDate string  `json:"effective_date"`
	HistoryCount  int     `json:"history_count"`
}

func ToDataModel(r *Record) *salaryDatamodel.Record {
	return &salaryDatamodel.Record{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Amount:        r.Amount,
		EffectiveDate: r.EffectiveDate,
		CreatedAt:     r.CreatedAt,
	}
}

func FromDataModel(r *salaryDatamodel.Record) *Record {
	y, m, d := r.EffectiveDate.Date()
	return &Record{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Amount:        r.Amount,
		EffectiveDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		CreatedAt:     r.CreatedAt,
	}
}
