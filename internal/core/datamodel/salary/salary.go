package salary

import "time"

type Record struct {
	ID            int64     `gorm:"column:salary_id;primaryKey"`
	EmployeeID    int64     `gorm:"column:employee_id;not null;index"`
	Amount        float64   `gorm:"column:amount;not null;check:chk_salaries_amount,amount >= 0"`
	EffectiveDate time.Time `gorm:"column:effective_date;type:date;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Record) TableName() string { return "salaries" }
