package leave

import "time"

type Balance struct {
	EmployeeID    int64     `gorm:"column:employee_id;primaryKey;autoIncrement:false"`
	TotalDays     int       `gorm:"column:total_days;not null;check:chk_leave_balances_days,used_days >= 0 AND used_days <= total_days AND remaining_days = total_days - used_days"`
	UsedDays      int       `gorm:"column:used_days;not null"`
	RemainingDays int       `gorm:"column:remaining_days;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Balance) TableName() string { return "leave_balances" }

type Request struct {
	ID         int64     `gorm:"column:leave_id;primaryKey"`
	EmployeeID int64     `gorm:"column:employee_id;not null;index:idx_leave_requests_employee_status,priority:1"`
	StartDate  time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate    time.Time `gorm:"column:end_date;type:date;not null;check:chk_leave_requests_range,start_date <= end_date"`
	Reason     *string   `gorm:"column:reason;size:500"`
	Status     string    `gorm:"column:status;size:20;not null;index:idx_leave_requests_employee_status,priority:2;check:chk_leave_requests_status,status IN ('Pending','Approved','Rejected')"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string { return "leave_requests" }
