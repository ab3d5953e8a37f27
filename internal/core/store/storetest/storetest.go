// Package storetest opens throwaway SQLite stores for specs.
package storetest

import (
	"fmt"
	"sync/atomic"
	"time"

	employeeDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/employee"
	identityDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/identity"
	leaveDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/leave"
	salaryDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/salary"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns an in-memory SQLite database with foreign keys enforced and a
// single connection, so concurrent transactions queue instead of interleaving.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := store.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Fixtures inserts rows directly through gorm, bypassing the services.
type Fixtures struct {
	DB *gorm.DB
}

func (f Fixtures) Department(name string) (*employeeDatamodel.Department, error) {
	d := &employeeDatamodel.Department{Name: name}
	return d, f.DB.Create(d).Error
}

type EmployeeOption func(*employeeDatamodel.Employee)

func WithRole(role string) EmployeeOption {
	return func(e *employeeDatamodel.Employee) { e.Role = role }
}

func WithSalary(amount float64) EmployeeOption {
	return func(e *employeeDatamodel.Employee) { e.Salary = amount }
}

func (f Fixtures) Employee(name string, departmentID int64, opts ...EmployeeOption) (*employeeDatamodel.Employee, error) {
	n := seq.Add(1)
	e := &employeeDatamodel.Employee{
		FullName:     name,
		Email:        fmt.Sprintf("employee%d@example.com", n),
		DepartmentID: departmentID,
		Role:         "Employee",
		HireDate:     Date(2020, time.January, 15),
		Salary:       10000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, f.DB.Omit("Department").Create(e).Error
}

func (f Fixtures) Balance(employeeID int64, total, used int) (*leaveDatamodel.Balance, error) {
	b := &leaveDatamodel.Balance{
		EmployeeID:    employeeID,
		TotalDays:     total,
		UsedDays:      used,
		RemainingDays: total - used,
	}
	return b, f.DB.Create(b).Error
}

func (f Fixtures) Request(employeeID int64, start, end time.Time, status string) (*leaveDatamodel.Request, error) {
	reason := "fixture"
	r := &leaveDatamodel.Request{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     &reason,
		Status:     status,
	}
	return r, f.DB.Create(r).Error
}

func (f Fixtures) Salary(employeeID int64, amount float64, effective time.Time) (*salaryDatamodel.Record, error) {
	r := &salaryDatamodel.Record{EmployeeID: employeeID, Amount: amount, EffectiveDate: effective}
	return r, f.DB.Create(r).Error
}

func (f Fixtures) Link(employeeID int64, token string, at time.Time) (*identityDatamodel.ChatLink, error) {
	l := &identityDatamodel.ChatLink{EmployeeID: employeeID, SessionToken: token, LinkedAt: at, LastInteraction: at}
	return l, f.DB.Create(l).Error
}

// Count returns the number of rows in model's table.
func (f Fixtures) Count(model any) int64 {
	var n int64
	f.DB.Model(model).Count(&n)
	return n
}
