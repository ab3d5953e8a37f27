package cmd

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	employeeDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/employee"
	identityDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/identity"
	leaveDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/leave"
	salaryDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/salary"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := store.Open(context.Background(), cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer store.Close(db)

		if err := db.Transaction(func(tx *gorm.DB) error {
			if clearData {
				if err := clearTables(tx); err != nil {
					return err
				}
				fmt.Println("Cleared existing data")
			}
			return seed(tx, time.Now().UTC())
		}); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Println("Sample data seeded successfully")
	},
}

type seedEmployee struct {
	name, email, department, role string
	salary                        float64
	usedDays                      int
}

var seedEmployees = []seedEmployee{
	{"Alice Johnson", "alice.johnson@company.com", "Engineering", "Manager", 15000, 4},
	{"Bob Smith", "bob.smith@company.com", "Engineering", "Employee", 9500, 12},
	{"Chen Wei", "chen.wei@company.com", "Engineering", "Employee", 10200, 27},
	{"Diana Prince", "diana.prince@company.com", "Sales", "Manager", 14000, 8},
	{"Evan Brooks", "evan.brooks@company.com", "Sales", "Employee", 8000, 2},
	{"Fatima Noor", "fatima.noor@company.com", "Human Resources", "HR", 12000, 6},
}

func clearTables(tx *gorm.DB) error {
	models := slices.Clone(store.Models)
	slices.Reverse(models)
	for _, model := range models {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

func seed(tx *gorm.DB, now time.Time) error {
	departments := map[string]*employeeDatamodel.Department{}
	for _, name := range []string{"Engineering", "Sales", "Human Resources"} {
		d := &employeeDatamodel.Department{}
		if err := tx.Where(employeeDatamodel.Department{Name: name}).FirstOrCreate(d).Error; err != nil {
			return fmt.Errorf("department %s: %w", name, err)
		}
		departments[name] = d
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i, s := range seedEmployees {
		dept := departments[s.department]
		e := &employeeDatamodel.Employee{}
		err := tx.Omit("Department").
			Where(employeeDatamodel.Employee{Email: s.email}).
			Attrs(employeeDatamodel.Employee{
				FullName:     s.name,
				DepartmentID: dept.ID,
				Role:         s.role,
				HireDate:     today.AddDate(-3+i%3, -i, 0),
				Salary:       s.salary,
			}).
			FirstOrCreate(e).Error
		if err != nil {
			return fmt.Errorf("employee %s: %w", s.email, err)
		}

		if s.role == "Manager" && dept.ManagerID == nil {
			dept.ManagerID = &e.ID
			if err := tx.Model(dept).Update("manager_id", e.ID).Error; err != nil {
				return err
			}
		}

		balance := &leaveDatamodel.Balance{
			EmployeeID:    e.ID,
			TotalDays:     leave.DefaultAnnualLeaveDays,
			UsedDays:      s.usedDays,
			RemainingDays: leave.DefaultAnnualLeaveDays - s.usedDays,
		}
		if err := tx.Where(leaveDatamodel.Balance{EmployeeID: e.ID}).FirstOrCreate(balance).Error; err != nil {
			return fmt.Errorf("balance %s: %w", s.email, err)
		}

		var salaries int64
		if err := tx.Model(&salaryDatamodel.Record{}).Where("employee_id = ?", e.ID).Count(&salaries).Error; err != nil {
			return err
		}
		if salaries == 0 {
			history := []salaryDatamodel.Record{
				{EmployeeID: e.ID, Amount: s.salary * 0.9, EffectiveDate: today.AddDate(-1, 0, 0)},
				{EmployeeID: e.ID, Amount: s.salary, EffectiveDate: today.AddDate(0, -2, 0)},
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("salaries %s: %w", s.email, err)
			}
		}

		var requests int64
		if err := tx.Model(&leaveDatamodel.Request{}).Where("employee_id = ?", e.ID).Count(&requests).Error; err != nil {
			return err
		}
		if requests == 0 {
			samples := sampleRequests(e.ID, i, today)
			if err := tx.Create(&samples).Error; err != nil {
				return fmt.Errorf("leave requests %s: %w", s.email, err)
			}
		}

		link := &identityDatamodel.ChatLink{
			EmployeeID:      e.ID,
			SessionToken:    fmt.Sprintf("demo-session-%d", i+1),
			LinkedAt:        now,
			LastInteraction: now,
		}
		if err := tx.Where(identityDatamodel.ChatLink{EmployeeID: e.ID}).FirstOrCreate(link).Error; err != nil {
			return fmt.Errorf("chat link %s: %w", s.email, err)
		}
		fmt.Printf("Seeded %s (%s, %s) with session token %s\n", s.name, s.role, s.department, link.SessionToken)
	}
	return nil
}

// sampleRequests spreads statuses so every report has something to show:
// one leave in progress today, one upcoming, one pending, one rejected.
func sampleRequests(employeeID int64, i int, today time.Time) []leaveDatamodel.Request {
	reason := func(s string) *string { return &s }
	switch i % 3 {
	case 0:
		return []leaveDatamodel.Request{
			{EmployeeID: employeeID, StartDate: today.AddDate(0, 0, -1), EndDate: today.AddDate(0, 0, 1), Reason: reason("Family visit"), Status: "Approved"},
			{EmployeeID: employeeID, StartDate: today.AddDate(0, 1, 0), EndDate: today.AddDate(0, 1, 2), Reason: reason("Personal"), Status: "Pending"},
		}
	case 1:
		return []leaveDatamodel.Request{
			{EmployeeID: employeeID, StartDate: today.AddDate(0, 0, 10), EndDate: today.AddDate(0, 0, 14), Reason: reason("Vacation"), Status: "Approved"},
		}
	default:
		return []leaveDatamodel.Request{
			{EmployeeID: employeeID, StartDate: today.AddDate(0, -2, 0), EndDate: today.AddDate(0, -2, 3), Reason: reason("Conference"), Status: "Rejected"},
			{EmployeeID: employeeID, StartDate: today.AddDate(0, 0, 20), EndDate: today.AddDate(0, 0, 21), Reason: reason("Medical"), Status: "Pending"},
		}
	}
}
