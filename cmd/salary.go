package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/spf13/cobra"
)

var effectiveDate string

var salaryCmd = &cobra.Command{
	Use:   "salary",
	Short: "Inspect and append salary history",
}

var salaryRecordCmd = &cobra.Command{
	Use:   "record <employee-id> <amount>",
	Short: "Append a salary entry; the latest entry becomes the current salary",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		employeeID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			log.Fatalf("invalid employee id %q", args[0])
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			log.Fatalf("invalid amount %q", args[1])
		}

		deps, err := initializeDependencies(context.Background())
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.Close()

		effective := deps.Clock.Now()
		if effectiveDate != "" {
			if effective, err = leave.ParseDate(effectiveDate); err != nil {
				log.Fatalf("invalid --effective: %v", err)
			}
		}

		record, err := deps.Salaries.Record(context.Background(), employeeID, amount, leave.DateOf(effective))
		if err != nil {
			log.Fatalf("record salary failed: %v", err)
		}
		fmt.Printf("Recorded %.2f for employee %d effective %s\n",
			record.Amount, record.EmployeeID, record.EffectiveDate.Format(time.DateOnly))
	},
}

var salaryHistoryCmd = &cobra.Command{
	Use:   "history <employee-id>",
	Short: "Print an employee's salary history, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		employeeID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			log.Fatalf("invalid employee id %q", args[0])
		}

		deps, err := initializeDependencies(context.Background())
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.Close()

		records, err := deps.Salaries.History(context.Background(), employeeID)
		if err != nil {
			log.Fatalf("salary history failed: %v", err)
		}
		if len(records) == 0 {
			fmt.Println("No salary records")
			return
		}
		for _, r := range records {
			fmt.Printf("%s  %12.2f\n", r.EffectiveDate.Format(time.DateOnly), r.Amount)
		}
	},
}

func init() {
	salaryRecordCmd.Flags().StringVar(&effectiveDate, "effective", "", "effective date YYYY-MM-DD (default today)")
	salaryCmd.AddCommand(salaryRecordCmd)
	salaryCmd.AddCommand(salaryHistoryCmd)
}
