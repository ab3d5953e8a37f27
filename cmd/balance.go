package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/spf13/cobra"
)

var entitlementDays int

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Manage leave entitlements",
}

var balanceProvisionCmd = &cobra.Command{
	Use:   "provision <employee-id>",
	Short: "Create the yearly leave entitlement for an employee",
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

		b, err := deps.Leaves.Provision(context.Background(), employeeID, entitlementDays)
		if err != nil {
			log.Fatalf("provision failed: %v", err)
		}
		fmt.Printf("Employee %d now has %d leave days\n", b.EmployeeID, b.TotalDays)
	},
}

func init() {
	balanceProvisionCmd.Flags().IntVar(&entitlementDays, "days", leave.DefaultAnnualLeaveDays, "entitlement in days")
	balanceCmd.AddCommand(balanceProvisionCmd)
}
