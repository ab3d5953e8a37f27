package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/frahmantamala/hr-assistant/internal/identity"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link <employee-id> <session-token>",
	Short: "Bind a chat session token to an employee",
	Args:  cobra.ExactArgs(2),
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

		res, err := deps.Identity.Link(context.Background(), employeeID, args[1])
		if err != nil {
			log.Fatalf("link failed: %v", err)
		}

		resp := identity.NewLinkResponse(res)
		if res.Created {
			fmt.Printf("Linked %s (employee %d)\n", resp.EmployeeName, resp.EmployeeID)
		} else {
			fmt.Printf("%s (employee %d) was already linked to this token\n", resp.EmployeeName, resp.EmployeeID)
		}
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <session-token>",
	Short: "Remove the link of a chat session token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies(context.Background())
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.Close()

		removed, err := deps.Identity.Unlink(context.Background(), args[0])
		if err != nil {
			log.Fatalf("unlink failed: %v", err)
		}
		if removed {
			fmt.Println("Link removed")
		} else {
			fmt.Println("No link for that token")
		}
	},
}
