package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/dispatch"
	"github.com/spf13/cobra"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <operation>",
	Short: "Run one operation for a linked session token, as the agent would",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var arguments dispatch.Arguments
		if invokeArgs != "" {
			if err := json.Unmarshal([]byte(invokeArgs), &arguments); err != nil {
				log.Fatalf("--args must be a JSON object: %v", err)
			}
		}

		deps, err := initializeDependencies(context.Background())
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.Close()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		result, err := deps.Dispatcher.Invoke(context.Background(), args[0], arguments, invokeToken)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok {
				_ = enc.Encode(internal.Response{Error: appErr})
				deps.Close()
				os.Exit(2)
			}
			log.Fatal(err)
		}
		if err := enc.Encode(result); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	},
}

var (
	invokeToken string
	invokeArgs  string
)

func init() {
	invokeCmd.Flags().StringVarP(&invokeToken, "token", "t", "", "session token of the linked employee")
	invokeCmd.Flags().StringVarP(&invokeArgs, "args", "a", "", `arguments as a JSON object, e.g. '{"start_date":"2026-02-15","end_date":"2026-02-20"}'`)
	_ = invokeCmd.MarkFlagRequired("token")
}
