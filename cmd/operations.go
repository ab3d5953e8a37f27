package cmd

import (
	"log"
	"os"

	"github.com/frahmantamala/hr-assistant/internal/dispatch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "Print the operation catalog as YAML",
	Long:  `Print every registered operation with its parameter schema, for wiring the agent's tool definitions.`,
	Run: func(cmd *cobra.Command, args []string) {
		// The catalog needs no services: it only reads definitions.
		registry := dispatch.NewRegistry(dispatch.Services{})

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		if err := enc.Encode(map[string]any{"operations": dispatch.Catalog(registry)}); err != nil {
			log.Fatalf("failed to encode catalog: %v", err)
		}
	},
}
