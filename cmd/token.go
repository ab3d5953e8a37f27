package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/frahmantamala/hr-assistant/internal/auth"
	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Service token and client secret tools",
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a service token signed with the configured secret",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		var scopes []string
		for _, s := range strings.Split(tokenScopes, ",") {
			if s = strings.TrimSpace(s); s != "" {
				scopes = append(scopes, s)
			}
		}

		tokens := auth.NewJWTTokenGenerator(cfg.Security.ServiceTokenSecret, cfg.Security.Issuer, cfg.Security.ServiceTokenDuration, clock.Real(nil))
		token, err := tokens.GenerateAccessToken(tokenClient, scopes)
		if err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(token); err != nil {
			log.Fatal(err)
		}
	},
}

var hashSecretCmd = &cobra.Command{
	Use:   "hash-secret [secret]",
	Short: "Print a bcrypt hash for a client secret, generating the secret when omitted",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var secret string
		if len(args) == 1 {
			secret = args[0]
		} else {
			generated, err := auth.GenerateSecret()
			if err != nil {
				log.Fatalf("failed to generate secret: %v", err)
			}
			secret = generated
			fmt.Println("secret:     ", secret)
		}

		hash, err := auth.HashSecret(secret)
		if err != nil {
			log.Fatalf("failed to hash secret: %v", err)
		}
		fmt.Println("secret_hash:", hash)
	},
}

var (
	tokenClient string
	tokenScopes string
)

func init() {
	issueTokenCmd.Flags().StringVar(&tokenClient, "client", "cli", "client name recorded in the token")
	issueTokenCmd.Flags().StringVar(&tokenScopes, "scopes", strings.Join(auth.AllScopes, ","), "comma separated scopes")

	tokenCmd.AddCommand(issueTokenCmd)
	tokenCmd.AddCommand(hashSecretCmd)
}
