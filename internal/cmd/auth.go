package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/config"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication operations",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthRefreshCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var appID, appSecret string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store Help Scout app credentials and fetch a token",
		Example: `  helpscout auth login --app-id abc --app-secret s3cret
  HELPSCOUT_KEYRING_BACKEND=file helpscout auth login --app-id abc --app-secret s3cret`,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			appID = strings.TrimSpace(appID)
			appSecret = strings.TrimSpace(appSecret)
			if appID == "" || appSecret == "" {
				return api.NewValidationError("--app-id and --app-secret are required")
			}

			client := getClient()
			store := client.Tokens.Store
			if err := store.Set(api.AccountAppID, appID); err != nil {
				return &api.ConfigError{Message: err.Error()}
			}
			if err := store.Set(api.AccountAppSecret, appSecret); err != nil {
				return &api.ConfigError{Message: err.Error()}
			}
			// Tokens issued for other credentials must not be reused.
			_ = store.Delete(api.AccountAccessToken)
			_ = store.Delete(api.AccountRefreshToken)
			client.Tokens.Clear()

			if _, err := client.Tokens.Refresh(cmd.Context()); err != nil {
				return err
			}
			return printMessage(cmd, "Successfully authenticated with Help Scout")
		}),
	}

	cmd.Flags().StringVar(&appID, "app-id", "", "Help Scout app ID (required)")
	cmd.Flags().StringVar(&appSecret, "app-secret", "", "Help Scout app secret (required)")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored tokens and the default mailbox",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client := getClient()
			store := client.Tokens.Store
			if err := store.Delete(api.AccountAccessToken); err != nil {
				return err
			}
			if err := store.Delete(api.AccountRefreshToken); err != nil {
				return err
			}
			client.Tokens.Clear()
			if err := config.ClearDefaultMailbox(); err != nil {
				return err
			}
			return printMessage(cmd, "Logged out successfully")
		}),
	}
}

type authStatus struct {
	Authenticated bool `json:"authenticated"`
	Configured    bool `json:"configured"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check authentication status",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client := getClient()
			return printJSON(cmd, authStatus{
				Authenticated: client.Tokens.StoredToken() != "",
				Configured:    client.Tokens.Configured(),
			})
		}),
	}
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange credentials for a new access token",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client := getClient()
			client.Tokens.Clear()
			if _, err := client.Tokens.Refresh(cmd.Context()); err != nil {
				return err
			}
			return printMessage(cmd, "Access token refreshed")
		}),
	}
}
