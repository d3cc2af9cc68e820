package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/todofewer/internal/msauth"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with a Microsoft account",
		Long: `Perform the one-time OAuth consent flow and cache the resulting token.

The application credentials are read from the MSTODO_CLIENT_ID and
MSTODO_CLIENT_SECRET environment variables. MSTODO_CLIENT_SECRET is
optional for public client registrations.

Tokens are stored per account under the user cache directory
(e.g. ~/.cache/todofewer/default.token) and refreshed automatically
afterwards.`,
	}

	cmd.AddCommand(newAuthURLCmd())
	cmd.AddCommand(newAuthLoginCmd())
	return cmd
}

func newAuthURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the authorization URL",
		Long: `Print the URL to visit in a browser to authorize the application.

After granting consent the browser is redirected to an unserved
localhost address; copy that full address and pass it to
'todofewer auth login'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := msauth.ConfigFromEnv()
			if err != nil {
				return err
			}
			fmt.Println(config.AuthURL())
			return nil
		},
	}
}

func newAuthLoginCmd() *cobra.Command {
	var (
		account       string
		redirect      string
		relaxedScopes bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Complete the consent flow and store the token",
		Long: `Exchange the authorization code for a token and store it for an account.

Without --redirect-url the command prints the authorization URL,
waits for the post-consent redirect URL on standard input, and then
performs the exchange.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := msauth.ConfigFromEnv()
			if err != nil {
				return err
			}
			config.RelaxedScopes = relaxedScopes

			store, err := msauth.NewFileStore(account)
			if err != nil {
				return err
			}

			if redirect == "" {
				fmt.Printf("Visit the following URL and sign in:\n\n  %s\n\n", config.AuthURL())
				fmt.Print("Paste the full redirect URL here: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading redirect URL: %w", err)
				}
				redirect = strings.TrimSpace(line)
			}

			token, err := config.ExchangeRedirect(context.Background(), redirect)
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}

			if err := store.Save(token); err != nil {
				return fmt.Errorf("storing token: %w", err)
			}

			path, _ := store.Path()
			fmt.Printf("Token for account %q stored in %s\n", account, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", msauth.DefaultAccount, "Account name to store the token under")
	cmd.Flags().StringVar(&redirect, "redirect-url", "", "Full redirect URL from the consent flow (prompted for interactively when omitted)")
	cmd.Flags().BoolVar(&relaxedScopes, "relaxed-scopes", false, "Skip granted-scope validation (some tenants rewrite the granted scope set)")

	return cmd
}
