package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hubctl/internal/auth"
)

const defaultRedirect = "http://localhost:3000/sign-in"

var (
	loginIdP          string
	loginRedirect     string
	loginCode         string
	loginSessionKey   string
	loginSkipOrgCheck bool
	logoutRedirect    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the Hub",
	Long: `Sign in to the Hub through the identity provider of the portal.

Without --code the authorization URL is printed; open it in a browser and
pass the code from the redirect back with --code.

Examples:
  hubctl login --idp github
  hubctl login --code 3f1c0a
  hubctl login --session-key 8d2e --skip-org-check`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			ctx := cmd.Context()
			switch {
			case loginCode != "":
				user, err := rt.auth.RetrieveTokens(ctx, loginCode)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Signed in as %s\n", user.Username)
				return nil

			case loginSessionKey != "":
				u, err := rt.auth.ContinueLoginURL(loginSessionKey, loginSkipOrgCheck)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, u)
				return nil
			}

			fidp, err := auth.ParseFederatedIdP(loginIdP)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("idp") {
				if fidp, err = rt.auth.DefaultFIdP(ctx); err != nil {
					return err
				}
			}
			u, err := rt.auth.LoginURL(ctx, fidp, loginRedirect)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Open this URL to sign in, then run 'hubctl login --code CODE':")
			fmt.Fprintln(out, u)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and print the identity provider logout URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			u, err := rt.auth.SignOutURL(cmd.Context(), logoutRedirect)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out. End the identity provider session at:")
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			user, err := rt.requireUser()
			if err != nil {
				return err
			}
			if jsonOutput() {
				f, _ := formatter(cmd.OutOrStdout())
				return f.FormatJSON(map[string]any{
					"username": user.Username,
					"userId":   user.UserID,
					"email":    user.Email,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.Username)
			return nil
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage personal access tokens",
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a personal access token for the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			tok, err := rt.client.GenerateToken(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				f, _ := formatter(cmd.OutOrStdout())
				return f.FormatJSON(tok)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			return nil
		})
	},
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke TOKEN",
	Short: "Revoke a personal access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			if err := rt.client.RevokeTokens(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token revoked")
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginIdP, "idp", "", "federated identity provider: google or github")
	loginCmd.Flags().StringVar(&loginRedirect, "redirect", defaultRedirect, "redirect uri registered for the portal")
	loginCmd.Flags().StringVar(&loginCode, "code", "", "authorization code from the redirect")
	loginCmd.Flags().StringVar(&loginSessionKey, "session-key", "", "resume a paused login with this session data key")
	loginCmd.Flags().BoolVar(&loginSkipOrgCheck, "skip-org-check", false, "skip the first-org creation step when resuming")
	loginCmd.MarkFlagsMutuallyExclusive("code", "session-key")

	logoutCmd.Flags().StringVar(&logoutRedirect, "redirect", "http://localhost:3000", "post logout redirect uri")

	tokenCmd.AddCommand(tokenCreateCmd, tokenRevokeCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, tokenCmd)
}
