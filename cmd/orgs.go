package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/filter"
	"github.com/zjrosen/hubctl/internal/hubapi"
)

var (
	orgsPage    pageFlags
	orgsName    string
	orgsCaptcha string
)

var orgsCmd = &cobra.Command{
	Use:     "orgs",
	Aliases: []string{"org"},
	Short:   "Browse and manage organizations",
}

func listOrgs(cmd *cobra.Command, mine bool) error {
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		q := hubapi.OrgQuery{OrgName: hubapi.Contains(orgsName), Limit: orgsPage.limit, Offset: orgsPage.offset}
		var (
			res *hub.ListResult[hub.Org]
			err error
		)
		if mine {
			user, uerr := rt.requireUser()
			if uerr != nil {
				return uerr
			}
			res, err = rt.client.ListUserOrgs(cmd.Context(), userID(user), q)
		} else {
			res, err = rt.client.ListOrgs(cmd.Context(), q)
		}
		if err != nil {
			return err
		}
		if err := applyFilter(res, orgsPage.filter, filter.OrgEnv); err != nil {
			return err
		}
		f, err := formatter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return f.FormatOrgs(res)
	})
}

var orgsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Search organizations",
	Example: `  hubctl orgs list --name ws
  hubctl orgs list --filter 'images > 3'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listOrgs(cmd, false)
	},
}

var orgsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the organizations you belong to",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listOrgs(cmd, true)
	},
}

var orgsGetCmd = &cobra.Command{
	Use:   "get ORG",
	Short: "Show an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			org, err := rt.client.GetOrg(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f, err := formatter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return f.FormatOrg(org)
		})
	},
}

var orgsCreateCmd = &cobra.Command{
	Use:   "create ORG",
	Short: "Create an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := hub.ValidateOrgName(name); err != nil {
			return err
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			if _, err := rt.requireUser(); err != nil {
				return err
			}
			exists, err := rt.client.OrgExists(cmd.Context(), name)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("organization %q already exists", name)
			}
			err = rt.client.CreateOrg(cmd.Context(), hubapi.CreateOrgRequest{OrgName: name, CaptchaToken: orgsCaptcha})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created organization %s\n", name)
			return nil
		})
	},
}

var orgsDeleteCmd = &cobra.Command{
	Use:   "delete ORG",
	Short: "Delete an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirmed(cmd); err != nil {
			return err
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			if err := rt.client.DeleteOrg(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted organization %s\n", args[0])
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{orgsListCmd, orgsMineCmd} {
		orgsPage.register(c)
		c.Flags().StringVar(&orgsName, "name", "", "match organizations whose name contains this text")
	}
	orgsCreateCmd.Flags().StringVar(&orgsCaptcha, "captcha", "", "reCAPTCHA response token")
	orgsDeleteCmd.Flags().Bool("yes", false, "confirm deletion")

	orgsCmd.AddCommand(orgsListCmd, orgsMineCmd, orgsGetCmd, orgsCreateCmd, orgsDeleteCmd)
	rootCmd.AddCommand(orgsCmd)
}
