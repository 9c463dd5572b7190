package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hubctl/internal/filter"
	"github.com/zjrosen/hubctl/internal/hubapi"
)

var (
	versionsPage       pageFlags
	versionsMatch      string
	versionsSort       string
	versionDescription string
)

var versionsCmd = &cobra.Command{
	Use:     "versions",
	Aliases: []string{"version"},
	Short:   "Browse and manage image versions",
}

var versionsListCmd = &cobra.Command{
	Use:   "list ORG/IMAGE",
	Short: "List the versions of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		org, name, err := parseImageRef(args[0])
		if err != nil {
			return err
		}
		order, err := sortOrder(versionsSort)
		if err != nil {
			return err
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			res, err := rt.client.ListVersions(cmd.Context(), org, name, hubapi.VersionQuery{
				Version: hubapi.Contains(versionsMatch),
				OrderBy: order,
				Limit:   versionsPage.limit,
				Offset:  versionsPage.offset,
			})
			if err != nil {
				return err
			}
			if err := applyFilter(res, versionsPage.filter, filter.VersionEnv); err != nil {
				return err
			}
			f, err := formatter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return f.FormatVersions(res)
		})
	},
}

var versionsGetCmd = &cobra.Command{
	Use:   "get ORG/IMAGE:VERSION",
	Short: "Show a version with its cell metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseVersionRef(args[0])
		if err != nil {
			return err
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			v, err := rt.client.GetVersion(cmd.Context(), ref.Org, ref.Name, ref.Version)
			if err != nil {
				return err
			}
			f, err := formatter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return f.FormatVersion(v)
		})
	},
}

var versionsUpdateCmd = &cobra.Command{
	Use:   "update ORG/IMAGE:VERSION",
	Short: "Change the description of a version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseVersionRef(args[0])
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("description") {
			return fmt.Errorf("nothing to update: pass --description")
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			err := rt.client.UpdateVersion(cmd.Context(), ref.Org, ref.Name, ref.Version,
				hubapi.VersionUpdate{Description: versionDescription})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", ref)
			return nil
		})
	},
}

var versionsDeleteCmd = &cobra.Command{
	Use:   "delete ORG/IMAGE:VERSION",
	Short: "Delete a version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseVersionRef(args[0])
		if err != nil {
			return err
		}
		if err := confirmed(cmd); err != nil {
			return err
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			if err := rt.client.DeleteVersion(cmd.Context(), ref.Org, ref.Name, ref.Version); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", ref)
			return nil
		})
	},
}

func init() {
	versionsPage.register(versionsListCmd)
	versionsListCmd.Flags().StringVar(&versionsMatch, "match", "", "match versions containing this text")
	versionsListCmd.Flags().StringVar(&versionsSort, "sort", "", "popular or updated")
	versionsUpdateCmd.Flags().StringVar(&versionDescription, "description", "", "new markdown description")
	versionsDeleteCmd.Flags().Bool("yes", false, "confirm deletion")

	versionsCmd.AddCommand(versionsListCmd, versionsGetCmd, versionsUpdateCmd, versionsDeleteCmd)
	rootCmd.AddCommand(versionsCmd)
}
