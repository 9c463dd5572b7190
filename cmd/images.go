package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/filter"
	"github.com/zjrosen/hubctl/internal/hubapi"
)

var (
	imagesPage        pageFlags
	imagesOrg         string
	imagesName        string
	imagesSort        string
	imageSummary      string
	imageDescription  string
	imageKeywords     []string
	imageClearKeyword bool
)

var imagesCmd = &cobra.Command{
	Use:     "images",
	Aliases: []string{"image"},
	Short:   "Browse and manage images",
}

func sortOrder(s string) (string, error) {
	switch s {
	case "":
		return "", nil
	case "popular", hub.SortMostPopular:
		return hub.SortMostPopular, nil
	case "updated", hub.SortRecentlyUpdated:
		return hub.SortRecentlyUpdated, nil
	default:
		return "", fmt.Errorf("unknown sort %q (want popular or updated)", s)
	}
}

func listImages(cmd *cobra.Command, mine bool) error {
	order, err := sortOrder(imagesSort)
	if err != nil {
		return err
	}
	return withRuntime(cmd.Context(), func(rt *runtime) error {
		q := hubapi.ImageQuery{
			OrgName:   imagesOrg,
			ImageName: hubapi.Contains(imagesName),
			OrderBy:   order,
			Limit:     imagesPage.limit,
			Offset:    imagesPage.offset,
		}
		var res *hub.ListResult[hub.Image]
		if mine {
			user, err := rt.requireUser()
			if err != nil {
				return err
			}
			res, err = rt.client.ListUserImages(cmd.Context(), userID(user), q)
			if err != nil {
				return err
			}
		} else if res, err = rt.client.ListImages(cmd.Context(), q); err != nil {
			return err
		}
		if err := applyFilter(res, imagesPage.filter, filter.ImageEnv); err != nil {
			return err
		}
		f, err := formatter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return f.FormatImages(res)
	})
}

var imagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Search images",
	Example: `  hubctl images list --org wso2 --sort popular
  hubctl images list --name pet --filter '"db" in keywords'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listImages(cmd, false)
	},
}

var imagesMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List images in your organizations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listImages(cmd, true)
	},
}

var imagesGetCmd = &cobra.Command{
	Use:   "get ORG/IMAGE",
	Short: "Show an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		org, name, err := parseImageRef(args[0])
		if err != nil {
			return err
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			image, err := rt.client.GetImage(cmd.Context(), org, name)
			if err != nil {
				return err
			}
			f, err := formatter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return f.FormatImage(image)
		})
	},
}

var imagesUpdateCmd = &cobra.Command{
	Use:   "update ORG/IMAGE",
	Short: "Change the summary, description or keywords of an image",
	Example: `  hubctl images update wso2/pet-be --summary "Pet store back end"
  hubctl images update wso2/pet-be --keyword db --keyword petstore`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		org, name, err := parseImageRef(args[0])
		if err != nil {
			return err
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			current, err := rt.client.GetImage(cmd.Context(), org, name)
			if err != nil {
				return err
			}
			update := hubapi.ImageUpdate{
				Summary:     current.Summary,
				Description: current.Description,
				Keywords:    current.Keywords,
			}
			if cmd.Flags().Changed("summary") {
				update.Summary = imageSummary
			}
			if cmd.Flags().Changed("description") {
				update.Description = imageDescription
			}
			if cmd.Flags().Changed("keyword") {
				update.Keywords = imageKeywords
			}
			if imageClearKeyword {
				update.Keywords = nil
			}
			if err := rt.client.UpdateImage(cmd.Context(), org, name, update); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s/%s\n", org, name)
			return nil
		})
	},
}

var imagesDeleteCmd = &cobra.Command{
	Use:   "delete ORG/IMAGE",
	Short: "Delete an image with all its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		org, name, err := parseImageRef(args[0])
		if err != nil {
			return err
		}
		if err := confirmed(cmd); err != nil {
			return err
		}
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			if err := rt.client.DeleteImage(cmd.Context(), org, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", org, name)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{imagesListCmd, imagesMineCmd} {
		imagesPage.register(c)
		c.Flags().StringVar(&imagesOrg, "org", "", "only images of this organization")
		c.Flags().StringVar(&imagesName, "name", "", "match images whose name contains this text")
		c.Flags().StringVar(&imagesSort, "sort", "", "popular or updated")
	}
	imagesUpdateCmd.Flags().StringVar(&imageSummary, "summary", "", "new summary")
	imagesUpdateCmd.Flags().StringVar(&imageDescription, "description", "", "new markdown description")
	imagesUpdateCmd.Flags().StringArrayVar(&imageKeywords, "keyword", nil, "keyword (repeatable, replaces the current keywords)")
	imagesUpdateCmd.Flags().BoolVar(&imageClearKeyword, "clear-keywords", false, "remove all keywords")
	imagesUpdateCmd.MarkFlagsMutuallyExclusive("keyword", "clear-keywords")
	imagesDeleteCmd.Flags().Bool("yes", false, "confirm deletion")

	imagesCmd.AddCommand(imagesListCmd, imagesMineCmd, imagesGetCmd, imagesUpdateCmd, imagesDeleteCmd)
	rootCmd.AddCommand(imagesCmd)
}
