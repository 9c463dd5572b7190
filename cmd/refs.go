package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/filter"
	"github.com/zjrosen/hubctl/internal/graph"
)

var errNotConfirmed = errors.New("refusing to delete without --yes")

// parseImageRef splits "org/image".
func parseImageRef(s string) (org, image string, err error) {
	org, image, ok := strings.Cut(s, "/")
	if !ok || strings.Contains(image, "/") || strings.Contains(image, ":") {
		return "", "", fmt.Errorf("expected ORG/IMAGE, got %q", s)
	}
	if err := hub.ValidateOrgName(org); err != nil {
		return "", "", err
	}
	if err := hub.ValidateImageName(image); err != nil {
		return "", "", err
	}
	return org, image, nil
}

// parseVersionRef parses "org/image:version".
func parseVersionRef(s string) (graph.CellRef, error) {
	ref, err := graph.ParseCellID(s)
	if err != nil {
		return graph.CellRef{}, fmt.Errorf("expected ORG/IMAGE:VERSION: %w", err)
	}
	if _, _, err := parseImageRef(ref.Org + "/" + ref.Name); err != nil {
		return graph.CellRef{}, err
	}
	if !hub.ValidVersion(ref.Version) {
		return graph.CellRef{}, fmt.Errorf("invalid version %q", ref.Version)
	}
	return ref, nil
}

// userID is the id the Hub uses in /users/ paths.
func userID(u *hub.User) string {
	if u.UserID != "" {
		return u.UserID
	}
	return u.Username
}

type pageFlags struct {
	limit  int
	offset int
	filter string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.limit, "limit", 25, "maximum number of results")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "number of results to skip")
	cmd.Flags().StringVar(&p.filter, "filter", "", `expression applied to the fetched page, e.g. 'pulls > 100'`)
}

// applyFilter narrows res.Data in place when expression is set.
func applyFilter[T any](res *hub.ListResult[T], expression string, env func(T) map[string]any) error {
	if expression == "" {
		return nil
	}
	f, err := filter.Compile(expression, env)
	if err != nil {
		return err
	}
	res.Data, err = f.Apply(res.Data)
	return err
}

func confirmed(cmd *cobra.Command) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errNotConfirmed
	}
	return nil
}
