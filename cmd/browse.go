package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/zjrosen/hubctl/internal/graph"
	"github.com/zjrosen/hubctl/internal/log"
	"github.com/zjrosen/hubctl/internal/ui/versionview"
)

const configReloadDebounce = 200 * time.Millisecond

var errNoRecent = errors.New("no version given and no browsing history")

var browseCmd = &cobra.Command{
	Use:   "browse [ORG/IMAGE:VERSION]",
	Short: "Open the interactive version page",
	Long: `Open the interactive version page. Dependencies are listed as a tree;
select one with tab or the mouse and press enter to open its page, esc to go
back. Without an argument the most recently browsed version is opened.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return withRuntime(ctx, func(rt *runtime) error {
		ref, err := browseTarget(ctx, rt, args)
		if err != nil {
			return err
		}

		if rt.cfg.PortalConfigFile != "" {
			if err := rt.holder.WatchConfigFile(ctx, rt.cfg.PortalConfigFile, configReloadDebounce); err != nil {
				log.ErrorErr(log.CatWatcher, "watching portal config failed", err)
			}
		}

		recent := rt.db.RecentVersions()
		zone.NewGlobal()
		model := versionview.New(ctx, rt.client, rt.holder, ref,
			versionview.WithMarkdownStyle(rt.cfg.UI.MarkdownStyle),
			versionview.WithLogListener(log.NewListener(ctx)),
			versionview.WithVisitFunc(func(ref graph.CellRef) {
				if err := recent.Touch(ctx, ref.String(), time.Now()); err != nil {
					log.ErrorErr(log.CatDB, "recording visit failed", err)
				}
			}),
		)

		p := tea.NewProgram(
			model,
			tea.WithContext(ctx),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running program: %w", err)
		}
		return nil
	})
}

func browseTarget(ctx context.Context, rt *runtime, args []string) (graph.CellRef, error) {
	if len(args) == 1 {
		return parseVersionRef(args[0])
	}
	entries, err := rt.db.RecentVersions().List(ctx, 1)
	if err != nil {
		return graph.CellRef{}, err
	}
	if len(entries) == 0 {
		return graph.CellRef{}, errNoRecent
	}
	return graph.ParseCellID(entries[0].CellID)
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
