// Package presentation renders Hub resources for the command line, either as
// indented JSON or as terminal tables.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/graph"
	"github.com/zjrosen/hubctl/internal/ui/styles"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat accepts "table" (also "") and "json".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", s)
	}
}

const summaryWidth = 48

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	format Format
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer, format Format) *Formatter {
	if format == "" {
		format = FormatTable
	}
	return &Formatter{
		writer: writer,
		format: format,
	}
}

// FormatJSON writes v as indented JSON regardless of the configured format.
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatOrgs formats a page of orgs.
func (f *Formatter) FormatOrgs(res *hub.ListResult[hub.Org]) error {
	dto := FromList(res)
	if f.format == FormatJSON {
		return f.FormatJSON(dto)
	}
	rows := make([][]string, 0, len(dto.Items))
	for _, o := range dto.Items {
		rows = append(rows, []string{
			o.OrgName,
			styles.TruncateString(o.Summary, summaryWidth),
			strconv.Itoa(o.ImageCount),
			o.UserRole,
		})
	}
	return f.table([]string{"ORG", "SUMMARY", "IMAGES", "ROLE"}, rows, dto.Total)
}

// FormatImages formats a page of images.
func (f *Formatter) FormatImages(res *hub.ListResult[hub.Image]) error {
	dto := FromList(res)
	if f.format == FormatJSON {
		return f.FormatJSON(dto)
	}
	rows := make([][]string, 0, len(dto.Items))
	for _, i := range dto.Items {
		rows = append(rows, []string{
			i.FQN(),
			styles.TruncateString(i.Summary, summaryWidth),
			strconv.FormatInt(i.PullCount, 10),
			i.UpdatedTimestamp,
		})
	}
	return f.table([]string{"IMAGE", "SUMMARY", "PULLS", "UPDATED"}, rows, dto.Total)
}

// FormatVersions formats a page of versions of one image.
func (f *Formatter) FormatVersions(res *hub.ListResult[hub.Version]) error {
	dto := FromList(res)
	if f.format == FormatJSON {
		return f.FormatJSON(dto)
	}
	rows := make([][]string, 0, len(dto.Items))
	for _, v := range dto.Items {
		rows = append(rows, []string{
			v.Name(),
			strconv.FormatInt(v.PullCount, 10),
			v.LastAuthor,
			v.UpdatedTimestamp,
		})
	}
	return f.table([]string{"VERSION", "PULLS", "AUTHOR", "UPDATED"}, rows, dto.Total)
}

// FormatOrg formats a single org as key/value lines.
func (f *Formatter) FormatOrg(o *hub.Org) error {
	if f.format == FormatJSON {
		return f.FormatJSON(o)
	}
	return f.fields([][2]string{
		{"Org", o.OrgName},
		{"Summary", o.Summary},
		{"Website", o.WebsiteURL},
		{"Visibility", o.DefaultVisibility},
		{"Author", o.FirstAuthor},
		{"Created", o.CreatedTimestamp},
		{"Role", o.UserRole},
	}, o.Description)
}

// FormatImage formats a single image as key/value lines.
func (f *Formatter) FormatImage(i *hub.Image) error {
	if f.format == FormatJSON {
		return f.FormatJSON(i)
	}
	return f.fields([][2]string{
		{"Image", i.FQN()},
		{"Summary", i.Summary},
		{"Visibility", i.Visibility},
		{"Pulls", strconv.FormatInt(i.PullCount, 10)},
		{"Keywords", strings.Join(i.Keywords, ", ")},
		{"Updated", i.UpdatedTimestamp},
		{"Role", i.UserRole},
	}, i.Description)
}

// FormatVersion formats a version with its direct dependencies.
func (f *Formatter) FormatVersion(v *hub.Version) error {
	dto := FromVersion(v)
	if f.format == FormatJSON {
		return f.FormatJSON(dto)
	}
	deps := make([]string, 0, len(dto.Dependencies))
	for _, d := range dto.Dependencies {
		deps = append(deps, d.Alias+" → "+d.Cell)
	}
	return f.fields([][2]string{
		{"Cell", dto.Cell},
		{"Kind", dto.Kind},
		{"Components", strings.Join(dto.Components, ", ")},
		{"Dependencies", strings.Join(deps, "; ")},
		{"Pulls", strconv.FormatInt(dto.PullCount, 10)},
		{"Author", dto.LastAuthor},
		{"Updated", dto.Updated},
		{"Role", dto.Role},
	}, dto.Description)
}

// FormatDiagram prints a dependency diagram as a tree or as JSON.
func (f *Formatter) FormatDiagram(d *graph.Diagram) error {
	if f.format == FormatJSON {
		return f.FormatJSON(d)
	}
	_, err := io.WriteString(f.writer, graph.RenderTree(d))
	return err
}

func (f *Formatter) table(headers []string, rows [][]string, total int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(f.writer, "No results")
		return err
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if _, err := fmt.Fprintln(f.writer, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f.writer, "%d of %d\n", len(rows), total)
	return err
}

func (f *Formatter) fields(kv [][2]string, description string) error {
	label := lipgloss.NewStyle().Bold(true)
	var sb strings.Builder
	for _, p := range kv {
		if p[1] == "" {
			continue
		}
		sb.WriteString(label.Render(fmt.Sprintf("%-13s", p[0]+":")))
		sb.WriteString(p[1])
		sb.WriteByte('\n')
	}
	if description != "" {
		sb.WriteByte('\n')
		sb.WriteString(strings.TrimRight(description, "\n"))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(f.writer, sb.String())
	return err
}
