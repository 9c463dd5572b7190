// Package versionview is the interactive version page: the version header,
// its rendered description and a dependency tree whose nodes open the
// dependency's own page. The signed-in user badge follows the state holder.
package versionview

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/graph"
	"github.com/zjrosen/hubctl/internal/keys"
	"github.com/zjrosen/hubctl/internal/log"
	"github.com/zjrosen/hubctl/internal/pubsub"
	"github.com/zjrosen/hubctl/internal/state"
	"github.com/zjrosen/hubctl/internal/ui/clipboard"
	"github.com/zjrosen/hubctl/internal/ui/markdown"
	"github.com/zjrosen/hubctl/internal/ui/styles"
)

const headerHeight = 2

// Fetcher loads one version with its cell metadata.
type Fetcher interface {
	GetVersion(ctx context.Context, org, image, version string) (*hub.Version, error)
}

// VisitFunc is called each time a version page finishes loading.
type VisitFunc func(ref graph.CellRef)

type versionLoadedMsg struct {
	ref     graph.CellRef
	version *hub.Version
	diagram *graph.Diagram
	err     error
}

// Model is the version page state.
type Model struct {
	ctx       context.Context
	fetcher   Fetcher
	holder    *state.Holder
	changes   *pubsub.ContinuousListener[state.Change]
	logs      *log.LogListener
	mdStyle   string
	onVisited VisitFunc
	clipboard clipboard.Clipboard

	history  []graph.CellRef
	loading  bool
	err      error
	version  *hub.Version
	diagram  *graph.Diagram
	nodes    []node
	selected int

	user   *hub.User
	status string

	desc        string
	descVersion *hub.Version
	descWidth   int

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	width    int
	height   int
}

// Option configures a Model.
type Option func(*Model)

// WithMarkdownStyle sets the glamour style used for descriptions.
func WithMarkdownStyle(style string) Option {
	return func(m *Model) {
		m.mdStyle = style
	}
}

// WithLogListener shows the latest warning or error in the status bar.
func WithLogListener(l *log.LogListener) Option {
	return func(m *Model) {
		m.logs = l
	}
}

// WithVisitFunc registers fn to run after every successful page load.
func WithVisitFunc(fn VisitFunc) Option {
	return func(m *Model) {
		m.onVisited = fn
	}
}

// WithClipboard replaces the system clipboard used to copy cell ids.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(m *Model) {
		m.clipboard = c
	}
}

// New creates the page for ref. The model stops listening when ctx ends.
func New(ctx context.Context, fetcher Fetcher, holder *state.Holder, ref graph.CellRef, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)

	m := Model{
		ctx:       ctx,
		fetcher:   fetcher,
		holder:    holder,
		changes:   pubsub.NewContinuousListener[state.Change](ctx, holder),
		history:   []graph.CellRef{ref},
		loading:   true,
		user:      holder.User(),
		clipboard: clipboard.System{},
		spinner:   sp,
		viewport:  viewport.New(0, 0),
		help:      help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.load(m.Current()), m.changes.Listen()}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// Current returns the ref of the page being shown.
func (m Model) Current() graph.CellRef {
	return m.history[len(m.history)-1]
}

// Version returns the loaded version, or nil while loading or on error.
func (m Model) Version() *hub.Version {
	return m.version
}

// Err returns the last load error.
func (m Model) Err() error {
	return m.err
}

func (m Model) load(ref graph.CellRef) tea.Cmd {
	ctx, fetcher := m.ctx, m.fetcher
	return func() tea.Msg {
		v, err := fetcher.GetVersion(ctx, ref.Org, ref.Name, ref.Version)
		if err != nil {
			return versionLoadedMsg{ref: ref, err: err}
		}
		if v.Metadata == nil {
			return versionLoadedMsg{ref: ref, version: v}
		}
		d, err := graph.Extract(v.Metadata)
		return versionLoadedMsg{ref: ref, version: v, diagram: d, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeViewport()
		m.refreshContent()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case versionLoadedMsg:
		if msg.ref != m.Current() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.version = msg.version
		m.diagram = msg.diagram
		m.selected = 0
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "loading version failed", msg.err, "cell", msg.ref.String())
		} else if m.onVisited != nil {
			m.onVisited(msg.ref)
		}
		m.refreshContent()
		m.viewport.GotoTop()
		return m, nil

	case pubsub.Event[state.Change]:
		if msg.Payload.Key == state.KeyUser {
			m.user = m.holder.User()
		}
		return m, m.changes.Listen()

	case log.LogEvent:
		if strings.Contains(msg.Payload, "[WARN]") || strings.Contains(msg.Payload, "[ERROR]") {
			m.status = strings.TrimSpace(msg.Payload)
		}
		return m, m.logs.Listen()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			for i, n := range m.nodes {
				if z := zone.Get(n.zoneID); z != nil && z.InBounds(msg) {
					m.selected = i
					return m.open(n.ref)
				}
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := keys.Version
	switch {
	case key.Matches(msg, km.Quit):
		return m, tea.Quit

	case key.Matches(msg, km.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeViewport()
		return m, nil

	case key.Matches(msg, km.Next):
		if len(m.nodes) > 0 {
			m.selected = (m.selected + 1) % len(m.nodes)
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, km.Prev):
		if len(m.nodes) > 0 {
			m.selected = (m.selected - 1 + len(m.nodes)) % len(m.nodes)
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, km.Open):
		if m.selected < len(m.nodes) {
			return m.open(m.nodes[m.selected].ref)
		}
		return m, nil

	case key.Matches(msg, km.Back):
		if len(m.history) < 2 {
			return m, nil
		}
		m.history = m.history[:len(m.history)-1]
		return m.reload()

	case key.Matches(msg, km.Reload):
		return m.reload()

	case key.Matches(msg, km.Yank):
		id := m.Current().String()
		if m.selected < len(m.nodes) {
			id = m.nodes[m.selected].ref.String()
		}
		if err := m.clipboard.Copy(id); err != nil {
			log.ErrorErr(log.CatUI, "copy to clipboard failed", err)
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "copied " + id
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// open pushes ref onto the history and loads it.
func (m Model) open(ref graph.CellRef) (tea.Model, tea.Cmd) {
	if ref == m.Current() {
		return m, nil
	}
	m.history = append(m.history[:len(m.history):len(m.history)], ref)
	return m.reload()
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.version = nil
	m.diagram = nil
	m.nodes = nil
	return m, tea.Batch(m.spinner.Tick, m.load(m.Current()))
}

func (m *Model) footerHeight() int {
	return 1 + lipgloss.Height(m.help.View(keys.Version))
}

func (m *Model) resizeViewport() {
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-headerHeight-m.footerHeight(), 1)
}

func (m *Model) refreshContent() {
	if m.width == 0 || m.version == nil {
		m.viewport.SetContent("")
		return
	}
	m.nodes = buildNodes(m.diagram)
	if m.selected >= len(m.nodes) {
		m.selected = 0
	}

	if m.descVersion != m.version || m.descWidth != m.width {
		m.desc = m.renderDescription()
		m.descVersion, m.descWidth = m.version, m.width
	}

	var sb strings.Builder
	sb.WriteString(m.desc)
	sb.WriteString("\n\n")
	sb.WriteString(styles.TitleStyle.Render("Dependencies"))
	sb.WriteByte('\n')
	sb.WriteString(renderTree(m.diagram, m.nodes, m.selected, m.width))
	m.viewport.SetContent(sb.String())
}

func (m Model) renderDescription() string {
	r, err := markdown.New(max(m.width-2, 20), m.mdStyle)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown renderer", err)
		return m.version.Description
	}
	out, err := r.Render(m.version.Description)
	if err != nil {
		return m.version.Description
	}
	return out
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	switch {
	case m.loading:
		body = m.spinner.View() + " Loading " + m.Current().String() + "..."
	case m.err != nil:
		body = renderError(m.err, m.width)
	default:
		body = m.viewport.View()
	}
	bodyHeight := max(m.height-headerHeight-m.footerHeight(), 1)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	view := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
	return zone.Scan(view)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render(m.Current().String())
	if v := m.version; v != nil {
		if v.Metadata != nil {
			title += " " + styles.KindStyle(v.Metadata.CellKind()).Render(v.Metadata.CellKind())
		}
		if v.UserRole != "" {
			title += " " + styles.RoleStyle(v.UserRole).Render(v.UserRole)
		}
		title += " " + styles.SubtitleStyle.Render(styles.FormatPullCount(v.PullCount)+" pulls")
	}

	badge := styles.SignedOutBadgeStyle.Render("not signed in")
	if m.user != nil {
		badge = styles.UserBadgeStyle.Render(m.user.Username)
	}

	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(badge), 1)
	line := title + strings.Repeat(" ", gap) + badge
	rule := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", m.width))
	return line + "\n" + rule
}

func (m Model) renderFooter() string {
	status := ""
	if m.status != "" {
		status = styles.StatusBarStyle.Foreground(styles.StatusWarningColor).
			Render(truncate(m.status, m.width-2))
	}
	helpView := m.help.View(keys.Version)
	if depth := len(m.history) - 1; depth > 0 && !m.help.ShowAll {
		helpView = styles.HelpStyle.Render("depth "+strconv.Itoa(depth)+" • ") + helpView
	}
	return status + "\n" + helpView
}

var errNoMetadata = errors.New("version has no cell metadata")
