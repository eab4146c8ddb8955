package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codecity/pkg/layout"
	"github.com/matzehuels/codecity/pkg/pipeline"
)

// Tree styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeGroupStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	treeLeafStyle     = lipgloss.NewStyle().Foreground(colorGray)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

type exploreKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Quit     key.Binding
}

var exploreKeys = exploreKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Expand:   key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→/l", "open")),
	Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "close")),
	Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k exploreKeyMap) helpLine() string {
	bindings := []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.Top, k.Bottom, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// ExploreModel - Interactive district browser
// =============================================================================

// exploreRow is one visible line of the tree.
type exploreRow struct {
	node   *layout.Node
	path   string
	level  int
	parent int // row index of the enclosing district, -1 for the root
	absX   int
	absY   int
}

// ExploreModel is the bubbletea model that browses a layout as a
// collapsible tree of districts and buildings.
type ExploreModel struct {
	layout   layout.Layout
	expanded map[string]bool
	rows     []exploreRow
	Cursor   int
	Offset   int
	Height   int
}

// NewExploreModel creates a browser with the root district open.
func NewExploreModel(l layout.Layout) *ExploreModel {
	m := &ExploreModel{
		layout:   l,
		expanded: map[string]bool{l.Root.Name: true},
		Height:   20,
	}
	m.rebuild()
	return m
}

// rebuild flattens the open part of the tree into rows.
func (m *ExploreModel) rebuild() {
	m.rows = m.rows[:0]
	m.appendRows(&m.layout.Root, "", 0, -1, 0, 0)
	m.Cursor = min(m.Cursor, len(m.rows)-1)
}

func (m *ExploreModel) appendRows(n *layout.Node, parentPath string, level, parent, ox, oy int) {
	path := n.Name
	if parentPath != "" {
		path = parentPath + "/" + n.Name
	}
	x, y := ox+int(n.X), oy+int(n.Y)
	idx := len(m.rows)
	m.rows = append(m.rows, exploreRow{node: n, path: path, level: level, parent: parent, absX: x, absY: y})

	if !n.IsGroup() || !m.expanded[path] {
		return
	}
	for i := range n.Children {
		m.appendRows(&n.Children[i], path, level+1, idx, x, y)
	}
}

// Selected returns the node under the cursor.
func (m *ExploreModel) Selected() *layout.Node {
	return m.rows[m.Cursor].node
}

// Rows returns the number of visible rows.
func (m *ExploreModel) Rows() int { return len(m.rows) }

func (m *ExploreModel) Init() tea.Cmd { return nil }

func (m *ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, exploreKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, exploreKeys.Up):
			m.moveTo(m.Cursor - 1)
		case key.Matches(msg, exploreKeys.Down):
			m.moveTo(m.Cursor + 1)
		case key.Matches(msg, exploreKeys.Top):
			m.moveTo(0)
		case key.Matches(msg, exploreKeys.Bottom):
			m.moveTo(len(m.rows) - 1)
		case key.Matches(msg, exploreKeys.Expand):
			row := m.rows[m.Cursor]
			if row.node.IsGroup() && !m.expanded[row.path] {
				m.expanded[row.path] = true
				m.rebuild()
			}
		case key.Matches(msg, exploreKeys.Collapse):
			row := m.rows[m.Cursor]
			if row.node.IsGroup() && m.expanded[row.path] {
				delete(m.expanded, row.path)
				m.rebuild()
			} else if row.parent >= 0 {
				m.moveTo(row.parent)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor on row i, clamped, and scrolls it into view.
func (m *ExploreModel) moveTo(i int) {
	m.Cursor = max(0, min(i, len(m.rows)-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s  %dx%d  height %d", m.layout.Name, m.layout.Width, m.layout.Depth, m.layout.Height)))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render(exploreKeys.helpLine()))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker, style := "· ", treeLeafStyle
		if row.node.IsGroup() {
			marker, style = "+ ", treeGroupStyle
			if m.expanded[row.path] {
				marker = "- "
			}
		}
		if i == m.Cursor {
			style = treeSelectedStyle
		}

		line := cursor + strings.Repeat("  ", row.level) + marker + style.Render(row.node.Name)
		size := fmt.Sprintf("  %dx%d h%d", row.node.Width, row.node.Depth, row.node.Height)
		b.WriteString(line + treeDimStyle.Render(size) + "\n")
	}

	row := m.rows[m.Cursor]
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render(fmt.Sprintf("%s  at (%d,%d)  [%d/%d]", row.path, row.absX, row.absY, m.Cursor+1, len(m.rows))))
	return b.String()
}

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse a city's districts interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(&opts)
			return c.runExplore(cmd.Context(), args[0], opts)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, opts pipeline.Options) error {
	runner := c.newRunner(ctx)
	defer runner.Close()

	l, _, err := c.loadLayout(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewExploreModel(l), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
