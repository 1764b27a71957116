package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepflow/pkg/diagram"
	"github.com/matzehuels/stepflow/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// inspectCommand creates the inspect command, an interactive browser for a
// laid-out diagram.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool
	var input string

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Browse the steps, ranks and diagnostics of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadDiagram(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			if plain {
				_, err := fmt.Fprintln(c.Out, NewDiagramModel(d).Table(0, len(d.Nodes), -1))
				return err
			}
			_, err = tea.NewProgram(NewDiagramModel(d), tea.WithContext(cmd.Context()), tea.WithOutput(c.Out)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the step table and exit")
	cmd.Flags().StringVar(&input, "input", "", "input format: json, yaml, toml (default from extension)")

	return cmd
}

// loadDiagram lays out a record file, or decodes a diagram JSON file
// written by the layout command.
func (c *CLI) loadDiagram(ctx context.Context, path, format string) (diagram.Diagram, error) {
	data, f, err := c.readInput(path, format)
	if err != nil {
		return diagram.Diagram{}, err
	}
	if d, err := diagram.Unmarshal(data); err == nil && len(d.Nodes) > 0 && d.Strategy != "" {
		return d, nil
	}

	runner := c.newRunner(ctx)
	defer runner.Close()
	po := c.baseOptions()
	po.Formats = []string{pipeline.FormatJSON}
	res, err := runner.ExecuteBytes(ctx, data, f, po)
	if err != nil {
		return diagram.Diagram{}, err
	}
	return res.Diagram, nil
}

// =============================================================================
// DiagramModel - Interactive step browser
// =============================================================================

// DiagramModel is the bubbletea model for browsing a diagram.
type DiagramModel struct {
	Diagram diagram.Diagram
	Cursor  int
	Height  int
	Offset  int
}

// NewDiagramModel creates a new diagram browser.
func NewDiagramModel(d diagram.Diagram) DiagramModel {
	return DiagramModel{Diagram: d, Height: 12}
}

func (m DiagramModel) Init() tea.Cmd {
	return nil
}

func (m DiagramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Diagram.Nodes)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(n-1, 0)
		}
	case tea.WindowSizeMsg:
		// room for title, help, detail pane and borders
		m.Height = max(msg.Height-18, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m DiagramModel) View() string {
	var b strings.Builder

	d := m.Diagram
	title := d.Name
	if title == "" {
		title = "Diagram"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · %d ranks · %.0f×%.0f", d.Strategy, d.Ranks(), d.Width, d.Height)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	if len(d.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (no steps)"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(d.Nodes))
	b.WriteString(m.Table(m.Offset, end, m.Cursor))
	b.WriteString("\n")
	b.WriteString(m.Detail(d.Nodes[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(d.Nodes))))
	return b.String()
}

// Table renders nodes [from, to) as a table. The row at cursor is
// highlighted; pass -1 for none.
func (m DiagramModel) Table(from, to, cursor int) string {
	nodes := m.Diagram.Nodes
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		n := nodes[i]
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		flags := ""
		if n.Gap != "" {
			flags += "gap "
		}
		if n.HasDetails {
			flags += "details"
		}
		rows = append(rows, []string{
			marker,
			strconv.Itoa(n.Rank) + "." + strconv.Itoa(n.Order),
			n.ID,
			string(n.Kind),
			string(n.Status),
			n.Title,
			strings.TrimSpace(flags),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Pos", "ID", "Kind", "Status", "Title", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if from+row == cursor {
				return listSelectedStyle
			}
			if col == 1 || col == 6 {
				return listDimStyle
			}
			return listNormalStyle
		}).
		Render()
}

// Detail renders the detail pane for one node.
func (m DiagramModel) Detail(n diagram.Node) string {
	var lines []string
	add := func(key, value string) {
		if value == "" {
			return
		}
		lines = append(lines, listHeaderStyle.Width(12).Render(key)+" "+StyleValue.Render(value))
	}

	add("id", n.ID)
	add("description", n.Description)
	add("actors", strings.Join(n.Actors, ", "))
	add("gap", n.Gap)
	add("box", fmt.Sprintf("%.0f,%.0f %.0f×%.0f", n.Box.X, n.Box.Y, n.Box.W, n.Box.H))

	for _, e := range m.Diagram.Edges {
		if e.Source != n.ID {
			continue
		}
		label := string(e.Kind)
		if e.Label != "" {
			label += " " + strconv.Quote(e.Label)
		}
		if e.Channel {
			label += " (side channel)"
		}
		add("→ "+e.Target, label)
	}
	for _, diag := range m.Diagram.Diagnostics {
		if diag.NodeID == n.ID {
			lines = append(lines, StyleWarning.Render(string(diag.Code)+": "+diag.Message))
		}
	}
	return detailBoxStyle.Render(strings.Join(lines, "\n"))
}
