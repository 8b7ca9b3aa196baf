package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/jvm-classgen/classfile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type poolModel struct {
	class    *classfile.Class
	filename string
	entries  []classfile.Constant
	shown    []classfile.Constant
	table    table.Model
	filter   textinput.Model
}

func newPoolModel(c *classfile.Class, filename string) *poolModel {
	columns := []table.Column{
		{Title: "#", Width: 6},
		{Title: "Tag", Width: 20},
		{Title: "Value", Width: 60},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(styles)

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter by tag or value"
	filter.Width = 40

	m := &poolModel{
		class:    c,
		filename: filename,
		entries:  c.Constants(),
		table:    t,
		filter:   filter,
	}
	m.applyFilter()
	return m
}

// constantRow renders an entry for the table.
func constantRow(k classfile.Constant) table.Row {
	text := k.String()
	if i := strings.IndexByte(text, ' '); i >= 0 {
		text = text[i+1:]
	}
	return table.Row{fmt.Sprintf("#%d", k.Index()), k.Tag().String(), text}
}

func (m *poolModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.shown = m.shown[:0]
	rows := make([]table.Row, 0, len(m.entries))
	for _, k := range m.entries {
		row := constantRow(k)
		if query != "" && !strings.Contains(strings.ToLower(strings.Join(row, " ")), query) {
			continue
		}
		m.shown = append(m.shown, k)
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *poolModel) Init() tea.Cmd {
	return nil
}

func (m *poolModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.filter.Focused() {
			switch key.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter", "esc":
				m.filter.Blur()
				m.table.Focus()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch key.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.table.Blur()
			return m, m.filter.Focus()
		case "esc":
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *poolModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Constant Pool"))
	fmt.Fprintf(&b, " %s  %s  count %d\n\n", m.class.Name(), m.filename, m.class.PoolCount())
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.shown) {
		k := m.shown[cursor]
		b.WriteString(detailStyle.Render(fmt.Sprintf("#%d %s  (%d bytes, %d slot(s))", k.Index(), k, k.Size(), k.Slots())))
	}
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ move • / filter • esc clear • q quit"))

	return b.String()
}

func runInteractive(c *classfile.Class, filename string) error {
	p := tea.NewProgram(newPoolModel(c, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
