package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/proyectos/internal/types"
)

// ErrPickCancelled is returned when the record picker is closed without a choice
var ErrPickCancelled = errors.New("selection cancelled")

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

type item struct {
	record types.Record
	index  int
}

func (i item) FilterValue() string {
	return strings.Join([]string{i.record.Title, i.record.Student1, i.record.Student2, i.record.Advisor}, " ")
}

func (i item) Title() string {
	title := i.record.Title
	if title == "" {
		title = "Sin título"
	}
	if i.record.Student1 != "" {
		title += " · " + i.record.Student1
	}
	return title
}

func (i item) Description() string { return i.record.Program }

type selectorModel struct {
	list     list.Model
	choice   int
	quitting bool
}

func (m selectorModel) Init() tea.Cmd {
	return nil
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		// keys go to the filter input while filtering
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.choice = -1
			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(item); ok {
				m.choice = i.index
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectorModel) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("↑/↓: navegar • /: filtrar • enter: seleccionar • q/esc: cancelar")
	return fmt.Sprintf("%s\n\n%s", m.list.View(), help)
}

// newSelector builds the picker over records
func newSelector(records []types.Record) selectorModel {
	items := make([]list.Item, 0, len(records))
	for i, rec := range records {
		items = append(items, item{record: rec, index: i})
	}

	const defaultWidth = 80
	const listHeight = 14

	l := list.New(items, itemDelegate{}, defaultWidth, listHeight)
	l.Title = fmt.Sprintf("Seleccione un proyecto (%d)", len(records))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return selectorModel{list: l, choice: -1}
}

// pickRecord shows an interactive list and returns the chosen record
func pickRecord(records []types.Record) (types.Record, error) {
	p := tea.NewProgram(newSelector(records), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return types.Record{}, fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(selectorModel)
	if result.choice < 0 || result.choice >= len(records) {
		return types.Record{}, ErrPickCancelled
	}
	return records[result.choice], nil
}

// itemDelegate renders one record per line
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}
