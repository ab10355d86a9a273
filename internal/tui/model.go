package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/charts"
	"github.com/studiowebux/proyectos/internal/debounce"
	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/focus"
	"github.com/studiowebux/proyectos/internal/keybinds"
	"github.com/studiowebux/proyectos/internal/session"
	"github.com/studiowebux/proyectos/internal/store"
	"github.com/studiowebux/proyectos/internal/types"
)

// Element ids shared by the focus trap and the mouse zones
const (
	idSearch  = "search"
	idResults = "results"
	idForm    = "form"
	idCharts  = "charts"

	idModalClose = "modal.close"
	idModalEdit  = "modal.edit"
	idModalCopy  = "modal.copy"
)

// areas lists the main screen areas in Tab order
var areas = []string{idSearch, idResults, idForm, idCharts}

// modalButtons lists the detail dialog buttons in Tab order
var modalButtons = []string{idModalClose, idModalEdit, idModalCopy}

// Messages
type connectivityMsg struct {
	res executor.Result
}

type resultsMsg struct {
	res   executor.Result
	query string
}

type statsMsg struct {
	res executor.Result
}

type submitMsg struct {
	sub session.Submission
	res executor.Result
}

type exportMsg struct {
	res executor.Result
}

type clipboardMsg struct {
	err error
}

type clearStatusMsg struct {
	seq int
}

// Model represents the TUI state
type Model struct {
	ctx       context.Context
	client    *executor.Client
	registry  *cancel.Registry
	store     *store.Store
	session   *session.Manager
	keybinds  *keybinds.Registry
	debouncer *debounce.Dispatcher
	modal     *focus.Controller
	logger    *zap.Logger
	now       func() time.Time
	copyText  func(string) error

	minChars       int
	messageTimeout time.Duration
	downloadDir    string

	// Focus
	focused string

	// Search
	search textinput.Model

	// Results
	selected int
	offset   int

	// Form
	inputs     []textinput.Model
	fieldIndex int

	// Charts
	chartKind     charts.Kind
	chartExpanded bool

	// Detail dialog
	detail       viewport.Model
	detailRecord types.Record

	// Help overlay
	showHelp bool
	help     viewport.Model

	// Loading state per purpose
	loading map[cancel.Purpose]bool
	spinner spinner.Model

	// Connectivity
	conn      types.ConnectionStatus
	connKnown bool
	connError string

	// Status bar
	statusMsg     string
	fullStatusMsg string
	isError       bool
	statusSeq     int

	width  int
	height int
}

// Init checks connectivity and loads the list and the statistics
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.refreshAll())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case debounce.FiredMsg:
		return m, m.debouncer.Fire(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectivityMsg:
		return m, m.applyConnectivity(msg.res)

	case resultsMsg:
		return m, m.applyResults(msg)

	case statsMsg:
		return m, m.applyStatistics(msg.res)

	case submitMsg:
		return m, m.applySubmit(msg)

	case exportMsg:
		return m, m.applyExport(msg.res)

	case clipboardMsg:
		if msg.err != nil {
			return m, m.setErrorMessage("No se pudo copiar al portapapeles: " + msg.err.Error())
		}
		return m, m.setStatusMessage("Registro copiado al portapapeles")

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.fullStatusMsg = ""
			m.isError = false
		}
		return m, nil
	}

	// cursor blink and other input messages
	return m, m.updateFocusedInput(msg)
}

// View renders the screen
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	var view string
	switch {
	case m.showHelp:
		view = m.renderHelp()
	case m.modal.IsOpen():
		view = m.renderModal()
	default:
		view = m.renderMain()
	}
	return zone.Scan(view)
}

// Cleanup cancels every pending call
func (m *Model) Cleanup() {
	m.debouncer.Cancel()
	if n := m.registry.Len(); n > 0 {
		m.logger.Debug("cancelling pending calls", zap.Int("count", n))
	}
	m.registry.CancelAll()
}

// setFocus moves focus to id, updating which text input receives keys
func (m *Model) setFocus(id string) tea.Cmd {
	m.focused = id
	m.search.Blur()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}

	switch id {
	case idSearch:
		return m.search.Focus()
	case idForm:
		return m.focusField(m.fieldIndex)
	}
	return nil
}

// cycleFocus moves focus through the areas by delta
func (m *Model) cycleFocus(delta int) tea.Cmd {
	current := 0
	for i, id := range areas {
		if id == m.focused {
			current = i
			break
		}
	}
	next := (current + delta + len(areas)) % len(areas)
	return m.setFocus(areas[next])
}

func (m *Model) isLoading() bool {
	for _, v := range m.loading {
		if v {
			return true
		}
	}
	return false
}

func (m *Model) setStatusMessage(msg string) tea.Cmd {
	return m.showMessage(msg, false)
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	return m.showMessage(msg, true)
}

func (m *Model) showMessage(msg string, isError bool) tea.Cmd {
	m.fullStatusMsg = msg
	// Truncate for footer display
	if len([]rune(msg)) > StatusMaxLength {
		m.statusMsg = string([]rune(msg)[:StatusMaxLength-3]) + "..."
	} else {
		m.statusMsg = msg
	}
	m.isError = isError
	m.statusSeq++

	if m.messageTimeout <= 0 {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(m.messageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// focusHost exposes the screen's focus to the dialog's focus trap
type focusHost struct {
	m *Model
}

func (h focusHost) Focused() string { return h.m.focused }

func (h focusHost) Focus(id string) { h.m.setFocus(id) }

func (h focusHost) Exists(id string) bool {
	switch id {
	case idSearch, idResults, idForm, idCharts:
		return true
	case idModalClose, idModalEdit, idModalCopy:
		return h.m.modal.IsOpen()
	}
	return false
}
