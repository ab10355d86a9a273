package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/proyectos/internal/focus"
	"github.com/studiowebux/proyectos/internal/keybinds"
)

// keyContext maps the current screen state to a keybind context
func (m *Model) keyContext() keybinds.Context {
	switch {
	case m.showHelp:
		return keybinds.ContextHelp
	case m.modal.IsOpen():
		return keybinds.ContextModal
	}

	switch m.focused {
	case idSearch:
		return keybinds.ContextSearch
	case idForm:
		return keybinds.ContextForm
	case idCharts:
		return keybinds.ContextCharts
	}
	return keybinds.ContextResults
}

// handleKeyPress routes a key to the action bound in the current context.
// Unbound keys in the search box and the form are typed into the input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		return m.handleHelpKeys(msg)
	}
	if m.modal.IsOpen() {
		return m.handleModalKeys(msg)
	}

	ctx := m.keyContext()
	key := msg.String()

	switch ctx {
	case keybinds.ContextSearch:
		if action, ok := m.keybinds.Match(ctx, key); ok {
			return m.executeAction(action)
		}
		return m.handleSearchInput(msg)

	case keybinds.ContextForm:
		if action, ok := m.keybinds.Match(ctx, key); ok {
			return m.executeAction(action)
		}
		return m.updateField(msg)
	}

	action, ok, partial := m.keybinds.MatchMultiKey(ctx, key)
	if partial || !ok {
		return nil
	}
	return m.executeAction(action)
}

// handleSearchInput types into the search box and schedules the search
// when the text changed
func (m *Model) handleSearchInput(msg tea.KeyMsg) tea.Cmd {
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.onSearchChanged())
}

// handleModalKeys gives the focus trap first pick of the key, then routes
// the modal bindings
func (m *Model) handleModalKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextModal, msg.String())
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionCloseModal:
		m.modal.HandleKey(focus.KeyEscape)
		return nil
	case keybinds.ActionModalNext:
		m.modal.HandleKey(focus.KeyTab)
		return nil
	case keybinds.ActionModalPrev:
		m.modal.HandleKey(focus.KeyShiftTab)
		return nil
	case keybinds.ActionModalActivate:
		return m.activateModalButton(m.focused)
	case keybinds.ActionEditRecord:
		return m.activateModalButton(idModalEdit)
	case keybinds.ActionCopyRecord:
		return m.activateModalButton(idModalCopy)
	case keybinds.ActionNavigateUp:
		m.detail.LineUp(1)
		return nil
	case keybinds.ActionNavigateDown:
		m.detail.LineDown(1)
		return nil
	case keybinds.ActionQuitForce:
		return m.quit()
	}
	return nil
}

// executeAction runs a keybind action outside the detail dialog
func (m *Model) executeAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return m.quit()

	case keybinds.ActionFocusNext:
		return m.cycleFocus(1)
	case keybinds.ActionFocusPrev:
		return m.cycleFocus(-1)
	case keybinds.ActionFocusSearch:
		return m.setFocus(idSearch)
	case keybinds.ActionFocusResults:
		return m.setFocus(idResults)
	case keybinds.ActionFocusForm:
		return m.setFocus(idForm)
	case keybinds.ActionFocusCharts:
		return tea.Batch(m.setFocus(idCharts), m.ensureStatistics())

	case keybinds.ActionOpenHelp:
		m.openHelp()
		return nil
	case keybinds.ActionRefresh:
		return tea.Batch(m.setStatusMessage("Actualizando..."), m.refreshAll())
	case keybinds.ActionShowAll:
		return m.showAll()
	case keybinds.ActionRefreshStats:
		return m.loadStatistics()

	case keybinds.ActionNavigateUp:
		m.moveSelection(-1)
	case keybinds.ActionNavigateDown:
		m.moveSelection(1)
	case keybinds.ActionPageUp:
		m.moveSelection(-m.pageSize())
	case keybinds.ActionPageDown:
		m.moveSelection(m.pageSize())
	case keybinds.ActionGoToTop:
		m.moveSelection(-m.store.Len())
	case keybinds.ActionGoToBottom:
		m.moveSelection(m.store.Len())

	case keybinds.ActionOpenDetail:
		if rec, ok := m.store.Record(m.selected); ok {
			m.openDetail(rec)
		}
	case keybinds.ActionEditRecord:
		if rec, ok := m.store.Record(m.selected); ok {
			return m.beginEdit(rec)
		}
	case keybinds.ActionCopyRecord:
		if rec, ok := m.store.Record(m.selected); ok {
			return m.copyRecord(rec)
		}
	case keybinds.ActionExportPDF:
		return m.exportPDF()
	case keybinds.ActionExportExcel:
		return m.exportExcel()

	case keybinds.ActionNextChart:
		return m.selectChart(m.chartKind.Next())
	case keybinds.ActionPrevChart:
		return m.selectChart(m.chartKind.Prev())
	case keybinds.ActionToggleChart:
		m.chartExpanded = !m.chartExpanded
		return m.ensureStatistics()

	case keybinds.ActionNextField:
		if m.fieldIndex == len(m.inputs)-1 {
			return m.cycleFocus(1)
		}
		return m.moveField(1)
	case keybinds.ActionPrevField:
		if m.fieldIndex == 0 {
			return m.cycleFocus(-1)
		}
		return m.moveField(-1)
	case keybinds.ActionSubmitForm:
		return m.submitForm()
	case keybinds.ActionCancelEdit:
		if !m.session.Editing() && m.formEmpty() {
			return m.setFocus(idResults)
		}
		return m.cancelEdit()

	case keybinds.ActionTextSubmit:
		return m.submitSearch()
	case keybinds.ActionTextCancel:
		if m.search.Value() != "" {
			return m.showAll()
		}
		return m.setFocus(idResults)
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.Cleanup()
	return tea.Quit
}

// submitSearch runs the pending search right away and moves to the results
func (m *Model) submitSearch() tea.Cmd {
	m.debouncer.Cancel()
	term := strings.TrimSpace(m.search.Value())

	switch n := utf8.RuneCountInString(term); {
	case n == 0:
		return m.setErrorMessage("Escriba algo para buscar")
	case n < m.minChars:
		return m.setStatusMessage(fmt.Sprintf("Escriba al menos %d caracteres para buscar", m.minChars))
	}
	return tea.Batch(m.setFocus(idResults), m.runSearch(term))
}

// moveSelection moves the result cursor by delta, clamped to the list
func (m *Model) moveSelection(delta int) {
	n := m.store.Len()
	if n == 0 {
		m.selected = 0
		m.offset = 0
		return
	}
	m.selected = max(0, min(m.selected+delta, n-1))

	visible := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}
}

func (m *Model) pageSize() int {
	return max(1, m.visibleRows())
}

func (m *Model) formEmpty() bool {
	for _, in := range m.inputs {
		if strings.TrimSpace(in.Value()) != "" {
			return false
		}
	}
	return true
}
