package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/studiowebux/proyectos/internal/charts"
	"github.com/studiowebux/proyectos/internal/types"
)

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// handleMouse scrolls with the wheel and focuses or activates what was clicked
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	wheel := 0
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		wheel = -1
	case tea.MouseButtonWheelDown:
		wheel = 1
	}

	switch {
	case m.showHelp:
		scroll(&m.help, wheel)
		return nil
	case m.modal.IsOpen():
		if wheel != 0 {
			scroll(&m.detail, wheel)
			return nil
		}
		if !isLeftClick(msg) {
			return nil
		}
		for _, id := range modalButtons {
			if inZone(id, msg) {
				m.setFocus(id)
				return m.activateModalButton(id)
			}
		}
		return nil
	}

	if wheel != 0 {
		m.moveSelection(wheel)
		return nil
	}
	if !isLeftClick(msg) {
		return nil
	}

	if inZone(idSearch, msg) {
		return m.setFocus(idSearch)
	}

	end := min(m.store.Len(), m.offset+m.visibleRows())
	for i := m.offset; i < end; i++ {
		if !inZone(rowZoneID(i), msg) {
			continue
		}
		// a click on the selected row opens it
		again := i == m.selected && m.focused == idResults
		m.selected = i
		cmd := m.setFocus(idResults)
		if again {
			if rec, ok := m.store.Record(i); ok {
				m.openDetail(rec)
			}
		}
		return cmd
	}

	for _, k := range charts.Kinds {
		if inZone(chartZoneID(k), msg) {
			return tea.Batch(m.setFocus(idCharts), m.selectChart(k))
		}
	}

	for i := range types.FormFields {
		if inZone(fieldZoneID(i), msg) {
			m.fieldIndex = i
			return m.setFocus(idForm)
		}
	}
	return nil
}

func isLeftClick(msg tea.MouseMsg) bool {
	return msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease
}

func scroll(v *viewport.Model, delta int) {
	switch {
	case delta < 0:
		v.LineUp(-delta)
	case delta > 0:
		v.LineDown(delta)
	}
}
