package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/proyectos/internal/keybinds"
	"github.com/studiowebux/proyectos/internal/session"
	"github.com/studiowebux/proyectos/internal/types"
)

// newFormInputs creates one input per form field, in display order
func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(types.FormFields))
	for i, f := range types.FormFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Label
		in.CharLimit = 300
		inputs[i] = in
	}
	return inputs
}

// focusField focuses the input at i, clamped to the field range
func (m *Model) focusField(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	i = max(0, min(i, len(m.inputs)-1))
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.fieldIndex = i
	return m.inputs[i].Focus()
}

// moveField moves to the next or previous field, wrapping around
func (m *Model) moveField(delta int) tea.Cmd {
	n := len(m.inputs)
	return m.focusField((m.fieldIndex + delta + n) % n)
}

// loadForm fills the inputs from form
func (m *Model) loadForm(form types.FormValues) {
	for i, f := range types.FormFields {
		m.inputs[i].SetValue(form.Get(f.Key))
		m.inputs[i].CursorEnd()
	}
}

// updateField forwards msg to the focused form input and mirrors its value
// into the edit session
func (m *Model) updateField(msg tea.Msg) tea.Cmd {
	i := m.fieldIndex
	var cmd tea.Cmd
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	m.session.SetField(types.FormFields[i].Key, m.inputs[i].Value())
	return cmd
}

// beginEdit loads rec into the form and focuses it
func (m *Model) beginEdit(rec types.Record) tea.Cmd {
	form, err := m.session.BeginEdit(rec)
	if err != nil {
		if errors.Is(err, session.ErrNotSaved) {
			return m.setErrorMessage("No se puede editar: " + err.Error())
		}
		return m.setErrorMessage(err.Error())
	}
	m.loadForm(form)
	m.fieldIndex = 0
	return tea.Batch(m.setFocus(idForm), m.setStatusMessage("Editando: "+rec.Title))
}

// cancelEdit returns the form to create mode and clears it
func (m *Model) cancelEdit() tea.Cmd {
	editing := m.session.Editing()
	m.session.Cancel()
	m.loadForm(m.session.Form())
	m.fieldIndex = 0
	if editing {
		return m.setStatusMessage("Edición cancelada")
	}
	return m.setStatusMessage("Formulario limpio")
}

// updateFocusedInput forwards non-key messages such as cursor blinks to the
// focused text input
func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focused {
	case idSearch:
		m.search, cmd = m.search.Update(msg)
	case idForm:
		if m.fieldIndex < len(m.inputs) {
			m.inputs[m.fieldIndex], cmd = m.inputs[m.fieldIndex].Update(msg)
		}
	}
	return cmd
}

// fieldZoneID is the mouse zone of form field i
func fieldZoneID(i int) string {
	return fmt.Sprintf("field-%d", i)
}

// renderForm renders the window of form fields around the focused one
func (m *Model) renderForm(width, height int) string {
	title := styleTitle.Render("Nuevo proyecto")
	if rec, ok := m.session.Record(); ok {
		title = styleWarning.Render("Editando: " + runewidth.Truncate(rec.Title, max(10, width-10), "…"))
	}

	labelWidth := 0
	for _, f := range types.FormFields {
		labelWidth = max(labelWidth, runewidth.StringWidth(f.Label)+2)
	}
	labelWidth = min(labelWidth, max(10, width/2))
	inputWidth := max(5, width-labelWidth-1)

	// title, blank line and the footer take three lines
	rows := max(1, height-3)
	start := 0
	if m.fieldIndex >= rows {
		start = m.fieldIndex - rows + 1
	}
	end := min(len(m.inputs), start+rows)

	lines := []string{title}
	for i := start; i < end; i++ {
		f := types.FormFields[i]
		label := f.Label
		if f.Required {
			label += " *"
		}
		label = runewidth.FillRight(runewidth.Truncate(label, labelWidth, "…"), labelWidth)
		if m.focused == idForm && i == m.fieldIndex {
			label = styleSelected.Render(label)
		} else {
			label = styleSubtle.Render(label)
		}

		m.inputs[i].Width = inputWidth
		lines = append(lines, zone.Mark(fieldZoneID(i), label+" "+m.inputs[i].View()))
	}

	hint := fmt.Sprintf("%s guardar • %s %s",
		m.keybinds.GetBindingString(keybinds.ContextForm, keybinds.ActionSubmitForm),
		m.keybinds.GetBindingString(keybinds.ContextForm, keybinds.ActionCancelEdit),
		cancelHint(m.session.Editing()),
	)
	lines = append(lines, "", styleSubtle.Render(hint))

	return strings.Join(lines, "\n")
}

func cancelHint(editing bool) string {
	if editing {
		return "cancelar edición"
	}
	return "limpiar"
}
