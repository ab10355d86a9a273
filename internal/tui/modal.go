package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/studiowebux/proyectos/internal/focus"
	"github.com/studiowebux/proyectos/internal/types"
)

var modalButtonLabels = map[string]string{
	idModalClose: "Cerrar",
	idModalEdit:  "Editar",
	idModalCopy:  "Copiar",
}

// openDetail shows rec in the detail dialog with focus trapped on its buttons
func (m *Model) openDetail(rec types.Record) {
	m.detailRecord = rec
	m.detail.GotoTop()

	title := rec.Title
	if title == "" {
		title = "Sin título"
	}
	m.modal.Open(focus.Dialog{Title: title, Body: detailBody(rec)}, modalButtons)
}

// activateModalButton runs the action of the dialog button id
func (m *Model) activateModalButton(id string) tea.Cmd {
	switch id {
	case idModalClose:
		m.modal.Close()
	case idModalEdit:
		rec := m.detailRecord
		m.modal.Close()
		return m.beginEdit(rec)
	case idModalCopy:
		return m.copyRecord(m.detailRecord)
	}
	return nil
}

// detailBody renders every field of rec, with status badges
func detailBody(rec types.Record) string {
	var b strings.Builder
	for _, f := range rec.Fields() {
		label := styleLabel.Render(strings.TrimSpace(f.Label) + ":")
		value := f.Value
		switch {
		case value == "":
			value = styleSubtle.Render("-")
		case isStatusField(f.Label):
			value = renderBadge(value)
		}
		fmt.Fprintf(&b, "%s %s\n", label, value)
	}
	if rec.RowIndex != nil {
		fmt.Fprintf(&b, "%s %d\n", styleLabel.Render("Fila:"), *rec.RowIndex)
	}
	return strings.TrimRight(b.String(), "\n")
}

// recordText is the plain-text rendering copied to the clipboard
func recordText(rec types.Record) string {
	var lines []string
	for _, f := range rec.Fields() {
		if f.Value == "" {
			continue
		}
		lines = append(lines, strings.TrimSpace(f.Label)+": "+f.Value)
	}
	if rec.RowIndex != nil {
		lines = append(lines, fmt.Sprintf("%s: %d", types.HeaderRowIndex, *rec.RowIndex))
	}
	return strings.Join(lines, "\n")
}

func isStatusField(label string) bool {
	switch label {
	case types.HeaderProposal, types.HeaderPreProject, types.HeaderFinalWork:
		return true
	}
	return false
}

// renderModal renders the detail dialog centered on screen
func (m *Model) renderModal() string {
	dialog, ok := m.modal.Dialog()
	if !ok {
		return m.renderMain()
	}

	width := min(m.width-ModalWidthMargin, ModalMaxWidth)
	height := m.height - ModalHeightMargin
	body := wordwrap.String(dialog.Body, max(10, width-ViewportPaddingHorizontal-ViewportBorderWidth))

	return m.renderModalWithFooterAndScroll(&m.detail, dialog.Title, body, m.renderModalButtons(), width, height)
}

func (m *Model) renderModalButtons() string {
	buttons := make([]string, 0, len(modalButtons))
	for _, id := range m.modal.Focusables() {
		style := styleButton
		if id == m.focused {
			style = styleButtonFocused
		}
		buttons = append(buttons, zone.Mark(id, style.Render(modalButtonLabels[id])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

// renderModalWithFooterAndScroll renders a bordered box whose content scrolls
// in vp, with the footer pinned below it
func (m *Model) renderModalWithFooterAndScroll(vp *viewport.Model, title, content, footer string, width, height int) string {
	// For small terminals, use almost full screen
	width = max(min(width, m.width-ViewportPaddingHorizontal), min(30, m.width))
	height = max(min(height, m.height-ViewportBorderWidth), min(8, m.height))

	footerLines := 0
	if footer != "" {
		footerLines = ModalFooterLines + lipgloss.Height(footer) - 1
	}
	contentHeight := max(1, height-ModalOverheadLines-footerLines)

	vp.Width = max(10, width-ViewportPaddingHorizontal)
	vp.Height = contentHeight

	// Save scroll before SetContent resets it
	savedOffset := vp.YOffset
	vp.SetContent(content)
	vp.SetYOffset(savedOffset)

	fullContent := styleTitle.Render(title) + "\n\n" + vp.View()
	if footer != "" {
		fullContent += "\n\n" + footer
	}

	modalBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(fullContent)

	if width >= m.width-2 || height >= m.height-1 {
		return modalBox
	}

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modalBox,
	)
}
