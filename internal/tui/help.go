package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/proyectos/internal/keybinds"
)

var contextTitles = map[keybinds.Context]string{
	keybinds.ContextGlobal:  "General",
	keybinds.ContextResults: "Resultados",
	keybinds.ContextSearch:  "Búsqueda",
	keybinds.ContextForm:    "Formulario",
	keybinds.ContextCharts:  "Gráficos",
	keybinds.ContextModal:   "Detalle",
	keybinds.ContextHelp:    "Ayuda",
}

func (m *Model) openHelp() {
	m.showHelp = true
	m.help.GotoTop()
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextHelp, msg.String()); ok {
		switch action {
		case keybinds.ActionCloseModal:
			m.showHelp = false
			return nil
		case keybinds.ActionQuitForce:
			return m.quit()
		}
	}

	switch msg.String() {
	case "up", "k":
		m.help.LineUp(1)
	case "down", "j":
		m.help.LineDown(1)
	case "pgup":
		m.help.HalfViewUp()
	case "pgdown":
		m.help.HalfViewDown()
	}
	return nil
}

// helpContent lists the bindings of every context, one line per action
func (m *Model) helpContent() string {
	var b strings.Builder
	for i, ctx := range keybinds.Contexts {
		bindings := m.keybinds.ListBindings(ctx)
		if len(bindings) == 0 {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleTitle.Render(contextTitles[ctx]) + "\n")

		keys := make(map[keybinds.Action][]string)
		var actions []keybinds.Action
		for _, bd := range bindings {
			if _, seen := keys[bd.Action]; !seen {
				actions = append(actions, bd.Action)
			}
			keys[bd.Action] = append(keys[bd.Action], bd.Key)
		}
		sort.SliceStable(actions, func(a, c int) bool {
			return keybinds.GetActionInfo(actions[a]).Description < keybinds.GetActionInfo(actions[c]).Description
		})

		for _, action := range actions {
			combo := runewidth.FillRight(strings.Join(keys[action], ", "), 22)
			b.WriteString("  " + styleLabel.Render(combo) + " " + keybinds.GetActionInfo(action).Description + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderHelp() string {
	footer := styleSubtle.Render(m.keybinds.GetBindingString(keybinds.ContextHelp, keybinds.ActionCloseModal) + " cerrar • ↑/↓ desplazar")
	return m.renderModalWithFooterAndScroll(&m.help, "Atajos de teclado", m.helpContent(), footer,
		min(m.width-ModalWidthMargin, ModalMaxWidth), m.height-ModalHeightMargin)
}
