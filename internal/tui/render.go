package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/keybinds"
	"github.com/studiowebux/proyectos/internal/store"
	"github.com/studiowebux/proyectos/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"} // Dark goldenrod / Yellow
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"} // Dark blue / Blue
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleLabel = lipgloss.NewStyle().
			Bold(true)

	styleButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray)

	styleButtonFocused = styleButton.
				BorderForeground(colorGreen).
				Foreground(colorGreen).
				Bold(true)
)

// rowZoneID is the mouse zone of result row i
func rowZoneID(i int) string {
	return fmt.Sprintf("row-%d", i)
}

// renderMain renders the main screen: header, search, summary cards, the
// result list and the side panel
func (m *Model) renderMain() string {
	if m.width == 0 {
		return ""
	}

	header := m.renderHeader()
	searchBox := zone.Mark(idSearch, m.panelStyle(idSearch).Width(m.width-ViewportBorderWidth).Render(m.search.View()))
	cards := m.renderSummaryCards()

	mainHeight := m.mainHeight()
	innerHeight := max(1, mainHeight-ViewportBorderWidth)
	resultsWidth := int(float64(m.width) * ResultsWidthRatio)
	sideWidth := m.width - resultsWidth

	resultsBox := m.panelStyle(idResults).
		Width(resultsWidth - ViewportBorderWidth).
		Height(innerHeight).
		Render(m.renderResults(resultsWidth-ViewportPaddingHorizontal, innerHeight))

	var side string
	if m.focused == idForm || m.session.Editing() {
		side = m.renderForm(sideWidth-ViewportPaddingHorizontal, innerHeight)
	} else {
		side = m.renderCharts(sideWidth-ViewportPaddingHorizontal, innerHeight)
	}
	sideID := idCharts
	if m.focused == idForm {
		sideID = idForm
	}
	sideBox := m.panelStyle(sideID).
		Width(sideWidth - ViewportBorderWidth).
		Height(innerHeight).
		Render(side)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		searchBox,
		cards,
		lipgloss.JoinHorizontal(lipgloss.Top, resultsBox, sideBox),
		m.renderStatusBar(),
	)
}

// panelStyle is the rounded box of an area, green when focused
func (m *Model) panelStyle(id string) lipgloss.Style {
	border := colorGray
	if m.focused == id {
		border = colorGreen
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// mainHeight is the height left for the result list and the side panel
func (m *Model) mainHeight() int {
	return max(3, m.height-HeaderLines-SearchBoxLines-SummaryCardLines-StatusBarLines)
}

// visibleRows is the number of result rows that fit on screen
func (m *Model) visibleRows() int {
	return max(1, (m.mainHeight()-ViewportBorderWidth-1)/ResultRowLines)
}

// resize adapts scroll positions to a new window size
func (m *Model) resize() {
	m.search.Width = max(10, m.width-ViewportPaddingHorizontal-runewidth.StringWidth(m.search.Prompt)-2)
	m.moveSelection(0)
}

func (m *Model) renderHeader() string {
	title := styleTitle.Render("Proyectos de grado")
	parts := []string{title, m.renderConnection()}
	if m.isLoading() {
		parts = append(parts, m.spinner.View()+styleSubtle.Render(m.loadingLabel()))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) loadingLabel() string {
	switch {
	case m.loading[cancel.PurposeSearch]:
		return "Buscando..."
	case m.loading[cancel.PurposeListAll]:
		return "Cargando registros..."
	case m.loading[cancel.PurposeMutate]:
		return "Guardando..."
	case m.loading[cancel.PurposeExport]:
		return "Descargando..."
	case m.loading[cancel.PurposeStatistics]:
		return "Cargando estadísticas..."
	}
	return "Verificando conexión..."
}

// connectionLevel is the indicator level of the last connectivity check
func (m *Model) connectionLevel() types.ConnectionLevel {
	switch {
	case m.connError != "":
		return types.ConnectionError
	case !m.connKnown:
		return types.ConnectionUnknown
	}
	return m.conn.Level()
}

func (m *Model) renderConnection() string {
	switch m.connectionLevel() {
	case types.ConnectionOK:
		return styleSuccess.Render(fmt.Sprintf("● Conectado (%d registros)", m.conn.TotalRecords))
	case types.ConnectionPartial:
		return styleWarning.Render("● Conexión parcial: " + m.conn.Message)
	case types.ConnectionError:
		msg := m.connError
		if msg == "" {
			msg = m.conn.Message
		}
		return styleError.Render("● Sin conexión: " + msg)
	}
	return styleSubtle.Render("● Verificando...")
}

// renderSummaryCards renders the four dashboard figures
func (m *Model) renderSummaryCards() string {
	sum := m.store.Summary()

	preProjects := "-"
	if sum.HasPreProjects {
		preProjects = fmt.Sprint(sum.PreProjects)
	}

	cards := []struct {
		label string
		value string
		color lipgloss.TerminalColor
	}{
		{"Total de proyectos", fmt.Sprint(sum.Total), colorCyan},
		{"Propuestas aprobadas", fmt.Sprint(sum.ApprovedProposals), colorGreen},
		{"Trabajos finales aprobados", fmt.Sprint(sum.ApprovedFinalWorks), colorGreen},
		{"Anteproyectos", preProjects, colorYellow},
	}

	cardWidth := max(12, m.width/len(cards)-ViewportBorderWidth)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		label := c.label
		switch {
		case sum.Source == store.SourceFallback:
			label += " *"
		case sum.Stale:
			label += " ~"
		}
		value := lipgloss.NewStyle().Bold(true).Foreground(c.color).Render(c.value)
		rendered[i] = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Width(cardWidth).
			Align(lipgloss.Center).
			Render(value + "\n" + styleSubtle.Render(runewidth.Truncate(label, cardWidth, "…")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderResults renders the visible window of the result list
func (m *Model) renderResults(width, height int) string {
	snap := m.store.Snapshot()

	title := fmt.Sprintf("Resultados (%d)", len(snap.Results))
	if snap.Query != "" {
		title = fmt.Sprintf("Resultados para %q (%d)", snap.Query, len(snap.Results))
	}
	lines := []string{styleTitle.Render(title)}

	switch {
	case !snap.HasResults && (m.loading[cancel.PurposeListAll] || m.loading[cancel.PurposeSearch]):
		lines = append(lines, styleSubtle.Render("Cargando..."))
	case !snap.HasResults:
		lines = append(lines, styleSubtle.Render("Sin datos cargados"))
	case len(snap.Results) == 0:
		lines = append(lines, styleSubtle.Render("No se encontraron resultados"))
	}

	end := min(len(snap.Results), m.offset+m.visibleRows())
	for i := m.offset; i < end; i++ {
		lines = append(lines, zone.Mark(rowZoneID(i), m.renderRow(snap.Results[i], i == m.selected, width)))
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(strings.Join(lines, "\n"))
}

// renderRow renders one record as three lines: title, people, stage badges
func (m *Model) renderRow(rec types.Record, selected bool, width int) string {
	width = max(10, width)

	title := rec.Title
	if title == "" {
		title = "Sin título"
	}
	people := strings.Join(nonEmpty(rec.Program, rec.Student1, rec.Advisor), " · ")
	badges := fmt.Sprintf("P: %s  A: %s  TF: %s",
		renderBadge(rec.Proposal), renderBadge(rec.PreProject), renderBadge(rec.FinalWork))

	first := runewidth.Truncate(title, width-2, "…")
	if selected {
		first = styleSelected.Render(runewidth.FillRight("▸ "+first, width))
	} else {
		first = styleLabel.Render("  " + first)
	}
	return first + "\n" +
		styleSubtle.Render("  "+runewidth.Truncate(people, width-2, "…")) + "\n" +
		"  " + badges
}

// renderBadge colors a stage status by its class
func renderBadge(status string) string {
	if strings.TrimSpace(status) == "" {
		return styleSubtle.Render("-")
	}
	switch types.ClassifyStatus(status) {
	case types.StatusApproved:
		return styleSuccess.Render(status)
	case types.StatusInReview:
		return styleWarning.Render(status)
	case types.StatusRejected:
		return styleError.Render(status)
	case types.StatusNotApplicable:
		return styleSubtle.Render(status)
	}
	return status
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// renderStatusBar renders the transient message, or the main key hints
func (m *Model) renderStatusBar() string {
	if m.statusMsg != "" {
		if m.isError {
			return styleError.Render(m.statusMsg)
		}
		return styleSuccess.Render(m.statusMsg)
	}

	hints := []struct {
		ctx    keybinds.Context
		action keybinds.Action
		label  string
	}{
		{keybinds.ContextGlobal, keybinds.ActionFocusNext, "panel"},
		{keybinds.ContextResults, keybinds.ActionOpenDetail, "detalle"},
		{keybinds.ContextResults, keybinds.ActionEditRecord, "editar"},
		{keybinds.ContextGlobal, keybinds.ActionFocusForm, "nuevo"},
		{keybinds.ContextGlobal, keybinds.ActionExportPDF, "PDF"},
		{keybinds.ContextGlobal, keybinds.ActionExportExcel, "Excel"},
		{keybinds.ContextGlobal, keybinds.ActionOpenHelp, "ayuda"},
		{keybinds.ContextResults, keybinds.ActionQuit, "salir"},
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		if keys := m.keybinds.GetBindingString(h.ctx, h.action); keys != "" {
			parts = append(parts, keys+" "+h.label)
		}
	}
	return styleSubtle.Render(runewidth.Truncate(strings.Join(parts, " • "), max(1, m.width), "…"))
}
