package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/charts"
	"github.com/studiowebux/proyectos/internal/types"
)

func chartZoneID(k charts.Kind) string {
	return fmt.Sprintf("chart-%d", int(k))
}

// selectChart expands chart k, loading the statistics if none are cached
func (m *Model) selectChart(k charts.Kind) tea.Cmd {
	m.chartKind = k
	return m.ensureStatistics()
}

// renderCharts renders the chart boxes; only the selected one shows its bars
func (m *Model) renderCharts(width, height int) string {
	stats, ok := m.store.Statistics()

	var lines []string
	for _, k := range charts.Kinds {
		if k != m.chartKind {
			lines = append(lines, zone.Mark(chartZoneID(k), styleSubtle.Render("▸ "+k.Title())))
			continue
		}

		lines = append(lines, zone.Mark(chartZoneID(k), styleTitle.Render("▾ "+k.Title())))
		switch {
		case !ok && m.loading[cancel.PurposeStatistics]:
			lines = append(lines, styleSubtle.Render("  Cargando estadísticas..."))
		case !ok:
			lines = append(lines, styleSubtle.Render("  Estadísticas no disponibles"))
		default:
			lines = append(lines, m.renderBars(charts.Build(k, stats), k, width)...)
		}
	}

	if errMsg := m.store.Snapshot().StatsError; errMsg != "" {
		lines = append(lines, "", styleError.Render(runewidth.Truncate("Error: "+errMsg, max(1, width), "…")))
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(strings.Join(lines, "\n"))
}

// renderBars renders one line per bar, folded to a few rows unless expanded
func (m *Model) renderBars(bars []charts.Bar, k charts.Kind, width int) []string {
	if len(bars) == 0 {
		return []string{styleSubtle.Render("  " + k.EmptyText())}
	}

	shown := bars
	if !m.chartExpanded && len(shown) > ChartRowsFolded {
		shown = shown[:ChartRowsFolded]
	}

	labelWidth := 0
	for _, b := range shown {
		labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
	}
	labelWidth = min(labelWidth, max(8, width/2))
	barWidth := max(1, min(ChartBarMaxWidth, width-labelWidth-14))

	lines := make([]string, 0, len(shown)+1)
	for _, b := range shown {
		label := runewidth.FillRight(runewidth.Truncate(b.Label, labelWidth, "…"), labelWidth)
		n := int(b.Ratio*float64(barWidth) + 0.5)
		if n == 0 && b.Count > 0 {
			n = 1
		}
		bar := barStyle(b.Class).Render(strings.Repeat("█", n))

		value := fmt.Sprint(b.Count)
		if b.Percent > 0 {
			value = fmt.Sprintf("%d (%.1f%%)", b.Count, b.Percent)
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s", label, bar, value))
	}

	if hidden := len(bars) - len(shown); hidden > 0 {
		lines = append(lines, styleSubtle.Render(fmt.Sprintf("  ... %d más (enter para expandir)", hidden)))
	}
	return lines
}

func barStyle(class types.StatusClass) lipgloss.Style {
	switch class {
	case types.StatusApproved:
		return styleSuccess
	case types.StatusInReview:
		return styleWarning
	case types.StatusRejected:
		return styleError
	case types.StatusNotApplicable:
		return styleSubtle
	}
	return lipgloss.NewStyle().Foreground(colorBlue)
}
