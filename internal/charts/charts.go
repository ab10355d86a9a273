// Package charts turns statistics counts into bar data.
//
// Bars are a pure function of the counts. Share charts size each bar by its
// share of the total; scaled charts size each bar relative to the largest count.
package charts

import (
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/proyectos/internal/types"
)

// Kind identifies one of the dashboard charts
type Kind int

const (
	KindPrograms Kind = iota
	KindAdvisors
	KindProposalStates
	KindDates
)

// Kinds lists the charts in display order
var Kinds = []Kind{KindPrograms, KindAdvisors, KindProposalStates, KindDates}

// Title returns the chart heading
func (k Kind) Title() string {
	switch k {
	case KindPrograms:
		return "Proyectos por programa"
	case KindAdvisors:
		return "Proyectos por asesor"
	case KindProposalStates:
		return "Estado de propuestas"
	case KindDates:
		return "Sustentaciones por fecha"
	}
	return ""
}

// Next returns the chart after k, wrapping around
func (k Kind) Next() Kind {
	return Kinds[(int(k)+1)%len(Kinds)]
}

// Prev returns the chart before k, wrapping around
func (k Kind) Prev() Kind {
	return Kinds[(int(k)+len(Kinds)-1)%len(Kinds)]
}

// EmptyText is shown when the chart has no data
func (k Kind) EmptyText() string {
	switch k {
	case KindPrograms:
		return "No hay datos de programas"
	case KindAdvisors:
		return "No hay datos de asesores"
	case KindProposalStates:
		return "No hay datos de propuestas"
	case KindDates:
		return "No hay datos por fecha"
	}
	return "Sin datos"
}

// Label widths in display cells before truncation
const (
	ProgramLabelWidth = 25
	AdvisorLabelWidth = 30
)

// Bar is one row of a chart
type Bar struct {
	Label   string
	Count   int
	Percent float64 // share of total, 0 on scaled charts
	Ratio   float64 // bar length in [0,1]
	Class   types.StatusClass
}

// Build returns the bars of chart k for stats
func Build(k Kind, stats types.Statistics) []Bar {
	switch k {
	case KindPrograms:
		return Share(stats.ByProgram, ProgramLabelWidth)
	case KindAdvisors:
		return Scaled(stats.ByAdvisor, AdvisorLabelWidth, ByCount)
	case KindProposalStates:
		return States(stats.States.Proposals)
	case KindDates:
		return Scaled(stats.ByDate, 0, ByLabel)
	}
	return nil
}

// Share sizes bars by their share of the total, largest first
func Share(counts map[string]int, labelWidth int) []Bar {
	total := 0
	for _, n := range counts {
		total += n
	}

	bars := make([]Bar, 0, len(counts))
	for label, n := range counts {
		b := Bar{Label: Truncate(label, labelWidth), Count: n}
		if total > 0 {
			b.Percent = float64(n) * 100 / float64(total)
			b.Ratio = float64(n) / float64(total)
		}
		bars = append(bars, b)
	}
	sortBars(bars, ByCount)
	return bars
}

// Order is the row order of a chart
type Order int

const (
	ByCount Order = iota // largest first, ties by label
	ByLabel              // label ascending
)

// Scaled sizes bars relative to the largest count
func Scaled(counts map[string]int, labelWidth int, o Order) []Bar {
	peak := 0
	for _, n := range counts {
		if n > peak {
			peak = n
		}
	}

	bars := make([]Bar, 0, len(counts))
	for label, n := range counts {
		b := Bar{Label: Truncate(label, labelWidth), Count: n}
		if peak > 0 {
			b.Ratio = float64(n) / float64(peak)
		}
		bars = append(bars, b)
	}
	sortBars(bars, o)
	return bars
}

// States builds the status breakdown chart. Empty buckets are omitted.
func States(b types.StatusBreakdown) []Bar {
	buckets := []struct {
		label string
		count int
		class types.StatusClass
	}{
		{"Aprobadas", b.Approved, types.StatusApproved},
		{"En revisión", b.InReview, types.StatusInReview},
		{"No aprobadas", b.NotApproved, types.StatusRejected},
		{"No especificado", b.Unspecified, types.StatusDefault},
	}

	total := b.Total()
	if total == 0 {
		return nil
	}

	var bars []Bar
	for _, bucket := range buckets {
		if bucket.count <= 0 {
			continue
		}
		bars = append(bars, Bar{
			Label:   bucket.label,
			Count:   bucket.count,
			Percent: float64(bucket.count) * 100 / float64(total),
			Ratio:   float64(bucket.count) / float64(total),
			Class:   bucket.class,
		})
	}
	return bars
}

func sortBars(bars []Bar, o Order) {
	sort.SliceStable(bars, func(i, j int) bool {
		if o == ByCount && bars[i].Count != bars[j].Count {
			return bars[i].Count > bars[j].Count
		}
		return bars[i].Label < bars[j].Label
	})
}

// Truncate shortens label to width display cells and appends "..." when cut.
// A width of 0 keeps the label whole.
func Truncate(label string, width int) string {
	if width <= 0 || runewidth.StringWidth(label) <= width {
		return label
	}
	return runewidth.Truncate(label, width, "") + "..."
}
