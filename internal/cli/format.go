package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/proyectos/internal/charts"
	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/filter"
	"github.com/studiowebux/proyectos/internal/store"
	"github.com/studiowebux/proyectos/internal/types"
)

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorDim    = "\x1b[2m"
)

const barWidth = 30

// formatOutput encodes v as json or yaml after applying the filter and query.
// The text format is rendered by the caller and yields "".
func formatOutput(ctx context.Context, format string, v any, filterExpr, query string) (string, error) {
	switch format {
	case FormatJSON:
		body, err := marshal(v)
		if err != nil {
			return "", err
		}
		if filterExpr != "" || query != "" {
			body, err = filter.Apply(ctx, body, filterExpr, query)
			if err != nil {
				return "", err
			}
		}
		return indentJSON(body) + "\n", nil

	case FormatYAML:
		if filter.IsShellCommand(query) {
			return "", fmt.Errorf("shell queries require json output")
		}
		data, err := filter.ToGeneric(v)
		if err != nil {
			return "", err
		}
		for _, expr := range []string{filterExpr, query} {
			if expr == "" {
				continue
			}
			if data, err = filter.Search(data, expr); err != nil {
				return "", err
			}
		}
		out, err := yaml.Marshal(data)
		if err != nil {
			return "", err
		}
		return string(out), nil

	case FormatText:
		return "", nil
	}
	return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
}

// indentJSON pretty-prints body, leaving non-JSON output (shell queries) as is
func indentJSON(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}

func (r *Runner) colorize(s, color string) string {
	if !r.opts.Color || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *Runner) reset() string {
	if !r.opts.Color {
		return ""
	}
	return colorReset
}

func (r *Runner) statusColor(status int) string {
	if !r.opts.Color {
		return ""
	}
	return getStatusColor(status)
}

func getStatusColor(status int) string {
	switch {
	case executor.IsSuccessStatus(status):
		return colorGreen
	case executor.IsClientErrorStatus(status), executor.IsServerErrorStatus(status):
		return colorRed
	}
	return colorYellow
}

func badgeColor(class types.StatusClass) string {
	switch class {
	case types.StatusApproved:
		return colorGreen
	case types.StatusInReview:
		return colorYellow
	case types.StatusRejected:
		return colorRed
	case types.StatusNotApplicable:
		return colorDim
	}
	return ""
}

func (r *Runner) badge(status string) string {
	if status == "" {
		return r.colorize("-", colorDim)
	}
	return r.colorize(status, badgeColor(types.ClassifyStatus(status)))
}

func connectionLevelName(level types.ConnectionLevel) string {
	switch level {
	case types.ConnectionOK:
		return "conectado"
	case types.ConnectionPartial:
		return "parcial"
	case types.ConnectionError:
		return "error"
	}
	return "desconocido"
}

func (r *Runner) writeConnection(w io.Writer, status types.ConnectionStatus) {
	color := colorRed
	switch status.Level() {
	case types.ConnectionOK:
		color = colorGreen
	case types.ConnectionPartial:
		color = colorYellow
	}
	fmt.Fprintf(w, "%s %s\n", r.colorize("● "+connectionLevelName(status.Level()), color), status.Message)
	fmt.Fprintf(w, "Registros: %d\n", status.TotalRecords)
}

func (r *Runner) writeRecords(w io.Writer, records []types.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No se encontraron resultados")
		return
	}
	fmt.Fprintf(w, "%d proyectos encontrados\n\n", len(records))

	for i, rec := range records {
		if r.opts.ShowFull {
			fmt.Fprintf(w, "%d.\n", i+1)
			r.writeRecordDetail(w, rec)
			fmt.Fprintln(w)
			continue
		}
		title := rec.Title
		if title == "" {
			title = "Sin título"
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, r.colorize(title, colorBlue))
		fmt.Fprintf(w, "   %s | %s | %s\n", orDash(rec.Program), orDash(rec.Student1), orDash(rec.Advisor))
		fmt.Fprintf(w, "   Propuesta: %s  Anteproyecto: %s  Trabajo final: %s\n",
			r.badge(rec.Proposal), r.badge(rec.PreProject), r.badge(rec.FinalWork))
	}
}

func (r *Runner) writeRecordDetail(w io.Writer, rec types.Record) {
	for _, f := range rec.Fields() {
		if f.Value == "" {
			continue
		}
		value := f.Value
		switch f.Label {
		case types.HeaderProposal, types.HeaderPreProject, types.HeaderFinalWork:
			value = r.badge(f.Value)
		}
		fmt.Fprintf(w, "  %s: %s\n", strings.TrimSpace(f.Label), value)
	}
	if rec.RowIndex != nil {
		fmt.Fprintf(w, "  %s: %d\n", types.HeaderRowIndex, *rec.RowIndex)
	}
}

func (r *Runner) writeSummary(w io.Writer, sum store.Summary) {
	fmt.Fprintf(w, "Total de proyectos:          %d\n", sum.Total)
	fmt.Fprintf(w, "Propuestas aprobadas:        %d\n", sum.ApprovedProposals)
	fmt.Fprintf(w, "Trabajos finales aprobados:  %d\n", sum.ApprovedFinalWorks)
	if sum.HasPreProjects {
		fmt.Fprintf(w, "Anteproyectos:               %d\n", sum.PreProjects)
	}
	switch {
	case sum.Source == store.SourceFallback:
		fmt.Fprintln(w, r.colorize("(calculado sobre los registros cargados)", colorDim))
	case sum.Stale:
		fmt.Fprintln(w, r.colorize("(estadísticas desactualizadas)", colorDim))
	}
}

func (r *Runner) writeCharts(w io.Writer, stats types.Statistics) {
	for _, kind := range charts.Kinds {
		fmt.Fprintf(w, "\n%s\n", r.colorize(kind.Title(), colorBlue))
		bars := charts.Build(kind, stats)
		if len(bars) == 0 {
			fmt.Fprintf(w, "  %s\n", kind.EmptyText())
			continue
		}

		labelWidth := 0
		for _, b := range bars {
			labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
		}
		for _, b := range bars {
			label := runewidth.FillRight(b.Label, labelWidth)
			bar := strings.Repeat("█", int(b.Ratio*barWidth+0.5))
			if b.Percent > 0 {
				fmt.Fprintf(w, "  %s %s %d (%.1f%%)\n", label, r.colorize(bar, badgeColor(b.Class)), b.Count, b.Percent)
			} else {
				fmt.Fprintf(w, "  %s %s %d\n", label, r.colorize(bar, badgeColor(b.Class)), b.Count)
			}
		}
	}
}

func (r *Runner) writeDashboard(w io.Writer, d Dashboard) {
	if d.Connection != nil {
		r.writeConnection(w, *d.Connection)
	} else {
		fmt.Fprintln(w, r.colorize("● error", colorRed))
	}
	fmt.Fprintln(w)
	r.writeSummary(w, d.Summary)
	if d.Statistics != nil {
		r.writeCharts(w, *d.Statistics)
	}
	if len(d.Errors) > 0 {
		fmt.Fprintln(w)
		for _, name := range []string{
			executor.EndpointConnectivity.Name,
			executor.EndpointStatistics.Name,
			executor.EndpointListAll.Name,
		} {
			if msg, ok := d.Errors[name]; ok {
				fmt.Fprintf(w, "%s\n", r.colorize("Error: "+msg, colorRed))
			}
		}
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
