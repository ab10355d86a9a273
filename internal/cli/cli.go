// Package cli implements the headless commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/store"
	"github.com/studiowebux/proyectos/internal/types"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options contains options for running commands in CLI mode
type Options struct {
	OutputFormat string // json, yaml, text
	Filter       string // JMESPath filter expression
	Query        string // JMESPath query or $(bash command)
	ShowFull     bool   // all record fields plus the duration and size line
	Color        bool
	Pick         bool // choose one record interactively
	DownloadDir  string
	StatsTTL     time.Duration
	Out          io.Writer
	Logger       *zap.Logger
}

// Runner executes headless commands against the service
type Runner struct {
	client *executor.Client
	opts   Options
	out    io.Writer
	logger *zap.Logger

	now  func() time.Time
	pick func([]types.Record) (types.Record, error)
}

// NewRunner creates a runner using client
func NewRunner(client *executor.Client, opts Options) *Runner {
	r := &Runner{
		client: client,
		opts:   opts,
		out:    opts.Out,
		logger: opts.Logger,
		now:    time.Now,
		pick:   pickRecord,
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.opts.OutputFormat == "" {
		r.opts.OutputFormat = FormatText
	}
	if r.opts.DownloadDir == "" {
		r.opts.DownloadDir = "."
	}
	if r.opts.StatsTTL <= 0 {
		r.opts.StatsTTL = 5 * time.Minute
	}
	return r
}

// RequestError is returned when a backend call does not succeed
type RequestError struct {
	Endpoint string
	Status   int
	Message  string
	TimedOut bool
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Endpoint, e.Message)
}

// resultError converts a non-OK result into an error
func resultError(res executor.Result) error {
	if res.OK() {
		return nil
	}
	msg := res.Message
	if msg == "" && res.Outcome == executor.OutcomeCancelled {
		msg = "cancelled"
	}
	return &RequestError{
		Endpoint: res.Endpoint.Name,
		Status:   res.Status,
		Message:  msg,
		TimedOut: res.TimedOut,
	}
}

// fetch performs a data call and decodes its body into v
func (r *Runner) fetch(ctx context.Context, ep executor.Endpoint, body, v any) (executor.Result, error) {
	res := r.client.Begin(ep, body).Do(ctx)
	if err := resultError(res); err != nil {
		return res, err
	}
	if v != nil {
		if err := res.Decode(v); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Check runs the connectivity check. It fails unless the service reports a
// connected or partial state.
func (r *Runner) Check(ctx context.Context) error {
	var status types.ConnectionStatus
	res, err := r.fetch(ctx, executor.EndpointConnectivity, nil, &status)
	if err != nil {
		return err
	}

	if err := r.render(ctx, res, status, func(w io.Writer) { r.writeConnection(w, status) }); err != nil {
		return err
	}
	if status.Level() == types.ConnectionError {
		return &RequestError{Endpoint: res.Endpoint.Name, Status: res.Status, Message: status.Message}
	}
	return nil
}

// Health queries the service health endpoint
func (r *Runner) Health(ctx context.Context) error {
	var health executor.HealthResponse
	res, err := r.fetch(ctx, executor.EndpointHealth, nil, &health)
	if err != nil {
		return err
	}
	return r.render(ctx, res, health, func(w io.Writer) {
		fmt.Fprintf(w, "%s (ttl %ds) %s\n", r.colorize(health.Status, colorGreen), health.CacheTTL, health.Timestamp)
	})
}

// List prints every record
func (r *Runner) List(ctx context.Context) error {
	var body executor.ResultsResponse
	res, err := r.fetch(ctx, executor.EndpointListAll, nil, &body)
	if err != nil {
		return err
	}
	return r.renderRecords(ctx, res, body)
}

// Search prints the records matching term
func (r *Runner) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return fmt.Errorf("search term is required")
	}

	var body executor.ResultsResponse
	res, err := r.fetch(ctx, executor.EndpointSearch, executor.SearchBody(term), &body)
	if err != nil {
		return err
	}
	return r.renderRecords(ctx, res, body)
}

func (r *Runner) renderRecords(ctx context.Context, res executor.Result, body executor.ResultsResponse) error {
	if r.opts.Pick && len(body.Results) > 0 && isInteractive() {
		rec, err := r.pick(body.Results)
		if err != nil {
			return err
		}
		return r.render(ctx, res, rec, func(w io.Writer) { r.writeRecordDetail(w, rec) })
	}
	return r.render(ctx, res, body, func(w io.Writer) { r.writeRecords(w, body.Results) })
}

// Stats prints the statistics snapshot
func (r *Runner) Stats(ctx context.Context) error {
	var stats types.Statistics
	res, err := r.fetch(ctx, executor.EndpointStatistics, nil, &stats)
	if err != nil {
		return err
	}
	if msg := res.BackendError(); msg != "" {
		return &RequestError{Endpoint: res.Endpoint.Name, Status: res.Status, Message: msg}
	}
	return r.render(ctx, res, stats, func(w io.Writer) {
		r.writeSummary(w, store.BackendSummary(stats))
		r.writeCharts(w, stats)
	})
}

// Dashboard is the combined view printed by the dashboard command
type Dashboard struct {
	Connection      *types.ConnectionStatus `json:"conexion,omitempty" yaml:"conexion,omitempty"`
	Summary         store.Summary           `json:"resumen" yaml:"resumen"`
	Statistics      *types.Statistics       `json:"estadisticas,omitempty" yaml:"estadisticas,omitempty"`
	Records         int                     `json:"registros" yaml:"registros"`
	Errors          map[string]string       `json:"errores,omitempty" yaml:"errores,omitempty"`
	ConnectionLevel string                  `json:"nivel_conexion" yaml:"nivel_conexion"`
}

// Dashboard loads connectivity, statistics and the full list concurrently.
// Each load reports its own failure; the summary falls back to the loaded
// records when statistics are unavailable.
func (r *Runner) Dashboard(ctx context.Context) error {
	s := store.New(r.opts.StatsTTL)
	start := r.now()

	var (
		conn     types.ConnectionStatus
		connErr  error
		statsErr error
		listErr  error
	)

	g, gctx := errgroup.WithContext(ctx)

	connCall := r.client.Begin(executor.EndpointConnectivity, nil)
	g.Go(func() error {
		res := connCall.Do(gctx)
		if connErr = resultError(res); connErr == nil {
			connErr = res.Decode(&conn)
		}
		return ctx.Err()
	})

	statsCall := r.client.Begin(executor.EndpointStatistics, nil)
	g.Go(func() error {
		res := statsCall.Do(gctx)
		if statsErr = resultError(res); statsErr != nil {
			s.MarkStatisticsFailed(statsErr.Error())
			return ctx.Err()
		}
		if msg := res.BackendError(); msg != "" {
			statsErr = &RequestError{Endpoint: res.Endpoint.Name, Status: res.Status, Message: msg}
			s.MarkStatisticsFailed(msg)
			return ctx.Err()
		}
		var stats types.Statistics
		if statsErr = res.Decode(&stats); statsErr != nil {
			s.MarkStatisticsFailed(statsErr.Error())
			return ctx.Err()
		}
		s.ApplyStatistics(res.Token, stats)
		return ctx.Err()
	})

	listCall := r.client.Begin(executor.EndpointListAll, nil)
	g.Go(func() error {
		res := listCall.Do(gctx)
		if listErr = resultError(res); listErr != nil {
			return ctx.Err()
		}
		var body executor.ResultsResponse
		if listErr = res.Decode(&body); listErr != nil {
			return ctx.Err()
		}
		s.ApplyResults(res.Token, "", body.Results)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return err
	}

	snap := s.Snapshot()
	d := Dashboard{
		Summary:    snap.Summary,
		Statistics: snap.Statistics,
		Records:    len(snap.Results),
		Errors:     map[string]string{},
	}
	if connErr == nil {
		d.Connection = &conn
		d.ConnectionLevel = connectionLevelName(conn.Level())
	} else {
		d.ConnectionLevel = connectionLevelName(types.ConnectionError)
	}
	for name, err := range map[string]error{
		executor.EndpointConnectivity.Name: connErr,
		executor.EndpointStatistics.Name:   statsErr,
		executor.EndpointListAll.Name:      listErr,
	} {
		if err != nil {
			d.Errors[name] = err.Error()
			r.logger.Warn("dashboard load failed", zap.String("endpoint", name), zap.Error(err))
		}
	}

	res := executor.Result{Duration: r.now().Sub(start)}
	if err := r.render(ctx, res, d, func(w io.Writer) { r.writeDashboard(w, d) }); err != nil {
		return err
	}

	if connErr != nil && statsErr != nil && listErr != nil {
		return fmt.Errorf("dashboard unavailable: %w", errors.Join(connErr, statsErr, listErr))
	}
	return nil
}

// ExportPDF exports the records matching term, or every record when term is
// empty, to a PDF file in the download directory.
func (r *Runner) ExportPDF(ctx context.Context, term string) error {
	var body executor.ResultsResponse
	term = strings.TrimSpace(term)
	if term == "" {
		if _, err := r.fetch(ctx, executor.EndpointListAll, nil, &body); err != nil {
			return err
		}
	} else {
		if _, err := r.fetch(ctx, executor.EndpointSearch, executor.SearchBody(term), &body); err != nil {
			return err
		}
	}

	payload, err := executor.PDFExportBody(body.Results)
	if err != nil {
		return err
	}
	res := r.client.Begin(executor.EndpointExportPDF, payload).Download(ctx, r.opts.DownloadDir, executor.PDFFilename(r.now()))
	return r.renderDownload(ctx, res, len(body.Results))
}

// ExportExcel downloads the full workbook to the download directory
func (r *Runner) ExportExcel(ctx context.Context) error {
	res := r.client.Begin(executor.EndpointExportExcel, nil).Download(ctx, r.opts.DownloadDir, executor.ExcelFilename(r.now()))
	return r.renderDownload(ctx, res, 0)
}

// Download is the machine-readable result of an export
type Download struct {
	Path    string `json:"archivo" yaml:"archivo"`
	Size    int64  `json:"tamano" yaml:"tamano"`
	Records int    `json:"registros,omitempty" yaml:"registros,omitempty"`
}

func (r *Runner) renderDownload(ctx context.Context, res executor.Result, records int) error {
	if err := resultError(res); err != nil {
		return err
	}
	d := Download{Path: res.Path, Size: res.Size, Records: records}
	return r.render(ctx, res, d, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s (%s)\n", r.colorize("Archivo descargado:", colorGreen), d.Path, executor.FormatSize(d.Size))
		if records > 0 {
			fmt.Fprintf(w, "%d registros exportados\n", records)
		}
	})
}

// render writes v in the configured format. Text output goes through text;
// a filter or query always produces structured output.
func (r *Runner) render(ctx context.Context, res executor.Result, v any, text func(io.Writer)) error {
	format := r.opts.OutputFormat
	if format == FormatText && (r.opts.Filter != "" || r.opts.Query != "") {
		format = FormatJSON
	}

	output, err := formatOutput(ctx, format, v, r.opts.Filter, r.opts.Query)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if format != FormatText {
		_, err = io.WriteString(r.out, output)
		return err
	}

	var sb strings.Builder
	if r.opts.ShowFull && res.Endpoint.Name != "" {
		sb.WriteString(fmt.Sprintf("%s%s %d %s%s\n", r.statusColor(res.Status), res.Endpoint.Name, res.Status, res.StatusText, r.reset()))
	}
	if r.opts.ShowFull {
		sb.WriteString(fmt.Sprintf("Duration: %s | Size: %s\n\n",
			executor.FormatDuration(res.Duration),
			executor.FormatSize(res.Size)))
	}
	text(&sb)
	_, err = io.WriteString(r.out, sb.String())
	return err
}

// marshal is shared by the json renderer and the filter
func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
