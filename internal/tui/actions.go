package tui

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/session"
	"github.com/studiowebux/proyectos/internal/types"
)

// begin acquires the token of ep synchronously and marks its purpose as loading
func (m *Model) begin(ep executor.Endpoint, body any) *executor.Call {
	call := m.client.Begin(ep, body)
	if ep.Purpose != "" {
		m.loading[ep.Purpose] = true
	}
	return call
}

// settle does the bookkeeping of a resolved call. It reports whether the result
// may be applied; when it may not, the returned command shows the failure, if any.
func (m *Model) settle(res executor.Result) (bool, tea.Cmd) {
	if p := res.Endpoint.Purpose; p != "" {
		if cur, ok := m.registry.Current(p); !ok || cur == res.Token {
			m.loading[p] = false
		}
		m.registry.Release(res.Token)
	}

	switch {
	case res.TimedOut:
		m.logger.Warn("backend call timed out", zap.String("endpoint", res.Endpoint.Name))
		return false, m.setErrorMessage("Error de conexión: " + res.Message)
	case res.Stale():
		// superseded by a newer call of the same purpose
		return false, nil
	case !res.OK():
		m.logger.Warn("backend call failed",
			zap.String("endpoint", res.Endpoint.Name),
			zap.String("outcome", res.Outcome.String()),
			zap.Int("status", res.Status),
			zap.String("message", res.Message),
		)
		return false, m.setErrorMessage(failureText(res))
	}
	return true, nil
}

func failureText(res executor.Result) string {
	if res.Outcome == executor.OutcomeNetwork {
		return "Error de conexión: " + res.Message
	}
	return "Error: " + res.Message
}

// cancelPurpose voids the pending call of purpose, if any
func (m *Model) cancelPurpose(p cancel.Purpose) {
	if tok, ok := m.registry.Current(p); ok {
		tok.Cancel()
	}
}

// refreshAll checks connectivity and reloads the list and the statistics
func (m *Model) refreshAll() tea.Cmd {
	return tea.Batch(m.checkConnectivity(), m.reloadResults(), m.loadStatistics())
}

func (m *Model) checkConnectivity() tea.Cmd {
	call := m.begin(executor.EndpointConnectivity, nil)
	ctx := m.ctx
	return func() tea.Msg {
		return connectivityMsg{res: call.Do(ctx)}
	}
}

// loadAll replaces the result set with every record
func (m *Model) loadAll() tea.Cmd {
	m.cancelPurpose(cancel.PurposeSearch)
	call := m.begin(executor.EndpointListAll, nil)
	ctx := m.ctx
	return func() tea.Msg {
		return resultsMsg{res: call.Do(ctx)}
	}
}

// runSearch replaces the result set with the records matching term
func (m *Model) runSearch(term string) tea.Cmd {
	m.cancelPurpose(cancel.PurposeListAll)
	call := m.begin(executor.EndpointSearch, executor.SearchBody(term))
	ctx := m.ctx
	return func() tea.Msg {
		return resultsMsg{res: call.Do(ctx), query: term}
	}
}

// reloadResults repeats the current search, or loads every record when the
// term is too short to search
func (m *Model) reloadResults() tea.Cmd {
	term := strings.TrimSpace(m.search.Value())
	if utf8.RuneCountInString(term) >= m.minChars {
		return m.runSearch(term)
	}
	return m.loadAll()
}

// onSearchChanged schedules the search for the current input. An emptied input
// reloads the full list; terms shorter than the minimum do nothing.
func (m *Model) onSearchChanged() tea.Cmd {
	term := strings.TrimSpace(m.search.Value())
	n := utf8.RuneCountInString(term)

	switch {
	case n == 0:
		return m.debouncer.Schedule(m.loadAll, 0)
	case n < m.minChars:
		m.debouncer.Cancel()
		return nil
	}
	return m.debouncer.Schedule(func() tea.Cmd {
		return m.runSearch(term)
	}, 0)
}

// showAll clears the search and loads every record
func (m *Model) showAll() tea.Cmd {
	m.debouncer.Cancel()
	m.search.SetValue("")
	return m.loadAll()
}

func (m *Model) loadStatistics() tea.Cmd {
	call := m.begin(executor.EndpointStatistics, nil)
	ctx := m.ctx
	return func() tea.Msg {
		return statsMsg{res: call.Do(ctx)}
	}
}

// ensureStatistics loads the statistics when no snapshot is cached yet
func (m *Model) ensureStatistics() tea.Cmd {
	if _, ok := m.store.Statistics(); ok || m.loading[cancel.PurposeStatistics] {
		return nil
	}
	return m.loadStatistics()
}

func (m *Model) submitForm() tea.Cmd {
	sub, err := m.session.PrepareSubmit()
	if err != nil {
		return m.setErrorMessage(err.Error())
	}

	call := m.begin(sub.Endpoint, sub.Payload)
	ctx := m.ctx
	label := "Guardando proyecto..."
	if sub.Mode == session.ModeEdit {
		label = "Actualizando proyecto..."
	}
	return tea.Batch(m.setStatusMessage(label), func() tea.Msg {
		return submitMsg{sub: sub, res: call.Do(ctx)}
	})
}

func (m *Model) exportPDF() tea.Cmd {
	body, err := executor.PDFExportBody(m.store.Results())
	if err != nil {
		if errors.Is(err, executor.ErrEmptyExport) {
			return m.setErrorMessage("No hay datos para exportar")
		}
		return m.setErrorMessage(err.Error())
	}

	call := m.begin(executor.EndpointExportPDF, body)
	ctx, dir, name := m.ctx, m.downloadDir, executor.PDFFilename(m.now())
	return tea.Batch(m.setStatusMessage("Generando PDF..."), func() tea.Msg {
		return exportMsg{res: call.Download(ctx, dir, name)}
	})
}

func (m *Model) exportExcel() tea.Cmd {
	call := m.begin(executor.EndpointExportExcel, nil)
	ctx, dir, name := m.ctx, m.downloadDir, executor.ExcelFilename(m.now())
	return tea.Batch(m.setStatusMessage("Descargando Excel..."), func() tea.Msg {
		return exportMsg{res: call.Download(ctx, dir, name)}
	})
}

func (m *Model) copyRecord(rec types.Record) tea.Cmd {
	text := recordText(rec)
	copyText := m.copyText
	return func() tea.Msg {
		return clipboardMsg{err: copyText(text)}
	}
}

func (m *Model) applyConnectivity(res executor.Result) tea.Cmd {
	ok, cmd := m.settle(res)
	if !ok {
		if res.TimedOut || !res.Stale() {
			m.connKnown = true
			m.connError = res.Message
		}
		return cmd
	}

	var status types.ConnectionStatus
	if err := res.Decode(&status); err != nil {
		m.connKnown = true
		m.connError = err.Error()
		return m.setErrorMessage("Error de conexión: " + err.Error())
	}
	m.conn = status
	m.connKnown = true
	m.connError = ""
	return nil
}

func (m *Model) applyResults(msg resultsMsg) tea.Cmd {
	ok, cmd := m.settle(msg.res)
	if !ok {
		return cmd
	}

	var body executor.ResultsResponse
	if err := msg.res.Decode(&body); err != nil {
		return m.setErrorMessage("Error: " + err.Error())
	}
	if !m.store.ApplyResults(msg.res.Token, msg.query, body.Results) {
		return nil
	}
	m.selected = 0
	m.offset = 0
	return nil
}

func (m *Model) applyStatistics(res executor.Result) tea.Cmd {
	ok, cmd := m.settle(res)
	if !ok {
		if res.TimedOut || !res.Stale() {
			m.store.MarkStatisticsFailed(res.Message)
		}
		return cmd
	}

	if e := res.BackendError(); e != "" {
		m.store.MarkStatisticsFailed(e)
		return m.setErrorMessage("Error en estadísticas: " + e)
	}

	var stats types.Statistics
	if err := res.Decode(&stats); err != nil {
		m.store.MarkStatisticsFailed(err.Error())
		return m.setErrorMessage("Error en estadísticas: " + err.Error())
	}
	m.store.ApplyStatistics(res.Token, stats)
	return nil
}

// applySubmit completes the edit session and reloads the list and the
// statistics from the backend
func (m *Model) applySubmit(msg submitMsg) tea.Cmd {
	ok, cmd := m.settle(msg.res)
	if !ok {
		return cmd
	}
	if e := msg.res.BackendError(); e != "" {
		return m.setErrorMessage("Error: " + e)
	}

	var body executor.MessageResponse
	_ = msg.res.Decode(&body)
	text := body.Message
	if text == "" {
		text = "Proyecto agregado correctamente"
		if msg.sub.Mode == session.ModeEdit {
			text = "Proyecto actualizado correctamente"
		}
	}

	m.session.Complete(msg.sub)
	m.loadForm(m.session.Form())
	m.debouncer.Cancel()
	m.search.SetValue("")

	return tea.Batch(m.setStatusMessage(text), m.loadStatistics(), m.loadAll())
}

func (m *Model) applyExport(res executor.Result) tea.Cmd {
	ok, cmd := m.settle(res)
	if !ok {
		return cmd
	}
	m.logger.Info("export saved", zap.String("path", res.Path), zap.Int64("size", res.Size))
	return m.setStatusMessage(fmt.Sprintf("Archivo descargado: %s (%s)", res.Path, executor.FormatSize(res.Size)))
}
