package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/types"
)

// firstDataRow is the sheet row of the first record; row 1 holds the headers
const firstDataRow = 2

// Server serves an in-memory copy of the projects register over the same
// endpoints as the real service
type Server struct {
	config     *Config
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
	now        func() time.Time

	mu      sync.RWMutex
	records []types.Record
	nextRow int

	logs      []RequestLog
	logsMutex sync.RWMutex
}

// NewServer creates a mock service holding records. Sample records are used
// when records is nil.
func NewServer(config *Config, records []types.Record, logger *zap.Logger) *Server {
	if config.Port == 0 {
		config.Port = 5000
	}
	if config.Host == "" {
		config.Host = "127.0.0.1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if records == nil {
		records = SampleRecords()
	}

	s := &Server{
		config:  config,
		logger:  logger,
		now:     time.Now,
		records: make([]types.Record, 0, len(records)),
		nextRow: firstDataRow,
	}
	for _, rec := range records {
		if rec.RowIndex != nil && *rec.RowIndex >= s.nextRow {
			s.nextRow = *rec.RowIndex + 1
		}
	}
	for _, rec := range records {
		if rec.RowIndex == nil {
			row := s.nextRow
			s.nextRow++
			rec.RowIndex = &row
		}
		s.records = append(s.records, rec)
	}
	return s
}

// Handler returns the HTTP handler of the service
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(route(executor.EndpointConnectivity), s.handleConnectivity)
	mux.HandleFunc(route(executor.EndpointHealth), s.handleHealth)
	mux.HandleFunc(route(executor.EndpointListAll), s.handleListAll)
	mux.HandleFunc(route(executor.EndpointSearch), s.handleSearch)
	mux.HandleFunc(route(executor.EndpointCreate), s.handleCreate)
	mux.HandleFunc(route(executor.EndpointUpdate), s.handleUpdate)
	mux.HandleFunc(route(executor.EndpointStatistics), s.handleStatistics)
	mux.HandleFunc(route(executor.EndpointExportPDF), s.handleExportPDF)
	mux.HandleFunc(route(executor.EndpointExportExcel), s.handleExportExcel)
	return s.wrap(mux)
}

func route(ep executor.Endpoint) string {
	return ep.Method + " " + ep.Path
}

// Start starts the mock service in the background
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mock server error", zap.Error(err))
		}
	}()

	s.logger.Info("mock server started", zap.String("address", s.GetAddress()))
	return nil
}

// Stop stops the mock service
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// GetAddress returns the server base URL
func (s *Server) GetAddress() string {
	if s.listener != nil {
		return "http://" + s.listener.Addr().String()
	}
	return "http://" + net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Records returns a copy of the served records
func (s *Server) Records() []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Record(nil), s.records...)
}

// wrap applies the configured delay and forced failures, and logs requests
func (s *Server) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		bodyBytes, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if s.config.Delay > 0 {
			select {
			case <-time.After(time.Duration(s.config.Delay) * time.Millisecond):
			case <-r.Context().Done():
				return
			}
		}

		if f, ok := s.failure(r.Method, r.URL.Path); ok {
			writeError(rec, failureStatus(f), f.Message)
		} else {
			next.ServeHTTP(rec, r)
		}

		duration := time.Since(start)
		s.logger.Debug("mock request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", duration),
		)

		if s.config.Logging {
			s.logRequest(RequestLog{
				Timestamp: start,
				Method:    r.Method,
				Path:      r.URL.Path,
				Body:      string(bodyBytes),
				Status:    rec.status,
				Duration:  duration,
			})
		}
	})
}

func (s *Server) failure(method, path string) (Failure, bool) {
	for key, f := range s.config.Failures {
		if strings.EqualFold(key, method+" "+path) {
			return f, true
		}
	}
	return Failure{}, false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.records)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, types.ConnectionStatus{
		State:        "conectado",
		Message:      "Servidor de prueba",
		TotalRecords: n,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, executor.HealthResponse{
		Status:    "ok",
		Timestamp: s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, executor.ResultsResponse{Results: s.Records()})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term string `json:"termino"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	term := strings.TrimSpace(body.Term)
	if term == "" {
		writeError(w, http.StatusBadRequest, "Término de búsqueda vacío")
		return
	}

	writeJSON(w, http.StatusOK, executor.ResultsResponse{Results: Search(s.Records(), term)})
}

// Search returns the records with any field containing term, ignoring case
func Search(records []types.Record, term string) []types.Record {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))

	matches := []types.Record{}
	for _, rec := range records {
		for _, f := range rec.Fields() {
			if strings.Contains(fold.String(f.Value), needle) {
				matches = append(matches, rec)
				break
			}
		}
	}
	return matches
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeForm(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	row := s.nextRow
	s.nextRow++
	rec := recordFromForm(form)
	rec.RowIndex = &row
	s.records = append(s.records, rec)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, executor.MessageResponse{Message: "Proyecto agregado correctamente"})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeForm(w, r)
	if !ok {
		return
	}
	if form.RowIndex == nil {
		writeError(w, http.StatusBadRequest, "Falta el número de fila")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if *rec.RowIndex != *form.RowIndex {
			continue
		}
		updated := recordFromForm(form)
		updated.OriginSheet = rec.OriginSheet
		updated.RowIndex = rec.RowIndex
		s.records[i] = updated
		writeJSON(w, http.StatusOK, executor.MessageResponse{Message: "Proyecto actualizado correctamente"})
		return
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("No existe el proyecto en la fila %d", *form.RowIndex))
}

// decodeForm reads create and update payloads, answering 400 when they are
// unusable
func decodeForm(w http.ResponseWriter, r *http.Request) (types.FormValues, bool) {
	var form types.FormValues
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return form, false
	}
	if strings.TrimSpace(form.Title) == "" {
		writeError(w, http.StatusBadRequest, "El campo Proyecto/Artículo es obligatorio")
		return form, false
	}
	if strings.TrimSpace(form.Student1) == "" {
		writeError(w, http.StatusBadRequest, "El campo Estudiante 1 es obligatorio")
		return form, false
	}
	return form, true
}

func recordFromForm(f types.FormValues) types.Record {
	return types.Record{
		Title:       strings.TrimSpace(f.Title),
		Program:     f.Program,
		Student1:    strings.TrimSpace(f.Student1),
		Student2:    f.Student2,
		Advisor:     f.Advisor,
		Evaluator1:  f.Evaluator1,
		Evaluator2:  f.Evaluator2,
		Evaluator3:  f.Evaluator3,
		Time:        f.Time,
		Proposal:    f.Proposal,
		PreProject:  f.PreProject,
		FinalWork:   f.FinalWork,
		DefenseDate: f.DefenseDate,
		CallCycle:   f.CallCycle,
		Kind:        f.Kind,
		Year:        f.Year,
	}
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BuildStatistics(s.Records(), s.now()))
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Records []types.Record `json:"datos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	if len(body.Records) == 0 {
		writeError(w, http.StatusBadRequest, "No hay datos para exportar")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="proyectos.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderReport(body.Records))
}

func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="proyectos.tsv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTable(s.Records()))
}

// renderReport renders a minimal single-page PDF listing the record titles
func renderReport(records []types.Record) []byte {
	var text strings.Builder
	text.WriteString("BT /F1 10 Tf 40 800 Td 14 TL\n")
	for _, rec := range records {
		title := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(rec.Title)
		text.WriteString("(" + title + ") '\n")
	}
	text.WriteString("ET")
	stream := text.String()

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	b.WriteString("1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n")
	b.WriteString("2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj\n")
	b.WriteString("3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >> endobj\n")
	fmt.Fprintf(&b, "4 0 obj << /Length %d >> stream\n%s\nendstream endobj\n", len(stream), stream)
	b.WriteString("5 0 obj << /Type /Font /Subtype /Type1 /BaseFont /Helvetica >> endobj\n")
	b.WriteString("trailer << /Root 1 0 R >>\n%%EOF\n")
	return b.Bytes()
}

// renderTable renders the records as tab separated values with a header row
func renderTable(records []types.Record) []byte {
	var b bytes.Buffer
	var header []string
	for _, f := range (types.Record{}).Fields() {
		header = append(header, f.Label)
	}
	header = append(header, types.HeaderRowIndex)
	b.WriteString(strings.Join(header, "\t") + "\n")

	for _, rec := range records {
		var cols []string
		for _, f := range rec.Fields() {
			cols = append(cols, strings.ReplaceAll(f.Value, "\t", " "))
		}
		cols = append(cols, strconv.Itoa(*rec.RowIndex))
		b.WriteString(strings.Join(cols, "\t") + "\n")
	}
	return b.Bytes()
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)

	// Keep only last 1000 logs
	if len(s.logs) > 1000 {
		s.logs = s.logs[len(s.logs)-1000:]
	}
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	// Return a copy
	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
