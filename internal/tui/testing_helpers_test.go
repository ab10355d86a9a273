package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/debounce"
	"github.com/studiowebux/proyectos/internal/executor"
)

const testRecordsJSON = `{"resultados": [
	{"Proyecto/Articulo": "Sistema de riego", "Programa": "Ingeniería", "Estudiante 1": "Ana Gómez",
	 "Asesor": "Dr. Pérez", "Propuesta": "Aprobado", "Anteproyecto": "En revisión", "Trabajo final ": "No aprobado",
	 "Fecha sustentación": "5 de marzo de 2024", "Año": 2024, "numero_fila": 2},
	{"Proyecto/Articulo": "Análisis de suelos", "Programa": "Agronomía", "Estudiante 1": "Luis Rojas",
	 "Asesor": "Dra. Díaz", "Propuesta": "Aprobado", "Trabajo final": "Aprobado", "numero_fila": 3}
]}`

const testStatsJSON = `{
	"totales": {"total_proyectos": 40, "total_propuestas": 38, "total_anteproyectos": 12, "total_trabajos_finales": 11},
	"estados_contadores": {"propuestas_aprobadas": 25, "trabajos_finales_aprobados": 10},
	"por_programa": {"Ingeniería": 30, "Agronomía": 10},
	"por_asesor": {"Dr. Pérez": 7, "Dra. Díaz": 3},
	"estados": {"propuestas": {"aprobados": 25, "revision": 10, "no_aprobados": 5, "no_especificado": 0}},
	"por_fecha": {"2024-03-05": 2}
}`

// testBackend fakes the projects service and records what it was asked
type testBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	calls    map[string]int
	searches []string
	payloads []map[string]any
}

func (b *testBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

func (b *testBackend) searchTerms() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.searches...)
}

func (b *testBackend) lastPayload() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.payloads) == 0 {
		return nil
	}
	return b.payloads[len(b.payloads)-1]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// newTestBackend serves the default routes; overrides replace them by pattern
func newTestBackend(t *testing.T, overrides map[string]http.HandlerFunc) *testBackend {
	t.Helper()
	b := &testBackend{calls: make(map[string]int)}

	routes := map[string]http.HandlerFunc{
		"GET /verificar-conexion": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"estado": "conectado", "mensaje": "ok", "total_registros": 2}`)
		},
		"GET /mostrar_todos": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, testRecordsJSON)
		},
		"POST /buscar": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			b.mu.Lock()
			b.searches = append(b.searches, body["termino"])
			b.mu.Unlock()
			writeJSON(w, http.StatusOK, testRecordsJSON)
		},
		"GET /estadisticas-detalladas": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, testStatsJSON)
		},
		"POST /agregar": b.recordPayload(`{"mensaje": "Proyecto agregado"}`),
		"POST /actualizar": b.recordPayload(`{"mensaje": "Proyecto actualizado"}`),
		"POST /exportar_pdf": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = io.WriteString(w, "%PDF-1.4 test")
		},
		"GET /exportar_excel": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			_, _ = io.WriteString(w, "xlsx bytes")
		},
	}
	for pattern, h := range overrides {
		routes[pattern] = h
	}

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, b.counted(pattern, h))
	}
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) counted(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[route]++
		b.mu.Unlock()
		h(w, r)
	}
}

func (b *testBackend) recordPayload(reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		b.mu.Lock()
		b.payloads = append(b.payloads, payload)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, reply)
	}
}

// CreateTestModel creates a Model talking to backend, with short delays and
// messages that never expire
func CreateTestModel(t *testing.T, backend *testBackend, opts Options) *Model {
	t.Helper()
	return createTestModelWithTimeout(t, backend, opts, 2*time.Second)
}

func createTestModelWithTimeout(t *testing.T, backend *testBackend, opts Options, dataTimeout time.Duration) *Model {
	t.Helper()

	client, err := executor.New(cancel.NewRegistry(), executor.Options{
		BaseURL:         backend.server.URL,
		HTTPClient:      backend.server.Client(),
		DataTimeout:     dataTimeout,
		DownloadTimeout: 2 * time.Second,
		Logger:          zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	opts.Client = client
	opts.Logger = zaptest.NewLogger(t)
	if opts.SearchDebounce == 0 {
		opts.SearchDebounce = time.Millisecond
	}

	m, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	m.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	// static cursors keep blink timers out of drained commands
	m.search.Cursor.SetMode(cursor.CursorStatic)
	for i := range m.inputs {
		m.inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}

	t.Cleanup(m.Cleanup)
	return m
}

// drain runs cmd and feeds every resulting application message back into m
// until no command is left
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatal("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case connectivityMsg, resultsMsg, statsMsg, submitMsg, exportMsg, clipboardMsg, debounce.FiredMsg:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

// press sends a key to m and returns the resulting command
func press(m *Model, key tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(key)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// loadedModel is a model after its initial loads completed
func loadedModel(t *testing.T, backend *testBackend) *Model {
	t.Helper()
	m := CreateTestModel(t, backend, Options{})
	drain(t, m, m.refreshAll())
	if m.store.Len() != 2 {
		t.Fatalf("Expected 2 records after load, got %d", m.store.Len())
	}
	return m
}

// AssertModelField is a helper to assert model field values
func AssertModelField(t *testing.T, fieldName string, got, want any) {
	t.Helper()
	if got != want {
		t.Errorf("Expected %s to be %v, got %v", fieldName, want, got)
	}
}
