package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/types"
)

const recordsJSON = `{"resultados":[
	{"Proyecto/Articulo":"Sistema de riego","Programa":"Ingeniería","Estudiante 1":"Ana","Asesor":"Dr. Pérez","Propuesta":"Aprobado","Trabajo final ":"En revisión","Año":2024,"numero_fila":4},
	{"Proyecto/Articulo":"Huerta urbana","Programa":"Biología","Estudiante 1":"Luis","Asesor":"Dra. Gómez","Propuesta":"No aprobado","Año":"2023","numero_fila":5}
]}`

const statsJSON = `{
	"totales":{"total_proyectos":10,"total_propuestas":8,"total_anteproyectos":6,"total_trabajos_finales":4},
	"estados_contadores":{"propuestas_aprobadas":5,"trabajos_finales_aprobados":2},
	"por_programa":{"Ingeniería":6,"Biología":4},
	"por_asesor":{"Dr. Pérez":3},
	"estados":{"propuestas":{"aprobados":5,"revision":2,"no_aprobados":1,"no_especificado":0}},
	"por_fecha":{"2024-03":2}
}`

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

type backend struct {
	server *httptest.Server

	mu         sync.Mutex
	searchTerm string
	exported   []map[string]any
}

func (b *backend) lastSearch() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.searchTerm
}

func (b *backend) lastExport() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exported
}

// newBackend starts a fake service. overrides replace the default route handlers.
func newBackend(t *testing.T, overrides map[string]http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{}
	routes := map[string]http.HandlerFunc{
		"GET /verificar-conexion": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"estado":"conectado","mensaje":"Conexión exitosa","total_registros":2}`)
		},
		"GET /health": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"ok","timestamp":"2024-03-15T10:00:00","cache_ttl":300}`)
		},
		"GET /mostrar_todos": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, recordsJSON)
		},
		"POST /buscar": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			b.mu.Lock()
			b.searchTerm = body["termino"]
			b.mu.Unlock()
			if body["termino"] == "nada" {
				writeJSON(w, http.StatusOK, `{"resultados":[]}`)
				return
			}
			writeJSON(w, http.StatusOK, recordsJSON)
		},
		"GET /estadisticas-detalladas": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, statsJSON)
		},
		"POST /exportar_pdf": func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Data []map[string]any `json:"datos"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			b.mu.Lock()
			b.exported = body.Data
			b.mu.Unlock()
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		},
		"GET /exportar_excel": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			_, _ = w.Write([]byte("PK-xlsx"))
		},
	}
	for pattern, h := range overrides {
		routes[pattern] = h
	}

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

// failingEverywhere answers every default route with status and body
func failingEverywhere(status int, body string) map[string]http.HandlerFunc {
	h := func(w http.ResponseWriter, r *http.Request) { writeJSON(w, status, body) }
	return map[string]http.HandlerFunc{
		"GET /verificar-conexion":      h,
		"GET /mostrar_todos":           h,
		"GET /estadisticas-detalladas": h,
	}
}

func newTestRunner(t *testing.T, b *backend, opts Options) (*Runner, *bytes.Buffer) {
	t.Helper()
	client, err := executor.New(cancel.NewRegistry(), executor.Options{
		BaseURL:    b.server.URL,
		HTTPClient: b.server.Client(),
		Logger:     zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	var out bytes.Buffer
	opts.Out = &out
	opts.Logger = zaptest.NewLogger(t)
	r := NewRunner(client, opts)
	r.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	return r, &out
}

func TestListText(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{})

	require.NoError(t, r.List(context.Background()))
	assert.Contains(t, out.String(), "2 proyectos encontrados")
	assert.Contains(t, out.String(), "1. Sistema de riego")
	assert.Contains(t, out.String(), "Ingeniería | Ana | Dr. Pérez")
	assert.NotContains(t, out.String(), colorReset, "no color unless enabled")
}

func TestListFullShowsEveryField(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{ShowFull: true})

	require.NoError(t, r.List(context.Background()))
	assert.Contains(t, out.String(), "list-all 200 OK")
	assert.Contains(t, out.String(), "Duration: ")
	assert.Contains(t, out.String(), "Trabajo final: En revisión")
	assert.Contains(t, out.String(), "Año: 2024")
	assert.Contains(t, out.String(), "numero_fila: 4")
}

func TestSearchSendsTermAndAppliesQuery(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{OutputFormat: FormatJSON, Query: `resultados[].Programa`})

	require.NoError(t, r.Search(context.Background(), "  riego "))
	assert.Equal(t, "riego", b.lastSearch())

	var programs []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &programs))
	assert.Equal(t, []string{"Ingeniería", "Biología"}, programs)
}

func TestQueryForcesStructuredOutput(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{Filter: `resultados[?"Año"=='2023']`, Query: `[0]."Proyecto/Articulo"`})

	require.NoError(t, r.List(context.Background()))
	assert.JSONEq(t, `"Huerta urbana"`, out.String())
}

func TestSearchRequiresTerm(t *testing.T) {
	b := newBackend(t, nil)
	r, _ := newTestRunner(t, b, Options{})
	assert.Error(t, r.Search(context.Background(), "   "))
}

func TestSearchNoResults(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{})

	require.NoError(t, r.Search(context.Background(), "nada"))
	assert.Contains(t, out.String(), "No se encontraron resultados")
}

func TestYAMLOutputUsesSheetKeys(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{OutputFormat: FormatYAML, Query: `resultados[0]`})

	require.NoError(t, r.List(context.Background()))

	var rec map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "Sistema de riego", rec["Proyecto/Articulo"])
	assert.Equal(t, "2024", rec["Año"])
}

func TestYAMLRejectsShellQuery(t *testing.T) {
	b := newBackend(t, nil)
	r, _ := newTestRunner(t, b, Options{OutputFormat: FormatYAML, Query: `$(cat)`})
	assert.Error(t, r.List(context.Background()))
}

func TestUnknownFormat(t *testing.T) {
	b := newBackend(t, nil)
	r, _ := newTestRunner(t, b, Options{OutputFormat: "xml"})
	err := r.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestBackendErrorMessage(t *testing.T) {
	b := newBackend(t, failingEverywhere(http.StatusInternalServerError, `{"error":"Hoja no disponible"}`))
	r, _ := newTestRunner(t, b, Options{})

	err := r.List(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.Equal(t, "Hoja no disponible", reqErr.Message)
	assert.Equal(t, "list-all failed (500): Hoja no disponible", err.Error())
}

func TestCheck(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{})

	require.NoError(t, r.Check(context.Background()))
	assert.Contains(t, out.String(), "● conectado Conexión exitosa")
	assert.Contains(t, out.String(), "Registros: 2")
}

func TestCheckDisconnectedFails(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /verificar-conexion": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"estado":"desconectado","mensaje":"Sin acceso a la hoja"}`)
		},
	})
	r, out := newTestRunner(t, b, Options{})

	err := r.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sin acceso a la hoja")
	assert.Contains(t, out.String(), "● error")
}

func TestHealth(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{OutputFormat: FormatJSON})

	require.NoError(t, r.Health(context.Background()))
	var health executor.HealthResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 300, health.CacheTTL)
}

func TestStatsText(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{})

	require.NoError(t, r.Stats(context.Background()))
	s := out.String()
	assert.Contains(t, s, "Total de proyectos:          10")
	assert.Contains(t, s, "Propuestas aprobadas:        5")
	assert.Contains(t, s, "Anteproyectos:               6")
	assert.Contains(t, s, "Proyectos por programa")
	assert.Contains(t, s, "6 (60.0%)")
	assert.Contains(t, s, "Dr. Pérez")
	assert.NotContains(t, s, "No hay datos")
}

func TestStatsBackendErrorField(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /estadisticas-detalladas": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"error":"No se pudo leer la hoja"}`)
		},
	})
	r, _ := newTestRunner(t, b, Options{})

	err := r.Stats(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "No se pudo leer la hoja", reqErr.Message)
}

func TestDashboardFallsBackWhenStatisticsFail(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /estadisticas-detalladas": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"error":"cuota excedida"}`)
		},
	})
	r, out := newTestRunner(t, b, Options{OutputFormat: FormatJSON})

	require.NoError(t, r.Dashboard(context.Background()))

	var d struct {
		Summary struct {
			Total             int    `json:"total"`
			ApprovedProposals int    `json:"propuestas_aprobadas"`
			Source            string `json:"fuente"`
		} `json:"resumen"`
		Records int               `json:"registros"`
		Level   string            `json:"nivel_conexion"`
		Errors  map[string]string `json:"errores"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &d))

	assert.Equal(t, "fallback", d.Summary.Source)
	assert.Equal(t, 2, d.Summary.Total)
	// substring match keeps "No aprobado" in the approved count
	assert.Equal(t, 2, d.Summary.ApprovedProposals)
	assert.Equal(t, 2, d.Records)
	assert.Equal(t, "conectado", d.Level)
	require.Contains(t, d.Errors, "statistics")
	assert.Contains(t, d.Errors["statistics"], "cuota excedida")
	assert.NotContains(t, d.Errors, "list-all")
}

func TestDashboardUsesBackendStatistics(t *testing.T) {
	b := newBackend(t, nil)
	r, out := newTestRunner(t, b, Options{})

	require.NoError(t, r.Dashboard(context.Background()))
	s := out.String()
	assert.Contains(t, s, "● conectado")
	assert.Contains(t, s, "Total de proyectos:          10")
	assert.NotContains(t, s, "Error:")
}

func TestDashboardFailsWhenEverythingFails(t *testing.T) {
	b := newBackend(t, failingEverywhere(http.StatusBadGateway, `{}`))
	r, out := newTestRunner(t, b, Options{})

	err := r.Dashboard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard unavailable")
	assert.Contains(t, out.String(), "● error")
}

func TestExportPDFWritesFile(t *testing.T) {
	b := newBackend(t, nil)
	dir := t.TempDir()
	r, out := newTestRunner(t, b, Options{DownloadDir: dir})

	require.NoError(t, r.ExportPDF(context.Background(), "riego"))
	assert.Equal(t, "riego", b.lastSearch())
	require.Len(t, b.lastExport(), 2)
	assert.Equal(t, "Sistema de riego", b.lastExport()[0]["Proyecto/Articulo"])

	path := filepath.Join(dir, "proyectos_filtrados_2024-03-15.pdf")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Contains(t, out.String(), "2 registros exportados")
}

func TestExportPDFWithoutTermExportsEverything(t *testing.T) {
	b := newBackend(t, nil)
	r, _ := newTestRunner(t, b, Options{DownloadDir: t.TempDir()})

	require.NoError(t, r.ExportPDF(context.Background(), ""))
	assert.Empty(t, b.lastSearch())
	assert.Len(t, b.lastExport(), 2)
}

func TestExportPDFEmptyResults(t *testing.T) {
	b := newBackend(t, nil)
	dir := t.TempDir()
	r, _ := newTestRunner(t, b, Options{DownloadDir: dir})

	err := r.ExportPDF(context.Background(), "nada")
	assert.True(t, errors.Is(err, executor.ErrEmptyExport))
	assert.Nil(t, b.lastExport())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportExcel(t *testing.T) {
	b := newBackend(t, nil)
	dir := t.TempDir()
	r, out := newTestRunner(t, b, Options{DownloadDir: dir, OutputFormat: FormatJSON})

	require.NoError(t, r.ExportExcel(context.Background()))

	var d Download
	require.NoError(t, json.Unmarshal(out.Bytes(), &d))
	assert.Equal(t, filepath.Join(dir, "base_datos_completa_2024-03-15.xlsx"), d.Path)
	assert.Equal(t, int64(len("PK-xlsx")), d.Size)
	assert.FileExists(t, d.Path)
}

func TestGetStatusColor(t *testing.T) {
	assert.Equal(t, colorGreen, getStatusColor(200))
	assert.Equal(t, colorRed, getStatusColor(404))
	assert.Equal(t, colorRed, getStatusColor(503))
	assert.Equal(t, colorYellow, getStatusColor(302))
}

func TestBadgeColors(t *testing.T) {
	r := NewRunner(nil, Options{Color: true, Out: &bytes.Buffer{}})
	assert.Equal(t, colorRed+"No aprobado"+colorReset, r.badge("No aprobado"))
	assert.Equal(t, colorGreen+"Aprobado"+colorReset, r.badge("Aprobado"))
	assert.Equal(t, "Pendiente", r.badge("Pendiente"))
}

func TestSelectorPicksHighlightedRecord(t *testing.T) {
	records := []types.Record{{Title: "Uno"}, {Title: "Dos"}}
	m := newSelector(records)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	sel := next.(selectorModel)
	assert.Equal(t, 1, sel.choice)
	assert.True(t, sel.quitting)
	assert.Empty(t, sel.View())
}

func TestSelectorCancel(t *testing.T) {
	m := newSelector([]types.Record{{Title: "Uno"}})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, -1, next.(selectorModel).choice)
}
