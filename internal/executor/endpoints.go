package executor

import (
	"fmt"
	"net/http"
	"time"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/types"
)

// Endpoint describes one backend operation
type Endpoint struct {
	Name    string
	Method  string
	Path    string
	Purpose cancel.Purpose // "" uses a one-shot token
}

var (
	EndpointConnectivity = Endpoint{Name: "connectivity", Method: http.MethodGet, Path: "/verificar-conexion", Purpose: cancel.PurposeConnectivity}
	EndpointListAll      = Endpoint{Name: "list-all", Method: http.MethodGet, Path: "/mostrar_todos", Purpose: cancel.PurposeListAll}
	EndpointSearch       = Endpoint{Name: "search", Method: http.MethodPost, Path: "/buscar", Purpose: cancel.PurposeSearch}
	EndpointCreate       = Endpoint{Name: "create", Method: http.MethodPost, Path: "/agregar", Purpose: cancel.PurposeMutate}
	EndpointUpdate       = Endpoint{Name: "update", Method: http.MethodPost, Path: "/actualizar", Purpose: cancel.PurposeMutate}
	EndpointStatistics   = Endpoint{Name: "statistics", Method: http.MethodGet, Path: "/estadisticas-detalladas", Purpose: cancel.PurposeStatistics}
	EndpointExportPDF    = Endpoint{Name: "export-pdf", Method: http.MethodPost, Path: "/exportar_pdf", Purpose: cancel.PurposeExport}
	EndpointExportExcel  = Endpoint{Name: "export-excel", Method: http.MethodGet, Path: "/exportar_excel", Purpose: cancel.PurposeExport}
	EndpointHealth       = Endpoint{Name: "health", Method: http.MethodGet, Path: "/health"}
)

// ResultsResponse is the body of the list and search endpoints
type ResultsResponse struct {
	Results []types.Record `json:"resultados" yaml:"resultados"`
}

// MessageResponse is the body of the create and update endpoints
type MessageResponse struct {
	Message string `json:"mensaje" yaml:"mensaje"`
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status    string `json:"status" yaml:"status"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	CacheTTL  int    `json:"cache_ttl" yaml:"cache_ttl"`
}

// SearchBody builds the search request body
func SearchBody(term string) map[string]string {
	return map[string]string{"termino": term}
}

// PDFExportBody builds the PDF export request body.
// It returns ErrEmptyExport when there is nothing to export.
func PDFExportBody(records []types.Record) (map[string][]types.Record, error) {
	if len(records) == 0 {
		return nil, ErrEmptyExport
	}
	return map[string][]types.Record{"datos": records}, nil
}

// PDFFilename returns the local file name for a PDF export made at t
func PDFFilename(t time.Time) string {
	return fmt.Sprintf("proyectos_filtrados_%s.pdf", t.Format("2006-01-02"))
}

// ExcelFilename returns the local file name for an Excel export made at t
func ExcelFilename(t time.Time) string {
	return fmt.Sprintf("base_datos_completa_%s.xlsx", t.Format("2006-01-02"))
}
