package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/types"
)

// LoadConfig loads a mock configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if config.RecordsFile != "" && !filepath.IsAbs(config.RecordsFile) {
		config.RecordsFile = filepath.Join(filepath.Dir(path), config.RecordsFile)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// routes lists the "METHOD /path" keys the service answers
func routes() []string {
	eps := []executor.Endpoint{
		executor.EndpointConnectivity,
		executor.EndpointListAll,
		executor.EndpointSearch,
		executor.EndpointCreate,
		executor.EndpointUpdate,
		executor.EndpointStatistics,
		executor.EndpointExportPDF,
		executor.EndpointExportExcel,
		executor.EndpointHealth,
	}
	keys := make([]string, len(eps))
	for i, ep := range eps {
		keys[i] = ep.Method + " " + ep.Path
	}
	return keys
}

// validateConfig validates the mock configuration
func validateConfig(config *Config) error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if config.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}

	known := routes()
	for route, f := range config.Failures {
		found := false
		for _, k := range known {
			if strings.EqualFold(k, route) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("failure %q: unknown route", route)
		}
		if f.Status != 0 && (f.Status < 400 || f.Status > 599) {
			return fmt.Errorf("failure %q: status must be 4xx or 5xx", route)
		}
	}

	return nil
}

// LoadRecords reads the rows to serve from a JSON file holding either an array
// of rows or a list response
func LoadRecords(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var records []types.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var body executor.ResultsResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("failed to parse records file: %w", err)
	}
	return body.Results, nil
}

func failureStatus(f Failure) int {
	if f.Status == 0 {
		return http.StatusInternalServerError
	}
	return f.Status
}
