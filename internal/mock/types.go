package mock

import "time"

// Config represents the mock service configuration
type Config struct {
	Port        int                `json:"port" yaml:"port"`                                   // Server port (default: 5000)
	Host        string             `json:"host" yaml:"host"`                                   // Server host (default: 127.0.0.1)
	RecordsFile string             `json:"recordsFile,omitempty" yaml:"recordsFile,omitempty"` // JSON rows served at startup, sample rows when empty
	Delay       int                `json:"delay,omitempty" yaml:"delay,omitempty"`             // Response delay in milliseconds
	Failures    map[string]Failure `json:"failures,omitempty" yaml:"failures,omitempty"`       // Forced failures keyed by "METHOD /path"
	Logging     bool               `json:"logging" yaml:"logging"`                             // Keep a request log
}

// Failure makes a route answer with an error body instead of its data
type Failure struct {
	Status  int    `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Body      string        `json:"body"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
}
