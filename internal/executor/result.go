package executor

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/studiowebux/proyectos/internal/cancel"
)

var (
	// ErrNotJSON is returned by Result.Decode for non-JSON responses
	ErrNotJSON = errors.New("response is not JSON")
	// ErrEmptyExport is returned when a PDF export is requested with no records
	ErrEmptyExport = errors.New("no hay datos para exportar")
)

const (
	genericNetworkMessage  = "Error de red"
	genericDownloadMessage = "Error de descarga"
)

// Outcome classifies how a call ended
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeCancelled
	OutcomeFailed
	OutcomeNetwork
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	case OutcomeNetwork:
		return "network"
	}
	return "unknown"
}

// Result is the outcome of one backend call
type Result struct {
	Endpoint    Endpoint
	Token       *cancel.Token
	Outcome     Outcome
	TimedOut    bool
	Status      int
	StatusText  string
	ContentType string
	Message     string // failure message shown to the user
	Body        []byte // JSON body, "{}" when it failed to parse
	Text        string // non-JSON body
	JSON        bool
	Path        string // downloaded file
	Size        int64
	Duration    time.Duration
	Err         error
}

// OK reports a successful call
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// Stale reports whether the result must not be applied: the call was cancelled,
// or its token was cancelled after the response arrived.
func (r Result) Stale() bool {
	return r.Outcome == OutcomeCancelled || (r.Token != nil && r.Token.Cancelled())
}

// Decode unmarshals the JSON body into v
func (r Result) Decode(v any) error {
	if !r.JSON {
		return ErrNotJSON
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", r.Endpoint.Name, err)
	}
	return nil
}

// BackendError returns the "error" field of a JSON body, if any.
// Some endpoints report failures inside a 2xx response.
func (r Result) BackendError() string {
	if !r.JSON {
		return ""
	}
	return errorField(r.Body)
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func errorField(body []byte) string {
	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == nil {
		return ""
	}
	if s, ok := payload.Error.(string); ok {
		return s
	}
	return fmt.Sprint(payload.Error)
}

// failureMessage picks the message for a non-2xx response:
// body error field, then status text, then a generic message
func failureMessage(r *Result) string {
	if r.JSON {
		if msg := errorField(r.Body); msg != "" {
			return msg
		}
	}
	if r.StatusText != "" {
		return r.StatusText
	}
	return genericNetworkMessage
}
