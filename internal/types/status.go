package types

import "strings"

// ConnectionStatus is the connectivity check payload
type ConnectionStatus struct {
	State        string `json:"estado" yaml:"estado"`
	Message      string `json:"mensaje" yaml:"mensaje"`
	TotalRecords int    `json:"total_registros" yaml:"total_registros"`
}

// ConnectionLevel is the indicator state derived from a connectivity check
type ConnectionLevel int

const (
	ConnectionUnknown ConnectionLevel = iota
	ConnectionOK
	ConnectionPartial
	ConnectionError
)

// Level maps the service's state string to an indicator level
func (s ConnectionStatus) Level() ConnectionLevel {
	switch strings.ToLower(strings.TrimSpace(s.State)) {
	case "conectado", "connected":
		return ConnectionOK
	case "parcial", "partial":
		return ConnectionPartial
	default:
		return ConnectionError
	}
}

// StatusClass is the badge category of a stage status string
type StatusClass string

const (
	StatusApproved      StatusClass = "aprobado"
	StatusInReview      StatusClass = "revision"
	StatusRejected      StatusClass = "rechazado"
	StatusNotApplicable StatusClass = "na"
	StatusDefault       StatusClass = "default"
)

// ClassifyStatus maps a free-text status to its badge category.
// Rejections are tested before approvals so "No aprobado" is not shown as approved.
func ClassifyStatus(status string) StatusClass {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case s == "":
		return StatusDefault
	case strings.Contains(s, "no aprobado"), strings.Contains(s, "rechazado"):
		return StatusRejected
	case strings.Contains(s, "aprobado"):
		return StatusApproved
	case strings.Contains(s, "revisión"), strings.Contains(s, "revision"):
		return StatusInReview
	case strings.Contains(s, "no aplica"), strings.Contains(s, "n/a"):
		return StatusNotApplicable
	}
	return StatusDefault
}
