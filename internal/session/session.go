// Package session implements the create/edit mode of the project form.
//
// The form is either in create mode or editing one saved record. Mode is edit
// exactly when a record reference is held.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/studiowebux/proyectos/internal/dates"
	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/types"
)

var (
	// ErrTitleRequired is returned when the title field is empty
	ErrTitleRequired = errors.New("el campo Proyecto/Artículo es obligatorio")
	// ErrStudentRequired is returned when the first student field is empty
	ErrStudentRequired = errors.New("el campo Estudiante 1 es obligatorio")
	// ErrNotSaved is returned when editing a record that has no row on the sheet
	ErrNotSaved = errors.New("el registro no tiene número de fila")
)

// Mode is the form mode
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Submission is a validated form ready to be sent
type Submission struct {
	Mode     Mode
	Endpoint executor.Endpoint
	Payload  types.FormValues
	Record   *types.Record // record being edited, nil in create mode
}

// Manager holds the edit session
type Manager struct {
	mu     sync.RWMutex
	record *types.Record
	form   types.FormValues
}

// NewManager creates a manager in create mode with an empty form
func NewManager() *Manager {
	return &Manager{}
}

// Mode returns the current mode
func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.record != nil {
		return ModeEdit
	}
	return ModeCreate
}

// Editing reports whether a record is being edited; the cancel-edit affordance
// is shown exactly when this is true
func (m *Manager) Editing() bool {
	return m.Mode() == ModeEdit
}

// Record returns the record being edited
func (m *Manager) Record() (types.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.record == nil {
		return types.Record{}, false
	}
	return *m.record, true
}

// Form returns a copy of the form values
func (m *Manager) Form() types.FormValues {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.form
}

// SetField updates one form value by payload key
func (m *Manager) SetField(key, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.Set(key, value)
}

// SetForm replaces all form values
func (m *Manager) SetForm(form types.FormValues) {
	m.mu.Lock()
	defer m.mu.Unlock()
	form.RowIndex = nil
	m.form = form
}

// BeginEdit switches to edit mode for r and fills the form from it.
// The defense date is normalized to YYYY-MM-DD, keeping the raw text when unrecognized.
func (m *Manager) BeginEdit(r types.Record) (types.FormValues, error) {
	if !r.Saved() {
		return types.FormValues{}, ErrNotSaved
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec := r
	m.record = &rec
	m.form = types.FormFromRecord(r, dates.OrRaw(r.DefenseDate))
	return m.form, nil
}

// Cancel returns to create mode and clears the form, whatever the current mode
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	m.form = types.FormValues{}
}

// PrepareSubmit validates the form and builds the submission for the current mode.
// Validation failures are returned before any call is made.
func (m *Manager) PrepareSubmit() (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if strings.TrimSpace(m.form.Title) == "" {
		return Submission{}, ErrTitleRequired
	}
	if strings.TrimSpace(m.form.Student1) == "" {
		return Submission{}, ErrStudentRequired
	}

	payload := m.form
	if m.record == nil {
		payload.RowIndex = nil
		return Submission{Mode: ModeCreate, Endpoint: executor.EndpointCreate, Payload: payload}, nil
	}

	row := *m.record.RowIndex
	payload.RowIndex = &row
	rec := *m.record
	return Submission{Mode: ModeEdit, Endpoint: executor.EndpointUpdate, Payload: payload, Record: &rec}, nil
}

// Complete applies a successful submission: an edit returns to create mode, and
// either way the form is cleared. A create that completes after an edit has
// begun leaves the edit untouched.
func (m *Manager) Complete(sub Submission) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub.Mode == ModeCreate && m.record != nil {
		return
	}
	m.record = nil
	m.form = types.FormValues{}
}
