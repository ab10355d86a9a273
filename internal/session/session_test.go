package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/types"
)

func savedRecord(row int) types.Record {
	return types.Record{
		Title:       "Sistema de riego",
		Student1:    "Ana",
		Advisor:     "Dr. Pérez",
		DefenseDate: "15 de marzo de 2024",
		RowIndex:    &row,
	}
}

func TestNewManagerStartsInCreate(t *testing.T) {
	m := NewManager()
	assert.Equal(t, ModeCreate, m.Mode())
	assert.False(t, m.Editing())
	_, ok := m.Record()
	assert.False(t, ok)
}

func TestBeginEditFillsForm(t *testing.T) {
	m := NewManager()
	form, err := m.BeginEdit(savedRecord(7))
	require.NoError(t, err)

	assert.Equal(t, ModeEdit, m.Mode())
	assert.True(t, m.Editing())
	assert.Equal(t, "Sistema de riego", form.Title)
	assert.Equal(t, "2024-03-15", form.DefenseDate)
	assert.Equal(t, form, m.Form())

	rec, ok := m.Record()
	require.True(t, ok)
	assert.Equal(t, 7, *rec.RowIndex)
}

func TestBeginEditKeepsUnrecognizedDate(t *testing.T) {
	m := NewManager()
	r := savedRecord(2)
	r.DefenseDate = "por definir"

	form, err := m.BeginEdit(r)
	require.NoError(t, err)
	assert.Equal(t, "por definir", form.DefenseDate)
}

func TestBeginEditRequiresSavedRecord(t *testing.T) {
	m := NewManager()
	_, err := m.BeginEdit(types.Record{Title: "sin fila"})
	assert.ErrorIs(t, err, ErrNotSaved)
	assert.Equal(t, ModeCreate, m.Mode())
}

func TestCancelFromEditAndCreate(t *testing.T) {
	m := NewManager()
	_, err := m.BeginEdit(savedRecord(3))
	require.NoError(t, err)

	m.Cancel()
	assert.Equal(t, ModeCreate, m.Mode())
	assert.Equal(t, types.FormValues{}, m.Form())

	m.SetField(types.FormTitle, "borrador")
	m.Cancel()
	assert.Equal(t, ModeCreate, m.Mode())
	assert.Equal(t, types.FormValues{}, m.Form())
}

func TestPrepareSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		student string
		wantErr error
	}{
		{"missing title", "", "Ana", ErrTitleRequired},
		{"blank title", "   ", "Ana", ErrTitleRequired},
		{"missing student", "Riego", "", ErrStudentRequired},
		{"valid", "Riego", "Ana", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			m.SetField(types.FormTitle, tt.title)
			m.SetField(types.FormStudent1, tt.student)

			_, err := m.PrepareSubmit()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSubmitInCreateMode(t *testing.T) {
	m := NewManager()
	m.SetForm(types.FormValues{Title: "Riego", Student1: "Ana"})

	sub, err := m.PrepareSubmit()
	require.NoError(t, err)
	assert.Equal(t, ModeCreate, sub.Mode)
	assert.Equal(t, executor.EndpointCreate, sub.Endpoint)
	assert.Nil(t, sub.Payload.RowIndex)
	assert.Nil(t, sub.Record)

	m.Complete(sub)
	assert.Equal(t, ModeCreate, m.Mode())
	assert.Equal(t, types.FormValues{}, m.Form())
}

func TestSubmitInEditMode(t *testing.T) {
	m := NewManager()
	_, err := m.BeginEdit(savedRecord(12))
	require.NoError(t, err)
	m.SetField(types.FormAdvisor, "Dra. Gómez")

	sub, err := m.PrepareSubmit()
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, sub.Mode)
	assert.Equal(t, executor.EndpointUpdate, sub.Endpoint)
	require.NotNil(t, sub.Payload.RowIndex)
	assert.Equal(t, 12, *sub.Payload.RowIndex)
	assert.Equal(t, "Dra. Gómez", sub.Payload.Advisor)

	m.Complete(sub)
	assert.Equal(t, ModeCreate, m.Mode(), "successful edit returns to create mode")
	assert.Equal(t, types.FormValues{}, m.Form())
}

func TestCreateCompletingDuringEditKeepsEdit(t *testing.T) {
	m := NewManager()
	m.SetForm(types.FormValues{Title: "Nuevo", Student1: "Luis"})
	sub, err := m.PrepareSubmit()
	require.NoError(t, err)

	_, err = m.BeginEdit(savedRecord(4))
	require.NoError(t, err)
	m.Complete(sub)

	assert.Equal(t, ModeEdit, m.Mode())
	assert.Equal(t, "Sistema de riego", m.Form().Title)
}

func TestSetFormDropsRowIndex(t *testing.T) {
	m := NewManager()
	row := 5
	m.SetForm(types.FormValues{Title: "x", RowIndex: &row})
	assert.Nil(t, m.Form().RowIndex)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "create", ModeCreate.String())
	assert.Equal(t, "edit", ModeEdit.String())
}

func TestConcurrentAccess(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.SetField(types.FormTitle, "t")
			_, _ = m.BeginEdit(savedRecord(1))
		}()
		go func() {
			defer wg.Done()
			_ = m.Form()
			_ = m.Mode()
			m.Cancel()
		}()
	}
	wg.Wait()
}
