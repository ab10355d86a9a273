package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRecordUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Record
	}{
		{
			name: "sheet headers",
			in: `{"Proyecto/Articulo":"Sistema de riego","Programa":"Ingeniería","Estudiante 1":"Ana",
				"Asesor":"Dr. Pérez","Propuesta":"Aprobado","Fecha sustentación":"15 de marzo de 2024",
				"hoja_origen":"2024","numero_fila":7}`,
			want: Record{
				Title:       "Sistema de riego",
				Program:     "Ingeniería",
				Student1:    "Ana",
				Advisor:     "Dr. Pérez",
				Proposal:    "Aprobado",
				DefenseDate: "15 de marzo de 2024",
				OriginSheet: "2024",
				RowIndex:    intPtr(7),
			},
		},
		{
			name: "trailing spaces in headers and numeric cells",
			in:   `{"Trabajo final ":"En revisión","Anteproyecto ":"Aprobado","Año":2023,"numero_fila":"12"}`,
			want: Record{
				FinalWork:  "En revisión",
				PreProject: "Aprobado",
				Year:       "2023",
				RowIndex:   intPtr(12),
			},
		},
		{
			name: "null values and unknown keys",
			in:   `{"Estudiante 2":null,"Columna extra":"x","numero_fila":"abc"}`,
			want: Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Record
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordMarshalUsesSheetKeys(t *testing.T) {
	r := Record{Title: "Tesis", Student1: "Luis", DefenseDate: "2024-03-15", RowIndex: intPtr(3)}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Tesis", raw[HeaderTitle])
	assert.Equal(t, "Luis", raw[HeaderStudent1])
	assert.Equal(t, "2024-03-15", raw[HeaderDefenseDate])
	assert.Equal(t, float64(3), raw[HeaderRowIndex])
	assert.NotContains(t, raw, HeaderOrigin)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestRecordFromMapDuplicateHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"empty exact header", map[string]any{"Trabajo final": "", "Trabajo final ": "Aprobado"}, "Aprobado"},
		{"empty padded header", map[string]any{"Trabajo final": "Aprobado", "Trabajo final ": ""}, "Aprobado"},
		{"both set", map[string]any{"Trabajo final": "Aprobado", "Trabajo final ": "En revisión"}, "Aprobado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// map order varies between runs
			for range 20 {
				assert.Equal(t, tt.want, RecordFromMap(tt.raw).FinalWork)
			}
		})
	}
}

func TestRecordSaved(t *testing.T) {
	assert.False(t, Record{}.Saved())
	assert.True(t, Record{RowIndex: intPtr(2)}.Saved())
}

func TestRecordFieldsOrder(t *testing.T) {
	fields := Record{Title: "A", Year: "2024"}.Fields()
	require.Len(t, fields, 17)
	assert.Equal(t, Field{HeaderTitle, "A"}, fields[0])
	assert.Equal(t, Field{HeaderYear, "2024"}, fields[15])
}

func TestFormValuesGetSet(t *testing.T) {
	var f FormValues
	for _, field := range FormFields {
		require.True(t, f.Set(field.Key, "v-"+field.Key), field.Key)
	}
	for _, field := range FormFields {
		assert.Equal(t, "v-"+field.Key, f.Get(field.Key))
	}
	assert.False(t, f.Set("numero_fila", "1"))
	assert.Equal(t, "", f.Get("desconocido"))
}

func TestFormValuesPayloadKeys(t *testing.T) {
	f := FormFromRecord(Record{Title: "T", Student1: "S", DefenseDate: "15/3/2024"}, "2024-03-15")
	f.RowIndex = intPtr(9)

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "T", raw[FormTitle])
	assert.Equal(t, "S", raw[FormStudent1])
	assert.Equal(t, "2024-03-15", raw[FormDefenseDate])
	assert.Equal(t, float64(9), raw["numero_fila"])
}

func TestConnectionLevel(t *testing.T) {
	assert.Equal(t, ConnectionOK, ConnectionStatus{State: "conectado"}.Level())
	assert.Equal(t, ConnectionOK, ConnectionStatus{State: "connected"}.Level())
	assert.Equal(t, ConnectionPartial, ConnectionStatus{State: "parcial"}.Level())
	assert.Equal(t, ConnectionError, ConnectionStatus{State: "error"}.Level())
	assert.Equal(t, ConnectionError, ConnectionStatus{}.Level())
}

func TestClassifyStatus(t *testing.T) {
	tests := map[string]StatusClass{
		"":                           StatusDefault,
		"Aprobado":                   StatusApproved,
		"APROBADO CON OBSERVACIONES": StatusApproved,
		"No aprobado":                StatusRejected,
		"Rechazado":                  StatusRejected,
		"En revisión":                StatusInReview,
		"revision":                   StatusInReview,
		"No aplica":                  StatusNotApplicable,
		"N/A":                        StatusNotApplicable,
		"Pendiente":                  StatusDefault,
	}
	for in, want := range tests {
		assert.Equal(t, want, ClassifyStatus(in), in)
	}
}

func TestStatisticsDecode(t *testing.T) {
	in := `{"totales":{"total_proyectos":10,"total_anteproyectos":4},
		"estados_contadores":{"propuestas_aprobadas":3,"trabajos_finales_aprobados":2},
		"por_programa":{"Ingeniería":6,"Derecho":4},
		"estados":{"propuestas":{"aprobados":3,"revision":2,"no_aprobados":1,"no_especificado":4}}}`

	var s Statistics
	require.NoError(t, json.Unmarshal([]byte(in), &s))
	assert.Equal(t, 10, s.Totals.Projects)
	assert.Equal(t, 4, s.Totals.PreProjects)
	assert.Equal(t, 3, s.Counters.ApprovedProposals)
	assert.Equal(t, 2, s.Counters.ApprovedFinalWorks)
	assert.Equal(t, 6, s.ByProgram["Ingeniería"])
	assert.Equal(t, 10, s.States.Proposals.Total())
}
