package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sheet header names used by the service for record fields
const (
	HeaderTitle       = "Proyecto/Articulo"
	HeaderProgram     = "Programa"
	HeaderStudent1    = "Estudiante 1"
	HeaderStudent2    = "Estudiante 2"
	HeaderAdvisor     = "Asesor"
	HeaderEvaluator1  = "Evaluador 1"
	HeaderEvaluator2  = "Evaluador 2"
	HeaderEvaluator3  = "Evaluador 3"
	HeaderTime        = "Hora"
	HeaderProposal    = "Propuesta"
	HeaderPreProject  = "Anteproyecto"
	HeaderFinalWork   = "Trabajo final"
	HeaderDefenseDate = "Fecha sustentación"
	HeaderCallCycle   = "Convocatoria"
	HeaderKind        = "ARTICULO/MONOGRAFIA"
	HeaderYear        = "Año"
	HeaderOrigin      = "hoja_origen"
	HeaderRowIndex    = "numero_fila"
)

// Record is one project row of the sheet
type Record struct {
	Title       string
	Program     string
	Student1    string
	Student2    string
	Advisor     string
	Evaluator1  string
	Evaluator2  string
	Evaluator3  string
	Time        string
	Proposal    string
	PreProject  string
	FinalWork   string
	DefenseDate string
	CallCycle   string
	Kind        string
	Year        string
	OriginSheet string
	RowIndex    *int // nil for unsaved records
}

// wireRecord is the encoding shape sent back to the service
type wireRecord struct {
	Title       string `json:"Proyecto/Articulo"`
	Program     string `json:"Programa"`
	Student1    string `json:"Estudiante 1"`
	Student2    string `json:"Estudiante 2"`
	Advisor     string `json:"Asesor"`
	Evaluator1  string `json:"Evaluador 1"`
	Evaluator2  string `json:"Evaluador 2"`
	Evaluator3  string `json:"Evaluador 3"`
	Time        string `json:"Hora"`
	Proposal    string `json:"Propuesta"`
	PreProject  string `json:"Anteproyecto"`
	FinalWork   string `json:"Trabajo final"`
	DefenseDate string `json:"Fecha sustentación"`
	CallCycle   string `json:"Convocatoria"`
	Kind        string `json:"ARTICULO/MONOGRAFIA"`
	Year        string `json:"Año"`
	OriginSheet string `json:"hoja_origen,omitempty"`
	RowIndex    *int   `json:"numero_fila,omitempty"`
}

// Field is a labelled record value, in sheet column order
type Field struct {
	Label string
	Value string
}

// Saved reports whether the record has a row index on the sheet
func (r Record) Saved() bool {
	return r.RowIndex != nil
}

// Fields returns the record values in sheet column order
func (r Record) Fields() []Field {
	return []Field{
		{HeaderTitle, r.Title},
		{HeaderProgram, r.Program},
		{HeaderStudent1, r.Student1},
		{HeaderStudent2, r.Student2},
		{HeaderAdvisor, r.Advisor},
		{HeaderEvaluator1, r.Evaluator1},
		{HeaderEvaluator2, r.Evaluator2},
		{HeaderEvaluator3, r.Evaluator3},
		{HeaderTime, r.Time},
		{HeaderProposal, r.Proposal},
		{HeaderPreProject, r.PreProject},
		{HeaderFinalWork, r.FinalWork},
		{HeaderDefenseDate, r.DefenseDate},
		{HeaderCallCycle, r.CallCycle},
		{HeaderKind, r.Kind},
		{HeaderYear, r.Year},
		{HeaderOrigin, r.OriginSheet},
	}
}

// MarshalJSON encodes the record with sheet header keys
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		Title:       r.Title,
		Program:     r.Program,
		Student1:    r.Student1,
		Student2:    r.Student2,
		Advisor:     r.Advisor,
		Evaluator1:  r.Evaluator1,
		Evaluator2:  r.Evaluator2,
		Evaluator3:  r.Evaluator3,
		Time:        r.Time,
		Proposal:    r.Proposal,
		PreProject:  r.PreProject,
		FinalWork:   r.FinalWork,
		DefenseDate: r.DefenseDate,
		CallCycle:   r.CallCycle,
		Kind:        r.Kind,
		Year:        r.Year,
		OriginSheet: r.OriginSheet,
		RowIndex:    r.RowIndex,
	})
}

// UnmarshalJSON decodes a record from the service's loosely typed row object
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	*r = RecordFromMap(raw)
	return nil
}

// RecordFromMap normalizes a raw row object into a Record.
// Header keys are trimmed and matched case-insensitively; unknown keys are ignored.
// When several keys name the same field, the first non-empty value in key order wins.
func RecordFromMap(raw map[string]any) Record {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var r Record
	for _, key := range keys {
		value := raw[key]
		k := strings.ToLower(strings.TrimSpace(key))
		if k == HeaderRowIndex {
			if r.RowIndex == nil {
				r.RowIndex = parseRowIndex(value)
			}
			continue
		}
		if dst := r.fieldFor(k); dst != nil && strings.TrimSpace(*dst) == "" {
			*dst = stringify(value)
		}
	}
	return r
}

func (r *Record) fieldFor(key string) *string {
	switch key {
	case "proyecto/articulo", "proyecto/artículo":
		return &r.Title
	case "programa":
		return &r.Program
	case "estudiante 1", "estudiante1":
		return &r.Student1
	case "estudiante 2", "estudiante2":
		return &r.Student2
	case "asesor":
		return &r.Advisor
	case "evaluador 1", "evaluador1":
		return &r.Evaluator1
	case "evaluador 2", "evaluador2":
		return &r.Evaluator2
	case "evaluador 3", "evaluador3":
		return &r.Evaluator3
	case "hora":
		return &r.Time
	case "propuesta":
		return &r.Proposal
	case "anteproyecto":
		return &r.PreProject
	case "trabajo final":
		return &r.FinalWork
	case "fecha sustentación", "fecha sustentacion":
		return &r.DefenseDate
	case "convocatoria":
		return &r.CallCycle
	case "articulo/monografia", "artículo/monografía":
		return &r.Kind
	case "año", "ano":
		return &r.Year
	case HeaderOrigin:
		return &r.OriginSheet
	}
	return nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func parseRowIndex(value any) *int {
	var n int
	switch v := value.(type) {
	case float64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}
