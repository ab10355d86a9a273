package types

// Form payload keys accepted by the create and update endpoints
const (
	FormTitle       = "proyecto_articulo"
	FormProgram     = "programa"
	FormStudent1    = "estudiante1"
	FormStudent2    = "estudiante2"
	FormAdvisor     = "asesor"
	FormEvaluator1  = "evaluador1"
	FormEvaluator2  = "evaluador2"
	FormEvaluator3  = "evaluador3"
	FormTime        = "hora"
	FormProposal    = "propuesta"
	FormPreProject  = "anteproyecto"
	FormFinalWork   = "trabajo_final"
	FormDefenseDate = "fecha_sustentacion"
	FormCallCycle   = "convocatoria"
	FormKind        = "articulo_monografia"
	FormYear        = "ano"
)

// FormField describes one input of the create/edit form
type FormField struct {
	Key      string
	Label    string
	Required bool
}

// FormFields lists the form inputs in display order
var FormFields = []FormField{
	{Key: FormTitle, Label: "Proyecto/Artículo", Required: true},
	{Key: FormProgram, Label: "Programa"},
	{Key: FormStudent1, Label: "Estudiante 1", Required: true},
	{Key: FormStudent2, Label: "Estudiante 2"},
	{Key: FormAdvisor, Label: "Asesor"},
	{Key: FormEvaluator1, Label: "Evaluador 1"},
	{Key: FormEvaluator2, Label: "Evaluador 2"},
	{Key: FormEvaluator3, Label: "Evaluador 3"},
	{Key: FormDefenseDate, Label: "Fecha sustentación (AAAA-MM-DD)"},
	{Key: FormTime, Label: "Hora"},
	{Key: FormCallCycle, Label: "Convocatoria"},
	{Key: FormKind, Label: "Artículo/Monografía"},
	{Key: FormYear, Label: "Año"},
	{Key: FormProposal, Label: "Propuesta"},
	{Key: FormPreProject, Label: "Anteproyecto"},
	{Key: FormFinalWork, Label: "Trabajo final"},
}

// FormValues is the create/update request payload
type FormValues struct {
	Title       string `json:"proyecto_articulo"`
	Program     string `json:"programa"`
	Student1    string `json:"estudiante1"`
	Student2    string `json:"estudiante2"`
	Advisor     string `json:"asesor"`
	Evaluator1  string `json:"evaluador1"`
	Evaluator2  string `json:"evaluador2"`
	Evaluator3  string `json:"evaluador3"`
	Time        string `json:"hora"`
	Proposal    string `json:"propuesta"`
	PreProject  string `json:"anteproyecto"`
	FinalWork   string `json:"trabajo_final"`
	DefenseDate string `json:"fecha_sustentacion"`
	CallCycle   string `json:"convocatoria"`
	Kind        string `json:"articulo_monografia"`
	Year        string `json:"ano"`
	RowIndex    *int   `json:"numero_fila,omitempty"`
}

// FormFromRecord copies a record into form values.
// The defense date is passed separately since it goes through date normalization first.
func FormFromRecord(r Record, defenseDate string) FormValues {
	return FormValues{
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
		DefenseDate: defenseDate,
		CallCycle:   r.CallCycle,
		Kind:        r.Kind,
		Year:        r.Year,
	}
}

// Get returns the value stored under a payload key
func (f *FormValues) Get(key string) string {
	if p := f.field(key); p != nil {
		return *p
	}
	return ""
}

// Set stores a value under a payload key, reporting whether the key is known
func (f *FormValues) Set(key, value string) bool {
	p := f.field(key)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (f *FormValues) field(key string) *string {
	switch key {
	case FormTitle:
		return &f.Title
	case FormProgram:
		return &f.Program
	case FormStudent1:
		return &f.Student1
	case FormStudent2:
		return &f.Student2
	case FormAdvisor:
		return &f.Advisor
	case FormEvaluator1:
		return &f.Evaluator1
	case FormEvaluator2:
		return &f.Evaluator2
	case FormEvaluator3:
		return &f.Evaluator3
	case FormTime:
		return &f.Time
	case FormProposal:
		return &f.Proposal
	case FormPreProject:
		return &f.PreProject
	case FormFinalWork:
		return &f.FinalWork
	case FormDefenseDate:
		return &f.DefenseDate
	case FormCallCycle:
		return &f.CallCycle
	case FormKind:
		return &f.Kind
	case FormYear:
		return &f.Year
	}
	return nil
}
