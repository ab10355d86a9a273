package types

// Statistics is the dashboard snapshot computed by the service
type Statistics struct {
	Totals      Totals          `json:"totales" yaml:"totales"`
	Counters    StatusCounters  `json:"estados_contadores" yaml:"estados_contadores"`
	ByProgram   map[string]int  `json:"por_programa" yaml:"por_programa"`
	ByAdvisor   map[string]int  `json:"por_asesor" yaml:"por_asesor"`
	States      StageBreakdowns `json:"estados" yaml:"estados"`
	ByDate      map[string]int  `json:"por_fecha" yaml:"por_fecha"`
	ByYear      map[string]int  `json:"por_ano" yaml:"por_ano"`
	LastUpdated string          `json:"ultima_actualizacion,omitempty" yaml:"ultima_actualizacion,omitempty"`
	Error       string          `json:"error,omitempty" yaml:"error,omitempty"` // set by the service on partial failures
}

// Totals holds the project totals per stage
type Totals struct {
	Projects    int `json:"total_proyectos" yaml:"total_proyectos"`
	Proposals   int `json:"total_propuestas" yaml:"total_propuestas"`
	PreProjects int `json:"total_anteproyectos" yaml:"total_anteproyectos"`
	FinalWorks  int `json:"total_trabajos_finales" yaml:"total_trabajos_finales"`
}

// StatusCounters holds the approved counters shown on the summary cards
type StatusCounters struct {
	ApprovedProposals  int `json:"propuestas_aprobadas" yaml:"propuestas_aprobadas"`
	ApprovedFinalWorks int `json:"trabajos_finales_aprobados" yaml:"trabajos_finales_aprobados"`
}

// StageBreakdowns groups status breakdowns per project stage
type StageBreakdowns struct {
	Proposals   StatusBreakdown `json:"propuestas" yaml:"propuestas"`
	PreProjects StatusBreakdown `json:"anteproyectos" yaml:"anteproyectos"`
	FinalWorks  StatusBreakdown `json:"trabajos_finales" yaml:"trabajos_finales"`
}

// StatusBreakdown counts records per status bucket
type StatusBreakdown struct {
	Approved    int `json:"aprobados" yaml:"aprobados"`
	InReview    int `json:"revision" yaml:"revision"`
	NotApproved int `json:"no_aprobados" yaml:"no_aprobados"`
	Unspecified int `json:"no_especificado" yaml:"no_especificado"`
}

// Total returns the sum of all buckets
func (b StatusBreakdown) Total() int {
	return b.Approved + b.InReview + b.NotApproved + b.Unspecified
}
