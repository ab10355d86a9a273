package store

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/studiowebux/proyectos/internal/types"
)

// ApprovedMarker is the status substring counted as approved by the fallback summary
const ApprovedMarker = "aprobado"

// SummarySource tells where the summary figures come from
type SummarySource int

const (
	SourceNone SummarySource = iota
	SourceBackend
	SourceFallback
)

func (s SummarySource) String() string {
	switch s {
	case SourceBackend:
		return "backend"
	case SourceFallback:
		return "fallback"
	}
	return "none"
}

// MarshalText encodes the source by name
func (s SummarySource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Summary holds the figures of the summary cards
type Summary struct {
	Total              int           `json:"total" yaml:"total"`
	ApprovedProposals  int           `json:"propuestas_aprobadas" yaml:"propuestas_aprobadas"`
	ApprovedFinalWorks int           `json:"trabajos_finales_aprobados" yaml:"trabajos_finales_aprobados"`
	PreProjects        int           `json:"anteproyectos" yaml:"anteproyectos"`
	HasPreProjects     bool          `json:"-" yaml:"-"` // the fallback cannot compute pre-project totals
	Source             SummarySource `json:"fuente" yaml:"fuente"`
	Stale              bool          `json:"desactualizado" yaml:"desactualizado"`
}

// FallbackSummary counts approvals over records. It is advisory: it reflects only
// the loaded result set, which may be a filtered search.
func FallbackSummary(records []types.Record) Summary {
	fold := cases.Fold()
	marker := fold.String(ApprovedMarker)

	sum := Summary{Total: len(records), Source: SourceFallback}
	for _, r := range records {
		if strings.Contains(fold.String(r.Proposal), marker) {
			sum.ApprovedProposals++
		}
		if strings.Contains(fold.String(r.FinalWork), marker) {
			sum.ApprovedFinalWorks++
		}
	}
	return sum
}

// BackendSummary reads the summary figures from a statistics snapshot
func BackendSummary(stats types.Statistics) Summary {
	return Summary{
		Total:              stats.Totals.Projects,
		ApprovedProposals:  stats.Counters.ApprovedProposals,
		ApprovedFinalWorks: stats.Counters.ApprovedFinalWorks,
		PreProjects:        stats.Totals.PreProjects,
		HasPreProjects:     true,
		Source:             SourceBackend,
	}
}

// summarize prefers a fresh snapshot, then the fallback over loaded results,
// then a stale snapshot
func summarize(stats *types.Statistics, fresh bool, records []types.Record, hasResults bool) Summary {
	switch {
	case stats != nil && fresh:
		return BackendSummary(*stats)
	case hasResults:
		sum := FallbackSummary(records)
		if stats != nil {
			sum.PreProjects = stats.Totals.PreProjects
			sum.HasPreProjects = true
			sum.Stale = true
		}
		return sum
	case stats != nil:
		sum := BackendSummary(*stats)
		sum.Stale = true
		return sum
	}
	return Summary{}
}
