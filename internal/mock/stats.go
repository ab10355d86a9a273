package mock

import (
	"strings"
	"time"

	"github.com/studiowebux/proyectos/internal/dates"
	"github.com/studiowebux/proyectos/internal/types"
)

// unspecified groups records with an empty program or advisor
const unspecified = "Sin especificar"

// BuildStatistics computes the detailed statistics of records
func BuildStatistics(records []types.Record, now time.Time) types.Statistics {
	stats := types.Statistics{
		ByProgram:   map[string]int{},
		ByAdvisor:   map[string]int{},
		ByDate:      map[string]int{},
		ByYear:      map[string]int{},
		LastUpdated: now.Format("2006-01-02 15:04:05"),
	}

	for _, rec := range records {
		stats.Totals.Projects++
		if strings.TrimSpace(rec.Proposal) != "" {
			stats.Totals.Proposals++
		}
		if strings.TrimSpace(rec.PreProject) != "" {
			stats.Totals.PreProjects++
		}
		if strings.TrimSpace(rec.FinalWork) != "" {
			stats.Totals.FinalWorks++
		}

		if types.ClassifyStatus(rec.Proposal) == types.StatusApproved {
			stats.Counters.ApprovedProposals++
		}
		if types.ClassifyStatus(rec.FinalWork) == types.StatusApproved {
			stats.Counters.ApprovedFinalWorks++
		}

		stats.ByProgram[orUnspecified(rec.Program)]++
		stats.ByAdvisor[orUnspecified(rec.Advisor)]++

		addStatus(&stats.States.Proposals, rec.Proposal)
		addStatus(&stats.States.PreProjects, rec.PreProject)
		addStatus(&stats.States.FinalWorks, rec.FinalWork)

		if d := dates.Normalize(strings.TrimSpace(rec.DefenseDate)); d != "" {
			stats.ByDate[d]++
		}
		if y := strings.TrimSpace(rec.Year); y != "" {
			stats.ByYear[y]++
		}
	}
	return stats
}

func addStatus(b *types.StatusBreakdown, status string) {
	switch types.ClassifyStatus(status) {
	case types.StatusApproved:
		b.Approved++
	case types.StatusInReview:
		b.InReview++
	case types.StatusRejected:
		b.NotApproved++
	default:
		b.Unspecified++
	}
}

func orUnspecified(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return unspecified
}
