package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/types"
)

func records(titles ...string) []types.Record {
	out := make([]types.Record, len(titles))
	for i, title := range titles {
		out[i] = types.Record{Title: title}
	}
	return out
}

func TestApplyResultsReplacesWholesale(t *testing.T) {
	s := New(time.Minute)
	reg := cancel.NewRegistry()

	require.True(t, s.ApplyResults(reg.Acquire(cancel.PurposeListAll), "", records("a", "b", "c")))
	require.True(t, s.ApplyResults(reg.Acquire(cancel.PurposeSearch), "tesis", records("d")))

	snap := s.Snapshot()
	assert.True(t, snap.HasResults)
	assert.Equal(t, "tesis", snap.Query)
	assert.Equal(t, records("d"), snap.Results)
	assert.Equal(t, 1, s.Len())
}

func TestApplyResultsRefusesCancelledToken(t *testing.T) {
	s := New(time.Minute)
	reg := cancel.NewRegistry()

	slow := reg.Acquire(cancel.PurposeSearch)
	fast := reg.Acquire(cancel.PurposeSearch)

	require.True(t, s.ApplyResults(fast, "rapido", records("fast")))
	assert.False(t, s.ApplyResults(slow, "lento", records("slow")))
	assert.Equal(t, records("fast"), s.Results())
}

func TestApplyStatisticsRefusesCancelledToken(t *testing.T) {
	s := New(time.Minute)
	tok := cancel.NewRegistry().Acquire(cancel.PurposeStatistics)
	tok.Cancel()

	assert.False(t, s.ApplyStatistics(tok, types.Statistics{}))
	_, ok := s.Statistics()
	assert.False(t, ok)
}

func TestResultsAreCopies(t *testing.T) {
	s := New(time.Minute)
	in := records("a")
	s.ApplyResults(nil, "", in)

	in[0].Title = "mutated"
	out := s.Results()
	out[0].Title = "mutated too"

	r, ok := s.Record(0)
	require.True(t, ok)
	assert.Equal(t, "a", r.Title)

	_, ok = s.Record(5)
	assert.False(t, ok)
}

func TestClearResults(t *testing.T) {
	s := New(time.Minute)
	s.ApplyResults(nil, "x", records("a"))
	s.ClearResults()

	snap := s.Snapshot()
	assert.False(t, snap.HasResults)
	assert.Empty(t, snap.Results)
	assert.Equal(t, SourceNone, snap.Summary.Source)
}

func TestSummaryPrefersFreshBackendSnapshot(t *testing.T) {
	s := New(time.Minute)
	s.ApplyResults(nil, "", records("a", "b"))
	s.ApplyStatistics(nil, types.Statistics{
		Totals:   types.Totals{Projects: 120, PreProjects: 40},
		Counters: types.StatusCounters{ApprovedProposals: 70, ApprovedFinalWorks: 30},
	})

	sum := s.Summary()
	assert.Equal(t, SourceBackend, sum.Source)
	assert.Equal(t, 120, sum.Total)
	assert.Equal(t, 70, sum.ApprovedProposals)
	assert.Equal(t, 30, sum.ApprovedFinalWorks)
	assert.Equal(t, 40, sum.PreProjects)
	assert.False(t, sum.Stale)
}

func TestSummaryFallsBackWhenStatisticsMissingOrFailed(t *testing.T) {
	s := New(time.Minute)
	s.ApplyResults(nil, "", []types.Record{
		{Proposal: "Aprobado", FinalWork: "aprobado"},
		{Proposal: "En revisión"},
	})

	sum := s.Summary()
	assert.Equal(t, SourceFallback, sum.Source)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.ApprovedProposals)
	assert.Equal(t, 1, sum.ApprovedFinalWorks)
	assert.False(t, sum.HasPreProjects)

	s.ApplyStatistics(nil, types.Statistics{Totals: types.Totals{Projects: 50, PreProjects: 9}})
	s.MarkStatisticsFailed("Error al obtener estadísticas")

	snap := s.Snapshot()
	assert.Equal(t, "Error al obtener estadísticas", snap.StatsError)
	require.NotNil(t, snap.Statistics, "a failed refresh keeps the previous snapshot")
	assert.Equal(t, 50, snap.Statistics.Totals.Projects)
	assert.Equal(t, SourceFallback, snap.Summary.Source)
	assert.True(t, snap.Summary.Stale)
	assert.Equal(t, 9, snap.Summary.PreProjects)
}

func TestSummaryStaleAfterTTL(t *testing.T) {
	s := New(20 * time.Millisecond)
	s.ApplyStatistics(nil, types.Statistics{Totals: types.Totals{Projects: 3}})
	require.True(t, s.StatisticsFresh())

	require.Eventually(t, func() bool { return !s.StatisticsFresh() }, time.Second, 5*time.Millisecond)

	sum := s.Summary()
	assert.Equal(t, SourceBackend, sum.Source)
	assert.True(t, sum.Stale)
	assert.Equal(t, 3, sum.Total)
}

func TestFallbackNeverOverwritesSnapshot(t *testing.T) {
	s := New(time.Minute)
	stats := types.Statistics{Totals: types.Totals{Projects: 99}}
	s.ApplyStatistics(nil, stats)
	s.ApplyResults(nil, "filtro", records("a"))
	_ = s.Summary()

	got, ok := s.Statistics()
	require.True(t, ok)
	assert.Equal(t, 99, got.Totals.Projects)
}

func TestFallbackSummaryEmpty(t *testing.T) {
	assert.Equal(t, Summary{Source: SourceFallback}, FallbackSummary(nil))
}

func TestFallbackSummaryCountsApprovalsProperty(t *testing.T) {
	approvedForms := []string{"Aprobado", "APROBADO CON OBSERVACIONES", "aprobado", "Proyecto aprobado"}
	otherForms := []string{"", "En revisión", "Pendiente", "Rechazado", "N/A"}

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(rt, "n")
		recs := make([]types.Record, n)
		want := 0
		for i := range recs {
			if rapid.Bool().Draw(rt, fmt.Sprintf("approved%d", i)) {
				recs[i].Proposal = rapid.SampledFrom(approvedForms).Draw(rt, fmt.Sprintf("a%d", i))
				want++
			} else {
				recs[i].Proposal = rapid.SampledFrom(otherForms).Draw(rt, fmt.Sprintf("o%d", i))
			}
		}

		sum := FallbackSummary(recs)
		if sum.Total != n || sum.ApprovedProposals != want {
			rt.Fatalf("got total=%d approved=%d, want total=%d approved=%d", sum.Total, sum.ApprovedProposals, n, want)
		}
	})
}

func TestFallbackSummaryTenRecords(t *testing.T) {
	recs := make([]types.Record, 10)
	for i, status := range []string{"Aprobado", "APROBADO CON OBSERVACIONES", "aprobado", "Aprobado"} {
		recs[i].Proposal = status
	}
	recs[5].Proposal = "En revisión"

	assert.Equal(t, 4, FallbackSummary(recs).ApprovedProposals)
	assert.Equal(t, 10, FallbackSummary(recs).Total)
}

func TestSummarySourceString(t *testing.T) {
	assert.Equal(t, "backend", SourceBackend.String())
	assert.Equal(t, "fallback", SourceFallback.String())
	assert.Equal(t, "none", SourceNone.String())
}
