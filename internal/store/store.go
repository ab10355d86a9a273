// Package store holds the client-side record state: the current result set and
// the latest statistics snapshot.
//
// The store has a single writer (the program's update loop). Renderers read
// through Snapshot, which returns copies.
package store

import (
	"slices"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/types"
)

// DefaultStatisticsTTL is how long a statistics snapshot counts as fresh
const DefaultStatisticsTTL = 5 * time.Minute

const statisticsKey = "statistics"

// Store is the record state container
type Store struct {
	mu sync.RWMutex

	results    []types.Record
	hasResults bool
	query      string

	statistics   *types.Statistics
	statsUpdated time.Time
	statsError   string
	freshness    *gocache.Cache
}

// New creates an empty store. Statistics older than ttl are treated as stale.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultStatisticsTTL
	}
	return &Store{
		// no janitor: expired entries are simply reported missing on Get
		freshness: gocache.New(ttl, 0),
	}
}

// ApplyResults replaces the result set wholesale with records returned for query
// ("" for the full list). It refuses and returns false when tok was cancelled.
func (s *Store) ApplyResults(tok *cancel.Token, query string, records []types.Record) bool {
	if tok != nil && tok.Cancelled() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = slices.Clone(records)
	s.hasResults = true
	s.query = query
	return true
}

// ClearResults empties the result set, e.g. after a failed load
func (s *Store) ClearResults() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = nil
	s.hasResults = false
	s.query = ""
}

// ApplyStatistics replaces the statistics snapshot wholesale.
// It refuses and returns false when tok was cancelled.
func (s *Store) ApplyStatistics(tok *cancel.Token, stats types.Statistics) bool {
	if tok != nil && tok.Cancelled() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := stats
	s.statistics = &snapshot
	s.statsUpdated = time.Now()
	s.statsError = ""
	s.freshness.SetDefault(statisticsKey, s.statsUpdated)
	return true
}

// MarkStatisticsFailed records a failed refresh. The previous snapshot is kept.
func (s *Store) MarkStatisticsFailed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statsError = message
	s.freshness.Delete(statisticsKey)
}

// Results returns a copy of the current result set
func (s *Store) Results() []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.results)
}

// Record returns the record at index i of the result set
func (s *Store) Record(i int) (types.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.results) {
		return types.Record{}, false
	}
	return s.results[i], true
}

// Len returns the size of the result set
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Statistics returns the latest snapshot, fresh or not
func (s *Store) Statistics() (types.Statistics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.statistics == nil {
		return types.Statistics{}, false
	}
	return *s.statistics, true
}

// StatisticsFresh reports whether a snapshot was applied within the TTL
func (s *Store) StatisticsFresh() bool {
	_, ok := s.freshness.Get(statisticsKey)
	return ok
}

// Snapshot is a read-only view of the store for renderers
type Snapshot struct {
	Results      []types.Record
	HasResults   bool
	Query        string
	Statistics   *types.Statistics
	StatsFresh   bool
	StatsUpdated time.Time
	StatsError   string
	Summary      Summary
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	fresh := s.StatisticsFresh()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Results:      slices.Clone(s.results),
		HasResults:   s.hasResults,
		Query:        s.query,
		StatsFresh:   fresh,
		StatsUpdated: s.statsUpdated,
		StatsError:   s.statsError,
	}
	if s.statistics != nil {
		stats := *s.statistics
		snap.Statistics = &stats
	}
	snap.Summary = summarize(snap.Statistics, fresh, s.results, s.hasResults)
	return snap
}

// Summary returns the figures for the summary cards
func (s *Store) Summary() Summary {
	return s.Snapshot().Summary
}
