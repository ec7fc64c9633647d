// Package projections builds read-only views over a tenant's Core:
// counts, recency-ordered lists, and per-agent mandate usage. Nothing here
// ranks, scores, or recommends — every function is a direct aggregation or
// sort over facts the repositories already hold (spec.md §1 Non-goals).
//
// Grounded on memory/campaign_store.go's read-accessor discipline: no
// write path, no caching, every call re-reads the source of truth.
package projections

import (
	"sort"
	"time"

	"ledger/internal/entities"
	"ledger/internal/eventlog"
	"ledger/internal/orchestrator"
)

// StatusCounts is the CountByStatus result: one count per lifecycle value,
// keyed by the entity's String() form so a caller never has to know the
// underlying enum's representation.
type StatusCounts struct {
	Situations map[string]int
	Episodes   map[string]int
	Mandates   map[string]int
}

// CountByStatus tallies every Situation, Episode, and AutonomyMandate by
// their current status/state.
func CountByStatus(core *orchestrator.Core) StatusCounts {
	out := StatusCounts{
		Situations: map[string]int{},
		Episodes:   map[string]int{},
		Mandates:   map[string]int{},
	}
	for _, s := range core.AllSituations() {
		out.Situations[s.Status.String()]++
	}
	for _, e := range core.AllEpisodes() {
		out.Episodes[e.State.String()]++
	}
	for _, m := range core.AllMandates() {
		out.Mandates[m.Status.String()]++
	}
	return out
}

// RecentDecisions returns up to n Decisions, most recently decided first.
func RecentDecisions(core *orchestrator.Core, n int) []entities.Decision {
	all := core.AllDecisions()
	sort.Slice(all, func(i, j int) bool { return all[i].DecidedAt.After(all[j].DecidedAt) })
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// RecentContracts returns up to n Contracts, most recently issued first.
func RecentContracts(core *orchestrator.Core, n int) []entities.Contract {
	all := core.AllContracts()
	sort.Slice(all, func(i, j int) bool { return all[i].IssuedAt.After(all[j].IssuedAt) })
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// MandateUsageEntry summarizes one mandate's consumption for
// MandateUsageSummary.
type MandateUsageEntry struct {
	MandateID  string
	Status     string
	Mode       string
	Uses       int
	MaxUses    *int
	LastUsedAt *time.Time
}

// MandateUsageSummary lists every mandate ever granted to agentID with its
// current use count and status.
func MandateUsageSummary(core *orchestrator.Core, agentID string) []MandateUsageEntry {
	mandates := core.MandatesByAgent(agentID)
	out := make([]MandateUsageEntry, 0, len(mandates))
	for _, m := range mandates {
		out = append(out, MandateUsageEntry{
			MandateID:  m.ID,
			Status:     m.Status.String(),
			Mode:       m.Mode.String(),
			Uses:       m.Uses,
			MaxUses:    m.MaxUses,
			LastUsedAt: m.LastUsedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MandateID < out[j].MandateID })
	return out
}

// EventLogHealthSummary reports the tenant's degraded status and event log
// stats, one level removed from Core.GetEventLogStatus so a dashboard can
// depend on internal/projections alone.
func EventLogHealthSummary(core *orchestrator.Core) (bool, eventlog.Stats) {
	status := core.GetEventLogStatus()
	return status.Degraded, status.EventLogStats
}
