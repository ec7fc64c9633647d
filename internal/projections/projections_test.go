package projections

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ledger/internal/config"
	"ledger/internal/entities"
	"ledger/internal/orchestrator"
)

func testEventLogCfg() config.EventLogConfig {
	return config.EventLogConfig{
		SegmentSize:       1000,
		SnapshotEvery:     500,
		RetentionSegments: 30,
		MaxEventsExport:   10000,
		MaxEventsReplay:   50000,
	}
}

func newTestCore(t *testing.T) *orchestrator.Core {
	t.Helper()
	c, err := orchestrator.New(t.TempDir(), testEventLogCfg(), config.Quotas{}, nil)
	require.NoError(t, err)
	return c
}

func validSituationDraft() orchestrator.SituationDraft {
	return orchestrator.SituationDraft{
		Domain:              "infra",
		Context:              "disk pressure",
		Objective:            "restore headroom",
		Uncertainties:        []string{"growth rate unknown"},
		Alternatives: []entities.Alternative{
			{Description: "expand volume"},
			{Description: "prune logs"},
		},
		Risks:               []entities.Risk{{Description: "disk full"}},
		RelevantConsequence: "outage",
	}
}

func validProtocolDraft(chosen string) orchestrator.ProtocolDraft {
	return orchestrator.ProtocolDraft{
		MinimumCriteria:       []string{"no data loss"},
		DefinedLimits:         []entities.Limit{{Kind: "budget", Value: "500"}},
		RiskProfile:           entities.RiskModerate,
		EvaluatedAlternatives: []string{"expand volume", "prune logs"},
		ChosenAlternative:     chosen,
	}
}

func TestCountByStatusReflectsEpisodeAndSituationState(t *testing.T) {
	core := newTestCore(t)

	_, err := core.ProcessRequest(validSituationDraft())
	require.NoError(t, err)

	counts := CountByStatus(core)
	require.Equal(t, 1, counts.Situations["UNDER_ANALYSIS"])
	require.Equal(t, 1, counts.Episodes["CREATED"])
}

func TestRecentDecisionsOrdersMostRecentFirst(t *testing.T) {
	core := newTestCore(t)

	ep1, err := core.ProcessRequest(validSituationDraft())
	require.NoError(t, err)
	p1, err := core.BuildProtocol(ep1.ID, validProtocolDraft("expand volume"))
	require.NoError(t, err)
	_, err = core.RegisterDecision(ep1.ID, orchestrator.DecisionInput{
		ChosenAlternative: "expand volume",
		RiskProfile:       entities.RiskModerate,
		Limits:            p1.DefinedLimits,
		Criteria:          p1.MinimumCriteria,
	})
	require.NoError(t, err)

	ep2, err := core.ProcessRequest(validSituationDraft())
	require.NoError(t, err)
	p2, err := core.BuildProtocol(ep2.ID, validProtocolDraft("prune logs"))
	require.NoError(t, err)
	_, err = core.RegisterDecision(ep2.ID, orchestrator.DecisionInput{
		ChosenAlternative: "prune logs",
		RiskProfile:       entities.RiskModerate,
		Limits:            p2.DefinedLimits,
		Criteria:          p2.MinimumCriteria,
	})
	require.NoError(t, err)

	recent := RecentDecisions(core, 1)
	require.Len(t, recent, 1)
	require.Equal(t, "prune logs", recent[0].ChosenAlternative)
}

func TestMandateUsageSummaryTracksUses(t *testing.T) {
	core := newTestCore(t)

	m, err := core.GrantMandate(orchestrator.MandateGrantInput{
		AgentID:   "agent-1",
		Mode:      entities.ModeAssisted,
		GrantedBy: "operator-1",
	})
	require.NoError(t, err)
	_, err = core.ConsumeMandateUse(m.ID)
	require.NoError(t, err)

	summary := MandateUsageSummary(core, "agent-1")
	require.Len(t, summary, 1)
	require.Equal(t, 1, summary[0].Uses)
}

func TestEventLogHealthSummaryReflectsDegradedFlag(t *testing.T) {
	core := newTestCore(t)
	degraded, stats := EventLogHealthSummary(core)
	require.False(t, degraded)
	require.Equal(t, 0, stats.TotalEntries)
}
