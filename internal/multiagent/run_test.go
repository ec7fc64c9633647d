package multiagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/entities"
)

func baseSituation() entities.Situation {
	return entities.Situation{
		Risks:               []entities.Risk{{Description: "r"}},
		Alternatives:        []entities.Alternative{{Description: "A"}, {Description: "B"}, {Description: "C"}},
		RelevantConsequence: "downtime",
	}
}

func baseProtocol() entities.Protocol {
	return entities.Protocol{
		DefinedLimits: []entities.Limit{{Kind: "time"}},
	}
}

func TestPickAlternativeByProfile(t *testing.T) {
	alts := []string{"A", "B", "C"}
	assert.Equal(t, "A", PickAlternative(alts, entities.RiskConservative))
	assert.Equal(t, "B", PickAlternative(alts, entities.RiskModerate))
	assert.Equal(t, "C", PickAlternative(alts, entities.RiskAggressive))
}

func TestBuildCandidatesSkipsDisabledAgents(t *testing.T) {
	agents := []AgentProfile{
		{ID: "a1", RiskProfile: entities.RiskModerate, Enabled: true},
		{ID: "a2", RiskProfile: entities.RiskModerate, Enabled: false},
	}
	cands := BuildCandidates(baseSituation(), baseProtocol(), []string{"A", "B", "C"}, agents)
	require.Len(t, cands, 1)
	assert.Equal(t, "a1", cands[0].Agent.ID)
}

func TestBuildCandidatesRecordsClosedLayerBlock(t *testing.T) {
	s := baseSituation()
	s.Risks = nil
	s.Uncertainties = nil
	agents := []AgentProfile{{ID: "a1", RiskProfile: entities.RiskModerate, Enabled: true}}
	cands := BuildCandidates(s, baseProtocol(), []string{"A", "B"}, agents)
	require.Len(t, cands, 1)
	assert.True(t, cands[0].Blocked)
	assert.Equal(t, "RISK_REQUIRED", cands[0].BlockRuleID)
}

func TestAggregateFirstValidPicksFirstNonBlocked(t *testing.T) {
	cands := []Candidate{
		{Agent: AgentProfile{ID: "a1"}, Blocked: true},
		{Agent: AgentProfile{ID: "a2"}, Alternative: "B"},
		{Agent: AgentProfile{ID: "a3"}, Alternative: "C"},
	}
	res := Aggregate(cands, PolicyFirstValid)
	require.NotNil(t, res.Selected)
	assert.Equal(t, "a2", res.Selected.Agent.ID)
}

func TestAggregateMajorityByAlternativeTieBreaksLexicographically(t *testing.T) {
	cands := []Candidate{
		{Agent: AgentProfile{ID: "a1"}, Alternative: "B"},
		{Agent: AgentProfile{ID: "a2"}, Alternative: "A"},
	}
	res := Aggregate(cands, PolicyMajorityByAlternative)
	require.NotNil(t, res.Selected)
	assert.Equal(t, "A", res.Selected.Alternative)
}

func TestAggregateWeightedMajorityRespectsWeight(t *testing.T) {
	cands := []Candidate{
		{Agent: AgentProfile{ID: "a1", Weight: 5}, Alternative: "B"},
		{Agent: AgentProfile{ID: "a2", Weight: 1}, Alternative: "A"},
	}
	res := Aggregate(cands, PolicyWeightedMajority)
	require.NotNil(t, res.Selected)
	assert.Equal(t, "B", res.Selected.Alternative)
}

func TestAggregateRequireConsensusFailsOnDisagreement(t *testing.T) {
	cands := []Candidate{
		{Agent: AgentProfile{ID: "a1"}, Alternative: "A"},
		{Agent: AgentProfile{ID: "a2"}, Alternative: "B"},
	}
	res := Aggregate(cands, PolicyRequireConsensus)
	assert.False(t, res.Consensus)
	assert.Nil(t, res.Selected)
}

func TestAggregateRequireConsensusSucceedsOnAgreement(t *testing.T) {
	cands := []Candidate{
		{Agent: AgentProfile{ID: "a1"}, Alternative: "A"},
		{Agent: AgentProfile{ID: "a2"}, Alternative: "A"},
	}
	res := Aggregate(cands, PolicyRequireConsensus)
	assert.True(t, res.Consensus)
	require.NotNil(t, res.Selected)
}

func TestAggregateHumanOverrideNeverSelects(t *testing.T) {
	cands := []Candidate{{Agent: AgentProfile{ID: "a1"}, Alternative: "A"}}
	res := Aggregate(cands, PolicyHumanOverrideRequired)
	assert.True(t, res.HumanOverride)
	assert.Nil(t, res.Selected)
}
