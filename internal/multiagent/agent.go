// Package multiagent runs N agent proposals against the same situation and
// aggregates them under one of five deterministic policies. Only the
// selected candidate is ever persisted as a Decision; the rest exist only
// as audit events.
package multiagent

import "ledger/internal/entities"

// AgentProfile is one proposing agent's identity and posture.
type AgentProfile struct {
	ID          string
	RiskProfile entities.RiskProfile
	Weight      float64
	Enabled     bool
}

// EffectiveWeight returns Weight, defaulting to 1 when unset (zero value).
func (a AgentProfile) EffectiveWeight() float64 {
	if a.Weight == 0 {
		return 1
	}
	return a.Weight
}

// AggregationPolicy names one of the five fixed aggregation strategies.
type AggregationPolicy string

const (
	PolicyFirstValid           AggregationPolicy = "FIRST_VALID"
	PolicyMajorityByAlternative AggregationPolicy = "MAJORITY_BY_ALTERNATIVE"
	PolicyWeightedMajority      AggregationPolicy = "WEIGHTED_MAJORITY"
	PolicyRequireConsensus      AggregationPolicy = "REQUIRE_CONSENSUS"
	PolicyHumanOverrideRequired AggregationPolicy = "HUMAN_OVERRIDE_REQUIRED"
)

// Candidate is one agent's proposal for this situation: the alternative it
// picked deterministically from the evaluated list, at its own risk
// profile, after clearing (or failing) the Closed Layer.
type Candidate struct {
	Agent       AgentProfile
	Protocol    entities.Protocol
	Alternative string
	Blocked     bool
	BlockRuleID string
	BlockReason string
}

// PickAlternative deterministically picks one alternative for an agent's
// risk profile: conservative takes the first, moderate the middle,
// aggressive the last. alternatives must be non-empty.
func PickAlternative(alternatives []string, profile entities.RiskProfile) string {
	if len(alternatives) == 0 {
		return ""
	}
	switch profile {
	case entities.RiskConservative:
		return alternatives[0]
	case entities.RiskAggressive:
		return alternatives[len(alternatives)-1]
	default:
		return alternatives[len(alternatives)/2]
	}
}
