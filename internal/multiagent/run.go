package multiagent

import (
	"sort"

	"ledger/internal/closedlayer"
	"ledger/internal/entities"
)

// RunResult is the full outcome of running N agent proposals: every
// candidate produced (including blocked ones, for audit purposes) plus the
// aggregation's pick, if any.
type RunResult struct {
	Candidates []Candidate
	Selected   *Candidate
	// Consensus is true only for REQUIRE_CONSENSUS when the non-blocked
	// agents agreed, and false under every other policy; HumanOverride is
	// true only for HUMAN_OVERRIDE_REQUIRED,
	// which never auto-selects.
	Consensus     bool
	HumanOverride bool
}

// BuildCandidates runs each enabled agent's proposal against the Closed
// Layer and returns every candidate in input order, blocked or not. base
// supplies every Protocol field except RiskProfile and ChosenAlternative,
// which are set per agent; evaluatedAlternatives is the fixed candidate
// list every agent picks from.
func BuildCandidates(situation entities.Situation, base entities.Protocol, evaluatedAlternatives []string, agents []AgentProfile) []Candidate {
	candidates := make([]Candidate, 0, len(agents))
	for _, agent := range agents {
		if !agent.Enabled {
			continue
		}
		proto := base
		proto.RiskProfile = agent.RiskProfile
		proto.EvaluatedAlternatives = evaluatedAlternatives
		alt := PickAlternative(evaluatedAlternatives, agent.RiskProfile)
		proto.ChosenAlternative = alt

		res := closedlayer.Validate(situation, proto)
		c := Candidate{Agent: agent, Protocol: proto, Alternative: alt}
		if res.Blocked {
			c.Blocked = true
			c.BlockRuleID = string(res.RuleID)
			c.BlockReason = res.Reason
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// Aggregate selects a winning candidate under policy. It never mutates
// candidates and never picks a blocked one.
func Aggregate(candidates []Candidate, policy AggregationPolicy) RunResult {
	nonBlocked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Blocked {
			nonBlocked = append(nonBlocked, c)
		}
	}

	result := RunResult{Candidates: candidates}

	switch policy {
	case PolicyFirstValid:
		if len(nonBlocked) > 0 {
			sel := nonBlocked[0]
			result.Selected = &sel
		}

	case PolicyMajorityByAlternative:
		result.Selected = majorityByAlternative(nonBlocked, false)

	case PolicyWeightedMajority:
		result.Selected = majorityByAlternative(nonBlocked, true)

	case PolicyRequireConsensus:
		if len(nonBlocked) == 0 {
			result.Consensus = false
			break
		}
		first := nonBlocked[0].Alternative
		agree := true
		for _, c := range nonBlocked[1:] {
			if c.Alternative != first {
				agree = false
				break
			}
		}
		result.Consensus = agree
		if agree {
			sel := nonBlocked[0]
			result.Selected = &sel
		}

	case PolicyHumanOverrideRequired:
		result.HumanOverride = true
	}

	return result
}

// majorityByAlternative picks the alternative with the most votes, weighted
// when weighted is true, tie-breaking lexicographically smallest
// alternative then earliest agent in input order.
func majorityByAlternative(candidates []Candidate, weighted bool) *Candidate {
	if len(candidates) == 0 {
		return nil
	}

	votes := make(map[string]float64)
	firstIndex := make(map[string]int)
	for i, c := range candidates {
		w := 1.0
		if weighted {
			w = c.Agent.EffectiveWeight()
		}
		votes[c.Alternative] += w
		if _, seen := firstIndex[c.Alternative]; !seen {
			firstIndex[c.Alternative] = i
		}
	}

	alternatives := make([]string, 0, len(votes))
	for alt := range votes {
		alternatives = append(alternatives, alt)
	}
	sort.Slice(alternatives, func(i, j int) bool {
		vi, vj := votes[alternatives[i]], votes[alternatives[j]]
		if vi != vj {
			return vi > vj
		}
		if alternatives[i] != alternatives[j] {
			return alternatives[i] < alternatives[j]
		}
		return firstIndex[alternatives[i]] < firstIndex[alternatives[j]]
	})

	winner := alternatives[0]
	for i := range candidates {
		if candidates[i].Alternative == winner {
			sel := candidates[i]
			return &sel
		}
	}
	return nil
}
