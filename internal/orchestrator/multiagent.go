package orchestrator

import (
	"ledger/internal/corerr"
	"ledger/internal/entities"
	"ledger/internal/multiagent"
)

// MultiAgentRequest drives multiagent.BuildCandidates/Aggregate over an
// episode already reached via ProcessRequest, recording every proposal as
// an audit event before persisting only the selected Decision/Contract.
type MultiAgentRequest struct {
	EpisodeID             string
	Base                  ProtocolDraft
	EvaluatedAlternatives []string
	Agents                []multiagent.AgentProfile
	Policy                multiagent.AggregationPolicy
	IssuedTo              string
}

// MultiAgentOutcome reports every candidate proposed and, when the policy
// selected one, the resulting Contract.
type MultiAgentOutcome struct {
	Result   multiagent.RunResult
	Contract *entities.Contract
}

// RunMultiAgentDecision runs N agent proposals against the same episode's
// situation, aggregates them under req.Policy, and — if a candidate was
// selected — builds its Protocol and registers its Decision, emitting the
// resulting Contract. Every candidate, selected or not, is recorded as an
// audit event.
func (c *Core) RunMultiAgentDecision(req MultiAgentRequest) (MultiAgentOutcome, error) {
	ep, ok := c.episodes.GetByID(req.EpisodeID)
	if !ok {
		return MultiAgentOutcome{}, corerr.NotFound("EPISODE_NOT_FOUND", "episode not found")
	}
	sit, ok := c.situations.GetByID(ep.ReferencedSituationID)
	if !ok {
		return MultiAgentOutcome{}, corerr.NotFound("SITUATION_NOT_FOUND", "referenced situation not found")
	}

	base := entities.Protocol{
		MinimumCriteria: req.Base.MinimumCriteria,
		ConsideredRisks: req.Base.ConsideredRisks,
		DefinedLimits:   req.Base.DefinedLimits,
	}
	candidates := multiagent.BuildCandidates(sit, base, req.EvaluatedAlternatives, req.Agents)

	for _, cand := range candidates {
		c.emit("system", "AGENT_PROTOCOL_PROPOSED", "Episode", req.EpisodeID,
			map[string]any{"agent_id": cand.Agent.ID, "alternative": cand.Alternative, "blocked": cand.Blocked})
		if cand.Blocked {
			c.emit("system", "AGENT_PROTOCOL_BLOCKED", "Episode", req.EpisodeID,
				map[string]any{"agent_id": cand.Agent.ID, "rule_id": cand.BlockRuleID})
			continue
		}
		c.emit("system", "AGENT_DECISION_PROPOSED", "Episode", req.EpisodeID,
			map[string]any{"agent_id": cand.Agent.ID, "alternative": cand.Alternative})
	}

	result := multiagent.Aggregate(candidates, req.Policy)
	outcome := MultiAgentOutcome{Result: result}
	if result.Selected == nil {
		return outcome, nil
	}

	draft := req.Base
	draft.RiskProfile = result.Selected.Protocol.RiskProfile
	draft.EvaluatedAlternatives = req.EvaluatedAlternatives
	draft.ChosenAlternative = result.Selected.Alternative

	protocol, err := c.BuildProtocol(req.EpisodeID, draft)
	if err != nil {
		return outcome, err
	}
	if protocol.State != entities.ProtocolValidated {
		return outcome, nil
	}

	contract, err := c.RegisterDecision(req.EpisodeID, DecisionInput{
		ChosenAlternative: protocol.ChosenAlternative,
		RiskProfile:       protocol.RiskProfile,
		Limits:            protocol.DefinedLimits,
		Criteria:          protocol.MinimumCriteria,
		IssuedTo:          req.IssuedTo,
	})
	if err != nil {
		return outcome, err
	}
	outcome.Contract = &contract
	return outcome, nil
}
