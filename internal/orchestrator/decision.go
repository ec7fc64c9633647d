package orchestrator

import (
	"ledger/internal/closedlayer"
	"ledger/internal/corerr"
	"ledger/internal/entities"
	"ledger/internal/idgen"
)

// DecisionInput is the caller-supplied shape of a Decision. ChosenAlternative
// and RiskProfile must match the episode's VALIDATED Protocol exactly.
type DecisionInput struct {
	ChosenAlternative string
	Criteria          []string
	Limits            []entities.Limit
	Conditions        []string
	RiskProfile       entities.RiskProfile
	IssuedTo          string

	// MinimumRequiredObservations is the fixed list the resulting Contract
	// will carry; every ConsequenceObservation registered against it must
	// later supply a superset of these strings as minimum_evidences
	// (spec.md §3, anti-fraud check).
	MinimumRequiredObservations []string
}

// RegisterDecision requires a VALIDATED Protocol for episodeID, re-runs the
// Closed Layer (which must not block), checks consistency between input
// and the Protocol, persists the Decision, advances the Episode to DECIDED
// and the Situation to DECIDED, and emits the resulting Contract.
func (c *Core) RegisterDecision(episodeID string, input DecisionInput) (entities.Contract, error) {
	ep, ok := c.episodes.GetByID(episodeID)
	if !ok {
		return entities.Contract{}, corerr.NotFound("EPISODE_NOT_FOUND", "episode not found")
	}
	p, ok := c.protocols.ByEpisodeID(episodeID)
	if !ok {
		return entities.Contract{}, corerr.State("PROTOCOL_MISSING", "episode has no protocol")
	}
	if p.State != entities.ProtocolValidated {
		return entities.Contract{}, corerr.State("PROTOCOL_NOT_VALIDATED", "protocol is not in VALIDATED state")
	}
	sit, ok := c.situations.GetByID(ep.ReferencedSituationID)
	if !ok {
		return entities.Contract{}, corerr.NotFound("SITUATION_NOT_FOUND", "referenced situation not found")
	}

	res := closedlayer.Validate(sit, p)
	if res.Blocked {
		c.emit("system", "DECISION_BLOCKED", "Episode", episodeID,
			map[string]any{"rule_id": string(res.RuleID), "reason": res.Reason})
		return entities.Contract{}, corerr.Validation(string(res.RuleID), res.Reason)
	}

	if input.ChosenAlternative != p.ChosenAlternative {
		return entities.Contract{}, corerr.Validation("ALTERNATIVE_MISMATCH",
			"decision's chosen_alternative must match the protocol's")
	}
	if input.RiskProfile != p.RiskProfile {
		return entities.Contract{}, corerr.Validation("RISK_PROFILE_MISMATCH",
			"decision's risk_profile must match the protocol's")
	}

	now := idgen.Now()
	d := entities.Decision{
		ID:                idgen.New(),
		EpisodeID:         episodeID,
		ChosenAlternative: input.ChosenAlternative,
		Criteria:          input.Criteria,
		Limits:            input.Limits,
		Conditions:        input.Conditions,
		RiskProfile:       input.RiskProfile,
		DecidedAt:         now,
	}
	if err := c.decisions.Create(d); err != nil {
		return entities.Contract{}, err
	}
	c.emit("system", "DECISION_REGISTERED", "Decision", d.ID, map[string]any{"episode_id": episodeID})

	if _, err := c.episodes.AdvanceState(episodeID, entities.EpisodeDecided, now); err != nil {
		return entities.Contract{}, err
	}
	c.emit("system", "EPISODE_STATE_CHANGED", "Episode", episodeID, map[string]any{"state": "DECIDED"})

	if _, err := c.situations.AdvanceStatus(sit.ID, entities.SituationDecided); err != nil {
		return entities.Contract{}, err
	}
	c.emit("system", "SITUATION_STATUS_CHANGED", "Situation", sit.ID, map[string]any{"status": "DECIDED"})

	contract := entities.Contract{
		ID:                          idgen.New(),
		EpisodeID:                   episodeID,
		DecisionID:                  d.ID,
		AuthorizedAlternative:       d.ChosenAlternative,
		ExecutionLimits:             d.Limits,
		MandatoryConditions:         d.Conditions,
		MinimumRequiredObservations: input.MinimumRequiredObservations,
		IssuedAt:                    now,
		IssuedTo:                    input.IssuedTo,
	}
	if err := c.contracts.Create(contract); err != nil {
		return entities.Contract{}, err
	}
	c.emit("system", "CONTRACT_ISSUED", "Contract", contract.ID, map[string]any{"decision_id": d.ID})

	return contract, nil
}
