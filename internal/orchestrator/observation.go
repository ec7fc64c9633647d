package orchestrator

import (
	"go.uber.org/zap"

	"ledger/internal/autonomy"
	"ledger/internal/corerr"
	"ledger/internal/entities"
	"ledger/internal/idgen"
)

// ObservationInput is the caller-supplied shape of a ConsequenceObservation.
type ObservationInput struct {
	Observed           entities.Observed
	Perceived          entities.Perceived
	MinimumEvidences   []string
	RegisteredBy       string
	PriorObservationID string
	Notes              string

	// AgentID and Trigger are optional: when both are supplied, the
	// consequence policy runs against the agent's active mandate and its
	// effects are applied (spec.md §4.6).
	AgentID string
	Trigger *entities.AutonomyTrigger
}

// RegisterConsequence records a ConsequenceObservation against contractID.
// The contract must exist and its episode be in DECIDED, UNDER_OBSERVATION,
// or CLOSED. The anti-fraud superset check is enforced: every string in the
// contract's minimum_required_observations must appear in
// input.MinimumEvidences. When AgentID and Trigger are both set, the
// consequence policy is evaluated and its effects applied to the agent's
// active mandate.
func (c *Core) RegisterConsequence(contractID string, input ObservationInput) (entities.ConsequenceObservation, error) {
	contract, ok := c.contracts.GetByID(contractID)
	if !ok {
		return entities.ConsequenceObservation{}, corerr.NotFound("CONTRACT_NOT_FOUND", "contract not found")
	}
	ep, ok := c.episodes.GetByID(contract.EpisodeID)
	if !ok {
		return entities.ConsequenceObservation{}, corerr.NotFound("EPISODE_NOT_FOUND", "episode not found")
	}
	switch ep.State {
	case entities.EpisodeDecided, entities.EpisodeUnderObservation, entities.EpisodeClosed:
	default:
		return entities.ConsequenceObservation{}, corerr.State("EPISODE_NOT_OBSERVABLE",
			"episode must be decided, under observation, or closed to register a consequence")
	}

	for _, required := range contract.MinimumRequiredObservations {
		if !contains(input.MinimumEvidences, required) {
			return entities.ConsequenceObservation{}, corerr.Validation("MINIMUM_EVIDENCES_INCOMPLETE",
				"minimum_evidences does not cover contract's minimum_required_observations: "+required)
		}
	}

	o := entities.ConsequenceObservation{
		ID:                 idgen.New(),
		ContractID:         contractID,
		EpisodeID:          contract.EpisodeID,
		Observed:           input.Observed,
		Perceived:          input.Perceived,
		MinimumEvidences:   input.MinimumEvidences,
		RegisteredBy:       input.RegisteredBy,
		RegisteredAt:       idgen.Now(),
		PriorObservationID: input.PriorObservationID,
		Notes:              input.Notes,
		AutonomyTrigger:    input.Trigger,
	}
	if err := c.observations.Create(o); err != nil {
		return entities.ConsequenceObservation{}, err
	}
	c.emit("system", "CONSEQUENCE_OBSERVATION_REGISTERED", "ConsequenceObservation", o.ID,
		map[string]any{"contract_id": contractID})

	if input.AgentID != "" && input.Trigger != nil {
		if err := c.applyConsequencePolicy(input.AgentID, input.Trigger, o.ID); err != nil {
			return o, err
		}
	}

	return o, nil
}

// applyConsequencePolicy runs the consequence policy against every active
// mandate held by agentID and applies the verdict to each.
func (c *Core) applyConsequencePolicy(agentID string, trigger *entities.AutonomyTrigger, observationID string) error {
	verdict := autonomy.EvaluateConsequence(trigger)
	now := idgen.Now()

	for _, m := range c.mandates.ActiveByAgent(agentID, now) {
		res, err := autonomy.Apply(c.mandates, c.log, m, verdict, observationID, now)
		if err != nil && res.Applied {
			// The effect was applied and only its event append failed: record
			// it in the degraded ring buffer instead of failing the caller.
			c.degraded = true
			c.failures.Record(res.EventType, err.Error(), idgen.Now())
			c.logger.Error("event log append failed; operation proceeded, instance is degraded",
				zap.String("event_type", res.EventType), zap.Error(err))
		} else if err != nil {
			return err
		}
		if res.Applied {
			c.logger.Info("consequence policy applied",
				zap.String("mandate_id", m.ID), zap.String("action", string(res.Verdict.Action)))
		}
	}
	return nil
}
