package orchestrator

import (
	"strings"

	"ledger/internal/corerr"
	"ledger/internal/entities"
	"ledger/internal/idgen"
)

// ProtocolDraft is the caller-supplied shape of a Protocol pre-commitment.
type ProtocolDraft struct {
	MinimumCriteria       []string
	ConsideredRisks       []string
	DefinedLimits         []entities.Limit
	RiskProfile           entities.RiskProfile
	EvaluatedAlternatives []string
	ChosenAlternative     string
	ConsultedMemoryIDs    []string
	ValidatedBy           string
}

// BuildProtocol validates and persists a Protocol for episodeID. The
// episode must be CREATED, its situation UNDER_ANALYSIS, and it must not
// already own a Protocol. Every consulted memory id must have been
// recorded as a memory-query attachment of the situation. The resulting
// Protocol's state reflects aggregated validation, not just a boolean: it
// is VALIDATED or REJECTED with a reason, never rejected by raising.
func (c *Core) BuildProtocol(episodeID string, draft ProtocolDraft) (entities.Protocol, error) {
	ep, ok := c.episodes.GetByID(episodeID)
	if !ok {
		return entities.Protocol{}, corerr.NotFound("EPISODE_NOT_FOUND", "episode not found")
	}
	if ep.State != entities.EpisodeCreated {
		return entities.Protocol{}, corerr.State("EPISODE_NOT_CREATED",
			"a protocol can only be built while the episode is CREATED")
	}
	sit, ok := c.situations.GetByID(ep.ReferencedSituationID)
	if !ok {
		return entities.Protocol{}, corerr.NotFound("SITUATION_NOT_FOUND", "referenced situation not found")
	}
	if sit.Status != entities.SituationUnderAnalysis {
		return entities.Protocol{}, corerr.State("SITUATION_NOT_UNDER_ANALYSIS",
			"a protocol can only be built while the situation is under analysis")
	}
	if _, exists := c.protocols.ByEpisodeID(episodeID); exists {
		return entities.Protocol{}, corerr.State("PROTOCOL_ALREADY_EXISTS", "episode already has a protocol")
	}

	reasons := aggregateProtocolRejections(sit, draft)

	p := entities.Protocol{
		ID:                    idgen.New(),
		EpisodeID:             episodeID,
		MinimumCriteria:       draft.MinimumCriteria,
		ConsideredRisks:       draft.ConsideredRisks,
		DefinedLimits:         draft.DefinedLimits,
		RiskProfile:           draft.RiskProfile,
		EvaluatedAlternatives: draft.EvaluatedAlternatives,
		ChosenAlternative:     draft.ChosenAlternative,
		ConsultedMemoryIDs:    draft.ConsultedMemoryIDs,
		ValidatedAt:           idgen.Now(),
		ValidatedBy:           draft.ValidatedBy,
	}
	if len(reasons) > 0 {
		p.State = entities.ProtocolRejected
		p.RejectionReason = strings.Join(reasons, "; ")
	} else {
		p.State = entities.ProtocolValidated
	}

	if err := c.protocols.Create(p); err != nil {
		return entities.Protocol{}, err
	}

	if p.State == entities.ProtocolRejected {
		c.emit("system", "PROTOCOL_REJECTED", "Protocol", p.ID, map[string]any{"reason": p.RejectionReason})
	} else {
		c.emit("system", "PROTOCOL_VALIDATED", "Protocol", p.ID, map[string]any{"episode_id": episodeID})
	}

	return p, nil
}

// aggregateProtocolRejections runs every BuildProtocol-owned consistency
// check and returns every failure reason, not just the first — BuildProtocol
// sets one rejection reason string aggregating all of them, unlike the
// Closed Layer's single-rule-wins semantics.
func aggregateProtocolRejections(sit entities.Situation, draft ProtocolDraft) []string {
	var reasons []string

	if len(draft.EvaluatedAlternatives) == 0 {
		reasons = append(reasons, "no evaluated alternatives supplied")
	} else if !contains(draft.EvaluatedAlternatives, draft.ChosenAlternative) {
		reasons = append(reasons, "chosen_alternative is not among evaluated_alternatives")
	}

	attachedQueryIDs := make(map[string]struct{}, len(sit.AnalysisAttachments))
	for _, a := range sit.AnalysisAttachments {
		if a.Kind == entities.AttachmentMemoryQuery {
			attachedQueryIDs[a.ID] = struct{}{}
		}
	}
	for _, id := range draft.ConsultedMemoryIDs {
		if _, ok := attachedQueryIDs[id]; !ok {
			reasons = append(reasons, "consulted_memory_id "+id+" was never recorded as a memory-query attachment")
		}
	}

	return reasons
}

func contains(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}
