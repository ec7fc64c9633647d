package orchestrator

import (
	"ledger/internal/corerr"
	"ledger/internal/entities"
	"ledger/internal/idgen"
)

// SituationDraft is the caller-supplied shape of a new Situation. The
// Orchestrator owns id and creation_time generation.
type SituationDraft struct {
	Domain              string
	Context             string
	Objective           string
	Uncertainties       []string
	Alternatives        []entities.Alternative
	Risks               []entities.Risk
	Urgency             entities.Urgency
	AbsorptionCapacity  entities.AbsorptionCapacity
	RelevantConsequence string
	LearningPossibility bool
	DeclaredUseCase     int
}

// ProcessRequest creates a Situation from draft and drives it through
// OPEN -> ACCEPTED -> UNDER_ANALYSIS, creating the one Episode that will
// carry it through the rest of the pipeline.
func (c *Core) ProcessRequest(draft SituationDraft) (entities.Episode, error) {
	if err := c.checkEventQuota(); err != nil {
		return entities.Episode{}, err
	}

	now := idgen.Now()
	s := entities.Situation{
		ID:                  idgen.New(),
		Domain:              draft.Domain,
		Context:             draft.Context,
		Objective:           draft.Objective,
		Uncertainties:       draft.Uncertainties,
		Alternatives:        draft.Alternatives,
		Risks:               draft.Risks,
		Urgency:             draft.Urgency,
		AbsorptionCapacity:  draft.AbsorptionCapacity,
		RelevantConsequence: draft.RelevantConsequence,
		LearningPossibility: draft.LearningPossibility,
		DeclaredUseCase:     draft.DeclaredUseCase,
		Status:              entities.SituationDraft,
		CreationTime:        now,
	}
	if err := c.situations.Create(s); err != nil {
		return entities.Episode{}, err
	}
	c.emit("system", "SITUATION_CREATED", "Situation", s.ID, map[string]any{"domain": s.Domain})

	for _, to := range []entities.SituationStatus{entities.SituationOpen, entities.SituationAccepted, entities.SituationUnderAnalysis} {
		updated, err := c.situations.AdvanceStatus(s.ID, to)
		if err != nil {
			return entities.Episode{}, err
		}
		s = updated
		c.emit("system", "SITUATION_STATUS_CHANGED", "Situation", s.ID, map[string]any{"status": to.String()})
	}

	ep := entities.Episode{
		ID:                    idgen.New(),
		UseCase:               draft.DeclaredUseCase,
		Domain:                draft.Domain,
		State:                 entities.EpisodeCreated,
		ReferencedSituationID: s.ID,
		CreatedAt:             now,
	}
	if err := c.episodes.Create(ep); err != nil {
		return entities.Episode{}, err
	}
	c.emit("system", "EPISODE_CREATED", "Episode", ep.ID, map[string]any{"situation_id": s.ID})

	return ep, nil
}

// MemoryQueryResult is the (non-ranking) response handed back from
// ConsultMemory: the raw query shape and the ids the memory collaborator
// returned, nothing more.
type MemoryQueryResult struct {
	Query       string
	ResultIDs   []string
	AttachmentID string
}

// ConsultMemory appends a MemoryQuery attachment to situationID. Allowed
// only while the Situation is UNDER_ANALYSIS. resultIDs is supplied by an
// external collaborator; the Orchestrator performs no ranking or
// recommendation over it — it only records the shape.
func (c *Core) ConsultMemory(situationID, query string, resultIDs []string) (MemoryQueryResult, error) {
	s, ok := c.situations.GetByID(situationID)
	if !ok {
		return MemoryQueryResult{}, corerr.NotFound("SITUATION_NOT_FOUND", "situation not found")
	}
	if s.Status != entities.SituationUnderAnalysis {
		return MemoryQueryResult{}, corerr.State("SITUATION_NOT_UNDER_ANALYSIS",
			"memory may only be consulted while the situation is under analysis")
	}

	attachment := entities.AnalysisAttachment{
		ID:   idgen.New(),
		Kind: entities.AttachmentMemoryQuery,
		Body: query,
		Time: idgen.Now(),
	}
	if _, err := c.situations.AppendAttachment(situationID, attachment); err != nil {
		return MemoryQueryResult{}, err
	}
	c.emit("system", "SITUATION_MEMORY_CONSULTED", "Situation", situationID,
		map[string]any{"attachment_id": attachment.ID, "query": query, "result_ids": resultIDs})

	return MemoryQueryResult{Query: query, ResultIDs: resultIDs, AttachmentID: attachment.ID}, nil
}
