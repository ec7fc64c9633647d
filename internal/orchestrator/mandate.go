package orchestrator

import (
	"time"

	"ledger/internal/autonomy"
	"ledger/internal/closedlayer"
	"ledger/internal/corerr"
	"ledger/internal/entities"
	"ledger/internal/idgen"
)

// MandateGrantInput is the caller-supplied shape of a new AutonomyMandate.
type MandateGrantInput struct {
	AgentID             string
	Mode                entities.MandateMode
	AllowedPolicies     []string
	MaxRiskProfile      entities.RiskProfile
	Limits              []entities.Limit
	HumanTriggerPhrases []string
	AllowedDomains      []string
	AllowedUseCases     []int
	GrantedBy           string
	ValidFrom           *time.Time
	ValidUntil          *time.Time
	MaxUses             *int
}

// GrantMandate creates and persists a new AutonomyMandate.
func (c *Core) GrantMandate(input MandateGrantInput) (entities.AutonomyMandate, error) {
	if err := c.checkEventQuota(); err != nil {
		return entities.AutonomyMandate{}, err
	}

	m := entities.AutonomyMandate{
		ID:                  idgen.New(),
		AgentID:             input.AgentID,
		Mode:                input.Mode,
		AllowedPolicies:     input.AllowedPolicies,
		MaxRiskProfile:      input.MaxRiskProfile,
		Limits:              input.Limits,
		HumanTriggerPhrases: input.HumanTriggerPhrases,
		AllowedDomains:      input.AllowedDomains,
		AllowedUseCases:     input.AllowedUseCases,
		GrantedBy:           input.GrantedBy,
		GrantedAt:           idgen.Now(),
		ValidFrom:           input.ValidFrom,
		ValidUntil:          input.ValidUntil,
		MaxUses:             input.MaxUses,
		Status:              entities.MandateActive,
	}
	if err := c.mandates.Create(m); err != nil {
		return entities.AutonomyMandate{}, err
	}
	c.emit("system", "MANDATE_GRANTED", "AutonomyMandate", m.ID, map[string]any{"agent_id": m.AgentID})
	return m, nil
}

// RevokeMandate terminally revokes mandateID. A no-op if already revoked or
// expired.
func (c *Core) RevokeMandate(mandateID, by, reason string) (entities.AutonomyMandate, error) {
	before, _ := c.mandates.GetByID(mandateID)
	m, err := c.mandates.RecordRevocation(mandateID, by, reason, idgen.Now())
	if err != nil {
		return entities.AutonomyMandate{}, err
	}
	if before.Status != entities.MandateRevoked && before.Status != entities.MandateExpired {
		c.emit(by, "MANDATE_REVOKED", "AutonomyMandate", mandateID, map[string]any{"reason": reason})
	}
	return m, nil
}

// AutonomyRequest is the caller-supplied shape of an EvaluateAutonomy call.
type AutonomyRequest struct {
	AgentID              string
	RequestedPolicy      string
	RequestedRiskProfile entities.RiskProfile
	Domain               string
	UseCase              int
	Context              string
	RequestedMode        *entities.MandateMode
	Situation            entities.Situation
	Protocol             entities.Protocol
}

// EvaluateAutonomy runs the Closed Layer followed by the Autonomy
// evaluator over req. If the mandate's activity check determined it should
// expire, ExpireMandate is applied as a side effect before the evaluation
// result is returned, matching the evaluator's ShouldExpire contract.
func (c *Core) EvaluateAutonomy(req AutonomyRequest) (autonomy.Evaluation, error) {
	clResult := closedlayer.Validate(req.Situation, req.Protocol)

	var mandatePtr *entities.AutonomyMandate
	actives := c.mandates.ActiveByAgent(req.AgentID, idgen.Now())
	if len(actives) > 0 {
		m := actives[0]
		mandatePtr = &m
	}

	ev := autonomy.Evaluate(autonomy.EvaluationInput{
		AgentID:              req.AgentID,
		RequestedPolicy:      req.RequestedPolicy,
		RequestedRiskProfile: req.RequestedRiskProfile,
		ClosedLayerBlocked:   clResult.Blocked,
		Mandate:              mandatePtr,
		Domain:               req.Domain,
		UseCase:              req.UseCase,
		Context:              req.Context,
		RequestedMode:        req.RequestedMode,
		Now:                  idgen.Now(),
	})

	if ev.ShouldExpire && mandatePtr != nil {
		if _, err := c.ExpireMandate(mandatePtr.ID, ev.ExpireReason); err != nil {
			return ev, err
		}
	}

	c.emit("system", "AUTONOMY_EVALUATED", "AutonomyMandate", req.AgentID,
		map[string]any{"allowed": ev.Allowed, "deny_reason": string(ev.DenyReason)})

	return ev, nil
}

// VerifyAutonomyOrBlock is EvaluateAutonomy with a business-error return
// instead of an allow/deny result, for callers that want to fail closed
// rather than branch on Evaluation.Allowed.
func (c *Core) VerifyAutonomyOrBlock(req AutonomyRequest) error {
	ev, err := c.EvaluateAutonomy(req)
	if err != nil {
		return err
	}
	if !ev.Allowed {
		return corerr.Validation(string(ev.DenyReason), ev.Reason)
	}
	return nil
}

// ConsumeMandateUse atomically increments mandateID's use count, flipping
// it to expired(USES) when it reaches max_uses (spec.md §5).
func (c *Core) ConsumeMandateUse(mandateID string) (entities.AutonomyMandate, error) {
	m, err := c.mandates.ConsumeUse(mandateID, idgen.Now())
	if err != nil {
		return entities.AutonomyMandate{}, err
	}
	c.emit("system", "MANDATE_USE_CONSUMED", "AutonomyMandate", mandateID, map[string]any{"uses": m.Uses})
	if m.Status == entities.MandateExpired {
		c.emit("system", "MANDATE_EXPIRED", "AutonomyMandate", mandateID, map[string]any{"reason": "USES"})
	}
	return m, nil
}

// ExpireMandate marks mandateID expired for reason. Idempotent: a no-op
// (no event re-emitted) if already expired or revoked.
func (c *Core) ExpireMandate(mandateID string, reason entities.ExpireReason) (entities.AutonomyMandate, error) {
	before, ok := c.mandates.GetByID(mandateID)
	if !ok {
		return entities.AutonomyMandate{}, corerr.NotFound("MANDATE_NOT_FOUND", "mandate not found")
	}
	m, err := c.mandates.RecordExpiration(mandateID, reason, idgen.Now())
	if err != nil {
		return entities.AutonomyMandate{}, err
	}
	if before.Status != entities.MandateExpired && before.Status != entities.MandateRevoked {
		c.emit("system", "MANDATE_EXPIRED", "AutonomyMandate", mandateID, map[string]any{"reason": string(reason)})
	}
	return m, nil
}
