package autonomy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledger/internal/entities"
)

func activeMandate() *entities.AutonomyMandate {
	return &entities.AutonomyMandate{
		ID:              "m1",
		AgentID:         "agent-1",
		Mode:            entities.ModeAutonomous,
		Status:          entities.MandateActive,
		AllowedPolicies: []string{"policy-a"},
		MaxRiskProfile:  entities.RiskModerate,
	}
}

func TestEvaluateClosedLayerBlockDeniesFirst(t *testing.T) {
	ev := Evaluate(EvaluationInput{ClosedLayerBlocked: true})
	assert.False(t, ev.Allowed)
	assert.Equal(t, DenyClosedLayerBlocked, ev.DenyReason)
}

func TestEvaluateTeachingAlwaysBlocks(t *testing.T) {
	ev := Evaluate(EvaluationInput{Mandate: nil})
	assert.False(t, ev.Allowed)
	assert.Equal(t, DenyTeachingAlwaysBlocks, ev.DenyReason)
}

func TestEvaluateAllowsWithinScope(t *testing.T) {
	ev := Evaluate(EvaluationInput{
		RequestedPolicy:      "policy-a",
		RequestedRiskProfile: entities.RiskModerate,
		Mandate:              activeMandate(),
	})
	assert.True(t, ev.Allowed)
}

func TestEvaluateDeniesUnknownPolicy(t *testing.T) {
	ev := Evaluate(EvaluationInput{
		RequestedPolicy: "policy-b",
		Mandate:         activeMandate(),
	})
	assert.False(t, ev.Allowed)
	assert.Equal(t, DenyPolicyNotAllowed, ev.DenyReason)
}

func TestEvaluateDeniesRiskProfileAboveCeiling(t *testing.T) {
	ev := Evaluate(EvaluationInput{
		RequestedPolicy:      "policy-a",
		RequestedRiskProfile: entities.RiskAggressive,
		Mandate:              activeMandate(),
	})
	assert.False(t, ev.Allowed)
	assert.Equal(t, DenyRiskProfileExceeded, ev.DenyReason)
}

func TestEvaluateDeniesSuspendedMandate(t *testing.T) {
	m := activeMandate()
	m.Status = entities.MandateSuspended
	ev := Evaluate(EvaluationInput{RequestedPolicy: "policy-a", Mandate: m})
	assert.False(t, ev.Allowed)
	assert.Equal(t, DenyRequiresHumanReview, ev.DenyReason)
}

func TestEvaluateDeniesOnHumanTriggerPhraseCaseInsensitive(t *testing.T) {
	m := activeMandate()
	m.HumanTriggerPhrases = []string{"Shut Down Production"}
	ev := Evaluate(EvaluationInput{
		RequestedPolicy:      "policy-a",
		RequestedRiskProfile: entities.RiskModerate,
		Mandate:              m,
		Context:              "plan: shut down production cluster now",
	})
	assert.False(t, ev.Allowed)
	assert.Equal(t, DenyHumanTriggerMatched, ev.DenyReason)
}

func TestEvaluateExpiredMandateCarriesShouldExpire(t *testing.T) {
	m := activeMandate()
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	m.ValidUntil = &past
	ev := Evaluate(EvaluationInput{
		RequestedPolicy: "policy-a",
		Mandate:         m,
		Now:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.False(t, ev.Allowed)
	assert.Equal(t, DenyMandateNotActive, ev.DenyReason)
	assert.True(t, ev.ShouldExpire)
	assert.Equal(t, entities.ExpireReasonTime, ev.ExpireReason)
}
