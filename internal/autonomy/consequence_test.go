package autonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledger/internal/entities"
)

func TestEvaluateConsequenceNilTriggerIsNoAction(t *testing.T) {
	v := EvaluateConsequence(nil)
	assert.Equal(t, ActionNone, v.Action)
}

func TestEvaluateConsequenceCriticalRevokes(t *testing.T) {
	v := EvaluateConsequence(&entities.AutonomyTrigger{Severity: entities.SeverityCritical})
	assert.Equal(t, ActionRevoke, v.Action)
	assert.True(t, v.RequireHumanReview)
}

func TestEvaluateConsequenceViolatedLimitsSuspends(t *testing.T) {
	v := EvaluateConsequence(&entities.AutonomyTrigger{ViolatedLimits: true})
	assert.Equal(t, ActionSuspend, v.Action)
}

func TestEvaluateConsequenceRelevantLossDegrades(t *testing.T) {
	v := EvaluateConsequence(&entities.AutonomyTrigger{RelevantLoss: true, Severity: entities.SeverityHigh})
	assert.Equal(t, ActionDegrade, v.Action)
}

func TestEvaluateConsequenceLegalCategoryFlags(t *testing.T) {
	v := EvaluateConsequence(&entities.AutonomyTrigger{Category: entities.CategoryLegal, Severity: entities.SeverityHigh})
	assert.Equal(t, ActionFlagHumanReview, v.Action)
}

func TestEvaluateConsequencePriorityOrderCriticalBeatsViolatedLimits(t *testing.T) {
	v := EvaluateConsequence(&entities.AutonomyTrigger{Severity: entities.SeverityCritical, ViolatedLimits: true})
	assert.Equal(t, ActionRevoke, v.Action)
}
