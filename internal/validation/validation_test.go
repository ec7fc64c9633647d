package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSituationDraftAcceptsWellFormedInput(t *testing.T) {
	raw := []byte(`{
		"domain": "payments",
		"objective": "approve refund",
		"relevant_consequence": "customer churn",
		"alternatives": ["approve", "deny"]
	}`)
	assert.NoError(t, SituationDraft(raw))
}

func TestSituationDraftRejectsMissingRequiredField(t *testing.T) {
	raw := []byte(`{"domain": "payments"}`)
	assert.Error(t, SituationDraft(raw))
}

func TestSituationDraftRejectsTooFewAlternatives(t *testing.T) {
	raw := []byte(`{
		"domain": "payments",
		"objective": "approve refund",
		"relevant_consequence": "customer churn",
		"alternatives": ["approve"]
	}`)
	assert.Error(t, SituationDraft(raw))
}

func TestProtocolDraftRejectsUnknownRiskProfile(t *testing.T) {
	raw := []byte(`{
		"chosen_alternative": "approve",
		"evaluated_alternatives": ["approve", "deny"],
		"risk_profile": "RECKLESS"
	}`)
	assert.Error(t, ProtocolDraft(raw))
}

func TestMandateGrantRejectsMissingGrantedBy(t *testing.T) {
	raw := []byte(`{"agent_id": "agent-1", "mode": "TEACHING"}`)
	assert.Error(t, MandateGrant(raw))
}

func TestMandateGrantAcceptsWellFormedInput(t *testing.T) {
	raw := []byte(`{"agent_id": "agent-1", "mode": "TEACHING", "granted_by": "operator"}`)
	assert.NoError(t, MandateGrant(raw))
}
