package closedlayer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledger/internal/entities"
)

func validSituation() entities.Situation {
	return entities.Situation{
		Risks:               []entities.Risk{{Description: "outage", Kind: "operational"}},
		Alternatives:        []entities.Alternative{{Description: "a"}, {Description: "b"}},
		RelevantConsequence: "customer-visible downtime",
	}
}

func validProtocol() entities.Protocol {
	return entities.Protocol{
		DefinedLimits: []entities.Limit{{Kind: "time", Value: "1h"}},
		RiskProfile:   entities.RiskModerate,
	}
}

func TestValidatePassesWhenEveryRuleSatisfied(t *testing.T) {
	res := Validate(validSituation(), validProtocol())
	assert.False(t, res.Blocked)
	assert.Empty(t, res.RuleID)
}

func TestRiskRequiredBlocksWhenNoRisksOrUncertainties(t *testing.T) {
	s := validSituation()
	s.Risks = nil
	s.Uncertainties = nil
	res := Validate(s, validProtocol())
	assert.True(t, res.Blocked)
	assert.Equal(t, RuleRiskRequired, res.RuleID)
}

func TestRiskRequiredPassesOnUncertaintiesAlone(t *testing.T) {
	s := validSituation()
	s.Risks = nil
	s.Uncertainties = []string{"market shift"}
	res := Validate(s, validProtocol())
	assert.False(t, res.Blocked)
}

func TestAlternativesRequiredBlocksBelowTwo(t *testing.T) {
	s := validSituation()
	s.Alternatives = []entities.Alternative{{Description: "only one"}}
	res := Validate(s, validProtocol())
	assert.True(t, res.Blocked)
	assert.Equal(t, RuleAlternativesRequired, res.RuleID)
}

func TestLimitsRequiredBlocksWhenProtocolHasNoLimits(t *testing.T) {
	p := validProtocol()
	p.DefinedLimits = nil
	res := Validate(validSituation(), p)
	assert.True(t, res.Blocked)
	assert.Equal(t, RuleLimitsRequired, res.RuleID)
}

func TestConservativeNeedsCriteriaBlocksWithoutMinimumCriteria(t *testing.T) {
	p := validProtocol()
	p.RiskProfile = entities.RiskConservative
	res := Validate(validSituation(), p)
	assert.True(t, res.Blocked)
	assert.Equal(t, RuleConservativeNeedsCriteria, res.RuleID)
}

func TestConservativePassesWithMinimumCriteria(t *testing.T) {
	p := validProtocol()
	p.RiskProfile = entities.RiskConservative
	p.MinimumCriteria = []string{"two independent approvals"}
	res := Validate(validSituation(), p)
	assert.False(t, res.Blocked)
}

func TestConsequenceRequiredBlocksOnBlankConsequence(t *testing.T) {
	s := validSituation()
	s.RelevantConsequence = "   "
	res := Validate(s, validProtocol())
	assert.True(t, res.Blocked)
	assert.Equal(t, RuleConsequenceRequired, res.RuleID)
}

func TestRuleOrderReportsFirstFailureOnly(t *testing.T) {
	// Every rule would fail here; RISK_REQUIRED must win since it runs first.
	res := Validate(entities.Situation{}, entities.Protocol{})
	assert.True(t, res.Blocked)
	assert.Equal(t, RuleRiskRequired, res.RuleID)
}
