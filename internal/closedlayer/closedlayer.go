// Package closedlayer implements the non-bypassable validation gate every
// Protocol must clear before a Decision can be registered.
//
// Validate is enforced as an ordered sequence, not a scored checklist: the
// first rule that fails is the only rule reported. Absence of required
// information is treated as a failure, never a default-allow.
package closedlayer

import (
	"strings"

	"ledger/internal/entities"
)

// RuleID names one of the five fixed validation rules. Ordering is stable
// and observable: auditors index recorded decisions by rule_id, so the
// sequence below must never be reordered or renumbered.
type RuleID string

const (
	RuleRiskRequired             RuleID = "RISK_REQUIRED"
	RuleAlternativesRequired     RuleID = "ALTERNATIVES_REQUIRED"
	RuleLimitsRequired           RuleID = "LIMITS_REQUIRED"
	RuleConservativeNeedsCriteria RuleID = "CONSERVATIVE_NEEDS_CRITERIA"
	RuleConsequenceRequired      RuleID = "CONSEQUENCE_REQUIRED"
)

// Result is the outcome of a Validate call. Blocked is false only when every
// rule passed; RuleID and Reason are empty in that case.
type Result struct {
	Blocked bool
	RuleID  RuleID
	Reason  string
}

// Validate runs the five Closed Layer rules in strict order over situation
// and protocol, returning the first blocking failure. It is pure: no I/O,
// no clock, no randomness, same inputs always produce the same Result.
func Validate(situation entities.Situation, protocol entities.Protocol) Result {
	// -----------------------------
	// 1. RISK_REQUIRED
	// -----------------------------
	if len(situation.Risks) == 0 && len(situation.Uncertainties) == 0 {
		return Result{
			Blocked: true,
			RuleID:  RuleRiskRequired,
			Reason:  "situation declares no risks and no uncertainties",
		}
	}

	// -----------------------------
	// 2. ALTERNATIVES_REQUIRED
	// -----------------------------
	if len(situation.Alternatives) < 2 {
		return Result{
			Blocked: true,
			RuleID:  RuleAlternativesRequired,
			Reason:  "fewer than two alternatives under consideration",
		}
	}

	// -----------------------------
	// 3. LIMITS_REQUIRED
	// -----------------------------
	if len(protocol.DefinedLimits) == 0 {
		return Result{
			Blocked: true,
			RuleID:  RuleLimitsRequired,
			Reason:  "protocol declares no limits",
		}
	}

	// -----------------------------
	// 4. CONSERVATIVE_NEEDS_CRITERIA
	// -----------------------------
	if protocol.RiskProfile == entities.RiskConservative && len(protocol.MinimumCriteria) == 0 {
		return Result{
			Blocked: true,
			RuleID:  RuleConservativeNeedsCriteria,
			Reason:  "conservative risk profile requires minimum criteria",
		}
	}

	// -----------------------------
	// 5. CONSEQUENCE_REQUIRED
	// -----------------------------
	if strings.TrimSpace(situation.RelevantConsequence) == "" {
		return Result{
			Blocked: true,
			RuleID:  RuleConsequenceRequired,
			Reason:  "situation has no relevant consequence recorded",
		}
	}

	return Result{}
}
