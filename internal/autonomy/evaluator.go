package autonomy

import (
	"strings"
	"time"

	"ledger/internal/entities"
)

// DenyReason is the stable code carried by a denied Evaluation.
type DenyReason string

const (
	DenyNone                DenyReason = ""
	DenyClosedLayerBlocked   DenyReason = "CLOSED_LAYER_BLOCKED"
	DenyModeNotAuthorized    DenyReason = "MODE_NOT_AUTHORIZED"
	DenyRequiresHumanReview  DenyReason = "REQUIRES_HUMAN_REVIEW"
	DenyMandateNotActive     DenyReason = "MANDATE_NOT_ACTIVE"
	DenyTeachingAlwaysBlocks DenyReason = "TEACHING_ALWAYS_BLOCKS"
	DenyMandateRequired      DenyReason = "MANDATE_REQUIRED"
	DenyPolicyNotAllowed     DenyReason = "POLICY_NOT_ALLOWED"
	DenyRiskProfileExceeded  DenyReason = "RISK_PROFILE_EXCEEDED"
	DenyScopeNotAllowed      DenyReason = "SCOPE_NOT_ALLOWED"
	DenyHumanTriggerMatched  DenyReason = "HUMAN_TRIGGER_MATCHED"
)

// EvaluationInput is everything the evaluator reasons over. Mandate is nil
// when the agent holds no mandate at all.
type EvaluationInput struct {
	AgentID             string
	RequestedPolicy     string
	RequestedRiskProfile entities.RiskProfile
	ClosedLayerBlocked  bool
	Mandate             *entities.AutonomyMandate
	Domain              string
	UseCase             int
	Context             string
	RequestedMode       *entities.MandateMode
	Now                 time.Time
}

// Evaluation is the evaluator's verdict.
type Evaluation struct {
	Allowed      bool
	DenyReason   DenyReason
	Reason       string
	ShouldExpire bool
	ExpireReason entities.ExpireReason
}

func deny(reason DenyReason, text string) Evaluation {
	return Evaluation{Allowed: false, DenyReason: reason, Reason: text}
}

// Evaluate runs the eleven ordered autonomy rules and returns the first
// denial, or an allow verdict if every rule clears.
func Evaluate(in EvaluationInput) Evaluation {
	// 1. Closed Layer previously blocked.
	if in.ClosedLayerBlocked {
		return deny(DenyClosedLayerBlocked, "closed layer previously blocked this request")
	}

	// 2. Explicit non-teaching mode request requires an authorizing mandate.
	if in.RequestedMode != nil && *in.RequestedMode != entities.ModeTeaching {
		if in.Mandate == nil || in.Mandate.Status != entities.MandateActive || in.Mandate.Mode != *in.RequestedMode {
			return deny(DenyModeNotAuthorized, "requested mode is not authorized by an active mandate")
		}
	}

	// 3. Suspended mandate.
	if in.Mandate != nil && in.Mandate.Status == entities.MandateSuspended {
		return deny(DenyRequiresHumanReview, "mandate is suspended pending human review")
	}

	// 4. Activity check.
	if in.Mandate != nil {
		act := CheckActivity(*in.Mandate, in.Now)
		if !act.Active {
			ev := deny(DenyMandateNotActive, "mandate is not currently active: "+string(act.Reason))
			ev.ShouldExpire = act.ShouldExpire
			ev.ExpireReason = act.ExpireReason
			return ev
		}
	}

	// 5. Effective mode.
	effectiveMode := entities.ModeTeaching
	if in.Mandate != nil {
		effectiveMode = in.Mandate.Mode
	}
	if effectiveMode == entities.ModeTeaching {
		return deny(DenyTeachingAlwaysBlocks, "teaching mode never authorizes autonomous action")
	}

	// 6. No mandate outside teaching.
	if in.Mandate == nil {
		return deny(DenyMandateRequired, "a mandate is required outside teaching mode")
	}

	// 7. Policy scope.
	if !contains(in.Mandate.AllowedPolicies, in.RequestedPolicy) {
		return deny(DenyPolicyNotAllowed, "requested policy is not in the mandate's allowed policies")
	}

	// 8. Risk profile ceiling.
	if in.RequestedRiskProfile > in.Mandate.MaxRiskProfile {
		return deny(DenyRiskProfileExceeded, "requested risk profile exceeds the mandate's maximum")
	}

	// 9. Domain/use-case scope.
	if len(in.Mandate.AllowedDomains) > 0 && !contains(in.Mandate.AllowedDomains, in.Domain) {
		return deny(DenyScopeNotAllowed, "domain is not within the mandate's allowed domains")
	}
	if len(in.Mandate.AllowedUseCases) > 0 && !containsInt(in.Mandate.AllowedUseCases, in.UseCase) {
		return deny(DenyScopeNotAllowed, "use case is not within the mandate's allowed use cases")
	}

	// 10. Human trigger phrases.
	lowerContext := strings.ToLower(in.Context)
	for _, phrase := range in.Mandate.HumanTriggerPhrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lowerContext, strings.ToLower(phrase)) {
			return deny(DenyHumanTriggerMatched, "context matches a human trigger phrase")
		}
	}

	// 11. Allow.
	return Evaluation{Allowed: true}
}

func contains(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}

func containsInt(xs []int, target int) bool {
	for _, x := range xs {
		if x == target {
			return true
		}
	}
	return false
}
